// Package export renders recorded trajectories to files.
package export

import (
	"fmt"
	"strings"
)

// Path is the XY trajectory of one entity.
type Path struct {
	Name string
	X, Y []float64
}

var palette = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#8888ff"}

// TrajectoriesSVG draws every path on a shared, padded scale. Each path is
// stroked in its own color and labelled with its name at its last point.
// Paths with fewer than two points are skipped.
func TrajectoriesSVG(paths []Path, width, height int) string {
	first := true
	var minX, maxX, minY, maxY float64
	for _, p := range paths {
		for i := 0; i < min(len(p.X), len(p.Y)); i++ {
			if first {
				minX, maxX, minY, maxY = p.X[i], p.X[i], p.Y[i], p.Y[i]
				first = false
			}
			minX, maxX = min(minX, p.X[i]), max(maxX, p.X[i])
			minY, maxY = min(minY, p.Y[i]), max(maxY, p.Y[i])
		}
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	project := func(x, y float64) (float64, float64) {
		return (x - minX) / rangeX * float64(width), float64(height) - (y-minY)/rangeY*float64(height)
	}

	for i, p := range paths {
		n := min(len(p.X), len(p.Y))
		if n < 2 {
			continue
		}
		color := palette[i%len(palette)]

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		for j := 0; j < n; j++ {
			x, y := project(p.X[j], p.Y[j])
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		x, y := project(p.X[n-1], p.Y[n-1])
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12">%s</text>
`, x+4, y-4, color, escape(p.Name))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return svgEscaper.Replace(s) }
