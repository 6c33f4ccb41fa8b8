package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/cphysics/internal/sim"
)

type ExportData struct {
	Scene      string             `json:"scene"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Collisions int                `json:"collisions"`
	TotalLoss  float64            `json:"total_loss"`
	Metrics    map[string]float64 `json:"metrics"`
	Final      []sim.EntityState  `json:"final"`
}

// ExportJSON writes a summary of result with the final entity states.
func ExportJSON(w io.Writer, scene string, cfg sim.Config, result *sim.Result) error {
	data := ExportData{
		Scene:      scene,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Collisions: result.Collisions,
		TotalLoss:  result.TotalLoss,
		Metrics:    result.Metrics,
	}
	if n := len(result.Snapshots); n > 0 {
		data.Final = result.Snapshots[n-1].Entities
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
