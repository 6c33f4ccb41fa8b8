package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/cphysics/internal/sim"
)

// Column names of states.csv ahead of the per-entity columns.
const (
	ColTick          = "tick"
	ColTime          = "time"
	ColKineticEnergy = "kinetic_energy"
	ColLoss          = "loss"
)

// entityColumns are the per-entity column suffixes, in order.
var entityColumns = []string{"x", "y", "z", "vx", "vy", "vz", "qw", "qx", "qy", "qz"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Entities   []string           `json:"entities"`
	Collisions int                `json:"collisions"`
	TotalLoss  float64            `json:"total_loss"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Series holds the scene-wide quantities of a stored run. Loss is
// cumulative.
type Series struct {
	Times         []float64
	KineticEnergy []float64
	Loss          []float64
}

func (s *Store) Save(scene string, cfg sim.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      scene,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Collisions: result.Collisions,
		TotalLoss:  result.TotalLoss,
		Metrics:    result.Metrics,
	}
	if len(result.Snapshots) > 0 {
		for _, es := range result.Snapshots[0].Entities {
			meta.Entities = append(meta.Entities, es.Name)
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeStates(w, meta.Entities, result.Snapshots); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func writeStates(w *csv.Writer, names []string, snaps []sim.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	header := []string{ColTick, ColTime, ColKineticEnergy, ColLoss}
	for _, name := range names {
		for _, col := range entityColumns {
			header = append(header, name+"."+col)
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	for _, snap := range snaps {
		row := []string{
			strconv.Itoa(snap.Tick),
			strconv.FormatFloat(snap.Time, 'f', 6, 64),
			format(snap.KineticEnergy),
			format(snap.Loss),
		}
		for _, es := range snap.Entities {
			q := es.Orientation
			for _, v := range []float64{
				es.Position[0], es.Position[1], es.Position[2],
				es.Velocity[0], es.Velocity[1], es.Velocity[2],
				q.W, q.V[0], q.V[1], q.V[2],
			} {
				row = append(row, format(v))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) readStates(runID string) ([]string, [][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// LoadStates returns the per-entity columns of every stored tick and the
// matching times.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	_, rows, err := s.readStates(runID)
	if err != nil {
		return nil, nil, err
	}

	times := make([]float64, 0, len(rows))
	states := make([][]float64, 0, len(rows))

	for _, record := range rows {
		if len(record) < 4 {
			continue
		}

		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-4)
		for _, field := range record[4:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return states, times, nil
}

// LoadSeries returns kinetic energy and cumulative collision loss over time.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	header, rows, err := s.readStates(runID)
	if err != nil {
		return nil, err
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	ti, ok1 := col[ColTime]
	ki, ok2 := col[ColKineticEnergy]
	li, ok3 := col[ColLoss]
	if header != nil && !(ok1 && ok2 && ok3) {
		return nil, fmt.Errorf("run %s: states.csv lacks scene columns", runID)
	}

	series := &Series{
		Times:         make([]float64, 0, len(rows)),
		KineticEnergy: make([]float64, 0, len(rows)),
		Loss:          make([]float64, 0, len(rows)),
	}

	cumulative := 0.0
	for _, record := range rows {
		if len(record) <= li || len(record) <= ki || len(record) <= ti {
			continue
		}
		t, err1 := strconv.ParseFloat(record[ti], 64)
		ke, err2 := strconv.ParseFloat(record[ki], 64)
		loss, err3 := strconv.ParseFloat(record[li], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		cumulative += loss
		series.Times = append(series.Times, t)
		series.KineticEnergy = append(series.KineticEnergy, ke)
		series.Loss = append(series.Loss, cumulative)
	}

	return series, nil
}

// LoadColumn returns one named column of states.csv, such as "ball.vy".
func (s *Store) LoadColumn(runID, column string) ([]float64, error) {
	header, rows, err := s.readStates(runID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, h := range header {
		if h == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("run %s: no column %q", runID, column)
	}

	values := make([]float64, 0, len(rows))
	for _, record := range rows {
		if idx >= len(record) {
			continue
		}
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}
