package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/cphysics/internal/collision"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/field"
	"github.com/san-kum/cphysics/internal/motion"
	"github.com/san-kum/cphysics/internal/vmath"
)

// minFieldChunk is the smallest number of entities handed to one goroutine
// in the field pass.
const minFieldChunk = 64

type Simulator struct {
	log       zerolog.Logger
	workers   int
	metrics   []Metric
	observers []Observer
}

// New returns a simulator logging to log. Pass zerolog.Nop() to disable logging.
func New(log zerolog.Logger) *Simulator {
	return &Simulator{
		log:       log,
		workers:   1,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, scene *Scene, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := validateScene(scene); err != nil {
		return nil, err
	}
	s.workers = cfg.Workers

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Snapshots: make([]Snapshot, 0, steps+1),
		Times:     make([]float64, 0, steps+1),
		Metrics:   make(map[string]float64),
		Rejected:  make(map[field.Code]int),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Info().
		Str("scene", scene.Name).
		Int("entities", len(scene.Entities)).
		Float64("dt", cfg.Dt).
		Int("steps", steps).
		Msg("run started")

	t := 0.0
	initial := snapshot(scene, 0, t, TickStats{})
	s.record(result, &initial)

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		stats := s.Step(scene, cfg.Dt, cfg.Integrate)
		t += cfg.Dt

		result.Collisions += stats.Collisions
		result.TotalLoss += stats.Loss
		for c, n := range stats.Rejected {
			result.Rejected[c] += n
		}

		if cfg.ValidateState {
			if err := checkFinite(scene, i, t); err != nil {
				result.Errors = append(result.Errors, err)
				s.log.Error().Err(err).Msg("state diverged")
				break
			}
		}

		snap := snapshot(scene, i, t, stats)
		s.record(result, &snap)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Info().
		Str("scene", scene.Name).
		Int("steps", result.StepsTaken).
		Int("collisions", result.Collisions).
		Float64("loss", result.TotalLoss).
		Msg("run finished")

	return result, nil
}

func (s *Simulator) record(result *Result, snap *Snapshot) {
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, obs := range s.observers {
		obs.OnTick(snap)
	}
	result.Snapshots = append(result.Snapshots, *snap)
	result.Times = append(result.Times, snap.Time)
}

// Step advances scene by one tick of dt: fields, pairwise forces, torques,
// translation (when integrate is set), rotation, then contact resolution.
func (s *Simulator) Step(scene *Scene, dt float64, integrate bool) TickStats {
	stats := TickStats{Rejected: make(map[field.Code]int)}

	s.applyFields(scene, stats.Rejected)

	n := len(scene.Entities)
	if scene.PairElectric || scene.PairGravity {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				a, b := scene.Entities[i], scene.Entities[j]
				if scene.PairElectric {
					motion.ApplyElectricForce(a, b)
				}
				if scene.PairGravity {
					motion.ApplyUniversalGravitation(a, b)
				}
			}
		}
	}

	for _, tq := range scene.Torques {
		e, err := scene.Lookup(tq.Entity)
		if err != nil {
			s.log.Debug().Err(err).Msg("torque target missing")
			continue
		}
		motion.ApplyTorque(e, tq.Torque)
	}

	for _, e := range scene.Entities {
		if e.Static {
			continue
		}
		if integrate {
			v, p, a := e.Velocity(), e.Position(), e.Acceleration()
			*v = v.Add(a.Mul(dt))
			*p = p.Add(v.Mul(dt))
			*a = vmath.Zero
		}
		motion.UpdateRotation(e, dt)
	}

	if scene.ContactDistance > 0 {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				a, b := scene.Entities[i], scene.Entities[j]
				if entity.Distance(a, b) > scene.ContactDistance {
					continue
				}
				var loss float64
				out := collision.Process(a, b, &loss)
				if !out.Changed() {
					continue
				}
				stats.Collisions++
				stats.Loss += loss
				s.log.Debug().
					Str("a", a.Name).
					Str("b", b.Name).
					Stringer("outcome", out).
					Float64("loss", loss).
					Msg("collision")
			}
		}
	}

	return stats
}

// applyFields runs every scene field over every dynamic entity. Entities are
// independent here, so the pass is split across workers.
func (s *Simulator) applyFields(scene *Scene, rejected map[field.Code]int) {
	if len(scene.Gravitational)+len(scene.Electric)+len(scene.Magnetic) == 0 {
		return
	}

	codes := make([][]field.Code, len(scene.Entities))
	ParallelFor(len(scene.Entities), minFieldChunk, s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			e := scene.Entities[i]
			if e.Static {
				continue
			}
			for k := range scene.Gravitational {
				codes[i] = appendFailure(codes[i], field.ApplyGravitational(e, &scene.Gravitational[k]))
			}
			for k := range scene.Electric {
				codes[i] = appendFailure(codes[i], field.ApplyElectric(e, &scene.Electric[k]))
			}
			for k := range scene.Magnetic {
				codes[i] = appendFailure(codes[i], field.ApplyMagnetic(e, &scene.Magnetic[k]))
			}
		}
	})

	for i, cs := range codes {
		for _, c := range cs {
			rejected[c]++
			s.log.Debug().Str("entity", scene.Entities[i].Name).Stringer("code", c).Msg("field rejected")
		}
	}
}

func appendFailure(codes []field.Code, err error) []field.Code {
	if err == nil {
		return codes
	}
	return append(codes, field.CodeOf(err))
}

// RunWithCallback steps scene until the duration elapses, the context is
// canceled or callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, scene *Scene, cfg Config, callback func(*Snapshot) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	if err := validateScene(scene); err != nil {
		return err
	}
	s.workers = cfg.Workers

	t := 0.0
	for i := 1; t < cfg.Duration; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stats := s.Step(scene, cfg.Dt, cfg.Integrate)
		t += cfg.Dt

		if cfg.ValidateState {
			if err := checkFinite(scene, i, t); err != nil {
				return err
			}
		}

		snap := snapshot(scene, i, t, stats)
		if !callback(&snap) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	return nil
}

func validateScene(scene *Scene) error {
	if scene == nil {
		return entity.ErrNullEntity
	}
	seen := make(map[string]bool, len(scene.Entities))
	for _, e := range scene.Entities {
		if err := entity.Validate(e); err != nil {
			return fmt.Errorf("scene %q: %w", scene.Name, err)
		}
		if seen[e.Name] {
			return fmt.Errorf("scene %q: duplicate entity %q", scene.Name, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

func checkFinite(scene *Scene, tick int, t float64) error {
	for _, e := range scene.Entities {
		if err := entity.Validate(e); err != nil {
			return &TickError{Tick: tick, Time: t, Entity: e.Name, Wrapped: err}
		}
	}
	return nil
}

func snapshot(scene *Scene, tick int, t float64, stats TickStats) Snapshot {
	snap := Snapshot{
		Tick:       tick,
		Time:       t,
		Entities:   make([]EntityState, len(scene.Entities)),
		Loss:       stats.Loss,
		Collisions: stats.Collisions,
	}
	for i, e := range scene.Entities {
		pos, vel, _, _ := e.State()
		snap.Entities[i] = EntityState{
			Name:            e.Name,
			Position:        pos,
			Velocity:        vel,
			Orientation:     e.Orientation,
			AngularVelocity: e.AngularVelocity,
			Mass:            e.Mass,
			Static:          e.Static,
		}
		snap.KineticEnergy += entity.KineticEnergy(e)
	}
	return snap
}
