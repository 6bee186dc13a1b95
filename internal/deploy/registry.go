package deploy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"speedrun-go/internal/metrics"
)

// RunFunc is the body of a deployment routine.
type RunFunc func(ctx context.Context, env Env, log zerolog.Logger) error

// Routine is a named, tagged deployment step. Lower Order runs first.
type Routine struct {
	Name  string
	Order int
	Tags  []string
	Run   RunFunc
}

// HasTag reports whether the routine carries tag (case-insensitive).
func (r Routine) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Registry holds routines and runs them by tag.
type Registry struct {
	log      zerolog.Logger
	routines map[string]Routine
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log, routines: make(map[string]Routine)}
}

// Register adds a routine; names must be unique and every routine needs a tag and a body.
func (r *Registry) Register(routine Routine) error {
	if routine.Name == "" {
		return fmt.Errorf("routine name required")
	}
	if routine.Run == nil {
		return fmt.Errorf("routine %s: nil run func", routine.Name)
	}
	if len(routine.Tags) == 0 {
		return fmt.Errorf("routine %s: at least one tag required", routine.Name)
	}
	if _, dup := r.routines[routine.Name]; dup {
		return fmt.Errorf("routine %s already registered", routine.Name)
	}
	r.routines[routine.Name] = routine
	return nil
}

// Routines lists every routine in run order.
func (r *Registry) Routines() []Routine {
	out := make([]Routine, 0, len(r.routines))
	for _, routine := range r.routines {
		out = append(out, routine)
	}
	sortRoutines(out)
	return out
}

// Select returns the routines carrying any of tags, in run order. No tags selects everything.
func (r *Registry) Select(tags []string) ([]Routine, error) {
	all := r.Routines()
	if len(tags) == 0 {
		return all, nil
	}
	var out []Routine
	matched := make(map[string]bool, len(tags))
	for _, routine := range all {
		hit := false
		for _, tag := range tags {
			if routine.HasTag(tag) {
				matched[strings.ToLower(tag)] = true
				hit = true
			}
		}
		if hit {
			out = append(out, routine)
		}
	}
	for _, tag := range tags {
		if !matched[strings.ToLower(tag)] {
			return nil, fmt.Errorf("no routine tagged %q", tag)
		}
	}
	return out, nil
}

// Run executes the selected routines sequentially, stopping at the first failure.
func (r *Registry) Run(ctx context.Context, env Env, tags []string) error {
	selected, err := r.Select(tags)
	if err != nil {
		return err
	}
	for _, routine := range selected {
		log := r.log.With().Str("routine", routine.Name).Logger()
		start := time.Now()
		log.Info().Strs("tags", routine.Tags).Msg("running")
		if err := routine.Run(ctx, env, log); err != nil {
			metrics.RoutineRunsTotal.WithLabelValues(routine.Name, "failed").Inc()
			log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("routine failed")
			return fmt.Errorf("routine %s: %w", routine.Name, err)
		}
		metrics.RoutineRunsTotal.WithLabelValues(routine.Name, "ok").Inc()
		log.Info().Dur("elapsed", time.Since(start)).Msg("done")
	}
	return nil
}

func sortRoutines(routines []Routine) {
	sort.Slice(routines, func(i, j int) bool {
		if routines[i].Order != routines[j].Order {
			return routines[i].Order < routines[j].Order
		}
		return routines[i].Name < routines[j].Name
	})
}
