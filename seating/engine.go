// Package seating fills classroom table seats from a student roster.
//
// An assignment run is a pure computation: the input tables are copied and
// cleared first, then one of the strategies below seats students on the
// copy. Excess students or excess seats are both legal outcomes and are
// never reported as errors.
//
//   - randomized: grouped tables are filled first, then ungrouped tables,
//     each from a shuffled seat list.
//   - michaels_triangle: seats triangles of one ability-1 student with a
//     same-nationality and a different-nationality ability 3-4 student,
//     then fills the rest like randomized.
//   - none (or any unknown value): one shuffled pass over every seat.
package seating

import (
	"github.com/rs/zerolog"

	"seating-chart-server-go/models"
)

// Engine runs seat assignments. An Engine built with the default source is
// safe for concurrent use; one built WithRand or WithSeed is only as safe
// as the source it was given.
type Engine struct {
	rng Rand
	log zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source.
func WithRand(rng Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed makes every run of the engine reproducible from seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = NewSeededRand(seed)
	}
}

// WithLogger sets the logger receiving one debug event per run.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine creates an engine. Without options it shuffles with the
// process-wide math/rand/v2 source and logs nothing.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rng: globalRand{},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Assign runs algorithm with the default engine.
func Assign(students []models.Student, tables []models.Table, algorithm models.AlgorithmType, groups []models.TableGroup) []models.Table {
	return defaultEngine.Assign(students, tables, algorithm, groups)
}

// Assign returns a new table collection with seats filled from students.
//
// The input slices are never modified. Every seat of the result is either
// empty or holds the ID of exactly one roster student; table identities and
// capacities are those of the input.
func (e *Engine) Assign(students []models.Student, tables []models.Table, algorithm models.AlgorithmType, groups []models.TableGroup) []models.Table {
	r := newRun(e.rng, tables, groups)
	roster := shuffled(e.rng, students)

	triangles := 0
	switch algorithm {
	case models.AlgorithmRandomized:
		r.randomizedMix(roster)
	case models.AlgorithmMichaelsTriangle:
		triangles = r.michaelsTriangle(roster)
	default:
		r.fillShuffled(roster, r.allTables())
	}

	e.log.Debug().
		Str("algorithm", string(algorithm)).
		Int("students", len(students)).
		Int("tables", len(tables)).
		Int("groups", len(groups)).
		Int("seated", len(r.assigned)).
		Int("triangles", triangles).
		Msg("Seat assignment finished")

	return r.tables
}

// randomizedMix fills grouped tables first, then ungrouped ones.
func (r *run) randomizedMix(roster []models.Student) {
	r.fillGroupedThenUngrouped(roster)
}

func (r *run) fillGroupedThenUngrouped(students []models.Student) {
	r.fillShuffled(students, r.grouped)
	r.fillShuffled(r.remaining(students), r.ungrouped)
}
