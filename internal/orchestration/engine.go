package orchestration

import (
	"context"
	"strings"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/mul"
)

// ParallelEngineName is the name of the engine wrapping MulConcurrent.
const ParallelEngineName = "parallel"

// Engine is one multiplication strategy under comparison.
type Engine interface {
	// Name returns the identifier used on the command line and in reports.
	Name() string

	// Itch returns the scratch limbs the engine needs for an an x bn
	// product, or an error wrapping mul.ErrOutOfDomain when the engine
	// cannot multiply those sizes.
	Itch(an, bn int) (int, error)

	// Multiply sets out = a*b. The context is only observed between
	// independent sub-products.
	Multiply(ctx context.Context, out, a, b []arith.Word) error
}

// algorithmEngine forces one algorithm of a Multiplier.
type algorithmEngine struct {
	mp  *mul.Multiplier
	alg mul.Algorithm
}

func (e algorithmEngine) Name() string { return e.alg.String() }

func (e algorithmEngine) Itch(an, bn int) (int, error) { return e.mp.Itch(e.alg, an, bn) }

func (e algorithmEngine) Multiply(_ context.Context, out, a, b []arith.Word) error {
	return e.mp.MulWith(e.alg, out, a, b, nil)
}

// parallelEngine runs the dispatcher with its concurrent top level.
type parallelEngine struct {
	mp *mul.Multiplier
}

func (e parallelEngine) Name() string { return ParallelEngineName }

func (e parallelEngine) Itch(an, bn int) (int, error) { return e.mp.Itch(mul.Auto, an, bn) }

func (e parallelEngine) Multiply(ctx context.Context, out, a, b []arith.Word) error {
	return e.mp.MulConcurrent(ctx, out, a, b)
}

// NewEngines returns one engine per algorithm of mp, in the order of
// mul.Algorithms, followed by the concurrent engine.
func NewEngines(mp *mul.Multiplier) []Engine {
	algs := mul.Algorithms()
	engines := make([]Engine, 0, len(algs)+1)
	for _, alg := range algs {
		engines = append(engines, algorithmEngine{mp: mp, alg: alg})
	}
	return append(engines, parallelEngine{mp: mp})
}

// EngineNames lists the names of engines.
func EngineNames(engines []Engine) []string {
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = e.Name()
	}
	return names
}

// SelectEngines picks the engines to run for algo: every engine when algo
// is "all", otherwise the one with that name (case-insensitive). With
// parallel set, "all" keeps the concurrent engine, otherwise it is left
// out of "all" runs.
//
// Parameters:
//   - engines: The available engines.
//   - algo: "all" or an engine name.
//   - parallel: Whether "all" includes the concurrent engine.
//
// Returns:
//   - []Engine: The engines to execute, nil when algo matches none.
func SelectEngines(engines []Engine, algo string, parallel bool) []Engine {
	algo = strings.ToLower(algo)
	if algo == "all" {
		selected := make([]Engine, 0, len(engines))
		for _, e := range engines {
			if e.Name() == ParallelEngineName && !parallel {
				continue
			}
			selected = append(selected, e)
		}
		return selected
	}
	for _, e := range engines {
		if e.Name() == algo {
			return []Engine{e}
		}
	}
	return nil
}
