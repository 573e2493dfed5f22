package optimize

import (
	"context"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Problem is a general-form linear program:
//
//	minimize  cᵀx
//	s.t.      G·x ≤ h
//	          A·x = b
//
// All variables are free; sign restrictions must be encoded as rows
// of G.
type Problem struct {
	C []float64
	G *mat.Dense
	H []float64
	A *mat.Dense
	B []float64
}

// Solution is a variable assignment with its minimized objective value.
type Solution struct {
	X         []float64
	Objective float64
}

// Solver is the narrow seam to the LP backend, so the optimizer never
// depends on a specific solver library. Implementations must honor ctx
// and return ctx.Err() when it expires mid-solve.
type Solver interface {
	Solve(ctx context.Context, p Problem) (Solution, error)
}

// Simplex solves problems with gonum's dense simplex method. The method
// is deterministic: identical problems yield identical vertices.
// Infeasible and unbounded problems surface as lp.ErrInfeasible and
// lp.ErrUnbounded.
type Simplex struct {
	// Tol is the simplex pivot tolerance. Zero selects 1e-10.
	Tol float64
}

func (s Simplex) Solve(ctx context.Context, p Problem) (Solution, error) {
	tol := s.Tol
	if tol == 0 {
		tol = 1e-10
	}

	type outcome struct {
		sol Solution
		err error
	}
	done := make(chan outcome, 1)

	// The simplex iteration has no cancellation hook, so it runs in its
	// own goroutine; on ctx expiry the result is abandoned and the
	// buffered channel lets the goroutine finish and exit.
	go func() {
		cNew, aNew, bNew := lp.Convert(p.C, p.G, p.H, p.A, p.B)
		optF, optX, err := lp.Simplex(cNew, aNew, bNew, tol, nil)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		// Convert splits each free variable v into v⁺ and v⁻ with
		// v = v⁺ − v⁻; recover the original assignment.
		n := len(p.C)
		x := make([]float64, n)
		for i := range x {
			x[i] = optX[i] - optX[n+i]
		}
		done <- outcome{sol: Solution{X: x, Objective: optF}}
	}()

	select {
	case <-ctx.Done():
		return Solution{}, ctx.Err()
	case out := <-done:
		return out.sol, out.err
	}
}
