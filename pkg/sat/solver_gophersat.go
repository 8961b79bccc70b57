package sat

import (
	"fmt"

	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

type gophersatSolver struct{}

func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(sat SAT) (SATSolution, error) {
	// gophersat works with plain ints
	clauses := make([][]int, len(sat.Clauses))
	for i, clause := range sat.Clauses {
		if len(clause) == 0 { // An empty clause cannot be satisfied
			return nil, nil
		}
		clauses[i] = lo.Map(clause, func(literal int64, _ int) int { return int(literal) })
	}

	problem := solver.ParseSlice(clauses)
	engine := solver.New(problem)
	switch status := engine.Solve(); status {
	case solver.Unsat:
		return nil, nil
	case solver.Sat:
	default:
		return nil, fmt.Errorf("gophersat finished with unexpected status: %v", status)
	}

	// Variables absent from every clause are missing from the model, they are set to false
	model := engine.Model()
	assignment := make(Assignment, sat.Variables)
	for i := range assignment {
		if i < len(model) {
			assignment[i] = model[i]
		}
	}
	return assignment.Literals(), nil
}
