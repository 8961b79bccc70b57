package sat

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

type giniSolver struct{}

func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (s *giniSolver) Solve(sat SAT) (SATSolution, error) {
	g := gini.NewV(int(sat.Variables))
	for _, clause := range sat.Clauses {
		if len(clause) == 0 {
			return nil, nil
		}
		for _, literal := range clause {
			if literal < 0 {
				g.Add(z.Var(-literal).Neg())
			} else {
				g.Add(z.Var(literal).Pos())
			}
		}
		g.Add(0)
	}

	// 1 stands for satisfiable and -1 for unsatisfiable
	if g.Solve() != 1 {
		return nil, nil
	}

	assignment := make(Assignment, sat.Variables)
	for i := range assignment {
		assignment[i] = g.Value(z.Var(i + 1).Pos())
	}
	return assignment.Literals(), nil
}
