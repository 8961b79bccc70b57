package sat

type SATSolver interface {
	Solve(SAT) (SATSolution, error) // Returns a solution of the SAT instance if satisfiable, else returns nil (these are valid outputs where error shall be nil)
}

var solvers = map[string]func() SATSolver{
	"gophersat": NewGophersatSolver,
	"gini":      NewGiniSolver,
}

// NewSolver returns the reference solver registered under name
func NewSolver(name string) (SATSolver, bool) {
	constructor, ok := solvers[name]
	if !ok {
		return nil, false
	}
	return constructor(), true
}

// SolverNames lists the registered reference solvers
func SolverNames() []string {
	return []string{"gophersat", "gini"}
}
