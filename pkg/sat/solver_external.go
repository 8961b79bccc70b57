package sat

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ExternalSolver names a solver binary that follows the SAT competition
// conventions: DIMACS on standard input, "s"/"v" lines on standard output and
// exit code 10 (satisfiable) or 20 (unsatisfiable)
const ExternalSolver = "external"

type externalSolver struct {
	path string
	args []string
}

// NewExternalSolver runs the executable at path (e.g. kissat with "-q") for every instance
func NewExternalSolver(path string, args ...string) SATSolver {
	return &externalSolver{
		path: path,
		args: args,
	}
}

func (solver *externalSolver) Solve(sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	cmd := exec.Command(solver.path, solver.args...)
	cmd.Stdin = strings.NewReader(dimacs)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := cmd.ProcessState.ExitCode()
	if err != nil && exitCode != 10 && exitCode != 20 {
		return nil, errors.Wrapf(err, "an error occurred during %v execution: %v", solver.path, stderr.String())
	}

	output := stdOut.String()
	if exitCode == 20 || strings.Contains(output, "s UNSATISFIABLE") {
		return nil, nil
	}
	if exitCode != 10 && !strings.Contains(output, "s SATISFIABLE") {
		return nil, errors.Errorf("%v reported neither satisfiable nor unsatisfiable", solver.path)
	}
	return parseSolution(output, sat.Variables)
}

// parseSolution gathers the literals of every "v" line; variables the solver
// leaves out are set to false
func parseSolution(solverOutput string, variables uint64) (SATSolution, error) {
	lines := lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
		return len(line) > 0 && line[0] == 'v'
	})
	values := lo.FlatMap(lines, func(line string, _ int) []string {
		return strings.Fields(line[1:])
	})

	assignment := make(Assignment, variables)
	for _, valueStr := range values {
		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid literal in solver output")
		}
		if value == 0 {
			continue
		}
		if uint64(abs(value)) > variables {
			return nil, errors.Errorf("literal %v is out of range", value)
		}
		assignment[abs(value)-1] = value > 0
	}
	return assignment.Literals(), nil
}
