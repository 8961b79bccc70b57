package sat

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGophersat(t *testing.T) {
	solver := NewGophersatSolver()
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestGini(t *testing.T) {
	solver := NewGiniSolver()
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestNewSolver(t *testing.T) {
	for _, name := range SolverNames() {
		solver, ok := NewSolver(name)
		assert.True(t, ok)
		assert.NotNil(t, solver)
	}

	_, ok := NewSolver("kissat")
	assert.False(t, ok)
}

func satisfiableExecution(t *testing.T, solver SATSolver) {
	for seed := range uint64(10) {
		//** Arrange
		rng := rand.New(rand.NewPCG(seed, 3))
		variables := uint64(rng.IntN(40) + 1)
		instance := GenerateSATInstance(variables, rng.IntN(100)+1, rng)

		//** Act
		solution, err := solver.Solve(instance)

		//** Assert
		require.NoError(t, err)
		require.NotNil(t, solution)
		assert.Len(t, solution, int(variables))
		assert.True(t, AssertSATSolution(instance, solution))
	}
}

func unsatisfiableExecution(t *testing.T, solver SATSolver) {
	instances := []SAT{
		{Variables: 1, Clauses: [][]int64{{1}, {-1}}},
		{Variables: 2, Clauses: [][]int64{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}}},
		{Variables: 2, Clauses: [][]int64{{1, 2}, {}}},
	}

	for _, instance := range instances {
		solution, err := solver.Solve(instance)

		assert.NoError(t, err)
		assert.Nil(t, solution)
	}
}

func TestAssertSATSolution(t *testing.T) {
	instance := SAT{Variables: 2, Clauses: [][]int64{{1, 2}, {-1}}}

	assert.True(t, AssertSATSolution(instance, SATSolution{-1, 2}))
	assert.False(t, AssertSATSolution(instance, SATSolution{1, 2}))
	assert.False(t, AssertSATSolution(instance, SATSolution{-1, 1, 2}))
}

// fakeSolver writes an executable script that ignores its input, prints output and exits with code
func fakeSolver(t *testing.T, output string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "solver.sh")
	script := "#!/bin/sh\ncat > /dev/null\nprintf '" + output + "'\nexit " + strconv.Itoa(code) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestExternalSolver(t *testing.T) {
	instance := SAT{Variables: 3, Clauses: [][]int64{{1, 2}, {-1}}}

	t.Run("Satisfiable", func(t *testing.T) {
		solver := NewExternalSolver(fakeSolver(t, `s SATISFIABLE\nv -1 2\nv 0\n`, 10))

		solution, err := solver.Solve(instance)

		require.NoError(t, err)
		assert.Equal(t, SATSolution{-1, 2, -3}, solution)
		assert.True(t, AssertSATSolution(instance, solution))
	})

	t.Run("Unsatisfiable", func(t *testing.T) {
		solver := NewExternalSolver(fakeSolver(t, `s UNSATISFIABLE\n`, 20))

		solution, err := solver.Solve(instance)

		require.NoError(t, err)
		assert.Nil(t, solution)
	})

	t.Run("Failure", func(t *testing.T) {
		solver := NewExternalSolver(fakeSolver(t, `oops\n`, 1))

		_, err := solver.Solve(instance)

		assert.Error(t, err)
	})

	t.Run("Missing executable", func(t *testing.T) {
		solver := NewExternalSolver(filepath.Join(t.TempDir(), "missing"))

		_, err := solver.Solve(instance)

		assert.Error(t, err)
	})
}

func TestParseSolution(t *testing.T) {
	solution, err := parseSolution("c comment\ns SATISFIABLE\nv 1 -3\nv 2 0\n", 3)
	require.NoError(t, err)
	assert.Equal(t, SATSolution{1, 2, -3}, solution)

	_, err = parseSolution("v 1 x 0\n", 3)
	assert.Error(t, err)

	_, err = parseSolution("v 4 0\n", 3)
	assert.Error(t, err)
}
