package report

import (
	"bytes"
	"encoding/csv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/satheuristics/pkg/genetic"
	"github.com/limaJavier/satheuristics/pkg/localsearch"
	"github.com/limaJavier/satheuristics/pkg/sat"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func localSearchResult(t *testing.T) localsearch.Result {
	t.Helper()
	rng := rand.New(rand.NewPCG(3, 3))
	formula := sat.GenerateSATInstance(20, 90, rng)
	solver := localsearch.NewSolver(localsearch.Config{Flips: 60, WalkProbability: 0.4, Restarts: 3, Seed: 3, Logger: quietLogger()})
	return solver.Solve(formula)
}

func TestPlotLocalSearch(t *testing.T) {
	//** Arrange
	result := localSearchResult(t)
	directory := filepath.Join(t.TempDir(), "plots")

	//** Act
	paths, err := PlotLocalSearch(result, directory)

	//** Assert
	require.NoError(t, err)
	assert.Len(t, paths, 5)
	for _, name := range []string{TimeVsFlips, TimeVsSatisfied, RandomWalkSatisfied, GreedySatisfied, MoveComparison} {
		info, err := os.Stat(filepath.Join(directory, name))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Size(), name)
	}
}

func TestPlotLocalSearchEmptySeries(t *testing.T) {
	result := localsearch.Result{Restarts: []localsearch.Restart{{}}}

	paths, err := PlotLocalSearch(result, t.TempDir())

	require.NoError(t, err)
	assert.Len(t, paths, 5)
}

func TestPlotLocalSearchWithoutRestarts(t *testing.T) {
	_, err := PlotLocalSearch(localsearch.Result{}, t.TempDir())

	assert.Error(t, err)
}

func TestPlotGenetic(t *testing.T) {
	//** Arrange
	rng := rand.New(rand.NewPCG(5, 5))
	instance := sat.GenerateWeightedSATInstance(10, 20, 9, rng)
	result := genetic.FromWeightedSAT(instance, genetic.Config{Seed: 5, Logger: quietLogger()}).Solve(10)
	directory := t.TempDir()

	//** Act
	paths, err := PlotGenetic(result, directory)

	//** Assert
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(directory, TimeVsGenerations),
		filepath.Join(directory, GenerationsVsFitness),
		filepath.Join(directory, TimeVsFitness),
	}, paths)
	for _, path := range paths {
		assert.FileExists(t, path)
	}
}

func TestWriteLocalSearchCSV(t *testing.T) {
	result := localsearch.Result{
		Restarts: []localsearch.Restart{
			{Samples: []localsearch.Sample{{Elapsed: time.Second, Satisfied: 3}, {Elapsed: 2 * time.Second, Satisfied: 4}}, Best: 4},
			{Samples: []localsearch.Sample{{Elapsed: 3 * time.Second, Satisfied: 2}}, Best: 2},
		},
	}
	var buffer bytes.Buffer

	require.NoError(t, WriteLocalSearchCSV(&buffer, result))

	records, err := csv.NewReader(&buffer).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Restart", "Flip", "Elapsed(s)", "Satisfied", "Best"},
		{"0", "0", "1.000000", "3", "4"},
		{"0", "1", "2.000000", "4", "4"},
		{"1", "0", "3.000000", "2", "2"},
	}, records)
}

func TestWriteGeneticCSV(t *testing.T) {
	result := genetic.Result{
		Fitness: []int64{10, 12},
		Elapsed: []time.Duration{500 * time.Millisecond, time.Second},
	}
	var buffer bytes.Buffer

	require.NoError(t, WriteGeneticCSV(&buffer, result))

	records, err := csv.NewReader(&buffer).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Generation", "Elapsed(s)", "Fitness"},
		{"1", "0.500000", "10"},
		{"2", "1.000000", "12"},
	}, records)
}
