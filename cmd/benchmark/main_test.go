package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/satheuristics/pkg/config"
	"github.com/limaJavier/satheuristics/pkg/sat"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInstances(t *testing.T, files map[string]string) string {
	t.Helper()
	directory := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(directory, name), []byte(content), 0666))
	}
	return directory
}

func TestGetInstances(t *testing.T) {
	satisfiable := writeInstances(t, map[string]string{
		"b.cnf": "p cnf 2 1\n1 2 0\n",
		"a.cnf": "p cnf 3 2\n1 0\n2 -3 0\n",
	})
	unsatisfiable := writeInstances(t, map[string]string{
		"u.cnf": "p cnf 1 2\n1 0\n-1 0\n",
	})

	instances, err := getInstances(satisfiable, unsatisfiable)

	require.NoError(t, err)
	require.Len(t, instances, 3)
	assert.Equal(t, filepath.Join(satisfiable, "a.cnf"), instances[0].metadata.Name)
	assert.Equal(t, uint64(3), instances[0].metadata.Variables)
	assert.Equal(t, 2, instances[0].metadata.Clauses)
	assert.True(t, instances[1].metadata.Satisfiable)
	assert.False(t, instances[2].metadata.Satisfiable)
}

func TestGetInstancesErrors(t *testing.T) {
	_, err := getInstances(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)

	broken := writeInstances(t, map[string]string{"broken.cnf": "1 2 0\n"})
	_, err = getInstances(broken, "")
	assert.Error(t, err)
}

func TestBenchmark(t *testing.T) {
	log.SetLevel(log.WarnLevel)
	satisfiable := writeInstances(t, map[string]string{"s.cnf": "p cnf 2 2\n1 2 0\n-1 0\n"})
	unsatisfiableDir := writeInstances(t, map[string]string{"u.cnf": "p cnf 1 2\n1 0\n-1 0\n"})
	instances, err := getInstances(satisfiable, unsatisfiableDir)
	require.NoError(t, err)

	settings := config.Default()
	settings.Flips = 20
	settings.Restarts = 5
	reference, _ := sat.NewSolver("gophersat")

	results, err := benchmark(instances, settings, reference)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, solved, results[0].Result)
	assert.Equal(t, solved, results[0].Reference)
	assert.Equal(t, 2, results[0].Best)
	assert.Equal(t, unknown, results[1].Result)
	assert.Equal(t, unsatisfiable, results[1].Reference)
	assert.Equal(t, 1, results[1].Best)
}

func TestToCsv(t *testing.T) {
	var buffer bytes.Buffer
	results := []BenchmarkResult{
		{
			Instance:          InstanceMetadata{Name: "a.cnf", Satisfiable: true, Variables: 3, Clauses: 5},
			Best:              5,
			Duration:          12,
			Result:            solved,
			Reference:         solved,
			ReferenceDuration: 1,
		},
	}

	require.NoError(t, toCsv(&buffer, results))

	records, err := csv.NewReader(&buffer).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"a.cnf", "true", "3", "5", "5", "12", "solved", "solved", "1"}, records[1])
}

func TestWriteCsv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, writeCsv(path, []BenchmarkResult{{Instance: InstanceMetadata{Name: "a.cnf"}, Result: unknown, Reference: unsatisfiable}}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "unknown", records[1][6])
	assert.Equal(t, "unsatisfiable", records[1][7])

	assert.Error(t, writeCsv(filepath.Join(t.TempDir(), "missing", "results.csv"), nil))
}
