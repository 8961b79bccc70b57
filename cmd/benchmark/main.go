package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/limaJavier/satheuristics/pkg/config"
	"github.com/limaJavier/satheuristics/pkg/localsearch"
	"github.com/limaJavier/satheuristics/pkg/sat"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	defaultSatisfiableDirectory   = "../../test/satisfiable/"
	defaultUnsatisfiableDirectory = "../../test/unsatisfiable/"
	defaultOutput                 = "benchmark_results.csv"
)

type ResultType int

const (
	solved ResultType = iota
	unknown
	unsatisfiable
)

var resultTypes = map[ResultType]string{
	solved:        "solved",
	unknown:       "unknown",
	unsatisfiable: "unsatisfiable",
}

type InstanceMetadata struct {
	Name        string
	Satisfiable bool
	Variables   uint64
	Clauses     int
}

type BenchmarkResult struct {
	Instance          InstanceMetadata
	Best              int
	Duration          int64 // Milliseconds spent by GWSAT
	Result            ResultType
	Reference         ResultType
	ReferenceDuration int64
}

type instance struct {
	metadata InstanceMetadata
	formula  sat.SAT
}

func main() {
	var (
		satisfiableDirectory   string
		unsatisfiableDirectory string
		output                 string
		configPath             string
	)

	rootCmd := &cobra.Command{
		Use:          "benchmark",
		Short:        "Benchmark GWSAT against a complete reference solver",
		SilenceUsage: true,

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadWithOverrides(configPath, nil)
			if err != nil {
				return err
			}
			reference, err := settings.ReferenceSolver()
			if err != nil {
				return err
			}

			instances, err := getInstances(satisfiableDirectory, unsatisfiableDirectory)
			if err != nil {
				return err
			}
			results, err := benchmark(instances, settings, reference)
			if err != nil {
				return err
			}

			return writeCsv(output, results)
		},
	}

	rootCmd.Flags().StringVar(&satisfiableDirectory, "satisfiable", defaultSatisfiableDirectory, "Directory of satisfiable CNF instances")
	rootCmd.Flags().StringVar(&unsatisfiableDirectory, "unsatisfiable", defaultUnsatisfiableDirectory, "Directory of unsatisfiable CNF instances")
	rootCmd.Flags().StringVarP(&output, "output", "o", defaultOutput, "CSV file where the results are written")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a config.json file")
	rootCmd.Flags().Bool("debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getInstances parses every file of both directories; an empty directory path is skipped
func getInstances(satisfiableDirectory, unsatisfiableDirectory string) ([]instance, error) {
	instances := make([]instance, 0)
	for _, tuple := range lo.Zip2([]string{satisfiableDirectory, unsatisfiableDirectory}, []bool{true, false}) {
		directory, satisfiable := tuple.A, tuple.B
		if directory == "" {
			continue
		}
		files, err := os.ReadDir(directory)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read directory %q", directory)
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			filename := filepath.Join(directory, file.Name())
			formula, err := sat.ParseCNFFile(filename)
			if err != nil {
				return nil, err
			}

			instances = append(instances, instance{
				metadata: InstanceMetadata{
					Name:        filename,
					Satisfiable: satisfiable,
					Variables:   formula.Variables,
					Clauses:     len(formula.Clauses),
				},
				formula: formula,
			})
		}
	}
	return instances, nil
}

func benchmark(instances []instance, settings config.Config, reference sat.SATSolver) ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(instances))
	for _, instance := range instances {
		log.Infof("Benchmarking instance \"%v\"", instance.metadata.Name)

		solver := localsearch.NewSolver(localsearch.Config{
			Flips:           settings.FlipsFor(instance.metadata.Clauses),
			WalkProbability: settings.WalkProbability,
			Restarts:        settings.Restarts,
			Seed:            settings.Seed,
			Parallelism:     settings.Parallelism,
			Logger:          log.WithField("instance", instance.metadata.Name),
		})

		start := time.Now()
		result := solver.Solve(instance.formula)
		duration := time.Since(start).Milliseconds()

		start = time.Now()
		solution, err := reference.Solve(instance.formula)
		if err != nil {
			return nil, errors.Wrapf(err, "reference solver failed on %q", instance.metadata.Name)
		}
		referenceDuration := time.Since(start).Milliseconds()

		results = append(results, BenchmarkResult{
			Instance:          instance.metadata,
			Best:              result.Best,
			Duration:          duration,
			Result:            lo.Ternary(result.Solution != nil, solved, unknown),
			Reference:         lo.Ternary(solution != nil, solved, unsatisfiable),
			ReferenceDuration: referenceDuration,
		})
	}
	return results, nil
}

// writeCsv writes the results to path and reports the close error when writing succeeds
func writeCsv(path string, results []BenchmarkResult) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create CSV file %q", path)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "cannot close CSV file %q", path)
		}
	}()
	return toCsv(file, results)
}

func toCsv(w io.Writer, results []BenchmarkResult) error {
	writer := csv.NewWriter(w)

	header := []string{"Instance", "Satisfiable", "Variables", "Clauses", "Best", "Duration(ms)", "Result", "Reference", "Reference Duration(ms)"}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "cannot write CSV header")
	}

	for _, result := range results {
		record := []string{
			result.Instance.Name,
			fmt.Sprintf("%v", result.Instance.Satisfiable),
			fmt.Sprintf("%d", result.Instance.Variables),
			fmt.Sprintf("%d", result.Instance.Clauses),
			fmt.Sprintf("%d", result.Best),
			fmt.Sprintf("%d", result.Duration),
			resultTypes[result.Result],
			resultTypes[result.Reference],
			fmt.Sprintf("%d", result.ReferenceDuration),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "cannot write CSV record")
		}
	}

	writer.Flush()
	return writer.Error()
}
