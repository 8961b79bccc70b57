package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/limaJavier/satheuristics/pkg/genetic"
	"github.com/limaJavier/satheuristics/pkg/localsearch"
	"github.com/limaJavier/satheuristics/pkg/report"
	"github.com/limaJavier/satheuristics/pkg/sat"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newGWSATCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gwsat FILE.cnf",
		Short: "Search a satisfying assignment with GWSAT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formula, err := sat.ParseCNFFile(args[0])
			if err != nil {
				return err
			}
			writeProblem(cmd.OutOrStdout(), formula.Variables, len(formula.Clauses))

			solver := localsearch.NewSolver(localsearch.Config{
				Flips:           settings.FlipsFor(len(formula.Clauses)),
				WalkProbability: settings.WalkProbability,
				Restarts:        settings.Restarts,
				Seed:            settings.Seed,
				Parallelism:     settings.Parallelism,
				Logger:          log.StandardLogger(),
			})
			result := solver.Solve(formula)
			writeLocalSearchResult(cmd.OutOrStdout(), result, len(formula.Clauses))

			if settings.PlotDirectory != "" {
				paths, err := report.PlotLocalSearch(result, settings.PlotDirectory)
				if err != nil {
					return err
				}
				log.WithField("charts", len(paths)).Infof("charts written to %v", settings.PlotDirectory)
			}
			if err := writeCSV(func(w io.Writer) error { return report.WriteLocalSearchCSV(w, result) }); err != nil {
				return err
			}

			if result.Solution != nil {
				exitCode = exitSatisfiable
			}
			return nil
		},
	}
}

func newGACmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ga FILE.wcnf",
		Short: "Evolve a population of weighted clauses with a genetic algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instance, err := sat.ParseWCNFFile(args[0])
			if err != nil {
				return err
			}
			writeProblem(cmd.OutOrStdout(), instance.Variables, len(instance.Clauses))

			optimizer := genetic.FromWeightedSAT(instance, genetic.Config{
				Seed:   settings.Seed,
				Logger: log.StandardLogger(),
			})
			result := optimizer.Solve(settings.Generations)
			writeGeneticResult(cmd.OutOrStdout(), result, instance)

			if settings.PlotDirectory != "" {
				paths, err := report.PlotGenetic(result, settings.PlotDirectory)
				if err != nil {
					return err
				}
				log.WithField("charts", len(paths)).Infof("charts written to %v", settings.PlotDirectory)
			}
			return writeCSV(func(w io.Writer) error { return report.WriteGeneticCSV(w, result) })
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE.cnf",
		Short: "Decide a CNF instance with a complete reference solver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formula, err := sat.ParseCNFFile(args[0])
			if err != nil {
				return err
			}
			writeProblem(cmd.OutOrStdout(), formula.Variables, len(formula.Clauses))

			solver, err := settings.ReferenceSolver()
			if err != nil {
				return err
			}

			start := time.Now()
			solution, err := solver.Solve(formula)
			if err != nil {
				return errors.Wrapf(err, "%v failed", settings.Solver)
			}
			log.WithFields(log.Fields{
				"solver":  settings.Solver,
				"elapsed": time.Since(start),
			}).Debug("reference solver finished")

			out := cmd.OutOrStdout()
			if solution == nil {
				fmt.Fprintln(out, "s UNSATISFIABLE")
				exitCode = exitUnsatisfiable
				return nil
			}
			if !sat.AssertSATSolution(formula, solution) {
				return errors.Errorf("%v returned an assignment that does not satisfy the formula", settings.Solver)
			}
			fmt.Fprintln(out, "s SATISFIABLE")
			writeValues(out, solution)
			exitCode = exitSatisfiable
			return nil
		},
	}
}

func writeProblem(w io.Writer, variables uint64, clauses int) {
	fmt.Fprintf(w, "c Number of variables: %v\n", variables)
	fmt.Fprintf(w, "c Number of clauses: %v\n", clauses)
}

func writeLocalSearchResult(w io.Writer, result localsearch.Result, clauses int) {
	fmt.Fprintf(w, "c Restarts: %v\n", len(result.Restarts))
	fmt.Fprintf(w, "c Best number of satisfied clauses: %v of %v\n", result.Best, clauses)

	if result.Solution == nil {
		fmt.Fprintln(w, "s UNKNOWN")
		return
	}
	if result.Solution.Flip < 0 {
		fmt.Fprintf(w, "c Satisfied by the initial assignment of restart %v\n", result.Solution.Restart)
	} else {
		fmt.Fprintf(w, "c Satisfied in restart %v, flip %v, by a %v move\n", result.Solution.Restart, result.Solution.Flip, result.Solution.Move)
	}
	fmt.Fprintln(w, "s SATISFIABLE")
	writeValues(w, result.Solution.Assignment.Literals())
}

func writeGeneticResult(w io.Writer, result genetic.Result, instance sat.WeightedSAT) {
	fmt.Fprintf(w, "c Generations: %v\n", len(result.Fitness))
	if len(result.Fitness) > 0 {
		fmt.Fprintf(w, "c Initial population fitness: %v\n", lo.Sum(instance.Weights))
		fmt.Fprintf(w, "o %v\n", result.Fitness[len(result.Fitness)-1])
	}
	satisfied := sat.CountSatisfied(instance.Clauses, result.Configuration)
	fmt.Fprintf(w, "c Original clauses satisfied by the configuration: %v of %v\n", satisfied, len(instance.Clauses))
	writeValues(w, result.Configuration.Literals())
}

// writeValues prints a DIMACS value line terminated by 0
func writeValues(w io.Writer, literals sat.SATSolution) {
	values := lo.Map(literals, func(literal int64, _ int) string { return fmt.Sprint(literal) })
	fmt.Fprintf(w, "v %v\n", strings.Join(append(values, "0"), " "))
}

func writeCSV(write func(io.Writer) error) error {
	if csvPath == "" {
		return nil
	}
	return writeFile(csvPath, write)
}

// writeFile creates path and reports the close error when write succeeds
func writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create CSV file %q", path)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "cannot close CSV file %q", path)
		}
	}()
	return write(file)
}
