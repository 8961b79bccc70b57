package main

import (
	"fmt"
	"os"

	"github.com/limaJavier/satheuristics/pkg/config"
	"github.com/limaJavier/satheuristics/pkg/sat"

	"github.com/kr/pretty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes follow the SAT competition convention
const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
)

var (
	configPath string
	csvPath    string
	exitCode   int
	settings   config.Config

	// Flag name to config key
	overridable = map[string]string{
		"flips":            "flips",
		"walk-probability": "walkProbability",
		"restarts":         "restarts",
		"generations":      "generations",
		"seed":             "seed",
		"parallelism":      "parallelism",
		"solver":           "solver",
		"executable":       "executable",
		"plots":            "plotDirectory",
	}
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "satheuristics",
		Short: "Heuristic SAT and MAX-SAT solvers",
		Long: `Runs GWSAT local search over DIMACS CNF instances and a genetic algorithm
over weighted clause sets (WCNF). Results are reported in DIMACS comment style.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}

			loaded, err := config.LoadWithOverrides(configPath, changedOverrides(cmd))
			if err != nil {
				return err
			}
			settings = loaded
			log.Debugf("configuration: %# v", pretty.Formatter(settings))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.Int("flips", 0, "Flips per restart, half the number of clauses when 0")
	flags.Float64("walk-probability", config.DefaultWalkProbability, "Probability of a random-walk move")
	flags.Int("restarts", config.DefaultRestarts, "Number of GWSAT restarts")
	flags.Int("generations", config.DefaultGenerations, "Number of GA generations")
	flags.Uint64("seed", 0, "Seed of the random number generator")
	flags.Int("parallelism", 1, "Restarts evaluated concurrently")
	flags.String("solver", config.DefaultSolver, fmt.Sprintf("Reference solver, one of %v or %q", sat.SolverNames(), sat.ExternalSolver))
	flags.String("executable", "", "Solver binary run by the external solver")
	flags.String("plots", "", "Directory where run-time distribution charts are written")
	flags.StringVar(&csvPath, "csv", "", "File where the raw series are written as CSV")
	flags.StringVar(&configPath, "config", "", "Path to a config.json file")
	flags.Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newGWSATCmd(), newGACmd(), newCheckCmd())
	return rootCmd
}

// changedOverrides collects the flags set on the command line; they take
// precedence over the config file
func changedOverrides(cmd *cobra.Command) map[string]any {
	overrides := make(map[string]any)
	flags := cmd.Flags()
	for flag, key := range overridable {
		if !flags.Changed(flag) {
			continue
		}
		switch key {
		case "flips", "restarts", "generations", "parallelism":
			overrides[key], _ = flags.GetInt(flag)
		case "walkProbability":
			overrides[key], _ = flags.GetFloat64(flag)
		case "seed":
			overrides[key], _ = flags.GetUint64(flag)
		default:
			overrides[key], _ = flags.GetString(flag)
		}
	}
	return overrides
}
