package config

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"github.com/limaJavier/satheuristics/pkg/sat"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	DefaultWalkProbability = 0.4
	DefaultRestarts        = 50
	DefaultGenerations     = 50
	DefaultSolver          = "gophersat"
)

// Config gathers the parameters of both engines. Zero values are replaced by
// the defaults, Flips defaults to half the number of clauses of the instance.
type Config struct {
	Flips           int     `mapstructure:"flips"`
	WalkProbability float64 `mapstructure:"walkProbability"`
	Restarts        int     `mapstructure:"restarts"`
	Generations     int     `mapstructure:"generations"`
	Seed            uint64  `mapstructure:"seed"`
	Parallelism     int     `mapstructure:"parallelism"`
	Solver          string  `mapstructure:"solver"`
	Executable      string  `mapstructure:"executable"` // Binary run by the external solver
	PlotDirectory   string  `mapstructure:"plotDirectory"`
}

func Default() Config {
	return Config{
		WalkProbability: DefaultWalkProbability,
		Restarts:        DefaultRestarts,
		Generations:     DefaultGenerations,
		Parallelism:     1,
		Solver:          DefaultSolver,
	}
}

// Load reads a config.json file. Keys missing from the file keep their default value.
func Load(path string) (Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides reads path (if not empty) and replaces the keys it holds
// with overrides before decoding
func LoadWithOverrides(path string, overrides map[string]any) (Config, error) {
	input := make(map[string]any)
	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "cannot read config file %q", path)
		}
		if err := json.Unmarshal(bytes, &input); err != nil {
			return Config{}, errors.Wrapf(err, "cannot parse config file %q", path)
		}
	}
	if input == nil { // The file held a JSON null
		input = make(map[string]any)
	}
	maps.Copy(input, overrides)
	return Decode(input)
}

// Decode maps a generic key/value set onto a Config on top of the defaults
func Decode(input map[string]any) (Config, error) {
	config := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &config,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(input); err != nil {
		return Config{}, errors.Wrap(err, "invalid configuration")
	}
	return config, config.Validate()
}

func (config Config) Validate() error {
	switch {
	case config.Flips < 0:
		return errors.Errorf("flips must not be negative: %v", config.Flips)
	case config.WalkProbability < 0 || config.WalkProbability > 1:
		return errors.Errorf("walk probability must be between 0 and 1: %v", config.WalkProbability)
	case config.Restarts < 1:
		return errors.Errorf("restarts must be positive: %v", config.Restarts)
	case config.Generations < 1:
		return errors.Errorf("generations must be positive: %v", config.Generations)
	case config.Parallelism < 1:
		return errors.Errorf("parallelism must be positive: %v", config.Parallelism)
	case config.Solver == sat.ExternalSolver && config.Executable == "":
		return errors.New("the external solver requires an executable")
	case config.Solver != sat.ExternalSolver && !slices.Contains(sat.SolverNames(), config.Solver):
		return errors.Errorf("%v is not a valid solver", config.Solver)
	}
	return nil
}

// FlipsFor returns the configured number of flips or, when unset, half the
// number of clauses (at least one)
func (config Config) FlipsFor(clauses int) int {
	if config.Flips > 0 {
		return config.Flips
	}
	return max(clauses/2, 1)
}

// ReferenceSolver builds the complete solver used to cross-check heuristic results
func (config Config) ReferenceSolver() (sat.SATSolver, error) {
	if config.Solver == sat.ExternalSolver {
		return sat.NewExternalSolver(config.Executable), nil
	}
	solver, ok := sat.NewSolver(config.Solver)
	if !ok {
		return nil, errors.Errorf("%v is not a valid solver", config.Solver)
	}
	return solver, nil
}
