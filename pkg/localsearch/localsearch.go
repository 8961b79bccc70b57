package localsearch

import (
	"math/rand/v2"
	"time"

	"github.com/limaJavier/satheuristics/pkg/sat"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Move int

const (
	RandomWalk Move = iota
	Greedy
)

func (move Move) String() string {
	switch move {
	case RandomWalk:
		return "random walk"
	case Greedy:
		return "choose and flip"
	default:
		return "none"
	}
}

type Config struct {
	Flips           int     // Flips per restart
	WalkProbability float64 // Probability of a random-walk move, greedy otherwise
	Restarts        int
	Seed            uint64
	Parallelism     int // Restarts evaluated concurrently; values below 2 run them sequentially
	Logger          logrus.FieldLogger
}

// Sample is the satisfied-clause count observed after a flip
type Sample struct {
	Elapsed   time.Duration // Since the start of Solve
	Satisfied int
}

type Restart struct {
	Samples []Sample
	Best    int // Highest satisfied-clause count seen in the restart
	Solved  bool
}

// Solution witnesses a satisfying assignment. Flip is the 0-based index of the
// flip that satisfied the formula, -1 when the restart's initial assignment
// already did; that restart then holds a single sample with the initial count.
type Solution struct {
	Assignment sat.Assignment
	Restart    int
	Flip       int
	Move       Move
}

type Result struct {
	Restarts []Restart
	// Samples of the first restart broken down by move kind
	RandomWalk []Sample
	Greedy     []Sample
	Best       int
	Solution   *Solution // First solved restart, nil if none
}

// Solver runs GWSAT: every restart draws a fresh random assignment and then
// performs a bounded number of flips, each one either a random-walk move over
// the first unsatisfied clause or a (random) choose-and-flip move.
type Solver struct {
	config Config
	logger logrus.FieldLogger
}

func NewSolver(config Config) *Solver {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Solver{
		config: config,
		logger: logger,
	}
}

// Solve consumes the whole budget of restarts and flips; a restart ends early
// once its assignment satisfies every clause.
func (solver *Solver) Solve(formula sat.SAT) Result {
	solver.logger.WithFields(logrus.Fields{
		"variables": formula.Variables,
		"clauses":   len(formula.Clauses),
		"flips":     solver.config.Flips,
		"restarts":  solver.config.Restarts,
	}).Info("c Using GWSAT Algorithm")

	start := time.Now()
	runs := make([]run, max(solver.config.Restarts, 0))

	var group errgroup.Group
	group.SetLimit(max(solver.config.Parallelism, 1))
	for i := range runs {
		group.Go(func() error {
			runs[i] = solver.restart(formula, i, start)
			return nil
		})
	}
	_ = group.Wait() // Restarts never fail

	result := Result{Restarts: make([]Restart, len(runs))}
	for i, run := range runs {
		result.Restarts[i] = run.restart
		result.Best = max(result.Best, run.restart.Best)
		if result.Solution == nil && run.solution != nil {
			result.Solution = run.solution
		}
	}
	if len(runs) > 0 {
		result.RandomWalk = runs[0].moves[RandomWalk]
		result.Greedy = runs[0].moves[Greedy]
	}

	if result.Solution != nil {
		solver.logger.WithFields(logrus.Fields{
			"restart":   result.Solution.Restart,
			"flip":      result.Solution.Flip,
			"operation": result.Solution.Move,
		}).Info("s Satisfiable")
	} else {
		solver.logger.WithField("best", result.Best).Infof("u Unsatisfiable configuration in %v flips", solver.config.Flips)
	}
	return result
}

// run is the outcome of a single restart
type run struct {
	restart  Restart
	moves    map[Move][]Sample
	solution *Solution
}

func (solver *Solver) restart(formula sat.SAT, index int, start time.Time) run {
	rng := rand.New(rand.NewPCG(solver.config.Seed, uint64(index)))
	total := len(formula.Clauses)

	assignment := sat.RandomAssignment(formula.Variables, rng)
	tracker := sat.NewTracker(formula.Clauses, formula.Variables, assignment)

	current := run{
		restart: Restart{
			Samples: make([]Sample, 0, max(solver.config.Flips, 1)),
			Best:    tracker.Satisfied(),
		},
		moves: make(map[Move][]Sample),
	}

	// The initial count is kept as the only sample, so the series is never empty
	if total > 0 && tracker.Satisfied() == total {
		current.restart.Samples = append(current.restart.Samples, Sample{Elapsed: time.Since(start), Satisfied: total})
		current.restart.Solved = true
		current.solution = &Solution{
			Assignment: assignment.Clone(),
			Restart:    index,
			Flip:       -1,
			Move:       -1,
		}
		return current
	}

	for flip := range solver.config.Flips {
		move := Greedy
		if rng.Float64() < solver.config.WalkProbability {
			move = RandomWalk
		}

		var satisfied int
		if move == RandomWalk {
			satisfied = randomWalk(formula, assignment, tracker, rng)
		} else {
			satisfied = chooseAndFlip(formula, assignment, tracker, rng)
		}

		sample := Sample{Elapsed: time.Since(start), Satisfied: satisfied}
		current.restart.Samples = append(current.restart.Samples, sample)
		current.moves[move] = append(current.moves[move], sample)

		if satisfied > current.restart.Best {
			current.restart.Best = satisfied
		}
		if total > 0 && satisfied == total {
			solver.logger.WithFields(logrus.Fields{
				"restart":   index,
				"flip":      flip,
				"operation": move,
			}).Debug("solution found")

			current.restart.Solved = true
			current.solution = &Solution{
				Assignment: assignment.Clone(),
				Restart:    index,
				Flip:       flip,
				Move:       move,
			}
			break
		}
	}
	return current
}

// randomWalk flips a random variable of the first unsatisfied clause
func randomWalk(formula sat.SAT, assignment sat.Assignment, tracker *sat.Tracker, rng *rand.Rand) int {
	clause, ok := tracker.FirstUnsatisfied()
	if !ok || len(formula.Clauses[clause]) == 0 {
		return chooseAndFlip(formula, assignment, tracker, rng)
	}

	literals := formula.Clauses[clause]
	literal := literals[rng.IntN(len(literals))]
	if literal < 0 {
		literal = -literal
	}
	return tracker.Flip(assignment, uint64(literal))
}

// chooseAndFlip flips a variable chosen uniformly at random
func chooseAndFlip(formula sat.SAT, assignment sat.Assignment, tracker *sat.Tracker, rng *rand.Rand) int {
	if formula.Variables == 0 {
		return tracker.Satisfied()
	}
	variable := 1 + rng.Uint64N(formula.Variables)
	return tracker.Flip(assignment, variable)
}
