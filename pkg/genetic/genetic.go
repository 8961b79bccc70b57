package genetic

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/limaJavier/satheuristics/pkg/sat"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Chromosome is a clause competing for a place in the population
type Chromosome struct {
	Clause  []int64
	Fitness int64
}

type Config struct {
	Seed   uint64
	Logger logrus.FieldLogger
}

type Result struct {
	Fitness       []int64         // Sum of the population fitness after every generation
	Elapsed       []time.Duration // Since the optimizer started, after every generation
	Population    []Chromosome
	Configuration sat.Assignment
}

// Optimizer evolves a fixed-size population of weighted clauses against one
// shared variable configuration. Offspring are scored against that
// configuration, and the mutation operator flips its variables rather than
// the offspring's genes.
type Optimizer struct {
	population    []Chromosome
	configuration sat.Assignment // Shared by the whole population
	mutationRate  float64
	pairs         int
	rng           *rand.Rand
	logger        logrus.FieldLogger
}

// New builds an optimizer over copies of the given clauses; fitness[i] is the
// initial fitness of chromosomes[i]
func New(chromosomes [][]int64, genes uint64, fitness []int64, config Config) *Optimizer {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	rng := rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15))

	population := make([]Chromosome, len(chromosomes))
	for i, clause := range chromosomes {
		population[i] = Chromosome{
			Clause:  slices.Clone(clause),
			Fitness: fitness[i],
		}
	}

	mutationRate := 1.0
	if len(population) > 0 {
		mutationRate = 1 / float64(len(population))
	}

	return &Optimizer{
		population:    population,
		configuration: sat.RandomAssignment(genes, rng),
		mutationRate:  mutationRate,
		pairs:         len(population) / 2,
		rng:           rng,
		logger:        logger,
	}
}

// FromWeightedSAT builds an optimizer where every clause is a chromosome and its weight is its fitness
func FromWeightedSAT(instance sat.WeightedSAT, config Config) *Optimizer {
	return New(instance.Clauses, instance.Variables, instance.Weights, config)
}

// Solve runs the given number of generations and reports the population
// fitness and the elapsed time after each one
func (optimizer *Optimizer) Solve(generations int) Result {
	optimizer.logger.WithFields(logrus.Fields{
		"chromosomes": len(optimizer.population),
		"genes":       len(optimizer.configuration),
		"generations": generations,
	}).Info("c Applying GA")

	result := Result{
		Fitness: make([]int64, 0, generations),
		Elapsed: make([]time.Duration, 0, generations),
	}

	start := time.Now()
	for generation := range generations {
		replaced := optimizer.Step()
		total := optimizer.TotalFitness()

		result.Fitness = append(result.Fitness, total)
		result.Elapsed = append(result.Elapsed, time.Since(start))

		optimizer.logger.WithFields(logrus.Fields{
			"generation": generation,
			"fitness":    total,
			"replaced":   replaced,
		}).Debug("generation evolved")
	}

	result.Population = optimizer.Population()
	result.Configuration = optimizer.Configuration()
	return result
}

// Step evolves a single generation and returns how many chromosomes were replaced
func (optimizer *Optimizer) Step() int {
	replaced := 0
	for _, pair := range optimizer.matingPool() {
		if len(pair) < 2 { // Incomplete pairs produce no offspring
			continue
		}
		first, second := pair[0], pair[1]

		children := optimizer.crossover(first.Clause, second.Clause)
		for _, child := range children {
			optimizer.mutate(child)
		}
		for _, child := range children {
			fitness := optimizer.fitness(child, first.Fitness, second.Fitness)
			if optimizer.replaceWorst(child, fitness) {
				replaced++
			}
		}
	}
	return replaced
}

// TotalFitness sums the fitness of the population, saturating at the int64 bounds
func (optimizer *Optimizer) TotalFitness() int64 {
	return lo.Reduce(optimizer.population, func(total int64, chromosome Chromosome, _ int) int64 {
		return saturatingAdd(total, chromosome.Fitness)
	}, 0)
}

// Population returns a copy of the current population
func (optimizer *Optimizer) Population() []Chromosome {
	return lo.Map(optimizer.population, func(chromosome Chromosome, _ int) Chromosome {
		return Chromosome{Clause: slices.Clone(chromosome.Clause), Fitness: chromosome.Fitness}
	})
}

// Configuration returns a copy of the shared configuration
func (optimizer *Optimizer) Configuration() sat.Assignment {
	return optimizer.configuration.Clone()
}

// matingPool selects pairs of parents by fitness-proportionate selection. A
// chromosome appears at most once in a pair, so a pair may end up with fewer
// than two members. Parents are copied as they are at selection time.
func (optimizer *Optimizer) matingPool() [][]Chromosome {
	total := optimizer.TotalFitness()
	pool := make([][]Chromosome, 0, optimizer.pairs)

	for range optimizer.pairs {
		var target int64
		if total > 0 {
			target = int64(optimizer.rng.Uint64N(uint64(total) + 1))
		}

		pair := make([]int, 0, 2)
		for iterations := 0; len(pair) < 2 && iterations < len(optimizer.population); iterations++ {
			var cumulative int64
			for i, chromosome := range optimizer.population {
				cumulative = saturatingAdd(cumulative, chromosome.Fitness)
				if cumulative >= target && !slices.Contains(pair, i) {
					pair = append(pair, i)
					break
				}
			}
		}
		pool = append(pool, lo.Map(pair, func(i int, _ int) Chromosome { return optimizer.population[i] }))
	}
	return pool
}

// crossover applies either a single-point or a two-point crossover with the same probability
func (optimizer *Optimizer) crossover(first, second []int64) [2][]int64 {
	if optimizer.rng.IntN(2) == 0 {
		cut := optimizer.rng.IntN(len(first)/2 + 1)
		return singlePointCrossover(first, second, cut)
	}

	size := min(len(first), len(second))
	firstPoint := 0
	if size > 1 {
		firstPoint = optimizer.rng.IntN(size/2 + 1)
	}
	secondPoint := firstPoint + optimizer.rng.IntN(size-firstPoint+1)
	return twoPointCrossover(first, second, firstPoint, secondPoint)
}

// singlePointCrossover splices the head of each parent with the tail of the other
func singlePointCrossover(first, second []int64, cut int) [2][]int64 {
	firstCut, secondCut := min(cut, len(first)), min(cut, len(second))
	return [2][]int64{
		slices.Concat(first[:firstCut], second[secondCut:]),
		slices.Concat(second[:secondCut], first[firstCut:]),
	}
}

// twoPointCrossover swaps the segment [firstPoint, secondPoint) between the parents
func twoPointCrossover(first, second []int64, firstPoint, secondPoint int) [2][]int64 {
	return [2][]int64{
		slices.Concat(first[:firstPoint], second[firstPoint:secondPoint], first[secondPoint:]),
		slices.Concat(second[:firstPoint], first[firstPoint:secondPoint], second[secondPoint:]),
	}
}

// mutate flips, in the shared configuration, the variable of a random gene of
// the child. The child itself is left untouched.
func (optimizer *Optimizer) mutate(child []int64) {
	if len(child) == 0 {
		return
	}
	currentRate := 1 / float64(optimizer.rng.IntN(len(child))+1)
	if currentRate <= optimizer.mutationRate {
		return
	}

	gene := child[optimizer.rng.IntN(len(child))]
	if gene < 0 {
		gene = -gene
	}
	if gene > 0 && uint64(gene) <= uint64(len(optimizer.configuration)) {
		optimizer.configuration.Flip(uint64(gene))
	}
}

// fitness scores a child against the shared configuration: satisfied genes add
// their magnitude and unsatisfied ones subtract half of it. Scores that are not
// positive, or that reach the int64 bounds, fall back to the average fitness
// of the parents.
func (optimizer *Optimizer) fitness(child []int64, firstParent, secondParent int64) int64 {
	var score int64
	for _, gene := range child {
		magnitude := magnitudeOf(gene)
		if magnitude > 0 && magnitude <= uint64(len(optimizer.configuration)) && optimizer.configuration.Satisfies(gene) {
			score = saturatingAdd(score, int64(magnitude))
		} else {
			score = saturatingAdd(score, -int64(magnitude/2))
		}
	}

	if score > 0 && score < math.MaxInt64 {
		return score
	}
	return average(firstParent, secondParent)
}

// replaceWorst puts the child in place of the first chromosome with the lowest
// fitness if the child is strictly better
func (optimizer *Optimizer) replaceWorst(child []int64, fitness int64) bool {
	if len(optimizer.population) == 0 {
		return false
	}
	lowest := slices.MinFunc(optimizer.population, func(a, b Chromosome) int {
		return cmp.Compare(a.Fitness, b.Fitness)
	})
	if fitness <= lowest.Fitness {
		return false
	}

	worst := slices.IndexFunc(optimizer.population, func(chromosome Chromosome) bool {
		return chromosome.Fitness == lowest.Fitness
	})
	optimizer.population[worst] = Chromosome{Clause: child, Fitness: fitness}
	return true
}

// saturatingAdd returns a+b clamped to [math.MinInt64, math.MaxInt64]
func saturatingAdd(a, b int64) int64 {
	sum := a + b
	switch {
	case a > 0 && b > 0 && sum < 0:
		return math.MaxInt64
	case a < 0 && b < 0 && sum >= 0:
		return math.MinInt64
	}
	return sum
}

// average is (a+b)/2 truncated toward zero without overflowing
func average(a, b int64) int64 {
	if sum := saturatingAdd(a, b); sum != math.MaxInt64 && sum != math.MinInt64 {
		return sum / 2
	}
	// a and b share their sign here
	return a/2 + b/2 + (a%2+b%2)/2
}

func magnitudeOf(gene int64) uint64 {
	if gene < 0 {
		return uint64(-(gene + 1)) + 1
	}
	return uint64(gene)
}
