package sat

import "math/rand/v2"

// GenerateSATInstance builds a random instance over the given number of
// variables. Every clause includes one literal that agrees with a hidden
// random assignment, so the instance is always satisfiable.
func GenerateSATInstance(variables uint64, clauses int, rng *rand.Rand) SAT {
	planted := RandomAssignment(variables, rng)
	satInstance := SAT{
		Variables: variables,
		Clauses:   make([][]int64, clauses),
	}

	for i := range clauses {
		satInstance.Clauses[i] = make([]int64, 0, variables)
		for j := range variables {
			if rng.Float32() < 0.5 {
				var sign int64 = 1
				if rng.Float32() < 0.5 {
					sign = -1
				}
				satInstance.Clauses[i] = append(satInstance.Clauses[i], sign*(1+int64(j)))
			}
		}

		if len(satInstance.Clauses[i]) == 0 {
			var sign int64 = 1
			if rng.Float32() < 0.5 {
				sign = -1
			}
			satInstance.Clauses[i] = append(satInstance.Clauses[i], sign*(1+rng.Int64N(int64(variables))))
		}

		// Make one literal agree with the planted assignment
		fixed := rng.IntN(len(satInstance.Clauses[i]))
		literal := abs(satInstance.Clauses[i][fixed])
		if !planted.Value(uint64(literal)) {
			literal = -literal
		}
		satInstance.Clauses[i][fixed] = literal
	}

	return satInstance
}

// GenerateWeightedSATInstance builds a random satisfiable instance whose clause
// weights are drawn uniformly from [1, maxWeight]
func GenerateWeightedSATInstance(variables uint64, clauses int, maxWeight int64, rng *rand.Rand) WeightedSAT {
	satInstance := GenerateSATInstance(variables, clauses, rng)
	weights := make([]int64, clauses)
	for i := range weights {
		weights[i] = 1 + rng.Int64N(maxWeight)
	}
	return WeightedSAT{
		Variables: satInstance.Variables,
		Clauses:   satInstance.Clauses,
		Weights:   weights,
	}
}

func AssertSATSolution(satInstance SAT, satSolution SATSolution) bool {
	// Make sure there are no duplicates nor contradictions
	literals := make(map[int64]bool)
	for _, literal := range satSolution {
		if literals[literal] || literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	// Check that all clauses are satisfied
	for _, clause := range satInstance.Clauses {
		satisfied := false
		for _, literal := range clause {
			if literals[literal] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}

	return true
}
