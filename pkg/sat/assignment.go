package sat

import "math/rand/v2"

// Assignment holds the truth value of every variable: index i belongs to variable i+1
type Assignment []bool

// RandomAssignment draws every variable uniformly at random
func RandomAssignment(variables uint64, rng *rand.Rand) Assignment {
	assignment := make(Assignment, variables)
	for i := range assignment {
		assignment[i] = rng.IntN(2) == 1
	}
	return assignment
}

// Value returns the truth value of the (1-based) variable
func (a Assignment) Value(variable uint64) bool {
	return a[variable-1]
}

// Flip toggles the (1-based) variable
func (a Assignment) Flip(variable uint64) {
	a[variable-1] = !a[variable-1]
}

// Satisfies reports whether the literal's polarity matches the assignment
func (a Assignment) Satisfies(literal int64) bool {
	value := a[abs(literal)-1]
	return value == (literal > 0)
}

// SatisfiesClause reports whether at least one literal of the clause is satisfied
func (a Assignment) SatisfiesClause(clause []int64) bool {
	for _, literal := range clause {
		if a.Satisfies(literal) {
			return true
		}
	}
	return false
}

func (a Assignment) Clone() Assignment {
	clone := make(Assignment, len(a))
	copy(clone, a)
	return clone
}

// Literals converts the assignment into a DIMACS-style solution
func (a Assignment) Literals() SATSolution {
	solution := make(SATSolution, len(a))
	for i, value := range a {
		literal := int64(i + 1)
		if !value {
			literal = -literal
		}
		solution[i] = literal
	}
	return solution
}

// CountSatisfied recounts from scratch how many clauses the assignment satisfies
func CountSatisfied(clauses [][]int64, assignment Assignment) int {
	satisfied := 0
	for _, clause := range clauses {
		if assignment.SatisfiesClause(clause) {
			satisfied++
		}
	}
	return satisfied
}
