package sat

import (
	"fmt"
	"strings"
)

// SATSolution holds the signed literals of a model: v for true, -v for false
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

// WeightedSAT is a formula where every clause carries a weight (WCNF)
type WeightedSAT struct {
	Variables uint64
	Clauses   [][]int64
	Weights   []int64 // Weights[i] is the declared weight of Clauses[i]
	Top       int64   // Top weight declared in the problem line, 0 if absent
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

func (s WeightedSAT) ToDIMACS() string {
	var builder strings.Builder
	if s.Top > 0 {
		fmt.Fprintf(&builder, "p wcnf %d %d %d\n", s.Variables, len(s.Clauses), s.Top)
	} else {
		fmt.Fprintf(&builder, "p wcnf %d %d\n", s.Variables, len(s.Clauses))
	}
	for i, clause := range s.Clauses {
		fmt.Fprintf(&builder, "%d ", s.Weights[i])
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Unweighted drops the weights of the formula
func (s WeightedSAT) Unweighted() SAT {
	return SAT{
		Variables: s.Variables,
		Clauses:   s.Clauses,
	}
}

func abs(literal int64) int64 {
	if literal < 0 {
		return -literal
	}
	return literal
}
