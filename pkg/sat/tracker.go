package sat

// occurrence locates a literal inside the formula
type occurrence struct {
	clause   int
	positive bool
}

// Tracker keeps, for a fixed formula and a mutable assignment, the number of
// satisfied literals of every clause and the number of satisfied clauses.
//
// Clauses are identified by their index in the formula. Flips are applied as
// delta updates over per-variable occurrence lists, which gives the same
// counts as a full rescan.
type Tracker struct {
	clauses     [][]int64
	counts      []int
	satisfied   int
	occurrences [][]occurrence // occurrences[v-1] lists the clauses mentioning variable v
}

func NewTracker(clauses [][]int64, variables uint64, assignment Assignment) *Tracker {
	tracker := &Tracker{
		clauses:     clauses,
		counts:      make([]int, len(clauses)),
		occurrences: make([][]occurrence, variables),
	}
	for i, clause := range clauses {
		for _, literal := range clause {
			variable := abs(literal) - 1
			tracker.occurrences[variable] = append(tracker.occurrences[variable], occurrence{clause: i, positive: literal > 0})
		}
	}
	tracker.Rescan(assignment)
	return tracker
}

// Rescan recomputes every count from scratch and returns the satisfied-clause count
func (tracker *Tracker) Rescan(assignment Assignment) int {
	tracker.satisfied = 0
	for i, clause := range tracker.clauses {
		count := 0
		for _, literal := range clause {
			if assignment.Satisfies(literal) {
				count++
			}
		}
		tracker.counts[i] = count
		if count > 0 {
			tracker.satisfied++
		}
	}
	return tracker.satisfied
}

// Flip toggles the (1-based) variable in the assignment, updates the record
// and returns the new satisfied-clause count
func (tracker *Tracker) Flip(assignment Assignment, variable uint64) int {
	assignment.Flip(variable)
	value := assignment.Value(variable)

	for _, occ := range tracker.occurrences[variable-1] {
		if occ.positive == value { // Literal became true
			tracker.counts[occ.clause]++
			if tracker.counts[occ.clause] == 1 {
				tracker.satisfied++
			}
		} else { // Literal became false
			tracker.counts[occ.clause]--
			if tracker.counts[occ.clause] == 0 {
				tracker.satisfied--
			}
		}
	}
	return tracker.satisfied
}

// Satisfied returns the number of clauses with at least one satisfied literal
func (tracker *Tracker) Satisfied() int {
	return tracker.satisfied
}

// Count returns the number of satisfied literals of the i-th clause
func (tracker *Tracker) Count(i int) int {
	return tracker.counts[i]
}

func (tracker *Tracker) Clauses() int {
	return len(tracker.clauses)
}

// FirstUnsatisfied returns the index of the first unsatisfied clause in formula order
func (tracker *Tracker) FirstUnsatisfied() (int, bool) {
	for i, count := range tracker.counts {
		if count == 0 {
			return i, true
		}
	}
	return 0, false
}
