package sat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

type problemLine struct {
	format    string
	variables uint64
	clauses   uint64
	top       int64
}

// ParseCNF parses text in the DIMACS CNF format.
//
// Comment lines may appear anywhere, a line holding a single '%' ends the
// input and repeated clauses are only kept once.
func ParseCNF(r io.Reader) (SAT, error) {
	problem, clauses, err := parseDIMACS(r, "cnf")
	if err != nil {
		return SAT{}, err
	}
	return SAT{
		Variables: problem.variables,
		Clauses:   clauses,
	}, nil
}

// ParseWCNF parses text in the DIMACS WCNF format, where the first number of
// every clause is its weight.
func ParseWCNF(r io.Reader) (WeightedSAT, error) {
	problem, rawClauses, err := parseDIMACS(r, "wcnf")
	if err != nil {
		return WeightedSAT{}, err
	}

	weighted := WeightedSAT{
		Variables: problem.variables,
		Clauses:   make([][]int64, 0, len(rawClauses)),
		Weights:   make([]int64, 0, len(rawClauses)),
		Top:       problem.top,
	}
	for i, clause := range rawClauses {
		if len(clause) < 2 {
			return WeightedSAT{}, fmt.Errorf("clause %d has a weight but no literals", i+1)
		}
		weighted.Weights = append(weighted.Weights, clause[0])
		weighted.Clauses = append(weighted.Clauses, clause[1:])
	}
	return weighted, nil
}

func ParseCNFFile(fileName string) (SAT, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return SAT{}, errors.Wrapf(err, "could not open file %q", fileName)
	}
	defer file.Close()

	sat, err := ParseCNF(file)
	if err != nil {
		return SAT{}, errors.Wrapf(err, "could not parse DIMACS file %q", fileName)
	}
	return sat, nil
}

func ParseWCNFFile(fileName string) (WeightedSAT, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return WeightedSAT{}, errors.Wrapf(err, "could not open file %q", fileName)
	}
	defer file.Close()

	sat, err := ParseWCNF(file)
	if err != nil {
		return WeightedSAT{}, errors.Wrapf(err, "could not parse WCNF file %q", fileName)
	}
	return sat, nil
}

func parseDIMACS(r io.Reader, format string) (problemLine, [][]int64, error) {
	var problem problemLine
	var clauses [][]int64
	var clause []int64
	seen := mapset.NewThreadUnsafeSet[string]()
	weighted := format == "wcnf"

	// Close the current clause, dropping it if an identical one was already read
	closeClause := func() {
		key := clauseKey(clause)
		if !seen.Contains(key) {
			seen.Add(key)
			clauses = append(clauses, clause)
		}
		clause = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == 'c' {
			continue
		}
		// Some benchmark files attach a trailer after a line starting with '%'
		if line[0] == '%' {
			break
		}
		if line[0] == 'p' {
			if len(clauses) > 0 || len(clause) > 0 {
				return problemLine{}, nil, errors.New("problem line appears after clauses")
			}
			if problem.format != "" {
				return problemLine{}, nil, errors.New("multiple problem lines")
			}
			var err error
			problem, err = parseProblemLine(line)
			if err != nil {
				return problemLine{}, nil, err
			}
			if problem.format != format {
				return problemLine{}, nil, fmt.Errorf("invalid file type %q: file type has to be %v", problem.format, format)
			}
			continue
		}
		if problem.format == "" {
			return problemLine{}, nil, errors.New("clause appears before the problem line")
		}

		for _, field := range strings.Fields(line) {
			literal, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return problemLine{}, nil, errors.Wrapf(err, "invalid literal %q", field)
			}
			if literal == 0 {
				closeClause()
				continue
			}
			// The leading number of a weighted clause is its weight, not a literal
			isWeight := weighted && len(clause) == 0
			if !isWeight && (literal < -int64(problem.variables) || literal > int64(problem.variables)) {
				return problemLine{}, nil, fmt.Errorf("error in variable value %d: it must be in range [1, %d]", literal, problem.variables)
			}
			clause = append(clause, literal)
		}
	}
	if err := scanner.Err(); err != nil {
		return problemLine{}, nil, errors.Wrap(err, "error reading input")
	}
	if problem.format == "" {
		return problemLine{}, nil, errors.New("missing problem line")
	}
	if len(clause) > 0 {
		closeClause()
	}
	return problem, clauses, nil
}

func parseProblemLine(line string) (problemLine, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 || fields[0] != "p" {
		return problemLine{}, fmt.Errorf("malformed problem line %q", line)
	}

	problem := problemLine{format: fields[1]}
	var err error
	problem.variables, err = strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return problemLine{}, errors.Wrap(err, "malformed #vars in problem line")
	}
	problem.clauses, err = strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return problemLine{}, errors.Wrap(err, "malformed #clauses in problem line")
	}

	switch {
	case problem.format == "cnf" && len(fields) != 4:
		return problemLine{}, fmt.Errorf("malformed problem line %q", line)
	case problem.format == "wcnf" && len(fields) == 5:
		problem.top, err = strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return problemLine{}, errors.Wrap(err, "malformed top weight in problem line")
		}
	case problem.format == "wcnf" && len(fields) > 5:
		return problemLine{}, fmt.Errorf("malformed problem line %q", line)
	}
	return problem, nil
}

// clauseKey joins the literals of a clause in their original order
func clauseKey(clause []int64) string {
	var builder strings.Builder
	for i, literal := range clause {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(strconv.FormatInt(literal, 10))
	}
	return builder.String()
}
