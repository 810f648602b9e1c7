package sampler

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// ExtraField holds the cells of a row beyond the header
	ExtraField = "__parsed_extra"

	// Rows read when guessing the delimiter
	guessRows = 10
)

var (
	delimiters = []rune{',', '\t', '|', ';', '\x1e', '\x1f'}
	reFloat    = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)
	reISODate  = regexp.MustCompile(`^\d{4}-[01]\d-[0-3]\dT[0-2]\d:[0-5]\d(:[0-5]\d(\.\d+)?)?([+-][0-2]\d:[0-5]\d|Z)$`)
	maxFloat   = math.Pow(2, 53)
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Parse parses delimited text with a header row. Cells are trimmed and typed,
// and empty lines are skipped.
func Parse(text string) ([]schema.Row, error) {
	r := newReader(text, GuessDelimiter(text))

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []schema.Row{}, nil
	} else if err != nil {
		return nil, err
	}
	header = uniqueHeader(header)

	rows := make([]schema.Row, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		row := make(schema.Row, len(header))
		for i, cell := range record {
			value := Value(strings.TrimSpace(cell))
			if i < len(header) {
				row[header[i]] = value
			} else {
				extra, _ := row[ExtraField].([]any)
				row[ExtraField] = append(extra, value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GuessDelimiter returns the delimiter which splits the leading rows into
// the most consistent number of fields, or a comma
func GuessDelimiter(text string) rune {
	best, bestDelta, bestAvg := ',', -1, 0.0
	for _, delim := range delimiters {
		r := newReader(text, delim)
		var delta, total, rows int
		prev := -1
		for rows < guessRows {
			record, err := r.Read()
			if err != nil {
				break
			}
			rows++
			total += len(record)
			if prev < 0 {
				prev = len(record)
			} else if len(record) > 0 {
				delta += abs(len(record) - prev)
				prev = len(record)
			}
		}
		if rows == 0 {
			continue
		}
		avg := float64(total) / float64(rows)
		if (bestDelta < 0 || delta <= bestDelta) && avg > bestAvg && avg > 1.99 {
			best, bestDelta, bestAvg = delim, delta, avg
		}
	}
	return best
}

// Value returns a typed cell value: a bool, a float64 within the exact integer
// range of a float64, a time for an ISO timestamp with zone, nil for an empty
// cell, or the string itself
func Value(cell string) any {
	switch cell {
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	case "":
		return nil
	}
	if reFloat.MatchString(cell) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil && f > -maxFloat && f < maxFloat {
			return f
		}
		return cell
	}
	if reISODate.MatchString(cell) {
		if t, err := parseISODate(cell); err == nil {
			return t
		}
	}
	return cell
}

// FilterRepeated removes the lines whose characters are all the same,
// including empty lines
func FilterRepeated(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if !repeated(line) {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func newReader(text string, delim rune) *csv.Reader {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r
}

func repeated(line string) bool {
	first, _ := utf8.DecodeRuneInString(line)
	for _, c := range line {
		if c != first {
			return false
		}
	}
	return true
}

// uniqueHeader renames repeated column names with a numeric suffix
func uniqueHeader(header []string) []string {
	result := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))
	for i, name := range header {
		unique := name
		for seen[unique] {
			counts[name]++
			unique = name + "_" + strconv.Itoa(counts[name])
		}
		seen[unique] = true
		result[i] = unique
	}
	return result
}

func parseISODate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04Z07:00", v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
