package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/majindogo/farm-data-etl/internal/table"
)

// numericTokenRe accepts plain numeric literals: optional leading minus,
// digits, optional fractional part. Exponents and grouping separators are
// deliberately rejected; message fragments never use them and permitting
// them would let stray capture text slip through as a measurement.
var numericTokenRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Pattern is one compiled measurement-extraction rule.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// PatternSet is a collection of compiled patterns in deterministic (sorted
// by name) order. Patterns are independent: the evaluation order never
// affects any individual measurement's result, but a stable order keeps
// derived column order reproducible.
type PatternSet []Pattern

// CompilePatterns compiles a measurement-name-to-pattern mapping once, up
// front, so the per-row extraction path never recompiles. A pattern that
// fails to compile is a configuration error naming the measurement.
func CompilePatterns(raw map[string]string) (PatternSet, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	set := make(PatternSet, 0, len(names))
	for _, name := range names {
		re, err := regexp.Compile(raw[name])
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", name, err)
		}
		set = append(set, Pattern{Name: name, re: re})
	}
	return set, nil
}

// Names returns the measurement names in the set's order.
func (s PatternSet) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	return names
}

// ExtractMeasurement applies a compiled pattern to a message and returns the
// first capturing group, in left-to-right order, whose matched text is a
// numeric literal. The second return value is false when the pattern does
// not match or no capturing group yields a number; a zero measurement is a
// valid value and remains distinguishable from absence.
func ExtractMeasurement(message string, re *regexp.Regexp) (float64, bool) {
	match := re.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	for _, group := range match[1:] {
		if !numericTokenRe.MatchString(group) {
			continue
		}
		v, err := strconv.ParseFloat(group, 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// ExtractAll adds one numeric column per pattern to the table, populated by
// applying ExtractMeasurement to every value of the text column. Rows whose
// message does not match a pattern get a null for that measurement. Existing
// columns are untouched and row count and order are preserved. It returns
// the number of non-null extractions per measurement name.
func ExtractAll(t *table.Table, patterns PatternSet, textColumn string) (map[string]int, error) {
	messages, err := t.Col(textColumn)
	if err != nil {
		return nil, fmt.Errorf("text column: %w", err)
	}

	matched := make(map[string]int, len(patterns))
	for _, p := range patterns {
		values := make([]any, len(messages))
		for i, m := range messages {
			s, ok := m.(string)
			if !ok {
				continue
			}
			if v, found := ExtractMeasurement(s, p.re); found {
				values[i] = v
				matched[p.Name]++
			}
		}
		if err := t.Put(p.Name, values); err != nil {
			return nil, fmt.Errorf("measurement column %q: %w", p.Name, err)
		}
	}
	return matched, nil
}
