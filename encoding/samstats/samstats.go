// Package samstats extracts the summary numbers section of a
// "samtools stats" report. Summary lines look like
//
//	SN	reads mapped:	9845	# comment
//
// Only integer-valued fields are extracted.
package samstats

import (
	"bufio"
	"io"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// Labels of summary fields used by the assembly report.
const (
	ReadsMapped          = "reads mapped"
	ReadsMappedAndPaired = "reads mapped and paired"
	InwardPairs          = "inward oriented pairs"
	OutwardPairs         = "outward oriented pairs"
	OtherOrientation     = "pairs with other orientation"
)

var snRegExp = regexp.MustCompile(`^SN\s+([^\s].*):\s+(\d+)`)

// Summary maps summary labels to their values.
type Summary map[string]int64

// Parse reads a samtools stats report. When a label repeats, the last value
// wins. Lines that are not summary lines are ignored.
func Parse(r io.Reader) (Summary, error) {
	s := Summary{}
	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		m := snRegExp.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		v, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "samtools stats line %d", lineNum)
		}
		s[m[1]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read samtools stats")
	}
	return s, nil
}

// Get returns the value of label and whether it was present.
func (s Summary) Get(label string) (int64, bool) {
	v, ok := s[label]
	return v, ok
}
