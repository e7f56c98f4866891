// Package fasta parses FASTA files into memory. FASTA files consist of a
// number of named sequences that may be interrupted by newlines. For example:
//
// >contig1
// ACGTAC
// GAGGAC
// GCG
// >contig2
// ACGT
//
// Sequence names are the stretch of characters excluding spaces immediately
// after '>'. Any text after a space is ignored: '>contig1 A viral sequence'
// becomes 'contig1'.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	pkgerrors "github.com/pkg/errors"
)

const maxLineSize = 1024 * 1024 * 300 // 300 MB

// Fasta represents FASTA-formatted data, consisting of a set of named
// sequences.
type Fasta interface {
	// Get returns a substring of the given sequence name at the given
	// coordinates, which are treated as a 0-based half-open interval
	// [start, end).
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of the given sequence.
	Len(seqName string) (uint64, error)

	// SeqNames returns the names of all sequences, in the order of appearance in
	// the FASTA file.
	SeqNames() []string
}

type fasta struct {
	seqs     map[string]string
	seqNames []string
}

// New reads all the FASTA data from r into memory. Blank lines and '\r'
// line endings are ignored. Data without any '>' header line, or sequence
// data before the first header, is an error.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineSize)
	var (
		seqName string
		seq     strings.Builder
		started bool
	)
	flush := func() error {
		if _, ok := f.seqs[seqName]; ok {
			return errors.E(errors.Invalid, "duplicate FASTA sequence name: "+seqName)
		}
		f.seqs[seqName] = seq.String()
		f.seqNames = append(f.seqNames, seqName)
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if started {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			seqName = strings.Split(line[1:], " ")[0]
			started = true
			continue
		}
		if !started {
			return nil, errors.E(errors.Invalid, "malformed FASTA file: sequence data before first header")
		}
		seq.WriteString(strings.Replace(line, " ", "", -1))
	}
	if err := scanner.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "couldn't read FASTA data")
	}
	if !started {
		return nil, errors.E(errors.Invalid, "empty FASTA file")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return f, nil
}

// Single reads FASTA data that must hold exactly one sequence and returns its
// name and bases.
func Single(r io.Reader) (name, seq string, err error) {
	f, err := New(r)
	if err != nil {
		return "", "", err
	}
	names := f.SeqNames()
	if len(names) != 1 {
		return "", "", errors.E(errors.Invalid, fmt.Sprintf("expected one FASTA sequence, found %d", len(names)))
	}
	n, _ := f.Len(names[0])
	if n == 0 {
		return names[0], "", nil
	}
	seq, err = f.Get(names[0], 0, n)
	return names[0], seq, err
}

// Get implements Fasta.Get().
func (f *fasta) Get(seqName string, start, end uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", pkgerrors.Errorf("sequence not found: %s", seqName)
	}
	if end <= start {
		return "", pkgerrors.Errorf("start must be less than end")
	}
	if end > uint64(len(s)) {
		return "", pkgerrors.Errorf("invalid query range %d - %d for sequence %s with length %d",
			start, end, seqName, len(s))
	}
	return s[start:end], nil
}

// Len implements Fasta.Len().
func (f *fasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, pkgerrors.Errorf("sequence not found: %s", seqName)
	}
	return uint64(len(s)), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.seqNames
}
