// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package coverage

import (
	"fmt"
	"io"

	"github.com/biogo/store/step"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// Opts controls which alignments contribute to depth.
type Opts struct {
	// ExcludeFlags skips records whose FLAG intersects this value.
	ExcludeFlags sam.Flags
	// MinMapQ skips records with a lower mapping quality.
	MinMapQ int
	// IncludeDeletions counts CIGAR deletions as covering the deleted
	// reference bases.
	IncludeDeletions bool
}

// DefaultOpts matches the defaults of "samtools depth".
var DefaultOpts = Opts{
	ExcludeFlags: sam.Unmapped | sam.Secondary | sam.QCFail | sam.Duplicate,
}

// Depths holds the per-position depth of every reference in a BAM header.
type Depths struct {
	// Refs are the header references, in header order.
	Refs []*sam.Reference
	// Depths has one entry per position of every reference in Refs,
	// concatenated in header order. Uncovered positions are zero.
	Depths []int
}

// ReadDepths reads a BAM stream and returns the depth at every position of
// every reference, like "samtools depth -aa -d 0". The records need not be
// sorted.
func ReadDepths(r io.Reader, opts Opts) (Depths, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return Depths{}, err
	}
	defer br.Close() // nolint: errcheck

	refs := br.Header().Refs()
	if len(refs) == 0 {
		return Depths{}, errors.E(errors.Invalid, "coverage: BAM header has no references")
	}
	vecs := make([]*step.Vector, len(refs))
	for i, ref := range refs {
		if ref.Len() == 0 {
			continue
		}
		if vecs[i], err = step.New(0, ref.Len(), step.Int(0)); err != nil {
			return Depths{}, err
		}
	}

	var nRecords, nUsed int
	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Depths{}, err
		}
		nRecords++
		if rec.Flags&opts.ExcludeFlags != 0 || int(rec.MapQ) < opts.MinMapQ || rec.Ref == nil {
			continue
		}
		vec := vecs[rec.Ref.ID()]
		if vec == nil {
			continue
		}
		if err := addRecord(vec, rec, opts); err != nil {
			return Depths{}, errors.E(err, fmt.Sprintf("coverage: record %s", rec.Name))
		}
		nUsed++
	}
	log.Debug.Printf("coverage: %d of %d BAM records counted", nUsed, nRecords)

	d := Depths{Refs: refs}
	for i, ref := range refs {
		off := len(d.Depths)
		d.Depths = append(d.Depths, make([]int, ref.Len())...)
		if vecs[i] == nil {
			continue
		}
		vecs[i].Do(func(start, end int, e step.Equaler) {
			v := int(e.(step.Int))
			if v == 0 {
				return
			}
			for p := start; p < end; p++ {
				d.Depths[off+p] = v
			}
		})
	}
	return d, nil
}

// addRecord increments vec over the reference bases covered by rec.
func addRecord(vec *step.Vector, rec *sam.Record, opts Opts) error {
	pos := rec.Pos
	for _, co := range rec.Cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			if err := increment(vec, pos, pos+n); err != nil {
				return err
			}
			pos += n
		case sam.CigarDeletion:
			if opts.IncludeDeletions {
				if err := increment(vec, pos, pos+n); err != nil {
					return err
				}
			}
			pos += n
		case sam.CigarSkipped:
			pos += n
		case sam.CigarInsertion, sam.CigarSoftClipped, sam.CigarHardClipped, sam.CigarPadded:
			// Does not consume reference.
		default:
			return fmt.Errorf("unexpected CIGAR op %v", co)
		}
	}
	return nil
}

// increment adds one to vec over [start, end), clipped to the vector's
// extent.
func increment(vec *step.Vector, start, end int) error {
	if start < vec.Start() {
		start = vec.Start()
	}
	if end > vec.End() {
		end = vec.End()
	}
	if start >= end {
		return nil
	}
	return vec.ApplyRange(start, end, func(e step.Equaler) step.Equaler {
		return e.(step.Int) + 1
	})
}
