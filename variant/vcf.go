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

package variant

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
)

const maxLineSize = 64 * 1024 * 1024

// Reader reads variant records from VCF text. The header is consumed by
// NewReader; records are then read with Scan. Readers are not threadsafe.
//
// Only the columns needed for classification are parsed: CHROM, POS, ID,
// REF and ALT. Sample columns are ignored.
type Reader struct {
	b       *bufio.Scanner
	lineNum int
	contigs []string
	rec     Record
	err     error
}

// NewReader reads the VCF header from r. It fails unless the header ends in a
// "#CHROM" column line.
func NewReader(r io.Reader) (*Reader, error) {
	vr := &Reader{b: bufio.NewScanner(r)}
	vr.b.Buffer(nil, maxLineSize)
	for vr.b.Scan() {
		vr.lineNum++
		line := vr.b.Text()
		switch {
		case strings.HasPrefix(line, "##contig="):
			if id := metaField(line[len("##contig="):], "ID"); id != "" {
				vr.contigs = append(vr.contigs, id)
			}
		case strings.HasPrefix(line, "##"):
			// Other meta-information is not needed.
		case strings.HasPrefix(line, "#CHROM"):
			return vr, nil
		default:
			return nil, vr.errorf("expected VCF header line, got %q", truncate(line))
		}
	}
	if err := vr.b.Err(); err != nil {
		return nil, err
	}
	return nil, errors.E(errors.Invalid, "vcf: missing #CHROM header line")
}

// Contigs returns the contig IDs declared in the header, in header order.
func (vr *Reader) Contigs() []string {
	return vr.contigs
}

// Scan reads the next record, returning false at the end of input or on
// error. Err distinguishes the two.
func (vr *Reader) Scan() bool {
	if vr.err != nil {
		return false
	}
	for vr.b.Scan() {
		vr.lineNum++
		line := vr.b.Text()
		if len(line) == 0 {
			continue
		}
		vr.err = vr.parse(line)
		return vr.err == nil
	}
	vr.err = vr.b.Err()
	if vr.err == nil {
		vr.err = io.EOF
	}
	return false
}

// Record returns the most recent record read by Scan.
func (vr *Reader) Record() Record {
	return vr.rec
}

// Err returns the error that stopped Scan, or nil at end of input.
func (vr *Reader) Err() error {
	if vr.err == io.EOF {
		return nil
	}
	return vr.err
}

func (vr *Reader) parse(line string) error {
	cols := strings.SplitN(line, "\t", 6)
	if len(cols) < 5 {
		return vr.errorf("expected at least 5 columns, got %d", len(cols))
	}
	ref, alt := cols[3], cols[4]
	if ref == "" || ref == "." {
		return vr.errorf("missing REF allele")
	}
	vr.rec = Record{Ref: ref}
	if alt != "." {
		vr.rec.Alts = strings.Split(alt, ",")
	}
	return nil
}

func (vr *Reader) errorf(format string, args ...interface{}) error {
	return errors.E(errors.Invalid, fmt.Sprintf("vcf line %d: ", vr.lineNum)+fmt.Sprintf(format, args...))
}

// metaField extracts key from a structured meta-information value such as
// "<ID=chr1,length=100>".
func metaField(value, key string) string {
	value = strings.TrimSuffix(strings.TrimPrefix(value, "<"), ">")
	for _, kv := range strings.Split(value, ",") {
		if i := strings.IndexByte(kv, '='); i > 0 && kv[:i] == key {
			return kv[i+1:]
		}
	}
	return ""
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}

// Count classifies every record read from vr.
func Count(vr *Reader) (Counts, error) {
	var c Counts
	for vr.Scan() {
		if err := c.Add(vr.Record()); err != nil {
			return Counts{}, errors.E(err, fmt.Sprintf("vcf line %d", vr.lineNum))
		}
	}
	if err := vr.Err(); err != nil {
		return Counts{}, err
	}
	return c, nil
}
