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

// Package variant classifies variant calls as SNPs, MNPs or indels and reads
// them from VCF files.
package variant

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Record is a variant site: a reference allele and its alternate alleles.
type Record struct {
	Ref  string
	Alts []string
}

// Kind is the class of a variant record.
type Kind int

const (
	// SNP means every allele has length 1.
	SNP Kind = iota
	// MNP means every allele has the same length, greater than 1.
	MNP
	// Indel means the alleles differ in length.
	Indel
)

func (k Kind) String() string {
	switch k {
	case SNP:
		return "snp"
	case MNP:
		return "mnp"
	case Indel:
		return "indel"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Classify returns the kind of r. All alleles, reference and alternates, are
// compared together: a multi-allelic site with any length difference is an
// indel. A site with no alternates is classified by its reference allele.
func (r Record) Classify() (Kind, error) {
	if r.Ref == "" {
		return 0, errors.E(errors.Invalid, "variant: missing reference allele")
	}
	n := len(r.Ref)
	kind := MNP
	if n == 1 {
		kind = SNP
	}
	for i, a := range r.Alts {
		if a == "" {
			return 0, errors.E(errors.Invalid, fmt.Sprintf("variant: empty alternate allele %d (ref %s)", i, r.Ref))
		}
		if len(a) != n {
			kind = Indel
		}
	}
	return kind, nil
}

// Counts tallies variant records by kind.
type Counts struct {
	SNP, MNP, Indel int
}

// Add classifies r and counts it.
func (c *Counts) Add(r Record) error {
	k, err := r.Classify()
	if err != nil {
		return err
	}
	switch k {
	case SNP:
		c.SNP++
	case MNP:
		c.MNP++
	default:
		c.Indel++
	}
	return nil
}

// Classify counts records by kind. It fails on the first invalid record
// without returning partial counts.
func Classify(records []Record) (Counts, error) {
	var c Counts
	for i, r := range records {
		if err := c.Add(r); err != nil {
			return Counts{}, errors.E(err, fmt.Sprintf("record %d", i))
		}
	}
	return c, nil
}

// Labels names the output keys of a Counts.
type Labels struct {
	SNP, MNP, Indel string
}

// Label triples used by the assembly report.
var (
	RefLabels      = Labels{"ref_snps", "ref_mnps", "ref_indels"}
	PrimerLabels   = Labels{"primer_snps", "primer_mnps", "primer_indels"}
	NeighborLabels = Labels{"new_snps", "new_mnps", "new_indels"}
)

// KeyValue is one labelled count.
type KeyValue struct {
	Key   string
	Value int
}

// Fields returns the counts keyed by l, in snp, mnp, indel order.
func (c Counts) Fields(l Labels) []KeyValue {
	return []KeyValue{{l.SNP, c.SNP}, {l.MNP, c.MNP}, {l.Indel, c.Indel}}
}
