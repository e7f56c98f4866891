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

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/grailbio/asmstats/coverage"
	"github.com/grailbio/asmstats/encoding/fasta"
	"github.com/grailbio/asmstats/encoding/fastq"
	"github.com/grailbio/asmstats/encoding/samstats"
	"github.com/grailbio/asmstats/variant"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Run computes the report described by opts and writes opts.JSONPath() and,
// when a BAM is given, opts.PlotPath(). Nothing is written if computing any
// block fails. The JSON record is written last, so it exists only if the plot
// was written too.
func Run(ctx context.Context, opts Opts) (*Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rec := NewRecord()
	rec.Set("sample_name", opts.SampleName)

	var neighborCounts *variant.Counts
	switch {
	case opts.NeighborVCF != "":
		name, counts, err := countVCF(ctx, opts.NeighborVCF)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, errors.E(errors.Invalid, "neighbor VCF has no ##contig header line: "+opts.NeighborVCF)
		}
		rec.Set("nearest_sequence", name)
		neighborCounts = &counts
	case opts.NeighborFASTA != "":
		names, err := fastaNames(ctx, opts.NeighborFASTA)
		if err != nil {
			return nil, err
		}
		rec.Set("nearest_sequence", strings.Join(names, "\n"))
	}

	var plot bytes.Buffer
	if opts.CleanedBAM != "" {
		if err := depthStats(ctx, opts, rec, &plot); err != nil {
			return nil, err
		}
	}

	counts, err := alleleCounts(ctx, opts.Assembly)
	if err != nil {
		return nil, err
	}
	rec.Set("allele_counts", counts)

	if len(opts.Reads) > 0 {
		var total int64
		for _, path := range opts.Reads {
			err := withInput(ctx, path, func(r io.Reader) error {
				n, err := fastq.Count(r)
				total += n
				return err
			})
			if err != nil {
				return nil, err
			}
		}
		log.Printf("%d reads in %d FASTQ files", total, len(opts.Reads))
		rec.Set("total_reads", total)
	}

	if opts.SamtoolsStats != "" {
		s, err := parseSamStats(ctx, opts.SamtoolsStats)
		if err != nil {
			return nil, err
		}
		setStat(rec, s, samstats.ReadsMapped, "mapped_reads", 1)
		setStat(rec, s, samstats.ReadsMappedAndPaired, "mapped_paired", 1)
		setStat(rec, s, samstats.InwardPairs, "paired_inward", 2)
		setStat(rec, s, samstats.OutwardPairs, "paired_outward", 2)
		setStat(rec, s, samstats.OtherOrientation, "paired_other_orientation", 2)
	}
	if opts.ERCCStats != "" {
		s, err := parseSamStats(ctx, opts.ERCCStats)
		if err != nil {
			return nil, err
		}
		setStat(rec, s, samstats.ReadsMapped, "ercc_mapped_reads", 1)
		setStat(rec, s, samstats.ReadsMappedAndPaired, "ercc_mapped_paired", 1)
	}

	for _, v := range []struct {
		path   string
		labels variant.Labels
	}{
		{opts.RefVCF, variant.RefLabels},
		{opts.PrimerVCF, variant.PrimerLabels},
	} {
		if v.path == "" {
			continue
		}
		_, counts, err := countVCF(ctx, v.path)
		if err != nil {
			return nil, err
		}
		setCounts(rec, counts, v.labels)
	}
	if neighborCounts != nil {
		setCounts(rec, *neighborCounts, variant.NeighborLabels)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	if plot.Len() > 0 {
		if err := writeOutput(ctx, opts.PlotPath(), plot.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := writeOutput(ctx, opts.JSONPath(), data); err != nil {
		return nil, err
	}
	log.Printf("wrote %s", opts.JSONPath())
	return rec, nil
}

// depthStats adds the depth block to rec and renders the depth plot into
// plot.
func depthStats(ctx context.Context, opts Opts, rec *Record, plot io.Writer) error {
	var d coverage.Depths
	// BAM is BGZF compressed; the BAM reader decompresses it itself.
	err := withFile(ctx, opts.CleanedBAM, func(r io.Reader) (err error) {
		d, err = coverage.ReadDepths(r, opts.Depth)
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("%s: depth over %d positions in %d references", opts.CleanedBAM, len(d.Depths), len(d.Refs))
	stats, err := coverage.Summarize(d.Depths, opts.thresholds())
	if err != nil {
		return errors.E(err, opts.CleanedBAM)
	}
	rec.Set("depth_avg", stats.Mean)
	for _, q := range stats.Quantiles {
		rec.Set(q.Key(), q.Value)
	}
	for _, f := range stats.Fractions {
		rec.Set(f.Key(), f.Value)
	}
	return coverage.Plot(plot, opts.SampleName, d.Depths)
}

// alleleCounts counts each character of the single sequence in the FASTA
// file at path, keyed in order of first appearance.
func alleleCounts(ctx context.Context, path string) (*Record, error) {
	var seq string
	err := withInput(ctx, path, func(r io.Reader) (err error) {
		_, seq, err = fasta.Single(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	var (
		counts [256]int
		order  []byte
	)
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	rec := NewRecord()
	for _, c := range order {
		rec.Set(string(c), counts[c])
	}
	log.Debug.Printf("%s: %d bases, %d distinct", path, len(seq), len(order))
	return rec, nil
}

// fastaNames returns the record names of the FASTA file at path.
func fastaNames(ctx context.Context, path string) ([]string, error) {
	var names []string
	err := withInput(ctx, path, func(r io.Reader) error {
		sc := seqio.NewScanner(biofasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))
		for sc.Next() {
			names = append(names, sc.Seq().Name())
		}
		return sc.Error()
	})
	return names, err
}

// countVCF classifies the records of the VCF file at path. It also returns
// the first contig declared in the header, if any.
func countVCF(ctx context.Context, path string) (contig string, counts variant.Counts, err error) {
	err = withInput(ctx, path, func(r io.Reader) error {
		vr, err := variant.NewReader(r)
		if err != nil {
			return err
		}
		if c := vr.Contigs(); len(c) > 0 {
			contig = c[0]
		}
		counts, err = variant.Count(vr)
		return err
	})
	if err == nil {
		log.Printf("%s: %d SNPs, %d MNPs, %d indels", path, counts.SNP, counts.MNP, counts.Indel)
	}
	return contig, counts, err
}

func parseSamStats(ctx context.Context, path string) (s samstats.Summary, err error) {
	err = withInput(ctx, path, func(r io.Reader) (err error) {
		s, err = samstats.Parse(r)
		return err
	})
	return s, err
}

// setStat copies label from s into rec as key, multiplied by scale. Pair
// counts are reported as reads, hence scale 2.
func setStat(rec *Record, s samstats.Summary, label, key string, scale int64) {
	if v, ok := s.Get(label); ok {
		rec.Set(key, v*scale)
	}
}

func setCounts(rec *Record, c variant.Counts, l variant.Labels) {
	for _, kv := range c.Fields(l) {
		rec.Set(kv.Key, kv.Value)
	}
}
