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

// Package report computes the summary statistics of one assembly pipeline
// run and writes them as a JSON record and a depth plot.
package report

import (
	"github.com/grailbio/asmstats/coverage"
	"github.com/grailbio/base/errors"
)

// Opts lists the inputs of a report. Every input except Assembly is
// optional; each one that is set enables an independent block of the report.
type Opts struct {
	// SampleName is reported as sample_name and titles the depth plot.
	SampleName string
	// Assembly is the FASTA file holding the single assembled sequence.
	Assembly string
	// CleanedBAM is the alignment of the reads to the assembly.
	CleanedBAM string
	// SamtoolsStats and ERCCStats are "samtools stats" reports for the
	// assembly and the ERCC spike-in alignments.
	SamtoolsStats string
	ERCCStats     string
	// RefVCF, PrimerVCF and NeighborVCF are variant calls against the
	// reference, the primers and the nearest neighbour sequence.
	RefVCF      string
	PrimerVCF   string
	NeighborVCF string
	// NeighborFASTA names the nearest neighbour when NeighborVCF is unset.
	NeighborFASTA string
	// Reads are the (optionally gzipped) FASTQ inputs of the run.
	Reads []string
	// OutPrefix is the path prefix of the .stats.json and .depths.png outputs.
	OutPrefix string

	// Depth controls which alignments count towards depth.
	Depth coverage.Opts
	// LegacyDepthThresholds computes the 25x and 50x fractions at 30x.
	LegacyDepthThresholds bool
}

// DefaultOpts are the default report options.
var DefaultOpts = Opts{
	Depth: coverage.DefaultOpts,
}

// Validate checks that the required inputs are set.
func (o *Opts) Validate() error {
	if o.Assembly == "" {
		return errors.E(errors.Invalid, "report: assembly path required")
	}
	if o.OutPrefix == "" {
		return errors.E(errors.Invalid, "report: output prefix required")
	}
	if o.Depth.MinMapQ < 0 {
		return errors.E(errors.Invalid, "report: negative minimum MAPQ")
	}
	return nil
}

func (o *Opts) thresholds() []coverage.Threshold {
	if o.LegacyDepthThresholds {
		return coverage.LegacyThresholds
	}
	return coverage.DefaultThresholds
}

// JSONPath returns the path of the JSON output.
func (o *Opts) JSONPath() string {
	return o.OutPrefix + ".stats.json"
}

// PlotPath returns the path of the depth plot.
func (o *Opts) PlotPath() string {
	return o.OutPrefix + ".depths.png"
}
