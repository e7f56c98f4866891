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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/asmstats/report"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
)

var (
	sampleName    = flag.String("sample-name", "", "Sample name; reported as sample_name and used as the depth plot title")
	assembly      = flag.String("assembly", "", "Assembly FASTA holding exactly one sequence (required)")
	cleanedBAM    = flag.String("cleaned-bam", "", "BAM of the reads aligned to the assembly; enables depth statistics and the depth plot")
	samtoolsStats = flag.String("samtools-stats", "", "'samtools stats' report of the assembly alignment")
	erccStats     = flag.String("ercc-stats", "", "'samtools stats' report of the ERCC spike-in alignment")
	refVCF        = flag.String("vcf", "", "Variant calls against the reference (plain or gzipped VCF)")
	primerVCF     = flag.String("primer-vcf", "", "Variant calls against the primers")
	neighborVCF   = flag.String("neighbor-vcf", "", "Variant calls against the nearest neighbour; its first ##contig names the neighbour")
	neighborFASTA = flag.String("neighbor-fasta", "", "Nearest neighbour FASTA; used for nearest_sequence when -neighbor-vcf is unset")
	reads         = flag.String("reads", "", "Comma-separated FASTQ files (plain or gzipped) to count reads in")
	outPrefix     = flag.String("out-prefix", "", "Output path prefix (required)")

	flagExclude      = flag.Int("depth-flag-exclude", int(report.DefaultOpts.Depth.ExcludeFlags), "Reads with a FLAG bit intersecting this value do not count towards depth")
	minMapQ          = flag.Int("depth-min-mapq", report.DefaultOpts.Depth.MinMapQ, "Reads with MAPQ below this level do not count towards depth")
	includeDeletions = flag.Bool("depth-include-deletions", report.DefaultOpts.Depth.IncludeDeletions, "Count reads with a deletion at a position towards its depth")
	legacyThresholds = flag.Bool("legacy-depth-thresholds", report.DefaultOpts.LegacyDepthThresholds, "Compute depth_frac_above_25x and depth_frac_above_50x at 30x, as older pipeline versions did")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] -assembly asm.fa -out-prefix prefix\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

// splitList splits a comma-separated flag value, dropping empty elements.
func splitList(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 0 {
		log.Fatalf("unexpected positional arguments: '%s'", strings.Join(flag.Args(), " "))
	}
	opts := report.DefaultOpts
	opts.SampleName = *sampleName
	opts.Assembly = *assembly
	opts.CleanedBAM = *cleanedBAM
	opts.SamtoolsStats = *samtoolsStats
	opts.ERCCStats = *erccStats
	opts.RefVCF = *refVCF
	opts.PrimerVCF = *primerVCF
	opts.NeighborVCF = *neighborVCF
	opts.NeighborFASTA = *neighborFASTA
	opts.Reads = splitList(*reads)
	opts.OutPrefix = *outPrefix
	opts.Depth.ExcludeFlags = sam.Flags(*flagExclude)
	opts.Depth.MinMapQ = *minMapQ
	opts.Depth.IncludeDeletions = *includeDeletions
	opts.LegacyDepthThresholds = *legacyThresholds

	ctx := vcontext.Background()
	if _, err := report.Run(ctx, opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
