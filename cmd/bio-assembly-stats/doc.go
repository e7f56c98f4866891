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

/*
bio-assembly-stats summarizes one sample's assembly pipeline run: depth of
coverage over the assembly, its base composition, read and mapping counts, and
SNP/MNP/indel tallies of variant calls against the reference, the primers and
the nearest neighbour sequence.

It writes <out-prefix>.stats.json and, when -cleaned-bam is given, a depth
plot at <out-prefix>.depths.png.

Sample usage:

	bio-assembly-stats \
	    -sample-name sample1 \
	    -assembly sample1.fa \
	    -cleaned-bam sample1.bam \
	    -samtools-stats sample1.stats.txt \
	    -vcf sample1.ref.vcf.gz \
	    -neighbor-vcf sample1.neighbor.vcf \
	    -reads sample1_R1.fastq.gz,sample1_R2.fastq.gz \
	    -out-prefix out/sample1
*/
package main
