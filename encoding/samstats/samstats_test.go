package samstats_test

import (
	"strings"
	"testing"

	"github.com/grailbio/asmstats/encoding/samstats"
	"github.com/grailbio/testutil/expect"
)

const report = `# This file was produced by samtools stats (1.10+htslib-1.10.2)
# CHK, Checksum	[2]Read Names	[3]Sequences	[4]Qualities
CHK	4d3b6ff0	a5e54d3c	e9b3f1d9
# Summary Numbers. Use 'grep ^SN | cut -f 2-' to extract this part.
SN	raw total sequences:	20000
SN	reads mapped:	18840
SN	reads mapped and paired:	18722	# paired-end technology bit set + both mates mapped
SN	error rate:	1.234568e-03	# mismatches / bases mapped (cigar)
SN	average length:	150
SN	inward oriented pairs:	8900
SN	outward oriented pairs:	12
SN	pairs with other orientation:	3
FFQ	1	0	0	0
SN	reads mapped:	18841
`

func TestParse(t *testing.T) {
	s, err := samstats.Parse(strings.NewReader(report))
	expect.NoError(t, err)
	for _, tt := range []struct {
		label string
		want  int64
	}{
		{samstats.ReadsMapped, 18841},
		{samstats.ReadsMappedAndPaired, 18722},
		{samstats.InwardPairs, 8900},
		{samstats.OutwardPairs, 12},
		{samstats.OtherOrientation, 3},
		{"raw total sequences", 20000},
		// Only the integer prefix of a float is captured.
		{"error rate", 1},
	} {
		got, ok := s.Get(tt.label)
		expect.EQ(t, ok, true, tt.label)
		expect.EQ(t, got, tt.want, tt.label)
	}
	_, ok := s.Get("bases duplicated")
	expect.EQ(t, ok, false)
}

func TestParseEmpty(t *testing.T) {
	s, err := samstats.Parse(strings.NewReader(""))
	expect.NoError(t, err)
	expect.EQ(t, len(s), 0)
}
