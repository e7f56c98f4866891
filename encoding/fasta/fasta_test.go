package fasta_test

import (
	"strings"
	"testing"

	"github.com/grailbio/asmstats/encoding/fasta"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
)

const fastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\r\n" + "ACGT\r\n" + "\n" + "ACGT\n"

func TestGet(t *testing.T) {
	tests := []struct {
		seq   string
		start uint64
		end   uint64
		want  string
		err   bool
	}{
		{"seq1", 1, 2, "C", false},
		{"seq1", 1, 6, "CGTAC", false},
		{"seq1", 0, 12, "ACGTACGTACGT", false},
		{"seq1", 10, 12, "GT", false},
		{"seq2", 0, 8, "ACGTACGT", false},
		{"seq2", 2, 5, "GTA", false},
		{"seq0", 0, 1, "", true},
		{"seq1", 10, 13, "", true},
		{"seq1", 4, 3, "", true},
	}
	f, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	for _, tt := range tests {
		got, err := f.Get(tt.seq, tt.start, tt.end)
		if (err != nil) != tt.err {
			t.Errorf("%s [%d,%d): unexpected error %v", tt.seq, tt.start, tt.end, err)
		}
		if got != tt.want {
			t.Errorf("unexpected sequence: want %s, got %s", tt.want, got)
		}
	}
}

func TestLength(t *testing.T) {
	f, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	n, err := f.Len("seq1")
	assert.NoError(t, err)
	assert.EQ(t, n, uint64(12))
	n, err = f.Len("seq2")
	assert.NoError(t, err)
	assert.EQ(t, n, uint64(8))
	_, err = f.Len("seq0")
	assert.True(t, err != nil)
}

func TestSeqNames(t *testing.T) {
	f, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	assert.EQ(t, f.SeqNames(), []string{"seq1", "seq2"})
}

func TestSingle(t *testing.T) {
	name, seq, err := fasta.Single(strings.NewReader(">contig1 assembled\nACGTN\nNNac\n"))
	assert.NoError(t, err)
	assert.EQ(t, name, "contig1")
	assert.EQ(t, seq, "ACGTNNNac")

	_, seq, err = fasta.Single(strings.NewReader(">spaced\nAC GT\n A C\n"))
	assert.NoError(t, err)
	assert.EQ(t, seq, "ACGTAC")

	name, seq, err = fasta.Single(strings.NewReader(">empty\n"))
	assert.NoError(t, err)
	assert.EQ(t, name, "empty")
	assert.EQ(t, seq, "")

	_, _, err = fasta.Single(strings.NewReader(fastaData))
	assert.True(t, errors.Is(errors.Invalid, err))
}

func TestMalformed(t *testing.T) {
	for _, data := range []string{
		"",
		"\n\n",
		"ACGT\n>seq1\nACGT\n",
		">seq1\nAC\n>seq1\nGT\n",
	} {
		_, err := fasta.New(strings.NewReader(data))
		assert.True(t, errors.Is(errors.Invalid, err), "data %q: %v", data, err)
	}
}
