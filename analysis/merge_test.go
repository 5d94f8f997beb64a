package analysis

import (
	"testing"

	"github.com/grailbio/testutil/expect"

	"github.com/lqsae/primerstat/encoding/fastq"
)

func TestMergeOverlap(t *testing.T) {
	opts := DefaultOpts
	opts.MinOverlap = 4
	opts.MaxMismatchRate = 0
	m := NewMerger(opts)

	// rc(r2) = "ACGTTTTT"; the last four bases of r1 match its head exactly
	// and every longer overlap has mismatches.
	r1 := &fastq.Read{ID: "@p/1", Seq: "ACGTACGT", Qual: "IIIIIIII"}
	r2 := &fastq.Read{ID: "@p/2", Seq: "AAAAACGT", Qual: "IIIIIIII"}
	res := m.Merge(r1, r2)
	expect.True(t, res.Merged)
	expect.EQ(t, res.Overlap, 4)
	expect.EQ(t, res.ID, "p_merged_overlap_4")
	expect.EQ(t, res.Seq, "ACGTACGTTTTT")
	expect.EQ(t, res.Qual, "IIIIIIIIIIII")
}

func TestMergeConsensus(t *testing.T) {
	opts := DefaultOpts
	opts.MinOverlap = 4
	opts.MaxMismatchRate = 0.5
	m := NewMerger(opts)

	// rc(r2) = "CACTGGGG". The best overlap is the last four bases of r1
	// against "CACT": two disagreements. At the first, r2 carries the higher
	// quality and its base wins; at the second the qualities tie and r1's
	// base is kept.
	r1 := &fastq.Read{ID: "@q", Seq: "AAAACCCC", Qual: "IIIIIIII"}
	r2 := &fastq.Read{ID: "@q", Seq: "CCCCAGTG", Qual: "IIIIIIJI"}
	res := m.Merge(r1, r2)
	expect.True(t, res.Merged)
	expect.EQ(t, res.Overlap, 4)
	expect.EQ(t, res.ID, "q_merged_overlap_4")
	expect.EQ(t, res.Seq, "AAAACACCGGGG")
	expect.EQ(t, res.Qual, "IIIIIJIIIIII")
}

func TestMergeBestRate(t *testing.T) {
	opts := DefaultOpts
	opts.MinOverlap = 4
	opts.MaxMismatchRate = 0.5
	m := NewMerger(opts)

	// rc(r2) = "GCGTTTTT". Both L=4 (exact) and L=6 (three mismatches,
	// rate 0.5) qualify; the lower mismatch rate must win even though the
	// overlap is shorter.
	r1 := &fastq.Read{ID: "@b", Seq: "AAACGCGT", Qual: "IIIIIIII"}
	r2 := &fastq.Read{ID: "@b", Seq: "AAAAACGC", Qual: "IIIIIIII"}
	res := m.Merge(r1, r2)
	expect.True(t, res.Merged)
	expect.EQ(t, res.Overlap, 4)
	expect.EQ(t, res.Seq, "AAACGCGTTTTT")
}

func TestMergeTieToLongest(t *testing.T) {
	opts := DefaultOpts
	opts.MinOverlap = 4
	opts.MaxMismatchRate = 0
	m := NewMerger(opts)

	// rc(r2) = "ACGTACGT": both L=4 and L=8 are exact. Equal rates resolve
	// to the longer overlap.
	r1 := &fastq.Read{ID: "@t/1", Seq: "ACGTACGT", Qual: "IIIIIIII"}
	r2 := &fastq.Read{ID: "@t/2", Seq: "ACGTACGT", Qual: "IIIIIIII"}
	res := m.Merge(r1, r2)
	expect.True(t, res.Merged)
	expect.EQ(t, res.Overlap, 8)
	expect.EQ(t, res.ID, "t_merged_overlap_8")
	expect.EQ(t, res.Seq, "ACGTACGT")
	expect.EQ(t, res.Qual, "IIIIIIII")
}

func TestMergeConcatFallback(t *testing.T) {
	opts := DefaultOpts
	opts.MinOverlap = 4
	opts.MaxMismatchRate = 0
	m := NewMerger(opts)

	// rc(r2) = "GGGGGGGG": no overlap qualifies, so the halves are joined
	// end to end.
	r1 := &fastq.Read{ID: "@c/1", Seq: "AAAAAAAA", Qual: "IIIIIIII"}
	r2 := &fastq.Read{ID: "@c/2", Seq: "CCCCCCCC", Qual: "JJJJJJJJ"}
	res := m.Merge(r1, r2)
	expect.False(t, res.Merged)
	expect.EQ(t, res.Overlap, 0)
	expect.EQ(t, res.ID, "c_merged_concat")
	expect.EQ(t, res.Seq, "AAAAAAAAGGGGGGGG")
	expect.EQ(t, res.Qual, "IIIIIIIIJJJJJJJJ")
	expect.EQ(t, len(res.Seq), len(r1.Seq)+len(r2.Seq))
}

func TestMergeRaggedQuality(t *testing.T) {
	opts := DefaultOpts
	opts.MinOverlap = 4
	m := NewMerger(opts)

	// The sequences overlap perfectly, but r2's quality string is short.
	// Without usable qualities there is no consensus to call, so the pair
	// degrades to concatenation and only r1's quality is emitted.
	r1 := &fastq.Read{ID: "@r", Seq: "ACGTACGT", Qual: "IIIIIIII"}
	r2 := &fastq.Read{ID: "@r", Seq: "ACGTACGT", Qual: "III"}
	res := m.Merge(r1, r2)
	expect.False(t, res.Merged)
	expect.EQ(t, res.ID, "r_merged_concat")
	expect.EQ(t, res.Seq, "ACGTACGTACGTACGT")
	expect.EQ(t, res.Qual, "IIIIIIII")
}

func TestMergeEmptySides(t *testing.T) {
	opts := DefaultOpts
	m := NewMerger(opts)

	full := &fastq.Read{ID: "@e/1", Seq: "ACGT", Qual: "IIII"}
	empty := &fastq.Read{ID: "@e/2"}

	res := m.Merge(full, empty)
	expect.False(t, res.Merged)
	expect.EQ(t, res.ID, "e_merged_concat")
	expect.EQ(t, res.Seq, "ACGT")
	expect.EQ(t, res.Qual, "IIII")

	res = m.Merge(empty, full)
	expect.False(t, res.Merged)
	expect.EQ(t, res.Seq, "ACGT")

	res = m.Merge(empty, empty)
	expect.EQ(t, res.Seq, "")
	expect.EQ(t, res.ID, "e_merged_concat")
}

func TestMergeScratchReuse(t *testing.T) {
	opts := DefaultOpts
	opts.MinOverlap = 4
	opts.MaxMismatchRate = 0
	m := NewMerger(opts)

	// Alternate long and short mates through one merger; the scratch
	// buffers shrink and grow without leaking state between calls.
	r1 := &fastq.Read{ID: "@s/1", Seq: "ACGTACGT", Qual: "IIIIIIII"}
	long := &fastq.Read{ID: "@s/2", Seq: "AAAAACGT", Qual: "IIIIIIII"}
	short := &fastq.Read{ID: "@s/2", Seq: "ACGT", Qual: "IIII"}

	res := m.Merge(r1, long)
	expect.EQ(t, res.Seq, "ACGTACGTTTTT")
	res = m.Merge(r1, short)
	expect.EQ(t, res.Seq, "ACGTACGT")
	expect.EQ(t, res.Overlap, 4)
	res = m.Merge(r1, long)
	expect.EQ(t, res.Seq, "ACGTACGTTTTT")
}
