package analysis

import (
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"

	"github.com/lqsae/primerstat/dna"
	"github.com/lqsae/primerstat/encoding/fastq"
)

// MergeResult is the outcome of combining one read pair into a single
// sequence.
type MergeResult struct {
	// ID is the pair's base identifier with the merge tag appended:
	// "_merged_overlap_<L>" for a consensus overlap of length L,
	// "_merged_concat" for plain concatenation.
	ID string
	// Seq is the combined sequence; Qual its per-base quality.
	Seq, Qual string
	// Merged reports whether a qualifying overlap was used.
	Merged bool
	// Overlap is the consensus overlap length; 0 when !Merged.
	Overlap int
}

// Merger combines read pairs for classification. It reuses internal
// buffers across calls and must not be shared between goroutines; give
// each worker its own.
type Merger struct {
	opts Opts
	rc   []byte // reverse complement of R2
	rq   []byte // R2 quality, reversed
}

// NewMerger returns a Merger configured by opts.
func NewMerger(opts Opts) *Merger {
	return &Merger{opts: opts}
}

// Merge combines r1 and r2 into one sequence. R2 is reverse-complemented
// (its quality reversed alongside), then candidate overlap lengths from
// Opts.MinOverlap up to the shorter read are scored by mismatch rate.
// Among candidates within Opts.MaxMismatchRate the lowest rate wins,
// ties to the longest overlap. Overlapping positions take the base with
// the higher quality, ties to r1. Without a qualifying overlap, or
// without usable qualities, the two sequences are concatenated
// unchanged.
func (m *Merger) Merge(r1, r2 *fastq.Read) MergeResult {
	var (
		s1 = r1.Seq
		q1 = r1.Qual
		n1 = len(s1)
		n2 = len(r2.Seq)
	)
	if cap(m.rc) < n2 {
		m.rc = make([]byte, n2)
		m.rq = make([]byte, n2)
	}
	m.rc = m.rc[:n2]
	m.rq = m.rq[:n2]
	dna.RevComp(m.rc, gunsafe.StringToBytes(r2.Seq))
	haveQual := len(q1) == n1 && len(r2.Qual) == n2
	if haveQual {
		dna.Reverse(m.rq, gunsafe.StringToBytes(r2.Qual))
	} else {
		// Consensus needs qualities on both sides; degrade to
		// concatenation below.
		m.rq = m.rq[:0]
	}

	var (
		bestL, bestMis int
		found          bool
	)
	if haveQual {
		maxL := n1
		if n2 < maxL {
			maxL = n2
		}
		for l := m.opts.MinOverlap; l <= maxL; l++ {
			var mis int
			off := n1 - l
			for k := 0; k < l; k++ {
				if s1[off+k] != m.rc[k] {
					mis++
				}
			}
			if float64(mis) > m.opts.MaxMismatchRate*float64(l) {
				continue
			}
			// Rate comparison by cross multiplication keeps the
			// tie-break exact.
			if !found || mis*bestL < bestMis*l || (mis*bestL == bestMis*l && l > bestL) {
				found, bestMis, bestL = true, mis, l
			}
		}
	}

	base := fastq.BaseID(r1.ID)
	if !found {
		return MergeResult{
			ID:   base + "_merged_concat",
			Seq:  s1 + string(m.rc),
			Qual: q1 + string(m.rq),
		}
	}

	off := n1 - bestL
	seq := make([]byte, 0, n1+n2-bestL)
	qual := make([]byte, 0, n1+n2-bestL)
	seq = append(seq, s1[:off]...)
	qual = append(qual, q1[:off]...)
	for k := 0; k < bestL; k++ {
		if m.rq[k] > q1[off+k] {
			seq = append(seq, m.rc[k])
			qual = append(qual, m.rq[k])
		} else {
			seq = append(seq, s1[off+k])
			qual = append(qual, q1[off+k])
		}
	}
	seq = append(seq, m.rc[bestL:]...)
	qual = append(qual, m.rq[bestL:]...)
	return MergeResult{
		ID:      base + "_merged_overlap_" + strconv.Itoa(bestL),
		Seq:     gunsafe.BytesToString(seq),
		Qual:    gunsafe.BytesToString(qual),
		Merged:  true,
		Overlap: bestL,
	}
}
