// Package analysis implements the primer QC engine: it places library
// primer sites in reads by bounded edit distance, calls strand
// orientation and primer dimers, merges read pairs, and aggregates
// per-sample statistics over a parallel batch pipeline.
package analysis

import (
	gunsafe "github.com/grailbio/base/unsafe"

	"github.com/lqsae/primerstat/align"
	"github.com/lqsae/primerstat/primer"
)

// Match describes the placement of one primer in one sequence.
type Match struct {
	// Name is the primer name; "" when no placement was kept.
	Name string
	// Found reports whether the primer fit within the error budget.
	Found bool
	// Pos is the 0-based start of the placement; -1 when !Found.
	Pos int
	// Errors is the placement's edit distance; -1 when !Found.
	Errors int
	// Trace is the rendered alignment (align.FormatTrace); "" unless
	// requested via Opts.WithAlignment.
	Trace string
}

// noMatch is the reported placement when no primer fits.
var noMatch = Match{Pos: -1, Errors: -1}

// Record is the classification of one read (or merged pair).
type Record struct {
	// ID is the read identifier, without the "@" prefix or header
	// comment.
	ID string
	// Index is the unit's position in the input stream. The pipeline
	// uses it to restore stream order for the capped detailed output.
	Index uint64
	// Length of the analyzed sequence.
	Length int
	// Strand is '+' or '-' when orientation was called, '?' otherwise.
	Strand byte
	// Forward is the left (5'-most) placement of the winning pair,
	// Reverse the right one. Both are not-found sentinels when no pair
	// qualified.
	Forward, Reverse Match
	// Distance is Reverse start minus Forward end: the gap between the
	// two placements, negative when they overlap. Meaningful only when
	// DistanceOK.
	Distance int
	// DistanceOK reports whether Distance was computed.
	DistanceOK bool
	// Dimer reports a qualifying pair closer than Opts.MinDistance.
	Dimer bool
}

// Classifier places one library's primer sites in reads. A Classifier is
// immutable and may be shared by concurrent workers.
type Classifier struct {
	lib  *primer.Library
	opts Opts
}

// NewClassifier returns a Classifier over the given library.
func NewClassifier(lib *primer.Library, opts Opts) *Classifier {
	return &Classifier{lib: lib, opts: opts}
}

type placement struct {
	a  align.Alignment
	ok bool
}

// Classify places every library site in seq on both strands and reports
// the best consistent primer pair.
//
// A read from the plus strand of an amplicon carries the declared site
// sequences as-is; a minus read carries both sites reverse-complemented,
// in mirrored order. Classify therefore probes every ordered pair (X, Y)
// of distinct primers twice: left=X and right=Y as declared (plus), and
// the same with both sites reverse-complemented (minus). A candidate
// qualifies when both sites are found and the left one starts strictly
// before the right one. The lowest total error count wins; ties go to
// the earliest candidate in declaration order, and a tie between
// opposite orientations keeps the winning measurements but reports the
// strand as '?'.
func (c *Classifier) Classify(id string, seq []byte) Record {
	rec := Record{
		ID:      id,
		Length:  len(seq),
		Strand:  '?',
		Forward: noMatch,
		Reverse: noMatch,
	}
	n := c.lib.Len()
	plus := make([]placement, n)
	minus := make([]placement, n)
	for i := 0; i < n; i++ {
		p := c.lib.At(i)
		plus[i].a, plus[i].ok = align.Infix(gunsafe.StringToBytes(p.Seq), seq, c.opts.MaxErrors)
		minus[i].a, minus[i].ok = align.Infix(gunsafe.StringToBytes(p.RC), seq, c.opts.MaxErrors)
	}
	var (
		found       bool
		ambiguous   bool
		strand      byte
		score       int
		left, right align.Alignment
		leftName    string
		rightName   string
		leftPat     string
		rightPat    string
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			pi, pj := c.lib.At(i), c.lib.At(j)
			for _, cand := range [2]struct {
				strand byte
				l, r   placement
				lp, rp string
			}{
				{'+', plus[i], plus[j], pi.Seq, pj.Seq},
				{'-', minus[i], minus[j], pi.RC, pj.RC},
			} {
				if !cand.l.ok || !cand.r.ok || cand.l.a.Start >= cand.r.a.Start {
					continue
				}
				s := cand.l.a.Distance + cand.r.a.Distance
				switch {
				case !found || s < score:
					found, score, strand = true, s, cand.strand
					left, right = cand.l.a, cand.r.a
					leftName, rightName = pi.Name, pj.Name
					leftPat, rightPat = cand.lp, cand.rp
					ambiguous = false
				case s == score && cand.strand != strand:
					ambiguous = true
				}
			}
		}
	}
	if !found {
		return rec
	}
	rec.Strand = strand
	if ambiguous {
		rec.Strand = '?'
	}
	rec.Forward = Match{Name: leftName, Found: true, Pos: left.Start, Errors: left.Distance}
	rec.Reverse = Match{Name: rightName, Found: true, Pos: right.Start, Errors: right.Distance}
	rec.Distance = right.Start - left.End
	rec.DistanceOK = true
	rec.Dimer = rec.Distance < c.opts.MinDistance
	if c.opts.WithAlignment {
		rec.Forward.Trace = align.FormatTrace(gunsafe.StringToBytes(leftPat), seq, left)
		rec.Reverse.Trace = align.FormatTrace(gunsafe.StringToBytes(rightPat), seq, right)
	}
	return rec
}
