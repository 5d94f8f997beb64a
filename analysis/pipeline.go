package analysis

import (
	"context"
	"runtime"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	gunsafe "github.com/grailbio/base/unsafe"

	"github.com/lqsae/primerstat/encoding/fastq"
	"github.com/lqsae/primerstat/primer"
)

// progressInterval is the read count between progress log lines.
const progressInterval = 100000

// Unit is one item of work: a single read, or a read pair in paired
// mode.
type Unit struct {
	R1, R2 fastq.Read
	Paired bool
}

// Source yields units of work in stream order. Implementations follow
// the scanner convention: Scan returns false at end of stream or on
// error, and Err distinguishes the two.
type Source interface {
	Scan(u *Unit) bool
	Err() error
}

// ReadSource adapts a fastq.Scanner into a single-end Source.
type ReadSource struct {
	s *fastq.Scanner
}

// NewReadSource returns a Source yielding one Unit per read of s.
func NewReadSource(s *fastq.Scanner) *ReadSource {
	return &ReadSource{s: s}
}

// Scan implements Source.
func (r *ReadSource) Scan(u *Unit) bool {
	u.Paired = false
	return r.s.Scan(&u.R1)
}

// Err implements Source.
func (r *ReadSource) Err() error {
	return r.s.Err()
}

// PairSource adapts a fastq.PairScanner into a paired Source.
type PairSource struct {
	s *fastq.PairScanner
}

// NewPairSource returns a Source yielding one Unit per read pair of s.
func NewPairSource(s *fastq.PairScanner) *PairSource {
	return &PairSource{s: s}
}

// Scan implements Source.
func (p *PairSource) Scan(u *Unit) bool {
	u.Paired = true
	return p.s.Scan(&u.R1, &u.R2)
}

// Err implements Source.
func (p *PairSource) Err() error {
	return p.s.Err()
}

// Result is a completed run: the capped per-read records in stream
// order, plus whole-run statistics.
type Result struct {
	// Records holds the detailed records of the first Opts.MaxOutput
	// units, sorted by stream position.
	Records []Record
	// Stats covers every unit, including those past the record cap.
	Stats Stats
	// Truncated reports that more units were processed than Records
	// retains.
	Truncated bool
}

type batch struct {
	base  uint64 // stream index of units[0]
	units []Unit
}

type batchResult struct {
	recs  []Record
	stats Stats
}

// Run drains src through the merge/classify pipeline and aggregates the
// results. The reader goroutine cuts the stream into Opts.BatchSize
// batches over a bounded channel; Opts.Parallelism workers merge and
// classify them; the calling goroutine folds the per-batch partials.
// Per-unit anomalies degrade to '?' records, but a src error is fatal:
// Run returns it and discards all partial results.
func Run(ctx context.Context, src Source, lib *primer.Library, opts Opts) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if lib == nil || lib.Len() == 0 {
		return nil, errors.E("empty primer library")
	}
	parallelism := opts.Parallelism
	if parallelism == 0 {
		parallelism = runtime.NumCPU()
	}
	var (
		classifier = NewClassifier(lib, opts)
		batchCh    = make(chan batch, 2*parallelism)
		resCh      = make(chan batchResult, parallelism)
		srcErr     error
		workErr    error
	)

	go func() {
		defer close(batchCh)
		var (
			next uint64
			b    = batch{units: make([]Unit, 0, opts.BatchSize)}
			u    Unit
		)
		for src.Scan(&u) {
			b.units = append(b.units, u)
			next++
			if len(b.units) == opts.BatchSize {
				select {
				case batchCh <- b:
				case <-ctx.Done():
					srcErr = ctx.Err()
					return
				}
				b = batch{base: next, units: make([]Unit, 0, opts.BatchSize)}
			}
		}
		if err := src.Err(); err != nil {
			srcErr = err
			return
		}
		if len(b.units) > 0 {
			select {
			case batchCh <- b:
			case <-ctx.Done():
				srcErr = ctx.Err()
			}
		}
	}()

	go func() {
		defer close(resCh)
		workErr = traverse.Each(parallelism, func(_ int) error {
			merger := NewMerger(opts)
			for b := range batchCh {
				if ctx.Err() != nil {
					continue // drain so the reader can finish
				}
				br := batchResult{}
				for k := range b.units {
					u := &b.units[k]
					var rec Record
					if u.Paired {
						mr := merger.Merge(&u.R1, &u.R2)
						if mr.Merged {
							br.stats.MergedPairs++
						}
						rec = classifier.Classify(mr.ID, gunsafe.StringToBytes(mr.Seq))
					} else {
						rec = classifier.Classify(fastq.ID(u.R1.ID), gunsafe.StringToBytes(u.R1.Seq))
					}
					rec.Index = b.base + uint64(k)
					br.stats.Add(rec)
					if rec.Index < uint64(opts.MaxOutput) {
						br.recs = append(br.recs, rec)
					}
				}
				resCh <- br
			}
			return ctx.Err()
		})
	}()

	var (
		records []Record
		stats   Stats
		logged  int
	)
	for br := range resCh {
		stats = stats.Merge(br.stats)
		records = append(records, br.recs...)
		if n := stats.TotalReads / progressInterval; n > logged {
			logged = n
			log.Printf("processed %d reads", stats.TotalReads)
		}
	}
	if srcErr != nil {
		return nil, srcErr
	}
	if workErr != nil {
		return nil, workErr
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Index < records[j].Index })
	return &Result{
		Records:   records,
		Stats:     stats,
		Truncated: stats.TotalReads > opts.MaxOutput,
	}, nil
}
