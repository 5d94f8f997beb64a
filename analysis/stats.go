package analysis

import "sort"

// PrimerPair keys the per-pair counters: the forward and reverse primer
// names of a read where both were found.
type PrimerPair struct {
	Forward, Reverse string
}

// Stats holds whole-run counters. Batches accumulate into private Stats
// values via Add; the collector folds them with Merge.
type Stats struct {
	// TotalReads counts every classified unit: one read, or one merged
	// pair.
	TotalReads int
	// BothPrimersFound counts units where a qualifying primer pair was
	// placed.
	BothPrimersFound int
	// PlusStrand and MinusStrand count units by called orientation.
	// Units with ambiguous or undetermined orientation count in neither.
	PlusStrand  int
	MinusStrand int
	// DimerCount counts units flagged as primer dimers.
	DimerCount int
	// MergedPairs counts pairs joined through a qualifying overlap
	// rather than concatenation. Zero in single-end runs.
	MergedPairs int
	// PrimerPairs counts units per (forward, reverse) primer pair. The
	// counts sum to BothPrimersFound.
	PrimerPairs map[PrimerPair]int
}

// Add accumulates one classified record.
func (s *Stats) Add(r Record) {
	s.TotalReads++
	switch r.Strand {
	case '+':
		s.PlusStrand++
	case '-':
		s.MinusStrand++
	}
	if r.Forward.Found && r.Reverse.Found {
		s.BothPrimersFound++
		if s.PrimerPairs == nil {
			s.PrimerPairs = make(map[PrimerPair]int)
		}
		s.PrimerPairs[PrimerPair{r.Forward.Name, r.Reverse.Name}]++
	}
	if r.Dimer {
		s.DimerCount++
	}
}

// Merge adds the field values of the two Stats objects and creates new
// Stats. Neither operand is modified, so partial Stats may be merged in
// any order from a single combining goroutine.
func (s Stats) Merge(o Stats) Stats {
	s.TotalReads += o.TotalReads
	s.BothPrimersFound += o.BothPrimersFound
	s.PlusStrand += o.PlusStrand
	s.MinusStrand += o.MinusStrand
	s.DimerCount += o.DimerCount
	s.MergedPairs += o.MergedPairs
	if s.PrimerPairs != nil || o.PrimerPairs != nil {
		m := make(map[PrimerPair]int, len(s.PrimerPairs)+len(o.PrimerPairs))
		for k, v := range s.PrimerPairs {
			m[k] = v
		}
		for k, v := range o.PrimerPairs {
			m[k] += v
		}
		s.PrimerPairs = m
	}
	return s
}

// PrimerPairStat is one primer pair's share of the run in the finalized
// summary.
type PrimerPairStat struct {
	ForwardPrimer string  `json:"forward_primer"`
	ReversePrimer string  `json:"reverse_primer"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
}

// Summary is the reportable form of Stats for one sample. Rates and
// percentages are percent values in [0, 100].
type Summary struct {
	SampleName       string           `json:"sample_name"`
	TotalReads       int              `json:"total_reads"`
	BothPrimersFound int              `json:"both_primers_found"`
	SuccessRate      float64          `json:"success_rate"`
	PlusStrand       int              `json:"plus_strand"`
	MinusStrand      int              `json:"minus_strand"`
	DimerCount       int              `json:"dimer_count"`
	DimerRate        float64          `json:"dimer_rate"`
	PrimerPairs      []PrimerPairStat `json:"primer_pairs"`
}

// Summarize finalizes the counters into a Summary. Primer pairs are
// ordered by descending count, ties by name, so the report is
// deterministic. A zero-read run reports zero rates.
func (s Stats) Summarize(sampleName string) Summary {
	sum := Summary{
		SampleName:       sampleName,
		TotalReads:       s.TotalReads,
		BothPrimersFound: s.BothPrimersFound,
		PlusStrand:       s.PlusStrand,
		MinusStrand:      s.MinusStrand,
		DimerCount:       s.DimerCount,
		PrimerPairs:      []PrimerPairStat{},
	}
	if s.TotalReads == 0 {
		return sum
	}
	sum.SuccessRate = 100 * float64(s.BothPrimersFound) / float64(s.TotalReads)
	sum.DimerRate = 100 * float64(s.DimerCount) / float64(s.TotalReads)
	for pair, n := range s.PrimerPairs {
		sum.PrimerPairs = append(sum.PrimerPairs, PrimerPairStat{
			ForwardPrimer: pair.Forward,
			ReversePrimer: pair.Reverse,
			Count:         n,
			Percentage:    100 * float64(n) / float64(s.TotalReads),
		})
	}
	sort.Slice(sum.PrimerPairs, func(i, j int) bool {
		pi, pj := sum.PrimerPairs[i], sum.PrimerPairs[j]
		if pi.Count != pj.Count {
			return pi.Count > pj.Count
		}
		if pi.ForwardPrimer != pj.ForwardPrimer {
			return pi.ForwardPrimer < pj.ForwardPrimer
		}
		return pi.ReversePrimer < pj.ReversePrimer
	})
	return sum
}
