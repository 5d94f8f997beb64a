package analysis

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Opts controls primer matching, pair merging, and pipeline shape. The
// zero value is not usable; start from DefaultOpts.
type Opts struct {
	// MaxErrors is the edit-distance budget (substitutions, insertions,
	// deletions) for placing one primer in one sequence.
	MaxErrors int
	// MinDistance is the dimer threshold. A read whose primer placements
	// leave a gap shorter than this many bases is flagged as a dimer.
	MinDistance int
	// MaxOutput caps the number of per-read records retained for the
	// detailed report. Reads past the cap still count toward statistics.
	MaxOutput int
	// MinOverlap is the shortest overlap length considered when merging a
	// read pair.
	MinOverlap int
	// MaxMismatchRate is the largest tolerated fraction of mismatched
	// bases within a candidate overlap.
	MaxMismatchRate float64
	// BatchSize is the number of reads (or pairs) handed to a worker at a
	// time.
	BatchSize int
	// Parallelism is the worker count. Zero means one worker per CPU.
	Parallelism int
	// WithAlignment records a rendered alignment per primer placement for
	// the detailed report. Costs one traceback per reported match.
	WithAlignment bool
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MaxErrors:       3,     // -max-errors
	MinDistance:     100,   // -min-distance
	MaxOutput:       10000, // -max-output
	MinOverlap:      10,    // -min-overlap
	MaxMismatchRate: 0.1,   // -max-mismatch-rate
	BatchSize:       1000,  // -batch-size
	Parallelism:     0,     // -parallelism, 0 = all cores
	WithAlignment:   false, // -with-alignment
}

// Validate returns an error describing the first invalid option value,
// if any.
func (o Opts) Validate() error {
	switch {
	case o.MaxErrors < 0:
		return errors.E(fmt.Sprintf("max-errors must be >= 0, got %d", o.MaxErrors))
	case o.MinDistance < 0:
		return errors.E(fmt.Sprintf("min-distance must be >= 0, got %d", o.MinDistance))
	case o.MaxOutput <= 0:
		return errors.E(fmt.Sprintf("max-output must be > 0, got %d", o.MaxOutput))
	case o.MinOverlap <= 0:
		return errors.E(fmt.Sprintf("min-overlap must be > 0, got %d", o.MinOverlap))
	case o.MaxMismatchRate < 0 || o.MaxMismatchRate > 1:
		return errors.E(fmt.Sprintf("max-mismatch-rate must be in [0, 1], got %v", o.MaxMismatchRate))
	case o.BatchSize <= 0:
		return errors.E(fmt.Sprintf("batch-size must be > 0, got %d", o.BatchSize))
	case o.Parallelism < 0:
		return errors.E(fmt.Sprintf("parallelism must be >= 0, got %d", o.Parallelism))
	}
	return nil
}
