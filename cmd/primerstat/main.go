package main

//
// primerstat
//
// Scans amplicon sequencing reads for the primer pairs of a library and
// reports per-read placements plus whole-run statistics.
//
// Example 1: single-end reads
//
//    primerstat -r1 sample.fastq.gz -primers primers.tsv -sample sampleA
//
// Example 2: paired-end reads, merged by overlap before matching
//
//    primerstat -r1 r1.fastq.gz -r2 r2.fastq.gz -primers primers.tsv -sample sampleA

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"

	"github.com/lqsae/primerstat/analysis"
	"github.com/lqsae/primerstat/encoding/fastq"
	"github.com/lqsae/primerstat/primer"
)

// Collection of options set via cmdline flags.
type mainFlags struct {
	r1, r2      string
	primersPath string
	sample      string
	outputDir   string
	gzipOutput  bool
}

// openFASTQ opens path and unwraps compression based on the path suffix.
func openFASTQ(ctx context.Context, path string) (io.Reader, file.File) {
	in, err := file.Open(ctx, path)
	if err != nil {
		log.Panicf("open %v: %v", path, err)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	return r, in
}

func writeRecords(ctx context.Context, path string, res *analysis.Result, opts analysis.Opts, gzipOutput bool) {
	out, err := file.Create(ctx, path)
	if err != nil {
		log.Panicf("create %v: %v", path, err)
	}
	w := io.Writer(out.Writer(ctx))
	var gz *gzip.Writer
	if gzipOutput {
		gz = gzip.NewWriter(w)
		w = gz
	}
	once := errors.Once{}
	once.Set(analysis.WriteRecords(w, res, opts.WithAlignment))
	if gz != nil {
		once.Set(gz.Close())
	}
	once.Set(out.Close(ctx))
	if err := once.Err(); err != nil {
		log.Panicf("write %v: %v", path, err)
	}
	log.Printf("Wrote %d read records to %s", len(res.Records), path)
	if res.Truncated {
		log.Printf("Read records truncated to the first %d reads; statistics cover all reads", opts.MaxOutput)
	}
}

func writeSummary(ctx context.Context, path string, sum analysis.Summary) {
	out, err := file.Create(ctx, path)
	if err != nil {
		log.Panicf("create %v: %v", path, err)
	}
	once := errors.Once{}
	once.Set(analysis.WriteSummary(out.Writer(ctx), sum))
	once.Set(out.Close(ctx))
	if err := once.Err(); err != nil {
		log.Panicf("write %v: %v", path, err)
	}
	log.Printf("Wrote statistics to %s", path)
}

func run(ctx context.Context, flags mainFlags, opts analysis.Opts) {
	lib, err := primer.Load(ctx, flags.primersPath)
	if err != nil {
		log.Panic(err)
	}
	log.Printf("Loaded %d primers from %s", lib.Len(), flags.primersPath)

	r1, in1 := openFASTQ(ctx, flags.r1)
	var (
		src analysis.Source
		in2 file.File
	)
	if flags.r2 != "" {
		var r2 io.Reader
		r2, in2 = openFASTQ(ctx, flags.r2)
		src = analysis.NewPairSource(fastq.NewPairScanner(r1, r2, fastq.ID|fastq.Seq|fastq.Qual))
	} else {
		src = analysis.NewReadSource(fastq.NewScanner(r1, fastq.ID|fastq.Seq|fastq.Qual))
	}

	res, err := analysis.Run(ctx, src, lib, opts)
	once := errors.Once{}
	once.Set(in1.Close(ctx))
	if in2 != nil {
		once.Set(in2.Close(ctx))
	}
	if err != nil {
		log.Panic(err)
	}
	if err := once.Err(); err != nil {
		log.Panicf("close inputs: %v", err)
	}

	if err := os.MkdirAll(flags.outputDir, 0775); err != nil {
		log.Panic(err)
	}
	tsvPath := filepath.Join(flags.outputDir, flags.sample+"_primer_analysis.tsv")
	if flags.gzipOutput {
		tsvPath += ".gz"
	}
	writeRecords(ctx, tsvPath, res, opts, flags.gzipOutput)

	sum := res.Stats.Summarize(flags.sample)
	writeSummary(ctx, filepath.Join(flags.outputDir, flags.sample+"_statistics.json"), sum)

	log.Printf("Sample %s: %d reads, both primers in %d (%.2f%%), strand +/-/? %d/%d/%d, dimers %d (%.2f%%)",
		sum.SampleName, sum.TotalReads, sum.BothPrimersFound, sum.SuccessRate,
		sum.PlusStrand, sum.MinusStrand, sum.TotalReads-sum.PlusStrand-sum.MinusStrand,
		sum.DimerCount, sum.DimerRate)
	if res.Stats.MergedPairs > 0 {
		log.Printf("Merged %d of %d pairs by overlap", res.Stats.MergedPairs, sum.TotalReads)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `primerstat scans amplicon sequencing reads for the primers of a library
and reports, per read, which primer pair was found, on which strand, and
whether the pair sits close enough to be a primer dimer. Paired-end input
is merged by overlap before matching.

Outputs, under -output-dir:
  <sample>_primer_analysis.tsv[.gz]   per-read records
  <sample>_statistics.json            whole-run statistics

Examples:

1. Single-end reads

    primerstat -r1 sample.fastq.gz -primers primers.tsv -sample sampleA

2. Paired-end reads with alignment rendering

    primerstat -r1 r1.fastq.gz -r2 r2.fastq.gz -primers primers.tsv \
        -sample sampleA -with-alignment

Flags:`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage

	opts := analysis.DefaultOpts
	flags := mainFlags{}
	flag.StringVar(&flags.r1, "r1", "", "FASTQ file of reads, or of R1 reads in paired mode. Required.")
	flag.StringVar(&flags.r2, "r2", "", "FASTQ file of R2 reads. If set, pairs are merged by overlap before matching.")
	flag.StringVar(&flags.primersPath, "primers", "", "TSV file of primer names and sequences. Required.")
	flag.StringVar(&flags.sample, "sample", "", "Sample name used in output filenames and the summary. Required.")
	flag.StringVar(&flags.outputDir, "output-dir", "output", "Directory for the report files.")
	flag.BoolVar(&flags.gzipOutput, "gzip-output", false, "Compress the per-read TSV report.")

	flag.IntVar(&opts.MaxErrors, "max-errors", analysis.DefaultOpts.MaxErrors,
		"Edit-distance budget (substitutions, insertions, deletions) for placing one primer.")
	flag.IntVar(&opts.MinDistance, "min-distance", analysis.DefaultOpts.MinDistance,
		"Gap between primer placements below which a read is called a dimer.")
	flag.IntVar(&opts.MaxOutput, "max-output", analysis.DefaultOpts.MaxOutput,
		"Upper limit on reads written to the per-read report. Statistics always cover all reads.")
	flag.IntVar(&opts.MinOverlap, "min-overlap", analysis.DefaultOpts.MinOverlap,
		"Shortest overlap considered when merging a read pair.")
	flag.Float64Var(&opts.MaxMismatchRate, "max-mismatch-rate", analysis.DefaultOpts.MaxMismatchRate,
		"Largest tolerated mismatch fraction within a pair overlap.")
	flag.IntVar(&opts.BatchSize, "batch-size", analysis.DefaultOpts.BatchSize,
		"Reads handed to a worker at a time.")
	flag.IntVar(&opts.Parallelism, "parallelism", analysis.DefaultOpts.Parallelism,
		"Worker count. 0 means one worker per CPU.")
	flag.BoolVar(&opts.WithAlignment, "with-alignment", analysis.DefaultOpts.WithAlignment,
		"Render primer-to-read alignments in the per-read report.")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if flags.r1 == "" || flags.primersPath == "" || flags.sample == "" {
		log.Fatal("-r1, -primers and -sample are required")
	}
	run(ctx, flags, opts)
	log.Printf("All done")
}
