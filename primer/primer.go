// Package primer loads and validates primer libraries.
//
// A library is an ordered list of named primer sites as they read on the
// plus strand of an amplicon. Declaration order is significant: downstream
// consumers break scoring ties in favor of earlier entries.
package primer

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/lqsae/primerstat/dna"
	"github.com/lqsae/primerstat/encoding/fasta"
)

// Primer is one library entry. Seq is the site sequence, upper-case
// A/C/G/T/N. RC is the precomputed reverse complement of Seq; minus-strand
// probes use it on every read.
type Primer struct {
	Name string
	Seq  string
	RC   string
}

// Library is an immutable ordered set of primers with unique names.
type Library struct {
	primers []Primer
	index   map[string]int
}

// Len returns the number of primers.
func (l *Library) Len() int { return len(l.primers) }

// At returns the i'th primer in declaration order.
func (l *Library) At(i int) Primer { return l.primers[i] }

// Lookup returns the primer with the given name.
func (l *Library) Lookup(name string) (Primer, bool) {
	i, ok := l.index[name]
	if !ok {
		return Primer{}, false
	}
	return l.primers[i], true
}

// Parse builds a Library from primer text in either of two formats,
// detected by the first non-blank byte:
//
//   - TSV: one primer per line, name and sequence in the first two
//     tab-separated columns. Blank lines and lines starting with '#' are
//     ignored.
//   - FASTA, when the text starts with '>'.
//
// A UTF-8 BOM is ignored. Lower-case bases are accepted and upper-cased.
// Entries with a missing field or a non-ACGTN sequence are skipped with a
// warning; primer sheets tend to be hand-edited and a single bad row
// should not sink a run. Duplicate names and an empty result are errors.
func Parse(data []byte) (*Library, error) {
	lib := &Library{index: map[string]int{}}
	text := strings.TrimPrefix(string(data), "\ufeff")
	var err error
	if isFasta(text) {
		err = lib.addFasta(text)
	} else {
		err = lib.addTSV(text)
	}
	if err != nil {
		return nil, err
	}
	if len(lib.primers) == 0 {
		return nil, errors.New("no usable primers in input")
	}
	return lib, nil
}

func isFasta(text string) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return text[i] == '>'
		}
	}
	return false
}

// add validates one entry and appends it. Invalid entries are skipped
// with a warning; a duplicate name is an error.
func (l *Library) add(where, name, rawSeq string) error {
	name = strings.TrimSpace(name)
	seq := strings.ToUpper(strings.TrimSpace(rawSeq))
	if name == "" || seq == "" || !dna.IsACGTN(seq) {
		log.Error.Printf("%s: invalid primer %q %q; skipping", where, name, rawSeq)
		return nil
	}
	if _, ok := l.index[name]; ok {
		return errors.Errorf("%s: duplicate name %q", where, name)
	}
	l.index[name] = len(l.primers)
	l.primers = append(l.primers, Primer{Name: name, Seq: seq, RC: dna.RevCompString(seq)})
	return nil
}

func (l *Library) addTSV(text string) error {
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if t := strings.TrimSpace(line); t == "" || t[0] == '#' {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			log.Error.Printf("primer line %d: want name<TAB>sequence, got %q; skipping", lineNo+1, line)
			continue
		}
		if err := l.add(fmt.Sprintf("primer line %d", lineNo+1), parts[0], parts[1]); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) addFasta(text string) error {
	recs, err := fasta.Read(strings.NewReader(text))
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := l.add("primer "+rec.Name, rec.Name, rec.Seq); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a primer sheet from path, TSV or FASTA, decompressing based
// on the path suffix. The path may name any medium the file package
// supports.
func Load(ctx context.Context, path string) (*Library, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open primers %s", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	data, err := ioutil.ReadAll(r)
	if cerr := in.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read primers %s", path)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse primers %s", path)
	}
	return lib, nil
}
