// Package fasta parses FASTA-formatted sequence data. FASTA files
// consist of a number of named sequences whose bases may be split across
// any number of lines:
//
//	>P1
//	ACGTAC
//	GAGGAC
//	>P2 forward primer
//	ACGT
//
// A sequence name is the stretch of characters immediately after '>' and
// up to the first whitespace; any text after that is a description and is
// ignored.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Record is one named sequence, bases joined across line breaks.
type Record struct {
	Name string
	Seq  string
}

// Read parses the records of r in file order. Blank lines are skipped
// and CRLF line endings are accepted. Sequence data before the first
// header is an error, as is a header without a name. Read does not
// police duplicate names or sequence alphabets; callers validate
// records against their own rules.
func Read(r io.Reader) ([]Record, error) {
	var (
		recs    []Record
		seq     strings.Builder
		name    string
		started bool
		line    int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1024*1024)
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if len(text) == 0 {
			continue
		}
		if text[0] == '>' {
			if started {
				recs = append(recs, Record{Name: name, Seq: seq.String()})
				seq.Reset()
			}
			name = text[1:]
			if i := strings.IndexAny(name, " \t"); i >= 0 {
				name = name[:i]
			}
			if name == "" {
				return nil, errors.Errorf("line %d: FASTA header without a name", line)
			}
			started = true
			continue
		}
		if !started {
			return nil, errors.Errorf("line %d: sequence data before first FASTA header", line)
		}
		seq.WriteString(text)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read FASTA data")
	}
	if started {
		recs = append(recs, Record{Name: name, Seq: seq.String()})
	}
	return recs, nil
}
