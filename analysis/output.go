package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// recordHeader lists the detailed-report columns in order. The two
// alignment columns are appended when traces are requested.
const recordHeader = "Read_ID\tLength\tStrand\tF_Primer\tR_Primer\t" +
	"F_Found\tF_Pos\tF_Errors\tR_Found\tR_Pos\tR_Errors\tDistance\tIs_Dimer"

// WriteRecords writes the retained records of res as the detailed TSV
// report. Absent names, positions, error counts, distances and traces
// are rendered as "-"; booleans as "true"/"false". withTrace appends
// the F_Alignment and R_Alignment columns. A truncated result gets a
// trailing "#" comment line stating how many reads the rows cover.
func WriteRecords(w io.Writer, res *Result, withTrace bool) error {
	tw := tsv.NewWriter(w)
	tw.WriteString(recordHeader)
	if withTrace {
		tw.WriteString("F_Alignment\tR_Alignment")
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i := range res.Records {
		r := &res.Records[i]
		tw.WriteString(r.ID)
		tw.WriteUint32(uint32(r.Length))
		tw.WriteByte(r.Strand)
		tw.WriteString(dash(r.Forward.Name))
		tw.WriteString(dash(r.Reverse.Name))
		writeMatch(tw, r.Forward)
		writeMatch(tw, r.Reverse)
		if r.DistanceOK {
			tw.WriteString(strconv.Itoa(r.Distance))
		} else {
			tw.WriteString("-")
		}
		tw.WriteString(strconv.FormatBool(r.Dimer))
		if withTrace {
			tw.WriteString(dash(r.Forward.Trace))
			tw.WriteString(dash(r.Reverse.Trace))
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	if res.Truncated {
		tw.WriteString(fmt.Sprintf("# truncated: first %d of %d reads", len(res.Records), res.Stats.TotalReads))
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeMatch(tw *tsv.Writer, m Match) {
	tw.WriteString(strconv.FormatBool(m.Found))
	if m.Found {
		tw.WriteUint32(uint32(m.Pos))
		tw.WriteUint32(uint32(m.Errors))
	} else {
		tw.WriteString("-")
		tw.WriteString("-")
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WriteSummary writes s as indented JSON.
func WriteSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
