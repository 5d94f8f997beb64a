package fastq

import (
	"bufio"
	"io"
)

// Writer is a FASTQ file writer. Writes are buffered; the caller must
// call Flush after the last record.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes the read r in four-line FASTQ format. Reads scanned
// without the Unk field get a plain "+" separator line. An error is
// returned if the write failed.
func (w *Writer) Write(r *Read) error {
	sep := r.Unk
	if sep == "" {
		sep = "+"
	}
	w.writeln(r.ID)
	w.writeln(r.Seq)
	w.writeln(sep)
	w.writeln(r.Qual)
	return w.err
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	if _, w.err = w.w.WriteString(line); w.err == nil {
		w.err = w.w.WriteByte('\n')
	}
}

// Flush flushes any buffered records to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
