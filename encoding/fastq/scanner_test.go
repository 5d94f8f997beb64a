package fastq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const fq = `@M03158:22:000000000-BV2CJ:1:1101:15590:1334 1:N:0:ATCACG
ATCGATCGAAGGTTCCGGTTAAGC
+
AAAAAEEEEEEEEEEEEEEEE#EE
@M03158:22:000000000-BV2CJ:1:1101:14471:1337 1:N:0:ATCACG
GCTTAACCGGAACCTTCGATCGAT
+
EEEEEAEEEEEEEEEE/EEEEEEE
@M03158:22:000000000-BV2CJ:1:1101:18075:1342 1:N:0:ATCACG
TTACGGATTCAAGCCTGGTAACGA
+
AAAAAEEEEEE#EEEEEEEEEEEE
@M03158:22:000000000-BV2CJ:1:1101:12116:1344 1:N:0:ATCACG
CCGGTTAACGGCTTAAGGCCTTAA
+
EEEEEEEEEEEEEEEEEEEEEEEE
`

func stringScanner(s string) *Scanner {
	return NewScanner(bytes.NewReader([]byte(s)), All)
}

func scanErr(s string) error {
	scan := stringScanner(s)
	var r Read
	for scan.Scan(&r) {
	}
	return scan.Err()
}

func TestFASTQ(t *testing.T) {
	s := stringScanner(fq)
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	expect := Read{
		ID:   "@M03158:22:000000000-BV2CJ:1:1101:15590:1334 1:N:0:ATCACG",
		Seq:  "ATCGATCGAAGGTTCCGGTTAAGC",
		Unk:  "+",
		Qual: "AAAAAEEEEEEEEEEEEEEEE#EE",
	}
	if got, want := r, expect; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var n int
	for s.Scan(&r) {
		n++
	}
	if got, want := n, 3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := s.Err(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestScannerFields(t *testing.T) {
	s := NewScanner(bytes.NewReader([]byte(fq)), ID|Seq|Qual)
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	if r.ID == "" || r.Seq == "" || r.Qual == "" {
		t.Errorf("missing requested field: %v", r)
	}
	if r.Unk != "" {
		t.Errorf("got Unk %q, want empty", r.Unk)
	}
}

func TestBadFASTQ(t *testing.T) {
	if got, want := errors.Cause(scanErr("12312#")), ErrInvalid; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := scanErr("@1234\n123"), ErrShort; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	err := scanErr("@1234\nACGT\nX\nAAAA")
	if got, want := errors.Cause(err), ErrInvalid; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	err = scanErr("@1234\nACGT\n+\nAAA")
	if got, want := errors.Cause(err), ErrInvalid; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error %v does not name the bad line", err)
	}
}

func TestPairScanner(t *testing.T) {
	const (
		r1 = "@a/1\nACGT\n+\nAAAA\n@b/1\nCCGG\n+\nEEEE\n"
		r2 = "@a/2\nTTTT\n+\nAAAA\n@b/2\nGGCC\n+\nEEEE\n"
	)
	p := NewPairScanner(bytes.NewReader([]byte(r1)), bytes.NewReader([]byte(r2)), All)
	var a, b Read
	var n int
	for p.Scan(&a, &b) {
		n++
	}
	if err := p.Err(); err != nil {
		t.Fatal(err)
	}
	if got, want := n, 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := a.ID, "@b/1"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := b.Seq, "GGCC"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPairScannerDiscordant(t *testing.T) {
	const (
		r1 = "@a/1\nACGT\n+\nAAAA\n@b/1\nCCGG\n+\nEEEE\n"
		r2 = "@a/2\nTTTT\n+\nAAAA\n"
	)
	p := NewPairScanner(bytes.NewReader([]byte(r1)), bytes.NewReader([]byte(r2)), All)
	var a, b Read
	if !p.Scan(&a, &b) {
		t.Fatal(p.Err())
	}
	if p.Scan(&a, &b) {
		t.Fatal("scan succeeded past the short stream")
	}
	if got, want := p.Err(), ErrDiscordant; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEmpty(t *testing.T) {
	r := Read{ID: "@x"}
	if !r.Empty() {
		t.Error("expected empty")
	}
	r.Seq = "A"
	if r.Empty() {
		t.Error("expected non-empty")
	}
}
