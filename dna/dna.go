// Package dna provides small helpers for ASCII-encoded DNA sequences:
// reverse complement, byte reversal, and alphabet checks over A/C/G/T/N.
package dna

import (
	gunsafe "github.com/grailbio/base/unsafe"
)

// revCompTable maps each ASCII base to its complement: 'A'<->'T' and
// 'C'<->'G', upper or lower case, output always upper case. Every other
// byte maps to 'N'.
var revCompTable [256]byte

func init() {
	for i := range revCompTable {
		revCompTable[i] = 'N'
	}
	revCompTable['A'], revCompTable['a'] = 'T', 'T'
	revCompTable['C'], revCompTable['c'] = 'G', 'G'
	revCompTable['G'], revCompTable['g'] = 'C', 'C'
	revCompTable['T'], revCompTable['t'] = 'A', 'A'
}

// RevComp writes the reverse complement of src into dst. It panics unless
// len(dst) == len(src). dst and src must not overlap.
func RevComp(dst, src []byte) {
	if len(dst) != len(src) {
		panic("dna.RevComp requires len(dst) == len(src)")
	}
	n := len(src)
	for i := 0; i < n; i++ {
		dst[i] = revCompTable[src[n-1-i]]
	}
}

// RevCompString returns the reverse complement of seq.
func RevCompString(seq string) string {
	buf := make([]byte, len(seq))
	RevComp(buf, gunsafe.StringToBytes(seq))
	return gunsafe.BytesToString(buf)
}

// Reverse writes the bytes of src into dst in reverse order. It panics
// unless len(dst) == len(src). dst and src must not overlap. Quality
// strings follow their mates through a reverse complement this way.
func Reverse(dst, src []byte) {
	if len(dst) != len(src) {
		panic("dna.Reverse requires len(dst) == len(src)")
	}
	n := len(src)
	for i := 0; i < n; i++ {
		dst[i] = src[n-1-i]
	}
}

// ReverseString returns s reversed.
func ReverseString(s string) string {
	buf := make([]byte, len(s))
	Reverse(buf, gunsafe.StringToBytes(s))
	return gunsafe.BytesToString(buf)
}

// IsACGTN reports whether every byte of seq is one of 'A', 'C', 'G', 'T',
// 'N'. Lower-case bases do not count; callers are expected to upper-case
// first.
func IsACGTN(seq string) bool {
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}
