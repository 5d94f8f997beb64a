package align

// FormatTrace renders a found alignment as three '|'-separated segments:
// the pattern row, a marker row, and the text row. Aligned columns show
// '|' markers on matches and '*' on substitutions; gap columns show a
// space marker and a '-' filler on the side that consumed nothing. The
// single-line form embeds directly in TSV output.
//
// For example, pattern ACGT against text span AGGAT:
//
//	ACG-T||*| ||AGGAT
//
// reads as one substitution (C over G) and one inserted text base.
func FormatTrace(pattern, text []byte, a Alignment) string {
	ops := Path(pattern, text, a)
	n := len(ops)
	buf := make([]byte, 0, 3*n+2)
	pi := 0
	for _, op := range ops { // pattern row
		if op == OpIns {
			buf = append(buf, '-')
			continue
		}
		buf = append(buf, pattern[pi])
		pi++
	}
	buf = append(buf, '|')
	for _, op := range ops { // marker row
		switch op {
		case OpMatch:
			buf = append(buf, '|')
		case OpSub:
			buf = append(buf, '*')
		default:
			buf = append(buf, ' ')
		}
	}
	buf = append(buf, '|')
	ti := a.Start
	for _, op := range ops { // text row
		if op == OpDel {
			buf = append(buf, '-')
			continue
		}
		buf = append(buf, text[ti])
		ti++
	}
	return string(buf)
}
