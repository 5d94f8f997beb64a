package fastq

import "strings"

// ID returns the record identifier from a FASTQ header line: the text
// after the leading "@" and before the first whitespace. The comment
// that Illumina-style headers carry after the identifier is dropped.
func ID(header string) string {
	header = strings.TrimPrefix(header, "@")
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		header = header[:i]
	}
	return header
}

// BaseID returns ID(header) with any trailing "/1" or "/2" mate suffix
// removed, so that both ends of a pair share one identifier.
func BaseID(header string) string {
	id := ID(header)
	if strings.HasSuffix(id, "/1") || strings.HasSuffix(id, "/2") {
		id = id[:len(id)-2]
	}
	return id
}
