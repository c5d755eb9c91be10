package shrun

import (
	"github.com/gabriel-vasile/mimetype"
)

const binarySniffLen = 512

// looksBinary implements the spec §4.3.1 heuristic: a file is treated as
// binary (and therefore not a shell script) if any byte in the first 512
// bytes is above ASCII range, or a control byte outside tab/newline/CR.
func looksBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	for _, b := range data {
		if b > 126 {
			return true
		}
		if b < 32 && b != 9 && b != 10 && b != 13 {
			return true
		}
	}
	return false
}

// describeContent returns a secondary, human-readable mimetype signal for
// NotExecutableError messages. The byte-range heuristic above remains the
// sole authoritative decision; this is cosmetic only.
func describeContent(data []byte) string {
	return mimetype.Detect(data).String()
}
