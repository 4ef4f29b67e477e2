package diff

import "bytes"

// binarySniffLen is how much of a file's content is inspected for a NUL
// byte, the same heuristic git uses to decide whether to treat a blob as
// binary instead of running a line diff over it.
const binarySniffLen = 8000

// looksBinary reports whether content should be treated as binary: it
// contains a NUL byte within the first binarySniffLen bytes.
func looksBinary(content []byte) bool {
	if len(content) > binarySniffLen {
		content = content[:binarySniffLen]
	}
	return bytes.IndexByte(content, 0) >= 0
}
