package merge

import "bytes"

// looksBinary applies the same cheap heuristic the diff engine uses: a NUL
// byte within the first 8000 bytes marks content as binary.
func looksBinary(content []byte) bool {
	probe := content
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) != -1
}
