package contents

import "bytes"

// sniffLength is how much of a buffer LooksBinary inspects.
const sniffLength = 8 << 10

// LooksBinary reports whether data holds a NUL byte within its first 8 KiB,
// the rule GNU grep uses to tell binary files from text.
func LooksBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), sniffLength)], 0) >= 0
}
