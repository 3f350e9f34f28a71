package walker

import (
	"bytes"
	"encoding/binary"
)

// Directory entry types reported by getdents64 (see dirent.h).
const (
	dtUnknown = 0
	dtDir     = 4
	dtReg     = 8
	dtLnk     = 10
)

// linux_dirent64 layout: d_ino u64, d_off u64, d_reclen u16, d_type u8,
// then the NUL-terminated d_name.
const (
	direntReclenOff = 16
	direntTypeOff   = 18
	direntNameOff   = 19
)

// dirent is one parsed directory entry.
type dirent struct {
	name string
	typ  uint8
}

// parseDirents decodes the first n bytes returned by getdents64 into dst,
// which is truncated and reused. "." and ".." are dropped.
func parseDirents(buf []byte, n int, dst []dirent) []dirent {
	entries := dst[:0]
	for off := 0; off+direntNameOff <= n; {
		reclen := int(binary.LittleEndian.Uint16(buf[off+direntReclenOff:]))
		if reclen == 0 {
			break
		}
		end := min(off+reclen, n)
		name := buf[off+direntNameOff : end]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		if s := string(name); s != "." && s != ".." {
			entries = append(entries, dirent{name: s, typ: buf[off+direntTypeOff]})
		}
		off += reclen
	}
	return entries
}
