package walker

import (
	"encoding/binary"
	"testing"
)

// appendDirent encodes one linux_dirent64 record padded to 8 bytes.
func appendDirent(buf []byte, name string, typ uint8) []byte {
	reclen := (direntNameOff + len(name) + 1 + 7) &^ 7
	rec := make([]byte, reclen)
	binary.LittleEndian.PutUint16(rec[direntReclenOff:], uint16(reclen))
	rec[direntTypeOff] = typ
	copy(rec[direntNameOff:], name)
	return append(buf, rec...)
}

func TestParseDirents(t *testing.T) {
	var buf []byte
	buf = appendDirent(buf, ".", dtDir)
	buf = appendDirent(buf, "..", dtDir)
	buf = appendDirent(buf, "src", dtDir)
	buf = appendDirent(buf, "main.go", dtReg)
	buf = appendDirent(buf, "link", dtLnk)

	got := parseDirents(buf, len(buf), nil)
	want := []dirent{
		{name: "src", typ: dtDir},
		{name: "main.go", typ: dtReg},
		{name: "link", typ: dtLnk},
	}
	if len(got) != len(want) {
		t.Fatalf("parseDirents() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	// Reuse keeps the backing array.
	again := parseDirents(buf, len(buf), got)
	if &again[0] != &got[0] {
		t.Error("parseDirents did not reuse dst")
	}
}

func TestParseDirents_Truncated(t *testing.T) {
	buf := appendDirent(nil, "complete", dtReg)
	buf = appendDirent(buf, "partial", dtReg)

	got := parseDirents(buf, len(buf)-10, nil)
	if len(got) == 0 || got[0].name != "complete" {
		t.Fatalf("parseDirents() = %v, want first entry intact", got)
	}
	for _, d := range got {
		if d.name == "" {
			t.Errorf("empty name parsed from truncated buffer")
		}
	}
}
