package walker

import "strings"

// binaryExtensions lists, per family, file extensions whose contents are
// never single-byte text. Matching is case-insensitive.
var binaryExtensions = buildExtensionSet(
	"a o z so dylib dll exe bin elf class pyc pyo wasm",        // objects and executables
	"gz bz2 xz zst lz4 lzo zip tar rar 7z cab deb rpm jar war", // archives
	"png jpg jpeg gif bmp ico tif tiff webp psd xcf",           // images
	"mp3 mp4 ogg flac wav avi mkv webm mov wmv",                // media
	"ttf otf woff woff2 eot",                                   // fonts
	"pdf doc docx xls xlsx ppt pptx odt",                       // documents
	"db sqlite mdb swp swo ds_store",                           // data and editor state
)

func buildExtensionSet(groups ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, g := range groups {
		for _, ext := range strings.Fields(g) {
			set[ext] = struct{}{}
		}
	}
	return set
}

// HasBinaryExtension reports whether name ends in an extension of a binary
// format, or is a versioned shared library such as libfoo.so.1.2. The walker
// skips such files without opening them.
func HasBinaryExtension(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return false
	}
	if _, ok := binaryExtensions[strings.ToLower(name[dot+1:])]; ok {
		return true
	}
	return strings.Contains(name, ".so.")
}
