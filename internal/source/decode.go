package source

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// decode converts raw file bytes to UTF-8 without a byte order mark.
// Files without a BOM are taken as UTF-8 and returned unchanged.
func decode(raw []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		flags = FileHadBOM
	case bytes.HasPrefix(raw, bomUTF16BE):
		flags = FileHadBOM | FileUTF16 | FileUTF16BigEndian
	case bytes.HasPrefix(raw, bomUTF16LE):
		flags = FileHadBOM | FileUTF16
	default:
		return raw, 0, nil
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return nil, 0, fmt.Errorf("decode: %w", err)
	}
	return out, flags, nil
}

// Encode converts normalised content back to the on-disk form of f:
// CRLF line endings, the BOM and UTF-16 are restored if the file had them.
func (f *File) Encode(content []byte) ([]byte, error) {
	if f.Flags&FileNormalizedCRLF != 0 {
		content = restoreCRLF(content)
	}
	var enc *encoding.Encoder
	switch {
	case f.Flags&FileUTF16BigEndian != 0:
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	case f.Flags&FileUTF16 != 0:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	case f.Flags&FileHadBOM != 0:
		enc = unicode.UTF8BOM.NewEncoder()
	default:
		return content, nil
	}
	out, _, err := transform.Bytes(enc, content)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Path, err)
	}
	return out, nil
}
