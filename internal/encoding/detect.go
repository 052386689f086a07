package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader returns a reader that yields r decoded to UTF-8.
// contentType is the Content-Type header of the payload and may be empty.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. charset parameter of contentType
//  3. valid UTF-8 is returned as-is
//  4. chardet heuristics, falling back to Windows-1252
func NewUTF8Reader(r io.Reader, contentType string) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), nil
	}

	if enc, ok := declared(contentType); ok {
		if enc == nil {
			return br, nil
		}

		return decode(br, enc), nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if enc, ok := byName(result.Charset); ok {
			if enc == nil {
				return br, nil
			}

			return decode(br, enc), nil
		}
	}

	return decode(br, charmap.Windows1252), nil
}

// declared reads the charset parameter from a Content-Type value.
// A nil encoding with ok set means the payload is already UTF-8.
func declared(contentType string) (encoding.Encoding, bool) {
	if contentType == "" {
		return nil, false
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}

	charset, ok := params["charset"]
	if !ok {
		return nil, false
	}

	return byName(charset)
}

func byName(charset string) (encoding.Encoding, bool) {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "us-ascii":
		return nil, true
	case "iso-8859-1", "latin1", "windows-1252":
		return charmap.Windows1252, true
	case "iso-8859-9":
		return charmap.ISO8859_9, true
	case "iso-8859-15":
		return charmap.ISO8859_15, true
	default:
		return nil, false
	}
}

func decode(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}
