package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names a text encoding for the output file
type Encoding string

// Supported encodings
const (
	EncodingUTF8BOM     Encoding = "utf-8-sig"
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
)

// ParseEncoding parses an encoding name. Matching is case-insensitive and
// accepts a few common aliases.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8-sig", "utf8-sig", "utf-8-bom", "utf8bom":
		return EncodingUTF8BOM, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1252", "cp1252", "latin1", "iso-8859-1":
		return EncodingWindows1252, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

// encoder returns a writer that encodes UTF-8 text written to it. It must
// be closed to flush. Characters missing from windows-1252 are replaced.
func encoder(w io.Writer, enc Encoding) io.WriteCloser {
	switch enc {
	case EncodingUTF8:
		return nopCloser{w}
	case EncodingWindows1252:
		return transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
	default:
		return transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
