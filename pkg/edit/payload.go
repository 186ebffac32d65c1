package edit

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
)

// PayloadSource names where edit payload bytes come from.
type PayloadSource int

const (
	// PayloadFile reads the payload from a file path, UTF-8 validated.
	PayloadFile PayloadSource = iota
	// PayloadStdin reads the payload from stdin to EOF.
	PayloadStdin
	// PayloadInline treats the payload as a literal string with a fixed
	// escape set applied: \n, \t, \\, \".
	PayloadInline
)

// LoadPayload resolves a payload's bytes from its source. value is the file
// path, the inline string, or ignored (for stdin, which is read from r).
func LoadPayload(source PayloadSource, value string, r io.Reader) ([]byte, error) {
	switch source {
	case PayloadFile:
		content, err := os.ReadFile(value)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, docerr.New(docerr.PathNotFound, "edit", "payload file not found").WithPath(value)
			}
			if os.IsPermission(err) {
				return nil, docerr.New(docerr.PermissionDenied, "edit", "permission denied reading payload").WithPath(value)
			}
			return nil, docerr.New(docerr.IOError, "edit", err.Error()).WithPath(value)
		}
		if !utf8.Valid(content) {
			return nil, docerr.New(docerr.InvalidUTF8, "edit", "payload file is not valid UTF-8").WithPath(value)
		}
		return content, nil

	case PayloadStdin:
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, docerr.New(docerr.IOError, "edit", "reading stdin: "+err.Error())
		}
		if !utf8.Valid(content) {
			return nil, docerr.New(docerr.InvalidUTF8, "edit", "stdin payload is not valid UTF-8")
		}
		return content, nil

	case PayloadInline:
		unescaped, err := unescapeInline(value)
		if err != nil {
			return nil, err
		}
		return []byte(unescaped), nil

	default:
		return nil, docerr.New(docerr.IOError, "edit", "unknown payload source")
	}
}

// unescapeInline applies the exact escape set the toolkit supports for
// inline payload strings: \n, \t, \\, \". Any other backslash sequence is
// rejected rather than passed through, so typos don't silently survive.
func unescapeInline(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", docerr.New(docerr.PayloadEscape, "edit", "trailing backslash in inline payload")
		}
		next := s[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			return "", docerr.New(docerr.PayloadEscape, "edit", "unsupported escape sequence \\"+string(next))
		}
		i++
	}
	return b.String(), nil
}
