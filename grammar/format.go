package grammar

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

type fileFormat string

const (
	formatUnknown  fileFormat = ""
	formatText     fileFormat = "grm"
	formatCompiled fileFormat = "grmc"
)

// selectFormatFromFilename guesses a grammar file's format from its
// extension. Unrecognized extensions give formatUnknown, in which case the
// caller should sniff the content.
func selectFormatFromFilename(filename string) fileFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".grm", ".txt":
		return formatText
	case ".grmc":
		return formatCompiled
	default:
		return formatUnknown
	}
}

// sniffFormat peeks at the start of the given reader to decide whether it
// holds a compiled snapshot or grammar text.
func sniffFormat(r *bufio.Reader) fileFormat {
	head, _ := r.Peek(len(fMagic))
	if bytes.Equal(head, fMagic) {
		return formatCompiled
	}
	return formatText
}

// selectEncoding returns the text encoding with the given IANA or MIME
// name, or nil if the name is empty, meaning UTF-8.
func selectEncoding(charset string) (encoding.Encoding, error) {
	if charset == "" {
		return nil, nil
	}
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		enc, err = ianaindex.IANA.Encoding(charset)
	}
	if err != nil {
		return nil, fmt.Errorf("unknown character encoding %q", charset)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported character encoding %q", charset)
	}
	return enc, nil
}

// Load reads a grammar from the given reader, which may hold either grammar
// text or a compiled snapshot written by Grammar.Save. The filename is used
// to choose between them, falling back on the content itself, and charset
// names the encoding of grammar text; it may be empty for UTF-8.
func Load(r io.Reader, filename, charset string) (*Grammar, error) {
	br := bufio.NewReader(r)
	format := selectFormatFromFilename(filename)
	if format == formatUnknown {
		format = sniffFormat(br)
	}

	switch format {
	case formatCompiled:
		return LoadCompiled(br)
	default:
		enc, err := selectEncoding(charset)
		if err != nil {
			return nil, err
		}
		var src io.Reader = br
		if enc != nil {
			src = enc.NewDecoder().Reader(br)
		}
		return Parse(src, filename)
	}
}
