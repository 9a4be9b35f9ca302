// Package source turns a byte stream into the logical lines the format
// normalizer consumes. It owns the only potentially I/O-blocking step in the
// pipeline (§5) and the encoding-detection step layered on top of the
// spec's UTF-8 default.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileProvider is the external collaborator that resolves a relative path to
// its byte contents. The core never touches a filesystem directly; a CLI
// driver (cmd/cobolfront) supplies an os.Open-backed implementation, and
// tests supply an in-memory one.
type FileProvider interface {
	Open(path string) (io.ReadCloser, error)
}

// FileProviderFunc adapts a function to FileProvider.
type FileProviderFunc func(path string) (io.ReadCloser, error)

func (f FileProviderFunc) Open(path string) (io.ReadCloser, error) {
	return f(path)
}

// linePool recycles the []byte buffers used to assemble logical lines: a
// buffer is taken out for exactly one line extraction and returned before
// the next line is read, on every exit path (including the error path).
var linePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 256)
		return &b
	},
}

// Reader yields the logical lines of one file, in order, starting a fresh
// 1-based line counter on every call to ReadLines. A Reader is not safe for
// concurrent use; each compilation unit constructs its own.
type Reader struct {
	provider FileProvider
}

// NewReader constructs a Reader backed by provider.
func NewReader(provider FileProvider) *Reader {
	return &Reader{provider: provider}
}

// Line is one logical line: its 1-based line number and its bytes, with the
// newline delimiter stripped.
type Line struct {
	Number int
	Bytes  []byte
}

// LineFunc is called once per logical line of a file. Returning a non-nil
// error stops iteration and is propagated from ReadLines.
type LineFunc func(Line) error

// ReadLines opens path through the configured FileProvider, detects its
// encoding (UTF-8 BOM, UTF-16 LE/BE BOM, or bare UTF-8), and invokes fn once
// per logical line. "\n" is the line terminator; a trailing line without a
// newline is emitted once; empty input yields no lines.
func (r *Reader) ReadLines(path string, fn LineFunc) error {
	rc, err := r.provider.Open(path)
	if err != nil {
		return fmt.Errorf("source: opening %s: %w", path, err)
	}
	defer rc.Close()

	decoded, err := decode(rc)
	if err != nil {
		return fmt.Errorf("source: decoding %s: %w", path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(decoded))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		bufPtr := linePool.Get().(*[]byte)
		buf := (*bufPtr)[:0]
		buf = append(buf, scanner.Bytes()...)

		err := fn(Line{Number: lineNo, Bytes: buf})

		*bufPtr = buf
		linePool.Put(bufPtr)

		if err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("source: scanning %s: %w", path, err)
	}
	return nil
}

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16leBOM = []byte{0xFF, 0xFE}
	utf16beBOM = []byte{0xFE, 0xFF}
)

// decode reads all of r and returns its content as UTF-8 bytes, stripping and
// acting on a leading byte-order mark. Source is treated as UTF-8 (§6); this
// only defends against a BOM a text editor may have written.
func decode(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return data[len(utf8BOM):], nil
	case bytes.HasPrefix(data, utf16leBOM):
		return decodeUTF16(data, unicode.LittleEndian)
	case bytes.HasPrefix(data, utf16beBOM):
		return decodeUTF16(data, unicode.BigEndian)
	default:
		return data, nil
	}
}

func decodeUTF16(data []byte, endianness unicode.Endianness) ([]byte, error) {
	decoder := unicode.UTF16(endianness, unicode.UseBOM).NewDecoder()
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, fmt.Errorf("utf-16 decode: %w", err)
	}
	return bytes.TrimPrefix(out, utf8BOM), nil
}
