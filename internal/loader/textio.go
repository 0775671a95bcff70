package loader

// textio.go holds the readers that normalize dataset text while it streams:
//
//   - bomReader drops a leading UTF-8 BOM (0xEF 0xBB 0xBF) from spreadsheet exports
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - countingReader tracks decoded bytes for the size limit

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// wrapText applies BOM removal, sanitizing and counting, in that order.
func wrapText(r io.Reader) *countingReader {
	return &countingReader{r: newUTF8Sanitizer(newBOMReader(r))}
}

// bomReader skips a UTF-8 BOM at the start of the stream.
type bomReader struct {
	br      *bufio.Reader
	checked bool
}

func newBOMReader(r io.Reader) *bomReader {
	return &bomReader{br: bufio.NewReader(r)}
}

func (r *bomReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		head, err := r.br.Peek(len(utf8BOM))
		if err != nil && err != io.EOF {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			_, _ = r.br.Discard(len(utf8BOM))
		}
	}
	return r.br.Read(p)
}

// utf8Sanitizer rewrites invalid UTF-8 in place. A multi-byte sequence cut
// by a read boundary is carried into the next read.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.r.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if asciiOnly(p[:n]) {
		return n, err
	}
	return s.sanitize(p[:n], err == io.EOF), err
}

func asciiOnly(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize compacts data in place and returns the number of bytes to emit.
// Unless atEOF, a trailing sequence that could still complete is kept in
// pending.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	w := 0
	for rd := 0; rd < len(data); {
		if !atEOF && !utf8.FullRune(data[rd:]) {
			s.pending = append(s.pending, data[rd:]...)
			return w
		}

		r, size := utf8.DecodeRune(data[rd:])
		if r == utf8.RuneError && size == 1 {
			// '?' keeps the output no longer than the input.
			data[w] = '?'
			w++
			rd++
			continue
		}
		copy(data[w:], data[rd:rd+size])
		w += size
		rd += size
	}
	return w
}

// countingReader counts the bytes that pass through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
