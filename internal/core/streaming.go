package core

// streaming.go provides the reader stack every CSV input passes through:
//
//   - BOMSkippingReader: Removes the UTF-8 BOM (0xEF 0xBB 0xBF) written by Excel
//   - UTF8ValidatingReader: Fails on the first invalid UTF-8 sequence
//   - CountingReader: Tracks bytes read for the per-file debug log
//
// Use WrapForReading to apply all of them in the correct order.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips a leading UTF-8 BOM.
type BOMSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader. The first call drops the BOM if present.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		if head, err := r.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.br.Read(p)
}

// EncodingError reports the byte offset of an invalid UTF-8 sequence.
type EncodingError struct {
	Offset int64
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: invalid UTF-8 at byte %d", e.Offset)
}

// Unwrap lets errors.Is match ErrInvalidEncoding.
func (e *EncodingError) Unwrap() error {
	return ErrInvalidEncoding
}

// UTF8ValidatingReader passes valid UTF-8 through unchanged and returns an
// *EncodingError at the first invalid sequence. Offsets are counted from the
// start of the wrapped stream.
type UTF8ValidatingReader struct {
	br     *bufio.Reader
	offset int64
}

// NewUTF8ValidatingReader creates a new validating reader.
func NewUTF8ValidatingReader(r io.Reader) *UTF8ValidatingReader {
	return &UTF8ValidatingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (v *UTF8ValidatingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(p) {
		r, size, err := v.br.ReadRune()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}

		// A genuine U+FFFD decodes with size 3; size 1 means a bad byte.
		if r == utf8.RuneError && size == 1 {
			return n, &EncodingError{Offset: v.offset}
		}

		if size > len(p)-n {
			if err := v.br.UnreadRune(); err != nil {
				return n, err
			}
			if n == 0 {
				return 0, io.ErrShortBuffer
			}
			break
		}

		n += utf8.EncodeRune(p[n:], r)
		v.offset += int64(size)

		// Hand back what we have rather than block on the next rune.
		if v.br.Buffered() == 0 {
			break
		}
	}

	return n, nil
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// WrapForReading wraps a reader with byte counting, BOM skipping and UTF-8
// validation.
//
// The order matters:
// 1. Counting sees the raw file bytes
// 2. The BOM is stripped before validation, so reported offsets exclude it
// 3. Validation runs last, directly under the CSV parser
func WrapForReading(r io.Reader) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r)
	return NewUTF8ValidatingReader(NewBOMSkippingReader(counter)), counter
}
