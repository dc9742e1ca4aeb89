package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultVariable is the global the dashboard script reads its data from.
const DefaultVariable = "window.MSP_DASHBOARD_DATA"

// WriteOptions controls the generated script.
type WriteOptions struct {
	Variable string // Assignment target, e.g. window.MSP_DASHBOARD_DATA
	Indent   int    // Spaces per nesting level
}

// DefaultWriteOptions matches the layout the dashboard was built against.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Variable: DefaultVariable, Indent: 2}
}

// EncodeScript renders agg as a single "<variable> = {...};" statement.
// Non-ASCII characters are written as \u escapes so the file loads
// correctly whatever charset the page declares.
func EncodeScript(agg Aggregate, opts WriteOptions) ([]byte, error) {
	variable := strings.TrimSpace(opts.Variable)
	if variable == "" {
		variable = DefaultVariable
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", opts.Indent))
	if err := enc.Encode(agg); err != nil {
		return nil, fmt.Errorf("encode dashboard data: %w", err)
	}

	var out bytes.Buffer
	out.Grow(body.Len() + len(variable) + 8)
	out.WriteString(variable)
	out.WriteString(" = ")
	out.Write(asciiEscape(bytes.TrimRight(body.Bytes(), "\n")))
	out.WriteString(";\n")
	return out.Bytes(), nil
}

// WriteScript writes the script form of agg to w.
func WriteScript(w io.Writer, agg Aggregate, opts WriteOptions) error {
	data, err := EncodeScript(agg, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// WriteScriptFile overwrites path with the script form of agg.
// Encoding happens before the file is touched, so an encoding failure
// leaves any previous output in place.
func WriteScriptFile(path string, agg Aggregate, opts WriteOptions) error {
	data, err := EncodeScript(agg, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	return nil
}

// asciiEscape replaces every non-ASCII rune in JSON text with its \uXXXX
// form, using surrogate pairs above the BMP. Non-ASCII bytes only occur
// inside JSON strings, so the result is equivalent JSON.
func asciiEscape(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] < utf8.RuneSelf {
		i++
	}
	if i == len(b) {
		return b
	}

	out := make([]byte, 0, len(b)+16)
	out = append(out, b[:i]...)
	for i < len(b) {
		c := b[i]
		if c < utf8.RuneSelf {
			out = append(out, c)
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		i += size
		if r > 0xFFFF {
			r -= 0x10000
			out = fmt.Appendf(out, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
			continue
		}
		out = fmt.Appendf(out, `\u%04x`, r)
	}
	return out
}
