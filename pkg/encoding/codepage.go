// Package encoding provides text encoding utilities for WRLD container strings.
//
// Names inside the container are stored in the Windows-1252 codepage, NUL
// terminated and padded to a four byte boundary. The five bytes the codepage
// leaves undefined (0x81, 0x8D, 0x8F, 0x90, 0x9D) map to the C1 control
// code points of the same value, so every byte sequence survives a decode
// and encode unchanged.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnrepresentable is returned for strings holding runes outside the
// codepage.
var ErrUnrepresentable = errors.New("rune not representable in Windows-1252")

// EncodeError reports the first rune that could not be encoded.
type EncodeError struct {
	Rune   rune
	Offset int // byte offset in the UTF-8 input
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%v: %U at offset %d", ErrUnrepresentable, e.Rune, e.Offset)
}

func (e *EncodeError) Unwrap() error { return ErrUnrepresentable }

// undefined reports whether b has no Windows-1252 assignment.
func undefined(b byte) bool {
	return charmap.Windows1252.DecodeByte(b) == utf8.RuneError
}

// Windows1252ToUTF8 converts Windows-1252 encoded bytes to a UTF-8 string.
func Windows1252ToUTF8(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		r := charmap.Windows1252.DecodeByte(b)
		if r == utf8.RuneError {
			r = rune(b)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// UTF8ToWindows1252 converts a UTF-8 string to Windows-1252 encoded bytes.
// Runes the codepage cannot hold fail with an *EncodeError.
func UTF8ToWindows1252(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		if r >= 0x80 && r <= 0x9F && undefined(byte(r)) {
			out = append(out, byte(r))
			continue
		}
		if r == utf8.RuneError {
			return nil, &EncodeError{Rune: r, Offset: i}
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return nil, &EncodeError{Rune: r, Offset: i}
		}
		out = append(out, b)
	}
	return out, nil
}

// TrimNull cuts data at the first NUL byte.
func TrimNull(data []byte) []byte {
	if idx := bytes.IndexByte(data, 0); idx >= 0 {
		return data[:idx]
	}
	return data
}

// PaddedName encodes s as a NUL terminated Windows-1252 string padded with
// NUL bytes to the next multiple of four.
func PaddedName(s string) ([]byte, error) {
	encoded, err := UTF8ToWindows1252(s)
	if err != nil {
		return nil, err
	}
	size := (len(encoded) + 1 + 3) &^ 3
	result := make([]byte, size)
	copy(result, encoded)
	return result, nil
}
