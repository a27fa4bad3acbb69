package formats

import (
	"errors"
	"fmt"
	"strings"
)

// Codec errors.
var (
	ErrUnexpectedEOF    = errors.New("unexpected end of data")
	ErrUnexpectedTag    = errors.New("unexpected tag")
	ErrUnknownVariant   = errors.New("unknown variant")
	ErrTooDeeplyNested  = errors.New("task list nested too deeply")
	ErrTrailingBytes    = errors.New("chunk not fully consumed")
	ErrInvalidCount     = errors.New("invalid element count")
	ErrPixelSize        = errors.New("pixel buffer size does not match page dimensions")
	ErrMissingPayload   = errors.New("variant payload missing")
	ErrShadowSize       = errors.New("shadow data length does not match its dimensions")
	ErrInvalidFloatPair = errors.New("float list length is not a multiple of its stride")
)

// EOFError reports a read past the end of the available bytes.
type EOFError struct {
	Needed    int
	Available int
}

func (e *EOFError) Error() string {
	return fmt.Sprintf("%s: need %d bytes, %d available", ErrUnexpectedEOF, e.Needed, e.Available)
}

func (e *EOFError) Unwrap() error { return ErrUnexpectedEOF }

// TagError reports a chunk tag that does not match the framing.
type TagError struct {
	Found    string
	Expected string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%s: found %q, expected %q", ErrUnexpectedTag, e.Found, e.Expected)
}

func (e *TagError) Unwrap() error { return ErrUnexpectedTag }

// VariantError reports a type discriminant outside its enumerated range.
type VariantError struct {
	Discriminant int32
	Context      string
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("%s: %s type %d", ErrUnknownVariant, e.Context, e.Discriminant)
}

func (e *VariantError) Unwrap() error { return ErrUnknownVariant }

// PathError records where in the chunk tree a decode or encode failed.
type PathError struct {
	Op     string   // "decode" or "encode"
	Path   []string // chunk tags from the outermost container inwards
	Offset int64    // absolute byte offset, -1 if unknown
	Err    error
}

func (e *PathError) Error() string {
	var s strings.Builder
	s.WriteString(e.Op)
	if len(e.Path) > 0 {
		s.WriteString(" ")
		s.WriteString(strings.Join(e.Path, " > "))
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&s, " at offset %d (0x%X)", e.Offset, e.Offset)
	}
	s.WriteString(": ")
	s.WriteString(e.Err.Error())
	return s.String()
}

func (e *PathError) Unwrap() error { return e.Err }

// withPath prepends segment to the chunk path of err. Errors that carry no
// path yet are wrapped into a PathError at the given offset.
func withPath(op string, err error, segment string, offset int64) error {
	if err == nil {
		return nil
	}
	var pe *PathError
	if errors.As(err, &pe) {
		pe.Path = append([]string{segment}, pe.Path...)
		if pe.Offset < 0 {
			pe.Offset = offset
		}
		return pe
	}
	return &PathError{Op: op, Path: []string{segment}, Offset: offset, Err: err}
}

func label(tag string) string { return strings.TrimSpace(tag) }

func indexed(tag string, i int) string {
	return fmt.Sprintf("%s[%d]", label(tag), i)
}
