package formats

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/Faultbox/sting-wld/pkg/encoding"
)

// Reader is a sequential little-endian cursor over an in-memory buffer.
//
// The first failure is sticky: once a read fails every following read
// returns a zero value and Err reports the original failure together with
// the absolute offset it happened at.
type Reader struct {
	data []byte
	pos  int
	base int64 // absolute offset of data[0]
	err  error
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the absolute position of the cursor.
func (r *Reader) Offset() int64 { return r.base + int64(r.pos) }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.data) - r.pos }

// Err returns the first error encountered by the reader.
func (r *Reader) Err() error { return r.err }

// Fail records err at the current offset unless an earlier error exists.
func (r *Reader) Fail(err error) {
	if r.err != nil || err == nil {
		return
	}
	r.err = &PathError{Op: "decode", Offset: r.Offset(), Err: err}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 {
		r.Fail(ErrInvalidCount)
		return nil
	}
	if n > r.Len() {
		r.Fail(&EOFError{Needed: n, Available: r.Len()})
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Int32 reads a little-endian signed 32-bit integer.
func (r *Reader) Int32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// Uint32BE reads a big-endian unsigned 32-bit integer (chunk lengths).
func (r *Reader) Uint32BE() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Float32 reads a little-endian IEEE-754 float. NaN payloads are kept.
func (r *Reader) Float32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// RawFloat reads a float slot that may hold a non-numeric sentinel.
func (r *Reader) RawFloat() RawFloat {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return RawFloat(binary.LittleEndian.Uint32(b))
}

// Int16 reads a little-endian signed 16-bit integer.
func (r *Reader) Int16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

// Bool reads a negative bool. Zero is false, anything else is true.
func (r *Reader) Bool() bool {
	return r.Int32() != 0
}

// Name reads four byte words until one holds a NUL and decodes the bytes
// before the first NUL from Windows-1252.
func (r *Reader) Name() string {
	start := r.pos
	for {
		w := r.take(4)
		if w == nil {
			return ""
		}
		if bytes.IndexByte(w, 0) >= 0 {
			break
		}
	}
	return encoding.Windows1252ToUTF8(encoding.TrimNull(r.data[start:r.pos]))
}

// Bytes reads n bytes and returns a copy of them.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		if n == 0 && r.err == nil {
			return []byte{}
		}
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Tag reads a four byte chunk tag.
func (r *Reader) Tag() string {
	return string(r.take(4))
}

// PeekTag returns the next four bytes without consuming them, or an empty
// string when fewer than four bytes remain.
func (r *Reader) PeekTag() string {
	if r.err != nil || r.Len() < 4 {
		return ""
	}
	return string(r.data[r.pos : r.pos+4])
}

// Expect reads a tag and fails with a TagError when it differs from tag.
func (r *Reader) Expect(tag string) {
	pos := r.pos
	found := r.Tag()
	if r.err == nil && found != tag {
		r.pos = pos
		r.Fail(&TagError{Found: found, Expected: tag})
	}
}

// Count reads a signed element count and rejects negative values.
func (r *Reader) Count() int {
	n := r.Int32()
	if n < 0 {
		r.Fail(ErrInvalidCount)
		return 0
	}
	return int(n)
}

// room validates that n elements of size bytes fit into the remaining data
// before anything is allocated for them.
func (r *Reader) room(n, size int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 {
		r.Fail(ErrInvalidCount)
		return false
	}
	if n > r.Len()/size {
		r.Fail(&EOFError{Needed: n * size, Available: r.Len()})
		return false
	}
	return true
}

// Int32s reads n little-endian 32-bit integers.
func (r *Reader) Int32s(n int) []int32 {
	if !r.room(n, 4) {
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = r.Int32()
	}
	return out
}

// Float32s reads n floats.
func (r *Reader) Float32s(n int) []float32 {
	if !r.room(n, 4) {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = r.Float32()
	}
	return out
}

// RawFloats reads n sentinel-aware floats.
func (r *Reader) RawFloats(n int) []RawFloat {
	if !r.room(n, 4) {
		return nil
	}
	out := make([]RawFloat, n)
	for i := range out {
		out[i] = r.RawFloat()
	}
	return out
}

// Int16s reads n little-endian 16-bit integers.
func (r *Reader) Int16s(n int) []int16 {
	if !r.room(n, 2) {
		return nil
	}
	out := make([]int16, n)
	for i := range out {
		out[i] = r.Int16()
	}
	return out
}

// Vec3 reads three consecutive floats.
func (r *Reader) Vec3() Vec3 {
	return Vec3{r.Float32(), r.Float32(), r.Float32()}
}

// Sub consumes n bytes and returns a reader scoped to exactly those bytes.
// The returned reader keeps absolute offsets.
func (r *Reader) Sub(n int) *Reader {
	start := r.Offset()
	b := r.take(n)
	sub := &Reader{data: b, base: start}
	if b == nil {
		sub.err = r.err
	}
	return sub
}

// Rest consumes and returns a copy of every unread byte.
func (r *Reader) Rest() []byte {
	return r.Bytes(r.Len())
}

// done fails with ErrTrailingBytes when the reader was not fully consumed.
func (r *Reader) done() error {
	if r.err == nil && r.Len() != 0 {
		r.Fail(ErrTrailingBytes)
	}
	return r.err
}
