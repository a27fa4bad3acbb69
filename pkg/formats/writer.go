package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/anaminus/parse"

	"github.com/Faultbox/sting-wld/pkg/encoding"
)

// Writer mirrors Reader for encoding. Like the reader it keeps the first
// error and ignores every write after it.
type Writer struct {
	buf bytes.Buffer
	fw  *parse.BinaryWriter
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.fw = parse.NewBinaryWriter(&w.buf)
	return w
}

// Err returns the first error encountered by the writer.
func (w *Writer) Err() error {
	_, err := w.fw.End()
	return err
}

// Fail records err unless an earlier error exists.
func (w *Writer) Fail(err error) {
	w.fw.Add(0, err)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// Data returns the encoded bytes.
func (w *Writer) Data() []byte { return w.buf.Bytes() }

// Int32 writes a little-endian signed 32-bit integer.
func (w *Writer) Int32(v int32) { w.fw.Number(v) }

// Uint32BE writes a big-endian unsigned 32-bit integer.
func (w *Writer) Uint32BE(v uint32) {
	w.fw.Bytes(binary.BigEndian.AppendUint32(nil, v))
}

// Float32 writes a little-endian float.
func (w *Writer) Float32(v float32) { w.fw.Number(v) }

// RawFloat writes a float slot with its original bit pattern.
func (w *Writer) RawFloat(v RawFloat) { w.fw.Number(uint32(v)) }

// Int16 writes a little-endian signed 16-bit integer.
func (w *Writer) Int16(v int16) { w.fw.Number(v) }

// Bool writes a negative bool: 0xFFFFFFFF for true, 0 for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.Int32(-1)
		return
	}
	w.Int32(0)
}

// Name writes s in Windows-1252, NUL terminated and padded to four bytes.
func (w *Writer) Name(s string) {
	b, err := encoding.PaddedName(s)
	if err != nil {
		w.Fail(fmt.Errorf("name %q: %w", s, err))
		return
	}
	w.fw.Bytes(b)
}

// Bytes writes b verbatim.
func (w *Writer) Bytes(b []byte) { w.fw.Bytes(b) }

// Tag writes a four byte chunk tag.
func (w *Writer) Tag(tag string) {
	if len(tag) != 4 {
		w.Fail(fmt.Errorf("invalid chunk tag %q", tag))
		return
	}
	w.fw.Bytes([]byte(tag))
}

// Count writes the length of a list as a signed 32-bit integer.
func (w *Writer) Count(n int) { w.Int32(int32(n)) }

// Int32s writes each value of v.
func (w *Writer) Int32s(v []int32) {
	for _, x := range v {
		w.Int32(x)
	}
}

// Float32s writes each value of v.
func (w *Writer) Float32s(v []float32) {
	for _, x := range v {
		w.Float32(x)
	}
}

// RawFloats writes each value of v.
func (w *Writer) RawFloats(v []RawFloat) {
	for _, x := range v {
		w.RawFloat(x)
	}
}

// Int16s writes each value of v.
func (w *Writer) Int16s(v []int16) {
	for _, x := range v {
		w.Int16(x)
	}
}

// Vec3 writes three consecutive floats.
func (w *Writer) Vec3(v Vec3) { w.Float32s(v[:]) }

// Chunk writes tag, the big-endian length of the payload produced by fn and
// the payload itself. The payload is encoded into a separate buffer first so
// the length is known before anything is emitted.
func (w *Writer) Chunk(tag string, fn func(*Writer) error) error {
	return w.chunk(tag, label(tag), fn)
}

// chunk is Chunk with an explicit path segment for error reports.
func (w *Writer) chunk(tag, segment string, fn func(*Writer) error) error {
	if err := w.Err(); err != nil {
		return err
	}
	child := NewWriter()
	if err := fn(child); err != nil {
		return withPath("encode", err, segment, -1)
	}
	if err := child.Err(); err != nil {
		return withPath("encode", err, segment, -1)
	}
	w.Tag(tag)
	w.Uint32BE(uint32(child.Len()))
	w.Bytes(child.Data())
	return w.Err()
}

// End writes the END terminator with a zero length.
func (w *Writer) End() {
	w.Tag(TagEnd)
	w.Int32(0)
}
