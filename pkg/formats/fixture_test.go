package formats

import (
	"bytes"
	"encoding/binary"
	"math"
)

// fixture builds binary test input by hand, independent of Writer.
type fixture struct {
	buf bytes.Buffer
}

func (f *fixture) i32(vs ...int32) *fixture {
	for _, v := range vs {
		binary.Write(&f.buf, binary.LittleEndian, v)
	}
	return f
}

func (f *fixture) be32(v uint32) *fixture {
	binary.Write(&f.buf, binary.BigEndian, v)
	return f
}

func (f *fixture) f32(vs ...float32) *fixture {
	for _, v := range vs {
		binary.Write(&f.buf, binary.LittleEndian, math.Float32bits(v))
	}
	return f
}

func (f *fixture) i16(vs ...int16) *fixture {
	for _, v := range vs {
		binary.Write(&f.buf, binary.LittleEndian, v)
	}
	return f
}

func (f *fixture) tag(t string) *fixture {
	f.buf.WriteString(t)
	return f
}

func (f *fixture) raw(b []byte) *fixture {
	f.buf.Write(b)
	return f
}

// name writes s NUL terminated and padded to four bytes. s must be ASCII.
func (f *fixture) name(s string) *fixture {
	b := []byte(s)
	b = append(b, 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	f.buf.Write(b)
	return f
}

// chunk writes tag, the big-endian length of the body and the body.
func (f *fixture) chunk(t string, body func(*fixture)) *fixture {
	var inner fixture
	body(&inner)
	f.tag(t)
	f.be32(uint32(inner.buf.Len()))
	f.buf.Write(inner.buf.Bytes())
	return f
}

// container writes a top level container with its zero length, the
// children and the END terminator.
func (f *fixture) container(t string, body func(*fixture)) *fixture {
	f.tag(t).i32(0)
	body(f)
	return f.end()
}

func (f *fixture) end() *fixture {
	return f.tag(TagEnd).i32(0)
}

func (f *fixture) bytes() []byte {
	return append([]byte(nil), f.buf.Bytes()...)
}

func newFixture() *fixture { return &fixture{} }
