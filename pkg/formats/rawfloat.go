package formats

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// RawFloat is a float slot that may carry a non-numeric sentinel instead of a
// number. The original bit pattern is kept so the slot re-encodes exactly.
type RawFloat uint32

// Float wraps a plain number.
func Float(v float32) RawFloat { return RawFloat(math.Float32bits(v)) }

// Sentinel wraps four raw bytes in file order.
func Sentinel(b [4]byte) RawFloat { return RawFloat(binary.LittleEndian.Uint32(b[:])) }

// IsSentinel reports whether the slot holds a NaN bit pattern.
func (f RawFloat) IsSentinel() bool {
	return math.IsNaN(float64(math.Float32frombits(uint32(f))))
}

// Value returns the numeric value. Sentinels return NaN.
func (f RawFloat) Value() float32 { return math.Float32frombits(uint32(f)) }

// Bytes returns the slot as stored in the file.
func (f RawFloat) Bytes() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(f))
	return b
}

func (f RawFloat) String() string {
	if f.IsSentinel() {
		b := f.Bytes()
		return hex.EncodeToString(b[:])
	}
	return fmt.Sprint(f.Value())
}

// MarshalYAML emits numbers as floats and sentinels as hex strings.
func (f RawFloat) MarshalYAML() (interface{}, error) {
	if f.IsSentinel() {
		return f.String(), nil
	}
	return f.Value(), nil
}

// UnmarshalYAML accepts the forms produced by MarshalYAML.
func (f *RawFloat) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!str" {
		raw, err := hex.DecodeString(node.Value)
		if err != nil || len(raw) != 4 {
			return fmt.Errorf("invalid float sentinel %q", node.Value)
		}
		*f = Sentinel([4]byte(raw))
		return nil
	}
	var v float32
	if err := node.Decode(&v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}
