// Package texture converts atlas pages to and from DDS files and common
// image formats.
//
// Pages hold 16-bit pixels in A1R5G5B5 order (X1R5G5B5 for pages without
// alpha). The DDS files written here carry a fixed 128-byte header with no
// mipmaps followed by the raw page pixels.
package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the size of a DDS header including the magic.
const HeaderSize = 128

const (
	ddsMagic       = 0x20534444 // "DDS "
	ddsHeaderSize  = 124
	ddsFlags       = 0x100F // caps, height, width, pitch, pixel format
	pfSize         = 32
	pfFlags        = 0x41 // alpha pixels, rgb
	pfBitCount     = 16
	maskRed        = 0x7C00
	maskGreen      = 0x03E0
	maskBlue       = 0x001F
	maskAlpha      = 0x8000
	capsTexture    = 0x1000
	offsetHeight   = 12
	offsetWidth    = 16
	offsetPitch    = 20
	offsetAlphaMsk = 104
)

var (
	ErrNotDDS      = errors.New("texture: not a DDS file")
	ErrShortHeader = errors.New("texture: DDS header too short")
	ErrBadScale    = errors.New("texture: DDS width is not a multiple of the page width")
)

// Header is the part of a DDS header that matters for atlas pages.
type Header struct {
	Width  uint32
	Height uint32
	Pitch  uint32
	Alpha  bool
}

// DDSHeader builds the 128-byte header written in front of page pixels.
func DDSHeader(width, height uint32, alpha bool) []byte {
	alphaMask := uint32(0)
	if alpha {
		alphaMask = maskAlpha
	}
	fields := []uint32{
		ddsMagic, ddsHeaderSize, ddsFlags, height, width, width * 2, 0, 1,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		pfSize, pfFlags, 0, pfBitCount, maskRed, maskGreen, maskBlue, alphaMask,
		capsTexture, 0, 0, 0, 0,
	}
	b := make([]byte, HeaderSize)
	for i, v := range fields {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return b
}

// ParseDDSHeader reads the fields of a DDS header.
func ParseDDSHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(data))
	}
	if binary.LittleEndian.Uint32(data) != ddsMagic {
		return Header{}, ErrNotDDS
	}
	return Header{
		Height: binary.LittleEndian.Uint32(data[offsetHeight:]),
		Width:  binary.LittleEndian.Uint32(data[offsetWidth:]),
		Pitch:  binary.LittleEndian.Uint32(data[offsetPitch:]),
		Alpha:  binary.LittleEndian.Uint32(data[offsetAlphaMsk:]) != 0,
	}, nil
}

// Scale returns how many times wider the DDS image is than the nominal page
// width recorded at unpack time. Pages edited at a higher resolution are
// packed with their dimensions and boxes multiplied by this factor.
func Scale(dds []byte, nominalWidth int32) (int32, error) {
	h, err := ParseDDSHeader(dds)
	if err != nil {
		return 0, err
	}
	if nominalWidth <= 0 {
		return 1, nil
	}
	w := int64(h.Width)
	if w == 0 || w%int64(nominalWidth) != 0 {
		return 0, fmt.Errorf("%w: %d over %d", ErrBadScale, w, nominalWidth)
	}
	return int32(w / int64(nominalWidth)), nil
}

// Pixels returns the pixel payload following the header.
func Pixels(dds []byte) ([]byte, error) {
	if len(dds) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(dds))
	}
	return dds[HeaderSize:], nil
}
