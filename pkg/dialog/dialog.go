// Package dialog reads and writes the compressed dialog text files shipped
// next to world containers.
//
// A file starts with the signature 00 00 07 00 and the little-endian size of
// the decompressed text, followed by one block. A block holds its own size,
// a flag word and either the raw bytes (flag 1) or an LZ stream driven by
// 16-bit bitmasks. Every decompressed text byte is stored inverted.
package dialog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/anaminus/parse"
)

// Signature starts every compressed dialog file.
var Signature = [4]byte{0, 0, 7, 0}

const (
	fileHeaderSize  = 8
	blockHeaderSize = 8
	flagRaw         = 1

	maxOffset = 0xFFF
	maxLength = 16
)

var (
	ErrBadSignature  = errors.New("dialog: bad signature")
	ErrUnexpectedEOF = errors.New("dialog: unexpected end of data")
)

// BackReferenceError reports a back-reference that points before the start
// of the output.
type BackReferenceError struct {
	Offset    int
	Available int
}

func (e *BackReferenceError) Error() string {
	return fmt.Sprintf("dialog: back-reference offset %d with %d bytes of output", e.Offset, e.Available)
}

// Decompress decodes a whole dialog file.
func Decompress(file []byte) ([]byte, error) {
	fr := parse.NewBinaryReader(bytes.NewReader(file))
	var sig [4]byte
	var size uint32
	if fr.Bytes(sig[:]) || fr.Number(&size) {
		return nil, fmt.Errorf("%w: file header", ErrUnexpectedEOF)
	}
	if sig != Signature {
		return nil, fmt.Errorf("%w: % x", ErrBadSignature, sig)
	}
	block, failed := fr.All()
	if failed {
		_, err := fr.End()
		return nil, fmt.Errorf("reading block: %w", err)
	}

	out, err := DecompressBlock(block)
	if err != nil {
		return nil, err
	}
	invert(out, int(size))
	return out, nil
}

// DecompressBlock decodes one block without the file header.
func DecompressBlock(block []byte) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block header", ErrUnexpectedEOF)
	}
	blockSize := int(binary.LittleEndian.Uint32(block))
	flag := block[4]

	src := blockHeaderSize
	end := 4 + blockSize
	if end > len(block) || end < src {
		end = len(block)
	}

	if flag == flagRaw {
		n := blockSize - 4
		if n < 0 || src+n > len(block) {
			return nil, fmt.Errorf("%w: raw block of %d bytes", ErrUnexpectedEOF, n)
		}
		return append([]byte(nil), block[src:src+n]...), nil
	}

	// Only the start of an item is bounded by the declared size; a mask,
	// literal or token pair that begins inside it is read from whatever
	// follows in the buffer.
	out := make([]byte, 0, 2*(end-src))
	var mask uint16
	bits := 0
	for src < end {
		if bits == 0 {
			if src+2 > len(block) {
				break
			}
			mask = binary.LittleEndian.Uint16(block[src:])
			src += 2
			bits = 16
		}

		if mask&1 == 0 {
			if src >= len(block) {
				break
			}
			out = append(out, block[src])
			src++
		} else {
			if src+2 > len(block) {
				return nil, fmt.Errorf("%w: back-reference at %d", ErrUnexpectedEOF, src)
			}
			token, low := block[src], block[src+1]
			src += 2

			offset := int(token&0xF0)<<4 | int(low)
			length := int(token&0x0F) + 1
			from := len(out) - offset
			if offset == 0 || from < 0 {
				return nil, &BackReferenceError{Offset: offset, Available: len(out)}
			}
			// Source and destination may overlap.
			for i := 0; i < length; i++ {
				out = append(out, out[from+i])
			}
		}

		mask >>= 1
		bits--
	}
	return out, nil
}

// Compress encodes text as a dialog file.
func Compress(text []byte) []byte {
	inverted := append([]byte(nil), text...)
	invert(inverted, len(inverted))

	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	fw.Bytes(Signature[:])
	fw.Number(uint32(len(text)))
	fw.Bytes(CompressBlock(inverted))
	return buf.Bytes()
}

// CompressBlock encodes src as one block. It falls back to a raw block when
// the LZ stream would not be smaller.
func CompressBlock(src []byte) []byte {
	stream := lzEncode(src)
	flag := uint32(0)
	if len(stream) >= len(src) {
		stream, flag = src, flagRaw
	}

	block := make([]byte, blockHeaderSize, blockHeaderSize+len(stream))
	binary.LittleEndian.PutUint32(block, uint32(4+len(stream)))
	binary.LittleEndian.PutUint32(block[4:], flag)
	return append(block, stream...)
}

func invert(b []byte, n int) {
	if n > len(b) {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		b[i] = ^b[i]
	}
}
