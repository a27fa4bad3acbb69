package dialog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func makeFile(size uint32, block []byte) []byte {
	f := append([]byte(nil), Signature[:]...)
	f = append(f, byte(size), byte(size>>8), byte(size>>16), byte(size>>24))
	return append(f, block...)
}

func TestDecompress_RawBlock(t *testing.T) {
	block := []byte{8, 0, 0, 0, 1, 0, 0, 0, 0xAA, 0xBB, 0xCC, 0xDD}

	raw, err := DecompressBlock(block)
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if !bytes.Equal(raw, []byte{0xAA, 0xBB, 0xCC, 0xDD}) {
		t.Errorf("raw = % x", raw)
	}

	out, err := Decompress(makeFile(4, block))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, []byte{0x55, 0x44, 0x33, 0x22}) {
		t.Errorf("out = % x, want 55 44 33 22", out)
	}
}

func TestDecompressBlock_BackReference(t *testing.T) {
	block := []byte{9, 0, 0, 0, 0, 0, 0, 0, 0x02, 0x00, 0x41, 0x00, 0x01}
	out, err := DecompressBlock(block)
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if !bytes.Equal(out, []byte{0x41, 0x41}) {
		t.Errorf("out = % x, want 41 41", out)
	}
}

func TestDecompressBlock_OverlappingCopy(t *testing.T) {
	// Literal 'a', then offset 1 length 5 repeats it.
	block := []byte{9, 0, 0, 0, 0, 0, 0, 0, 0x02, 0x00, 'a', 0x04, 0x01}
	out, err := DecompressBlock(block)
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if string(out) != "aaaaaa" {
		t.Errorf("out = %q, want aaaaaa", out)
	}
}

func TestDecompress_Errors(t *testing.T) {
	tests := []struct {
		name string
		file []byte
		want error
	}{
		{"short header", []byte{0, 0, 7}, ErrUnexpectedEOF},
		{"bad signature", []byte{0, 0, 8, 0, 0, 0, 0, 0, 4, 0, 0, 0, 1, 0, 0, 0}, ErrBadSignature},
		{"truncated token", makeFile(0, []byte{6, 0, 0, 0, 0, 0, 0, 0, 0x01, 0x00}), ErrUnexpectedEOF},
		{"short block header", makeFile(0, []byte{4, 0, 0}), ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.file)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecompressBlock_InvalidBackReference(t *testing.T) {
	block := []byte{8, 0, 0, 0, 0, 0, 0, 0, 0x01, 0x00, 0x00, 0x05}
	_, err := DecompressBlock(block)
	var be *BackReferenceError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackReferenceError, got %v", err)
	}
	if be.Offset != 5 || be.Available != 0 {
		t.Errorf("error = %+v", be)
	}
}

func TestCompress_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"short", "hi"},
		{"repetitive", strings.Repeat("Guard: Halt! Who goes there?\r\n", 40)},
		{"run", strings.Repeat("z", 500)},
		{"mixed", "The quick brown fox jumps over the lazy dog. The quick brown cat naps."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := Compress([]byte(tt.text))
			got, err := Decompress(file)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if string(got) != tt.text {
				t.Errorf("round trip = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestCompressBlock_Shrinks(t *testing.T) {
	src := bytes.Repeat([]byte("abcdefgh"), 200)
	block := CompressBlock(src)
	if block[4] == flagRaw {
		t.Fatal("repetitive input stored raw")
	}
	if len(block) >= len(src)/4 {
		t.Errorf("compressed %d bytes to %d", len(src), len(block))
	}
}

func TestCompressBlock_RawFallback(t *testing.T) {
	block := CompressBlock([]byte{1, 2, 3})
	if block[4] != flagRaw {
		t.Errorf("flag = %d, want raw", block[4])
	}
	out, err := DecompressBlock(block)
	if err != nil || !bytes.Equal(out, []byte{1, 2, 3}) {
		t.Errorf("DecompressBlock = % x, %v", out, err)
	}
}

func TestDecompressBlock_DeclaredEnd(t *testing.T) {
	// Mask 0b10: one literal 'a', then offset 1 length 1.
	stream := []byte{0x02, 0x00, 'a', 0x00, 0x01}
	block := func(size byte, stream []byte) []byte {
		return append([]byte{size, 0, 0, 0, 0, 0, 0, 0}, stream...)
	}

	tests := []struct {
		name    string
		block   []byte
		want    string
		wantErr error
	}{
		{"whole stream declared", block(9, stream), "aa", nil},
		{"token pair crosses the end", block(8, stream), "aa", nil},
		{"token starts at the end", block(7, stream), "a", nil},
		{"mask crosses the end", block(5, stream), "a", nil},
		{"pair cut by the buffer", block(8, stream[:4]), "", ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DecompressBlock(tt.block)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecompressBlock: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("out = %q, want %q", out, tt.want)
			}
		})
	}
}
