package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"testing"

	"github.com/Faultbox/sting-wld/pkg/formats"
)

func TestDDSHeader(t *testing.T) {
	h := DDSHeader(64, 32, true)
	if len(h) != HeaderSize {
		t.Fatalf("len = %d, want %d", len(h), HeaderSize)
	}

	dword := func(off int) uint32 { return binary.LittleEndian.Uint32(h[off:]) }
	tests := []struct {
		name string
		off  int
		want uint32
	}{
		{"magic", 0, 0x20534444},
		{"size", 4, 124},
		{"flags", 8, 4111},
		{"height", 12, 32},
		{"width", 16, 64},
		{"pitch", 20, 128},
		{"mipmaps", 28, 1},
		{"pixel format size", 76, 32},
		{"pixel format flags", 80, 65},
		{"bit count", 88, 16},
		{"red mask", 92, 31744},
		{"green mask", 96, 992},
		{"blue mask", 100, 31},
		{"alpha mask", 104, 32768},
		{"caps", 108, 4096},
		{"reserved", 124, 0},
	}
	for _, tt := range tests {
		if got := dword(tt.off); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}

	if binary.LittleEndian.Uint32(DDSHeader(1, 1, false)[104:]) != 0 {
		t.Error("opaque header has an alpha mask")
	}
}

func TestParseDDSHeader(t *testing.T) {
	h, err := ParseDDSHeader(DDSHeader(16, 8, false))
	if err != nil {
		t.Fatalf("ParseDDSHeader: %v", err)
	}
	if h.Width != 16 || h.Height != 8 || h.Pitch != 32 || h.Alpha {
		t.Errorf("header = %+v", h)
	}

	if _, err := ParseDDSHeader(make([]byte, 10)); !errors.Is(err, ErrShortHeader) {
		t.Errorf("expected ErrShortHeader, got %v", err)
	}
	if _, err := ParseDDSHeader(make([]byte, HeaderSize)); !errors.Is(err, ErrNotDDS) {
		t.Errorf("expected ErrNotDDS, got %v", err)
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name     string
		ddsWidth uint32
		nominal  int32
		want     int32
		wantErr  bool
	}{
		{"unchanged", 128, 128, 1, false},
		{"doubled", 256, 128, 2, false},
		{"quadrupled", 512, 128, 4, false},
		{"no nominal width", 64, 0, 1, false},
		{"uneven", 200, 128, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scale(DDSHeader(tt.ddsWidth, 4, false), tt.nominal)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Scale = %d, want %d", got, tt.want)
			}
		})
	}
}

func makePage(w, h int32, alpha bool, pixels ...uint16) *formats.TexturePage {
	p := &formats.TexturePage{ID: 1, Width: w, Height: h, IsAlpha: alpha}
	for _, v := range pixels {
		p.Pixels = binary.LittleEndian.AppendUint16(p.Pixels, v)
	}
	return p
}

func TestDecode(t *testing.T) {
	p := makePage(2, 1, true, 0xFC00, 0x001F)
	img, err := Decode(p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	red := img.NRGBAAt(0, 0)
	if red.R != 255 || red.G != 0 || red.B != 0 || red.A != 255 {
		t.Errorf("pixel 0 = %+v, want opaque red", red)
	}
	blue := img.NRGBAAt(1, 0)
	if blue.B != 255 || blue.A != 0 {
		t.Errorf("pixel 1 = %+v, want transparent blue", blue)
	}

	opaque, _ := Decode(makePage(1, 1, false, 0x001F))
	if a := opaque.NRGBAAt(0, 0).A; a != 255 {
		t.Errorf("opaque page alpha = %d", a)
	}

	if got := Encode(img, true); !bytes.Equal(got, p.Pixels) {
		t.Errorf("Encode = % x, want % x", got, p.Pixels)
	}
}

func TestDecode_SizeMismatch(t *testing.T) {
	_, err := Decode(makePage(2, 2, false, 0))
	if !errors.Is(err, formats.ErrPixelSize) {
		t.Errorf("expected ErrPixelSize, got %v", err)
	}
}

func TestCropAndExtract(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	sub := Crop(img, formats.Rect{X0: 1, Y0: 2, X2: 3, Y2: 4})
	if sub.Bounds().Dx() != 2 || sub.Bounds().Dy() != 2 {
		t.Fatalf("crop bounds = %v", sub.Bounds())
	}
	if sub.NRGBAAt(0, 0) != img.NRGBAAt(1, 2) {
		t.Errorf("crop origin = %v, want %v", sub.NRGBAAt(0, 0), img.NRGBAAt(1, 2))
	}

	out := Extract(img, formats.TextureEntry{
		Box:       formats.Rect{X0: 0, Y0: 0, X2: 2, Y2: 2},
		SourceBox: formats.Rect{X0: 0, Y0: 0, X2: 8, Y2: 8},
	})
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
		t.Errorf("extract bounds = %v, want 8x8", out.Bounds())
	}
}

func TestWrite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	tests := []struct {
		format Format
		magic  []byte
	}{
		{FormatWebP, []byte("RIFF")},
		{FormatTIFF, []byte("II")},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, img, tt.format); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), tt.magic) {
				t.Errorf("output starts with % x", buf.Bytes()[:4])
			}
		})
	}

	if _, err := ParseFormat("png"); err == nil {
		t.Error("expected an error for png")
	}
}
