package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/Faultbox/sting-wld/pkg/formats"
)

// Format selects the export encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatTIFF Format = "tiff"
)

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatWebP, FormatTIFF:
		return f, nil
	}
	return "", fmt.Errorf("texture: unknown format %q", s)
}

// Decode expands the 16-bit pixels of a page into an NRGBA image. Pages
// without alpha are fully opaque.
func Decode(p *formats.TexturePage) (*image.NRGBA, error) {
	if len(p.Pixels) != p.PixelSize() {
		return nil, fmt.Errorf("%w: page %d is %dx%d, got %d bytes", formats.ErrPixelSize, p.ID, p.Width, p.Height, len(p.Pixels))
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(p.Width), int(p.Height)))
	for i := 0; i < len(p.Pixels)/2; i++ {
		v := binary.LittleEndian.Uint16(p.Pixels[i*2:])
		o := i * 4
		img.Pix[o] = expand5(v >> 10)
		img.Pix[o+1] = expand5(v >> 5)
		img.Pix[o+2] = expand5(v)
		img.Pix[o+3] = 255
		if p.IsAlpha && v&maskAlpha == 0 {
			img.Pix[o+3] = 0
		}
	}
	return img, nil
}

// Encode packs an image back into 16-bit page pixels. Alpha below half
// clears the alpha bit.
func Encode(img *image.NRGBA, alpha bool) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*2)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			v := uint16(img.Pix[i]>>3)<<10 | uint16(img.Pix[i+1]>>3)<<5 | uint16(img.Pix[i+2]>>3)
			if alpha && img.Pix[i+3] >= 128 {
				v |= maskAlpha
			}
			out = binary.LittleEndian.AppendUint16(out, v)
		}
	}
	return out
}

func expand5(v uint16) uint8 {
	c := uint8(v & 0x1F)
	return c<<3 | c>>2
}

// Crop copies the placed box of a sub-texture out of a page image.
func Crop(img *image.NRGBA, box formats.Rect) *image.NRGBA {
	r := image.Rect(int(box.X0), int(box.Y0), int(box.X2), int(box.Y2)).Intersect(img.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
	return dst
}

// Extract crops a sub-texture and, when its source box differs in size from
// the placed box, resamples it back to the source dimensions.
func Extract(img *image.NRGBA, t formats.TextureEntry) *image.NRGBA {
	sub := Crop(img, t.Box)
	w := int(t.SourceBox.X2 - t.SourceBox.X0)
	h := int(t.SourceBox.Y2 - t.SourceBox.Y0)
	if w <= 0 || h <= 0 || (w == sub.Bounds().Dx() && h == sub.Bounds().Dy()) {
		return sub
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), sub, sub.Bounds(), draw.Src, nil)
	return dst
}

// Write encodes img in the given format.
func Write(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatWebP:
		return WriteWebP(w, img)
	case FormatTIFF:
		return WriteTIFF(w, img)
	}
	return fmt.Errorf("texture: unknown format %q", f)
}

// WriteWebP encodes img as lossless WebP.
func WriteWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("texture: webp encode: %w", err)
	}
	return nil
}

// WriteTIFF encodes img as deflate-compressed TIFF.
func WriteTIFF(w io.Writer, img image.Image) error {
	if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("texture: tiff encode: %w", err)
	}
	return nil
}
