package formats

import "fmt"

// pageVersion is the constant leading every PAGE chunk.
const pageVersion = 2

// Rect is an integer rectangle given by two corners.
type Rect struct {
	X0 int32 `yaml:"x0"`
	Y0 int32 `yaml:"y0"`
	X2 int32 `yaml:"x2"`
	Y2 int32 `yaml:"y2"`
}

// Scale multiplies every coordinate by s.
func (r Rect) Scale(s int32) Rect {
	return Rect{r.X0 * s, r.Y0 * s, r.X2 * s, r.Y2 * s}
}

// TextureEntry is one sub-texture placed on an atlas page.
type TextureEntry struct {
	Path      string `yaml:"filepath"`
	Box       Rect   `yaml:"box"`        // placement within the page
	SourceBox Rect   `yaml:"source_box"` // rectangle before atlas packing
}

// TexturePage is one atlas page with its raw 16-bit pixels.
type TexturePage struct {
	ID       int32          `yaml:"id"`
	Width    int32          `yaml:"width"`
	Height   int32          `yaml:"height"`
	Textures []TextureEntry `yaml:"textures"`
	IsAlpha  bool           `yaml:"is_alpha"`
	Pixels   []byte         `yaml:"-"`
}

// PixelSize returns the byte size of the pixel payload.
func (p *TexturePage) PixelSize() int {
	return int(p.Width) * int(p.Height) * 2
}

func decodePage(r *Reader) (TexturePage, error) {
	var p TexturePage
	r.Int32() // version
	p.Width = r.Int32()
	p.Height = r.Int32()
	p.ID = r.Int32()

	n := r.Count()
	if !r.room(n, 36) {
		return p, r.Err()
	}
	p.Textures = make([]TextureEntry, n)
	for i := range p.Textures {
		t := &p.Textures[i]
		t.Path = r.Name()
		t.Box = readRect(r)
		t.SourceBox = readRect(r)
	}

	r.Expect(TagPagePixels)
	p.IsAlpha = r.Bool()
	if p.Width < 0 || p.Height < 0 {
		r.Fail(fmt.Errorf("%w: page %dx%d", ErrInvalidCount, p.Width, p.Height))
		return p, r.Err()
	}
	p.Pixels = r.Bytes(p.PixelSize())
	return p, r.Err()
}

func encodePage(w *Writer, p *TexturePage) error {
	if len(p.Pixels) != p.PixelSize() {
		return fmt.Errorf("%w: page %d is %dx%d, got %d bytes", ErrPixelSize, p.ID, p.Width, p.Height, len(p.Pixels))
	}
	w.Int32(pageVersion)
	w.Int32(p.Width)
	w.Int32(p.Height)
	w.Int32(p.ID)
	w.Count(len(p.Textures))
	for _, t := range p.Textures {
		w.Name(t.Path)
		writeRect(w, t.Box)
		writeRect(w, t.SourceBox)
	}
	w.Tag(TagPagePixels)
	w.Bool(p.IsAlpha)
	w.Bytes(p.Pixels)
	return w.Err()
}

func readRect(r *Reader) Rect {
	return Rect{r.Int32(), r.Int32(), r.Int32(), r.Int32()}
}

func writeRect(w *Writer, b Rect) {
	w.Int32(b.X0)
	w.Int32(b.Y0)
	w.Int32(b.X2)
	w.Int32(b.Y2)
}

func decodeTexturePages(r *Reader) ([]TexturePage, error) {
	var pages []TexturePage
	err := readContainer(r, TagTexturePages, TagPage, func(_ int, sub *Reader) error {
		p, err := decodePage(sub)
		pages = append(pages, p)
		return err
	})
	return pages, err
}

func encodeTexturePages(w *Writer, pages []TexturePage) error {
	return writeContainer(w, TagTexturePages, TagPage, len(pages), func(i int, cw *Writer) error {
		return encodePage(cw, &pages[i])
	})
}
