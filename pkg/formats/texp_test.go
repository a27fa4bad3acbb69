package formats

import (
	"errors"
	"testing"
)

func makePage(f *fixture, id, width, height int32, alpha bool, entries ...TextureEntry) {
	f.chunk(TagPage, func(c *fixture) {
		c.i32(2, width, height, id, int32(len(entries)))
		for _, e := range entries {
			c.name(e.Path)
			c.i32(e.Box.X0, e.Box.Y0, e.Box.X2, e.Box.Y2)
			c.i32(e.SourceBox.X0, e.SourceBox.Y0, e.SourceBox.X2, e.SourceBox.Y2)
		}
		c.tag(TagPagePixels)
		if alpha {
			c.i32(-1)
		} else {
			c.i32(0)
		}
		pixels := make([]byte, width*height*2)
		for i := range pixels {
			pixels[i] = byte(i)
		}
		c.raw(pixels)
	})
}

func TestDecodeTexturePages(t *testing.T) {
	entry := TextureEntry{
		Path:      "textures/wall.tga",
		Box:       Rect{0, 0, 2, 1},
		SourceBox: Rect{0, 0, 64, 32},
	}
	data := newFixture().container(TagTexturePages, func(f *fixture) {
		makePage(f, 7, 4, 2, true, entry)
		makePage(f, 8, 1, 1, false)
	}).bytes()

	pages, err := decodeTexturePages(NewReader(data))
	if err != nil {
		t.Fatalf("decodeTexturePages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	p := pages[0]
	if p.ID != 7 || p.Width != 4 || p.Height != 2 || !p.IsAlpha {
		t.Errorf("page header = id %d %dx%d alpha %v", p.ID, p.Width, p.Height, p.IsAlpha)
	}
	if len(p.Pixels) != 16 || p.Pixels[15] != 15 {
		t.Errorf("pixels = % x", p.Pixels)
	}
	if len(p.Textures) != 1 || p.Textures[0] != entry {
		t.Errorf("textures = %+v", p.Textures)
	}
	if pages[1].IsAlpha || len(pages[1].Textures) != 0 {
		t.Errorf("second page = %+v", pages[1])
	}

	w := NewWriter()
	if err := encodeTexturePages(w, pages); err != nil {
		t.Fatalf("encodeTexturePages: %v", err)
	}
	if string(w.Data()) != string(data) {
		t.Error("re-encoded texture pages differ from input")
	}
}

func TestEncodePage_PixelSizeMismatch(t *testing.T) {
	pages := []TexturePage{{ID: 3, Width: 4, Height: 4, Pixels: make([]byte, 10)}}
	err := encodeTexturePages(NewWriter(), pages)
	if !errors.Is(err, ErrPixelSize) {
		t.Errorf("expected ErrPixelSize, got %v", err)
	}
}

func TestDecodePage_TruncatedPixels(t *testing.T) {
	data := newFixture().container(TagTexturePages, func(f *fixture) {
		f.chunk(TagPage, func(c *fixture) {
			c.i32(2, 8, 8, 1, 0).tag(TagPagePixels).i32(0).raw(make([]byte, 10))
		})
	}).bytes()

	_, err := decodeTexturePages(NewReader(data))
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PathError, got %T", err)
	}
	if len(pe.Path) != 2 || pe.Path[0] != "TEXP" || pe.Path[1] != "PAGE[0]" {
		t.Errorf("path = %v", pe.Path)
	}
}

func TestRect_Scale(t *testing.T) {
	got := Rect{1, 2, 3, 4}.Scale(2)
	if got != (Rect{2, 4, 6, 8}) {
		t.Errorf("Scale = %+v", got)
	}
}
