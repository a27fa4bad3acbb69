package workspace

import (
	"context"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sting-wld/pkg/formats"
	"github.com/Faultbox/sting-wld/pkg/texture"
)

// ExportTextures writes every texture page of w to dir as an image in the
// given format. With subTextures set, each placed sub-texture is also
// written below dir/<page id>/ under its recorded path.
func ExportTextures(ctx context.Context, w *formats.World, dir string, format texture.Format, subTextures bool, opts Options) error {
	log := opts.log()
	return runPool(ctx, log, "export textures", opts.workers(), len(w.TexturePages), func(i int) error {
		p := &w.TexturePages[i]
		img, err := texture.Decode(p)
		if err != nil {
			return err
		}
		id := strconv.Itoa(int(p.ID))
		if err := writeImage(filepath.Join(dir, id+format.Ext()), img, format); err != nil {
			return fmt.Errorf("page %d: %w", p.ID, err)
		}
		if !subTextures {
			return nil
		}
		for _, t := range p.Textures {
			name := subTextureName(t.Path)
			if name == "" {
				log.Warn("skipping sub-texture without a usable path", zap.Int32("page", p.ID), zap.String("path", t.Path))
				continue
			}
			out := filepath.Join(dir, id, filepath.FromSlash(name)+format.Ext())
			if err := writeImage(out, texture.Extract(img, t), format); err != nil {
				return fmt.Errorf("page %d texture %q: %w", p.ID, t.Path, err)
			}
		}
		return nil
	})
}

// subTextureName turns a recorded texture path into a relative slash path
// without its extension, dropping elements that would climb above the
// output directory.
func subTextureName(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)[1:]
	p = strings.TrimSuffix(p, path.Ext(p))
	return p
}

func writeImage(name string, img image.Image, format texture.Format) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := texture.Write(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
