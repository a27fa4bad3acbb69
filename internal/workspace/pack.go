package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/sting-wld/internal/store"
	"github.com/Faultbox/sting-wld/pkg/formats"
	"github.com/Faultbox/sting-wld/pkg/texture"
)

// Pack reads the workspace at dir and writes the world container to outPath.
func Pack(ctx context.Context, dir, outPath string, opts Options) error {
	w, err := Load(ctx, dir, opts)
	if err != nil {
		return err
	}
	if err := formats.WriteWorldFile(outPath, w); err != nil {
		return err
	}
	opts.log().Info("world packed", zap.String("out", outPath))
	if !opts.VerifyPacked {
		return nil
	}
	packed, err := formats.ParseWorldFile(outPath, formats.DecodeOptions{})
	if err != nil {
		return fmt.Errorf("packed world does not decode: %w", err)
	}
	opts.log().Info("packed world verified", zap.Int("models", len(packed.Models)), zap.Int("objects", len(packed.Objects)))
	return nil
}

// Load reads the workspace at dir back into a world. Model bodies stay raw.
func Load(ctx context.Context, dir string, opts Options) (*formats.World, error) {
	log := opts.log()
	root := filepath.Join(dir, packDir)
	st := store.New(root, opts.Compression)
	w := &formats.World{}

	var err error
	if w.TexturePages, err = readPages(root, log); err != nil {
		return nil, fmt.Errorf("reading texture pages: %w", err)
	}
	if err := readYAML(filepath.Join(root, modelTreeFile), &w.ModelFolders); err != nil {
		return nil, fmt.Errorf("reading model folders: %w", err)
	}
	if err := readYAML(filepath.Join(root, objectTreeFile), &w.ObjectFolders); err != nil {
		return nil, fmt.Errorf("reading object folders: %w", err)
	}
	if err := readYAML(filepath.Join(root, modelsInfoFile), &w.Models); err != nil {
		return nil, fmt.Errorf("reading model info: %w", err)
	}

	st.SetFolders(w.ModelFolders)
	err = runPool(ctx, log, "pack models", opts.workers(), len(w.Models), func(i int) error {
		m := &w.Models[i]
		body, err := st.GetModel(store.KeyOf(m))
		if err != nil {
			return fmt.Errorf("model %q: %w", m.Name, err)
		}
		m.RawNMF = body
		return nil
	})
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(root, objectsFile))
	if err != nil {
		return nil, err
	}
	if w.Objects, err = formats.ParseObjects(data); err != nil {
		return nil, err
	}
	if data, err = os.ReadFile(filepath.Join(root, macrosFile)); err != nil {
		return nil, err
	}
	if w.Macros, err = formats.ParseMacros(data); err != nil {
		return nil, err
	}
	if data, err = os.ReadFile(filepath.Join(root, worldTreeFile)); err != nil {
		return nil, err
	}
	if w.Nodes, err = formats.ParseTree(data); err != nil {
		return nil, err
	}

	if st.Exists(shadowsBlobName) {
		data, err := st.Get(shadowsBlobName)
		if err != nil {
			return nil, err
		}
		shadows, err := formats.ParseShadows(data)
		if err != nil {
			return nil, fmt.Errorf("reading shadows: %w", err)
		}
		if err := formats.AttachShadows(w.Nodes, shadows); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// readPages loads page metadata and pixels. A DDS saved at a multiple of
// the recorded width scales the page and its placed boxes by that factor.
func readPages(root string, log *zap.Logger) ([]formats.TexturePage, error) {
	var pages []formats.TexturePage
	if err := readYAML(filepath.Join(root, pagesFile), &pages); err != nil {
		return nil, err
	}
	for i := range pages {
		p := &pages[i]
		dds, err := os.ReadFile(pagePath(root, p.ID))
		if err != nil {
			return nil, err
		}
		scale, err := texture.Scale(dds, p.Width)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p.ID, err)
		}
		if scale != 1 {
			log.Info("scaling texture page", zap.Int32("page", p.ID), zap.Int32("scale", scale))
			p.Width *= scale
			p.Height *= scale
			for j := range p.Textures {
				p.Textures[j].Box = p.Textures[j].Box.Scale(scale)
			}
		}
		if p.Pixels, err = texture.Pixels(dds); err != nil {
			return nil, fmt.Errorf("page %d: %w", p.ID, err)
		}
		if len(p.Pixels) != p.PixelSize() {
			return nil, fmt.Errorf("%w: page %d is %dx%d, got %d bytes", formats.ErrPixelSize, p.ID, p.Width, p.Height, len(p.Pixels))
		}
	}
	return pages, nil
}
