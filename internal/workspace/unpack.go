package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/sting-wld/internal/store"
	"github.com/Faultbox/sting-wld/pkg/formats"
	"github.com/Faultbox/sting-wld/pkg/texture"
)

// Unpack decodes the world container at wldPath and writes it to dir.
func Unpack(ctx context.Context, wldPath, dir string, opts Options) error {
	log := opts.log().With(zap.String("world", wldPath))
	start := time.Now()

	w, err := formats.ParseWorldFile(wldPath, formats.DecodeOptions{RawModels: true})
	if err != nil {
		return err
	}
	log.Info("world decoded",
		zap.Int("pages", len(w.TexturePages)),
		zap.Int("models", len(w.Models)),
		zap.Int("objects", len(w.Objects)),
		zap.Int("nodes", len(w.Nodes)),
		zap.Duration("elapsed", time.Since(start)))

	return UnpackWorld(ctx, w, dir, opts)
}

// UnpackWorld writes a world decoded with RawModels to dir. Shadow maps are
// moved out of w.Nodes into the sidecar.
func UnpackWorld(ctx context.Context, w *formats.World, dir string, opts Options) error {
	log := opts.log()
	root := filepath.Join(dir, packDir)
	st := store.New(root, opts.Compression)
	st.SetFolders(w.ModelFolders)

	if err := writePages(root, w.TexturePages); err != nil {
		return fmt.Errorf("writing texture pages: %w", err)
	}
	if err := writeYAML(filepath.Join(root, modelTreeFile), w.ModelFolders); err != nil {
		return fmt.Errorf("writing model folders: %w", err)
	}
	if err := writeYAML(filepath.Join(root, objectTreeFile), w.ObjectFolders); err != nil {
		return fmt.Errorf("writing object folders: %w", err)
	}

	models := make([]formats.Model, len(w.Models))
	copy(models, w.Models)
	err := runPool(ctx, log, "unpack models", opts.workers(), len(models), func(i int) error {
		m := &models[i]
		body := m.RawNMF
		if body == nil {
			if m.NMF == nil {
				return fmt.Errorf("model %q: %w", m.Name, formats.ErrMissingPayload)
			}
			var err error
			if body, err = formats.EncodeNMF(m.NMF); err != nil {
				return fmt.Errorf("model %q: %w", m.Name, err)
			}
		}
		if opts.VerifyModels {
			if _, err := formats.ParseNMF(body); err != nil {
				log.Warn("model does not decode", zap.String("model", m.Name), zap.Int32("index", m.Index), zap.Error(err))
			}
		}
		if err := st.PutModel(store.KeyOf(m), body); err != nil {
			return fmt.Errorf("model %q: %w", m.Name, err)
		}
		m.NMF, m.RawNMF = nil, nil
		return nil
	})
	if err != nil {
		return err
	}
	if err := writeYAML(filepath.Join(root, modelsInfoFile), models); err != nil {
		return fmt.Errorf("writing model info: %w", err)
	}

	objects, err := formats.EncodeObjects(w.Objects)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(root, objectsFile), objects); err != nil {
		return err
	}
	macros, err := formats.EncodeMacros(w.Macros)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(root, macrosFile), macros); err != nil {
		return err
	}

	shadows, err := formats.EncodeShadows(formats.StripShadows(w.Nodes))
	if err != nil {
		return err
	}
	if err := st.Put(shadowsBlobName, shadows); err != nil {
		return err
	}
	tree, err := formats.EncodeTree(w.Nodes)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(root, worldTreeFile), tree); err != nil {
		return err
	}

	log.Info("world unpacked", zap.String("dir", dir), zap.Int("models", len(models)))
	return nil
}

func writePages(root string, pages []formats.TexturePage) error {
	for i := range pages {
		p := &pages[i]
		if len(p.Pixels) != p.PixelSize() {
			return fmt.Errorf("%w: page %d", formats.ErrPixelSize, p.ID)
		}
		dds := append(texture.DDSHeader(uint32(p.Width), uint32(p.Height), p.IsAlpha), p.Pixels...)
		if err := writeFile(pagePath(root, p.ID), dds); err != nil {
			return err
		}
	}
	return writeYAML(filepath.Join(root, pagesFile), pages)
}

func pagePath(root string, id int32) string {
	return filepath.Join(root, pagesDir, strconv.Itoa(int(id))+".dds")
}
