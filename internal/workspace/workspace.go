// Package workspace unpacks a world container into an editable directory
// layout and packs such a directory back into a container.
//
// Layout below the workspace directory:
//
//	pack/texture_pages.yml          page metadata
//	pack/texture_pages/<id>.dds     page pixels
//	pack/model_list_tree.yml        model folders
//	pack/object_list_tree.yml       object folders
//	pack/models_info.yml            model metadata
//	pack/models/<folders>/<name>_<index>.nmf
//	pack/object_list.bin            OBJS container
//	pack/macro_list.bin             MAKL container
//	pack/world_tree.bin             TREE container without shadow maps
//	pack/shadows.bin                shadow sidecar
//
// Model bodies and the shadow sidecar go through the asset store and may
// carry a compression suffix.
package workspace

import (
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/sting-wld/internal/store"
)

const (
	packDir         = "pack"
	pagesFile       = "texture_pages.yml"
	pagesDir        = "texture_pages"
	modelTreeFile   = "model_list_tree.yml"
	objectTreeFile  = "object_list_tree.yml"
	modelsInfoFile  = "models_info.yml"
	objectsFile     = "object_list.bin"
	macrosFile      = "macro_list.bin"
	worldTreeFile   = "world_tree.bin"
	shadowsBlobName = "shadows.bin"
)

// Options tunes Unpack and Pack.
type Options struct {
	// Workers is the size of the model worker pool. Zero uses one worker
	// per CPU.
	Workers int
	// Compression is the codec for model bodies and the shadow sidecar.
	Compression store.Codec
	// VerifyModels decodes every model body while unpacking.
	VerifyModels bool
	// VerifyPacked decodes the written world, model bodies included, after
	// packing.
	VerifyPacked bool
	// Log receives progress and per-model failures. Nil discards them.
	Log *zap.Logger
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) log() *zap.Logger {
	if o.Log != nil {
		return o.Log
	}
	return zap.NewNop()
}

func writeYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
