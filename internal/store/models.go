package store

import (
	"fmt"
	"path"
	"strings"

	"github.com/Faultbox/sting-wld/pkg/formats"
)

// modelDir holds model blobs below the store root.
const modelDir = "models"

// ModelKey identifies a model body in the store.
type ModelKey struct {
	Name         string
	Index        int32
	ParentFolder int32
}

// KeyOf returns the store key of m.
func KeyOf(m *formats.Model) ModelKey {
	return ModelKey{Name: m.Name, Index: m.Index, ParentFolder: m.ParentFolder}
}

// ModelName returns the blob name of a model: its folder path followed by
// name_index.nmf. Folder and model names that would address anything but a
// plain directory or file fail with ErrUnsafeName.
func (s *Store) ModelName(k ModelKey) (string, error) {
	dir, err := s.folders.Path(k.ParentFolder)
	if err != nil {
		return "", fmt.Errorf("model %q: %w", k.Name, err)
	}
	for _, seg := range strings.Split(dir, "/") {
		if seg == "." || seg == ".." || strings.ContainsAny(seg, "\\\x00") {
			return "", fmt.Errorf("%w: model %q in folder %q", ErrUnsafeName, k.Name, dir)
		}
	}
	if strings.ContainsAny(k.Name, "/\\\x00") {
		return "", fmt.Errorf("%w: model name %q", ErrUnsafeName, k.Name)
	}
	return path.Join(modelDir, dir, fmt.Sprintf("%s_%d.nmf", k.Name, k.Index)), nil
}

// PutModel stores a raw NMF model body.
func (s *Store) PutModel(k ModelKey, nmf []byte) error {
	name, err := s.ModelName(k)
	if err != nil {
		return err
	}
	return s.Put(name, nmf)
}

// GetModel loads a raw NMF model body.
func (s *Store) GetModel(k ModelKey) ([]byte, error) {
	name, err := s.ModelName(k)
	if err != nil {
		return nil, err
	}
	return s.Get(name)
}
