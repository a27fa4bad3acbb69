package formats

import (
	"fmt"
	"os"
)

// World is a decoded world container.
type World struct {
	TexturePages  []TexturePage `yaml:"texture_pages"`
	ModelFolders  FolderTree    `yaml:"model_folders"`
	ObjectFolders FolderTree    `yaml:"object_folders"`
	Models        []Model       `yaml:"models"`
	Objects       []Object      `yaml:"objects"`
	Macros        []Chunk       `yaml:"macros,omitempty"`
	Nodes         []WorldNode   `yaml:"nodes"`
}

// DecodeOptions tunes ParseWorldWithOptions.
type DecodeOptions struct {
	// RawModels keeps every model body as raw NMF bytes in Model.RawNMF
	// instead of decoding it, so callers can decode models in parallel.
	RawModels bool
}

// ParseWorld decodes a world container.
func ParseWorld(data []byte) (*World, error) {
	return ParseWorldWithOptions(data, DecodeOptions{})
}

// ParseWorldFile reads and decodes a world container from disk.
func ParseWorldFile(path string, opts DecodeOptions) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file: %w", err)
	}
	return ParseWorldWithOptions(data, opts)
}

// ParseWorldWithOptions decodes a world container. Bytes after the EOF
// chunk are ignored.
func ParseWorldWithOptions(data []byte, opts DecodeOptions) (*World, error) {
	r := NewReader(data)
	w := &World{}

	fail := func(err error) (*World, error) {
		return nil, withPath("decode", err, label(TagWorld), 0)
	}

	r.Expect(TagWorld)
	r.Uint32BE()
	if err := r.Err(); err != nil {
		return fail(err)
	}

	var err error
	if w.TexturePages, err = decodeTexturePages(r); err != nil {
		return fail(err)
	}
	if w.ModelFolders, err = decodeFolders(r, TagModelFolders); err != nil {
		return fail(err)
	}
	if w.ObjectFolders, err = decodeFolders(r, TagObjectFolders); err != nil {
		return fail(err)
	}
	if w.Models, err = decodeModels(r, opts); err != nil {
		return fail(err)
	}
	if w.Objects, err = decodeObjects(r); err != nil {
		return fail(err)
	}
	if w.Macros, err = decodeMacros(r); err != nil {
		return fail(err)
	}
	if w.Nodes, err = decodeTree(r); err != nil {
		return fail(err)
	}

	r.Expect(TagEOF)
	r.Uint32BE()
	if err := r.Err(); err != nil {
		return fail(err)
	}
	return w, nil
}

// EncodeWorld encodes w. Top level sections get a zero length.
func EncodeWorld(w *World) ([]byte, error) {
	out := NewWriter()
	out.Tag(TagWorld)
	out.Int32(0)

	steps := []func() error{
		func() error { return encodeTexturePages(out, w.TexturePages) },
		func() error { return encodeFolders(out, TagModelFolders, w.ModelFolders) },
		func() error { return encodeFolders(out, TagObjectFolders, w.ObjectFolders) },
		func() error { return encodeModels(out, w.Models) },
		func() error { return encodeObjects(out, w.Objects) },
		func() error { return encodeMacros(out, w.Macros) },
		func() error { return encodeTree(out, w.Nodes) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, withPath("encode", err, label(TagWorld), -1)
		}
	}

	out.Tag(TagEOF)
	out.Int32(0)
	if err := out.Err(); err != nil {
		return nil, withPath("encode", err, label(TagWorld), -1)
	}
	return out.Data(), nil
}

// WriteWorldFile encodes w and writes it to path.
func WriteWorldFile(path string, w *World) error {
	data, err := EncodeWorld(w)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing world file: %w", err)
	}
	return nil
}

// ParseTree decodes a standalone TREE container.
func ParseTree(data []byte) ([]WorldNode, error) {
	return decodeTree(NewReader(data))
}

// EncodeTree encodes nodes as a TREE container.
func EncodeTree(nodes []WorldNode) ([]byte, error) {
	w := NewWriter()
	if err := encodeTree(w, nodes); err != nil {
		return nil, err
	}
	return w.Data(), nil
}

// ParseMacros decodes a standalone MAKL container.
func ParseMacros(data []byte) ([]Chunk, error) {
	return decodeMacros(NewReader(data))
}

// EncodeMacros encodes macros as a MAKL container.
func EncodeMacros(macros []Chunk) ([]byte, error) {
	w := NewWriter()
	if err := encodeMacros(w, macros); err != nil {
		return nil, err
	}
	return w.Data(), nil
}
