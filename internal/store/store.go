// Package store keeps the binary blobs of an unpacked world (model bodies,
// the shadow sidecar) on disk, optionally compressed.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/Faultbox/sting-wld/pkg/formats"
)

// Codec selects how blobs are compressed on disk.
type Codec string

const (
	CodecNone Codec = "none"
	CodecLZ4  Codec = "lz4"
	CodecZstd Codec = "zstd"
)

var (
	ErrUnknownCodec = errors.New("store: unknown codec")
	ErrNotFound     = errors.New("store: blob not found")
	ErrUnsafeName   = errors.New("store: blob name leaves the store root")
)

// ParseCodec validates a codec name. The empty string means CodecNone.
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(strings.ToLower(s)); c {
	case "", CodecNone:
		return CodecNone, nil
	case CodecLZ4, CodecZstd:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCodec, s)
}

// suffix is appended to blob names stored with c.
func (c Codec) suffix() string {
	switch c {
	case CodecLZ4:
		return ".lz4"
	case CodecZstd:
		return ".zst"
	}
	return ""
}

var codecs = []Codec{CodecNone, CodecLZ4, CodecZstd}

// Store reads and writes blobs under a root directory.
type Store struct {
	root    string
	codec   Codec
	folders formats.FolderTree
}

// New returns a store rooted at dir that writes blobs with codec.
func New(dir string, codec Codec) *Store {
	return &Store{root: dir, codec: codec}
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

// SetFolders sets the folder tree used to place model blobs.
func (s *Store) SetFolders(tree formats.FolderTree) {
	s.folders = tree
}

// Put compresses data and writes it under name.
func (s *Store) Put(name string, data []byte) error {
	packed, err := compress(s.codec, data)
	if err != nil {
		return fmt.Errorf("store: compressing %s: %w", name, err)
	}
	path, err := s.blobPath(name, s.codec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, packed, 0o644)
}

// blobPath maps a slash separated blob name to its file. Names must stay
// below the root.
func (s *Store) blobPath(name string, c Codec) (string, error) {
	local := filepath.FromSlash(name)
	if strings.Contains(name, "\\") || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return filepath.Join(s.root, local+c.suffix()), nil
}

// Get reads the blob stored under name with any codec.
func (s *Store) Get(name string) ([]byte, error) {
	for _, c := range codecs {
		path, err := s.blobPath(name, c)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out, err := decompress(c, data)
		if err != nil {
			return nil, fmt.Errorf("store: decompressing %s: %w", path, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Exists reports whether a blob is stored under name.
func (s *Store) Exists(name string) bool {
	for _, c := range codecs {
		path, err := s.blobPath(name, c)
		if err != nil {
			return false
		}
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

func compress(c Codec, data []byte) ([]byte, error) {
	switch c {
	case CodecNone, "":
		return data, nil
	case CodecLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CodecZstd:
		return zstd.Compress(nil, data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, c)
}

func decompress(c Codec, data []byte) ([]byte, error) {
	switch c {
	case CodecNone, "":
		return data, nil
	case CodecLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	case CodecZstd:
		return zstd.Decompress(nil, data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, c)
}
