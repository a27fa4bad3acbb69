package formats

import (
	"fmt"
	"sort"
	"strings"
)

// RootFolder is the parent index of top-level folders. No entry carries it.
const RootFolder = 1

// firstFolderIndex is the index given to the first stored entry.
const firstFolderIndex = 2

// Folder is one entry of a folder tree.
type Folder struct {
	Name   string `yaml:"name"`
	Parent int32  `yaml:"parent_folder_id"`
	Index  int32  `yaml:"index"`
}

// FolderTree is a flat list of folders forming a tree through parent
// indices. Used for both the model and the object folder trees.
type FolderTree []Folder

// Lookup returns the folder with the given index.
func (t FolderTree) Lookup(index int32) (Folder, bool) {
	for _, f := range t {
		if f.Index == index {
			return f, true
		}
	}
	return Folder{}, false
}

// Path joins folder names from the top-level folder down to index with
// slashes. The root sentinel resolves to an empty path.
func (t FolderTree) Path(index int32) (string, error) {
	var parts []string
	for seen := 0; index != RootFolder; seen++ {
		if seen > len(t) {
			return "", fmt.Errorf("folder %d: parent chain loops", index)
		}
		f, ok := t.Lookup(index)
		if !ok {
			return "", fmt.Errorf("folder %d: not found", index)
		}
		parts = append(parts, f.Name)
		index = f.Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/"), nil
}

// decodeFolders reads a folder container tagged tag (GROU or OBGR).
func decodeFolders(r *Reader, tag string) (FolderTree, error) {
	var tree FolderTree
	err := readContainer(r, tag, TagEntry, func(i int, sub *Reader) error {
		sub.Int32() // reserved zero
		f := Folder{Index: int32(i + firstFolderIndex)}
		f.Name = sub.Name()
		f.Parent = sub.Int32()
		tree = append(tree, f)
		return sub.Err()
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// encodeFolders writes the tree ordered by index.
func encodeFolders(w *Writer, tag string, tree FolderTree) error {
	sorted := make(FolderTree, len(tree))
	copy(sorted, tree)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	return writeContainer(w, tag, TagEntry, len(sorted), func(i int, cw *Writer) error {
		cw.Int32(0)
		cw.Name(sorted[i].Name)
		cw.Int32(sorted[i].Parent)
		return nil
	})
}

// ParseFolderTree decodes a standalone GROU or OBGR container.
func ParseFolderTree(data []byte) (FolderTree, error) {
	r := NewReader(data)
	tag := r.PeekTag()
	if tag != TagModelFolders && tag != TagObjectFolders {
		r.Fail(&TagError{Found: tag, Expected: TagModelFolders})
		return nil, r.Err()
	}
	return decodeFolders(r, tag)
}

// EncodeFolderTree encodes tree as a container tagged tag.
func EncodeFolderTree(tag string, tree FolderTree) ([]byte, error) {
	w := NewWriter()
	if err := encodeFolders(w, tag, tree); err != nil {
		return nil, err
	}
	return w.Data(), nil
}
