package formats

// Chunk tags.
const (
	TagWorld         = "WRLD"
	TagTexturePages  = "TEXP"
	TagPage          = "PAGE"
	TagPagePixels    = "TXPG"
	TagModelFolders  = "GROU"
	TagObjectFolders = "OBGR"
	TagEntry         = "ENTR"
	TagModels        = "LIST"
	TagModel         = "MODL"
	TagObjects       = "OBJS"
	TagObject        = "OBJ "
	TagMacros        = "MAKL"
	TagTree          = "TREE"
	TagNode          = "NODE"
	TagShadow        = "SHAD"
	TagInfo          = "INFO"
	TagOpts          = "OPTS"
	TagCond          = "COND"
	TagTaskList      = "TALI"
	TagTask          = "TASK"
	TagDependence    = "DPND"
	TagActionCode    = "ACOD"
	TagEnd           = "END "
	TagEOF           = "EOF "
)

// Vec3 is a triple of floats in file order.
type Vec3 [3]float32

// Matrix is a 4x4 matrix stored row by row.
type Matrix [16]float32

// Chunk is a tagged payload kept verbatim.
type Chunk struct {
	Tag  string `yaml:"tag"`
	Data []byte `yaml:"data"`
}

// readChunk reads a tag, a big-endian length and hands fn a reader scoped to
// exactly that many bytes. fn must consume all of them.
func readChunk(r *Reader, tag, segment string, fn func(*Reader) error) error {
	start := r.Offset()
	r.Expect(tag)
	size := r.Uint32BE()
	sub := r.Sub(int(size))
	if err := r.Err(); err != nil {
		return withPath("decode", err, segment, start)
	}
	if err := fn(sub); err != nil {
		return withPath("decode", err, segment, start)
	}
	return withPath("decode", sub.done(), segment, start)
}

// readContainer reads tag with its ignored length, then every child chunk
// tagged sep until the END terminator.
func readContainer(r *Reader, tag, sep string, fn func(i int, sub *Reader) error) error {
	start := r.Offset()
	r.Expect(tag)
	r.Uint32BE()
	for i := 0; r.Err() == nil && r.PeekTag() == sep; i++ {
		err := readChunk(r, sep, indexed(sep, i), func(sub *Reader) error {
			return fn(i, sub)
		})
		if err != nil {
			return withPath("decode", err, label(tag), start)
		}
	}
	readEnd(r)
	return withPath("decode", r.Err(), label(tag), start)
}

// readEnd consumes the END terminator. Its length is not checked.
func readEnd(r *Reader) {
	r.Expect(TagEnd)
	r.Uint32BE()
}

// writeContainer writes tag with the literal zero length used by top level
// containers, n child chunks tagged sep and the END terminator.
func writeContainer(w *Writer, tag, sep string, n int, fn func(i int, cw *Writer) error) error {
	w.Tag(tag)
	w.Int32(0)
	for i := 0; i < n; i++ {
		err := w.chunk(sep, indexed(sep, i), func(cw *Writer) error {
			return fn(i, cw)
		})
		if err != nil {
			return withPath("encode", err, label(tag), -1)
		}
	}
	w.End()
	return w.Err()
}
