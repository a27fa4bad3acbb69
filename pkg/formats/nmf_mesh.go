package formats

import "fmt"

const (
	tagMaterial     = "MTRL"
	tagNamedTexture = "TEXT"
)

// Vertex is one vbuf entry: position, normal, uv and two extra floats.
type Vertex [10]float32

// UV is one uvpt entry.
type UV [2]float32

// Mesh is the geometry payload of a MESH node.
type Mesh struct {
	Triangles       int32           `yaml:"tnum"`
	Vertices        []Vertex        `yaml:"vbuf,flow"`
	UVs             []UV            `yaml:"uvpt,flow"`
	Indices         []int16         `yaml:"ibuf,flow"`
	BackfaceCulling int32           `yaml:"backface_culling"`
	Complex         int32           `yaml:"complex"`
	Inside          int32           `yaml:"inside"`
	Smooth          int32           `yaml:"smooth"`
	LightFlare      int32           `yaml:"light_flare"`
	Materials       []Material      `yaml:"materials"`
	Animations      []MeshAnimation `yaml:"mesh_anim,omitempty"`
	UnknownFloats   []RawFloat      `yaml:"unknown_floats,flow"` // triples
	UnknownInts     []int32         `yaml:"unknown_ints,flow"`
}

// Material describes how a mesh is shaded.
type Material struct {
	Name            string        `yaml:"name"`
	BlendMode       int32         `yaml:"blend_mode"`
	UnknownInts     [4]int32      `yaml:"unknown_ints,flow"`
	FlipHorizontal  int32         `yaml:"uv_mapping_flip_horizontal"`
	FlipVertical    int32         `yaml:"uv_mapping_flip_vertical"`
	Rotate          int32         `yaml:"rotate"`
	StretchH        RawFloat      `yaml:"horizontal_stretch"`
	StretchV        RawFloat      `yaml:"vertical_stretch"`
	Color           [4]RawFloat   `yaml:"rgba,flow"`
	Color2          [4]RawFloat   `yaml:"rgba2,flow"`
	UnknownZeroInts [9]int32      `yaml:"unknown_zero_ints,flow"`
	Texture         *PageTexture  `yaml:"texture,omitempty"` // TXPG reference
	Text            *NamedTexture `yaml:"text,omitempty"`    // TEXT reference
}

// PageTexture references a sub-texture of an atlas page.
type PageTexture struct {
	Name  string `yaml:"name"`
	Page  int32  `yaml:"texture_page"`
	Index int32  `yaml:"index_texture_on_page"`
	Box   Rect   `yaml:"box"`
}

// NamedTexture references a texture by name only.
type NamedTexture struct {
	Name string `yaml:"name"`
}

// MeshAnimation is an opaque per-mesh animation record.
type MeshAnimation struct {
	Flag   int32         `yaml:"unknown_bool"`
	Ints   []int32       `yaml:"unknown_ints,flow"`
	Floats [3]RawFloat   `yaml:"unknown_floats,flow"`
	Pairs  [3][]RawFloat `yaml:"unknown_pairs,flow"` // each list holds pairs
}

func readMesh(r *Reader) *Mesh {
	m := &Mesh{Triangles: r.Int32()}

	vnum := r.Count()
	if !r.room(vnum, 48) {
		return m
	}
	m.Vertices = make([]Vertex, vnum)
	for i := range m.Vertices {
		for j := range m.Vertices[i] {
			m.Vertices[i][j] = r.Float32()
		}
	}
	m.UVs = make([]UV, vnum)
	for i := range m.UVs {
		m.UVs[i] = UV{r.Float32(), r.Float32()}
	}

	inum := r.Count()
	m.Indices = r.Int16s(inum)
	if inum%2 == 1 {
		r.Int16() // pad
	}

	m.BackfaceCulling = r.Int32()
	m.Complex = r.Int32()
	m.Inside = r.Int32()
	m.Smooth = r.Int32()
	m.LightFlare = r.Int32()

	n := r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		m.Materials = append(m.Materials, readMaterial(r))
	}

	for r.Err() == nil && r.Tag() == tagAnim {
		m.Animations = append(m.Animations, readMeshAnimation(r))
	}

	m.UnknownFloats = r.RawFloats(r.Count() * 3)
	m.UnknownInts = r.Int32s(r.Count())
	return m
}

func readMaterial(r *Reader) Material {
	var mt Material
	r.Expect(tagMaterial)
	mt.Name = r.Name()
	mt.BlendMode = r.Int32()
	for i := range mt.UnknownInts {
		mt.UnknownInts[i] = r.Int32()
	}
	mt.FlipHorizontal = r.Int32()
	mt.FlipVertical = r.Int32()
	mt.Rotate = r.Int32()
	mt.StretchH = r.RawFloat()
	mt.StretchV = r.RawFloat()
	for i := range mt.Color {
		mt.Color[i] = r.RawFloat()
	}
	for i := range mt.Color2 {
		mt.Color2[i] = r.RawFloat()
	}
	for i := range mt.UnknownZeroInts {
		mt.UnknownZeroInts[i] = r.Int32()
	}

	switch r.Tag() {
	case TagPagePixels:
		mt.Texture = &PageTexture{Name: r.Name(), Page: r.Int32(), Index: r.Int32(), Box: readRect(r)}
	case tagNamedTexture:
		mt.Text = &NamedTexture{Name: r.Name()}
	}
	return mt
}

func readMeshAnimation(r *Reader) MeshAnimation {
	var a MeshAnimation
	a.Flag = r.Int32()
	a.Ints = r.Int32s(r.Count())
	for i := range a.Floats {
		a.Floats[i] = r.RawFloat()
	}
	var sizes [3]int
	for i := range sizes {
		sizes[i] = r.Count()
	}
	for i, n := range sizes {
		a.Pairs[i] = r.RawFloats(n * 2)
	}
	return a
}

func writeMesh(w *Writer, m *Mesh) error {
	if len(m.UVs) != len(m.Vertices) {
		return fmt.Errorf("%w: %d vertices but %d uv points", ErrInvalidCount, len(m.Vertices), len(m.UVs))
	}
	if len(m.UnknownFloats)%3 != 0 {
		return fmt.Errorf("%w: %d unknown floats", ErrInvalidFloatPair, len(m.UnknownFloats))
	}

	w.Int32(m.Triangles)
	w.Count(len(m.Vertices))
	for _, v := range m.Vertices {
		w.Float32s(v[:])
	}
	for _, uv := range m.UVs {
		w.Float32s(uv[:])
	}

	w.Count(len(m.Indices))
	w.Int16s(m.Indices)
	if len(m.Indices)%2 == 1 {
		w.Int16(0)
	}

	w.Int32(m.BackfaceCulling)
	w.Int32(m.Complex)
	w.Int32(m.Inside)
	w.Int32(m.Smooth)
	w.Int32(m.LightFlare)

	w.Count(len(m.Materials))
	for i := range m.Materials {
		writeMaterial(w, &m.Materials[i])
	}

	for i := range m.Animations {
		if err := writeMeshAnimation(w, &m.Animations[i]); err != nil {
			return fmt.Errorf("mesh animation %d: %w", i, err)
		}
	}
	w.Int32(0)

	w.Count(len(m.UnknownFloats) / 3)
	w.RawFloats(m.UnknownFloats)
	w.Count(len(m.UnknownInts))
	w.Int32s(m.UnknownInts)
	return w.Err()
}

func writeMaterial(w *Writer, mt *Material) {
	w.Tag(tagMaterial)
	w.Name(mt.Name)
	w.Int32(mt.BlendMode)
	w.Int32s(mt.UnknownInts[:])
	w.Int32(mt.FlipHorizontal)
	w.Int32(mt.FlipVertical)
	w.Int32(mt.Rotate)
	w.RawFloat(mt.StretchH)
	w.RawFloat(mt.StretchV)
	w.RawFloats(mt.Color[:])
	w.RawFloats(mt.Color2[:])
	w.Int32s(mt.UnknownZeroInts[:])

	switch {
	case mt.Texture != nil:
		w.Tag(TagPagePixels)
		w.Name(mt.Texture.Name)
		w.Int32(mt.Texture.Page)
		w.Int32(mt.Texture.Index)
		writeRect(w, mt.Texture.Box)
	case mt.Text != nil:
		w.Tag(tagNamedTexture)
		w.Name(mt.Text.Name)
	default:
		w.Int32(0)
	}
}

func writeMeshAnimation(w *Writer, a *MeshAnimation) error {
	for i, p := range a.Pairs {
		if len(p)%2 != 0 {
			return fmt.Errorf("%w: list %d holds %d floats", ErrInvalidFloatPair, i, len(p))
		}
	}
	w.Tag(tagAnim)
	w.Int32(a.Flag)
	w.Count(len(a.Ints))
	w.Int32s(a.Ints)
	w.RawFloats(a.Floats[:])
	for _, p := range a.Pairs {
		w.Count(len(p) / 2)
	}
	for _, p := range a.Pairs {
		w.RawFloats(p)
	}
	return w.Err()
}
