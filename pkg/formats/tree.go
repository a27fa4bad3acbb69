package formats

import "fmt"

// nodeVersion is the constant leading every NODE chunk.
const nodeVersion = 15

// firstNodeIndex is the index given to the first world node.
const firstNodeIndex = 2

// NodeType selects the payload of a world node.
type NodeType int32

const (
	NodeFolder NodeType = 0
	NodeGround NodeType = 1
	NodeObject NodeType = 2
	NodeLight  NodeType = 3
)

// String returns the name of the node type.
func (t NodeType) String() string {
	switch t {
	case NodeFolder:
		return "Folder"
	case NodeGround:
		return "Ground"
	case NodeObject:
		return "Object"
	case NodeLight:
		return "Light"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// WorldNode is one placed entry of the world tree.
type WorldNode struct {
	Index      int32        `yaml:"index"`
	ParentID   int32        `yaml:"parent_id"`
	FolderName string       `yaml:"folder_name"`
	X          float32      `yaml:"x"`
	Y          float32      `yaml:"y"`
	Z          float32      `yaml:"z"`
	W          float32      `yaml:"w"`
	N          float32      `yaml:"n"`
	U          float32      `yaml:"u"`
	Unknown1   int32        `yaml:"unknown1"`
	Type       NodeType     `yaml:"type"`
	Payload    WorldPayload `yaml:"payload"`
}

// WorldPayload is the type specific part of a world node: *FolderData,
// *GroundData, *ObjectData or *LightData.
type WorldPayload interface {
	nodeType() NodeType
}

// FolderData groups other nodes. The four words are always zero in
// observed files.
type FolderData struct {
	Reserved [4]int32 `yaml:"reserved,flow"`
}

// Connection links a ground to another node.
type Connection struct {
	Target int32 `yaml:"target"`
	Flag   int32 `yaml:"flag"`
}

// Shadow is a baked shadow map of a ground.
type Shadow struct {
	Size1 int32     `yaml:"size1"`
	Size2 int32     `yaml:"size2"`
	Data  []float32 `yaml:"data,flow"`
}

// ShadowLen returns the number of floats stored for a shadow map of the
// given dimensions. Odd by odd maps carry one extra float.
func ShadowLen(size1, size2 int32) int {
	n := int(size1) * int(size2) / 2
	if size1%2 != 0 && size2%2 != 0 {
		n++
	}
	return n
}

// GroundData places a model.
type GroundData struct {
	ModelID     int32        `yaml:"model_id"`
	Connections []Connection `yaml:"connections,omitempty"`
	Reserved    int32        `yaml:"reserved"`
	Shadow      *Shadow      `yaml:"shad,omitempty"`
}

// ObjectData places an object, optionally overriding its info block.
type ObjectData struct {
	ObjectID     int32 `yaml:"object_id"`
	UnknownZero  int32 `yaml:"unknown_zero"`
	Info         *Info `yaml:"info,omitempty"`
	UnknownZero2 int32 `yaml:"unknown_zero2"`
}

// LightData is a light source record.
type LightData struct {
	Unknown1 int32       `yaml:"unknown1"`
	Floats11 [11]float32 `yaml:"unknown_floats11,flow"`
	Unknown2 int32       `yaml:"unknown2"`
	Floats13 [13]float32 `yaml:"unknown_floats13,flow"`
	Unknown3 [4]int32    `yaml:"unknown3,flow"`
}

func (*FolderData) nodeType() NodeType { return NodeFolder }
func (*GroundData) nodeType() NodeType { return NodeGround }
func (*ObjectData) nodeType() NodeType { return NodeObject }
func (*LightData) nodeType() NodeType  { return NodeLight }

func decodeTree(r *Reader) ([]WorldNode, error) {
	var nodes []WorldNode
	err := readContainer(r, TagTree, TagNode, func(i int, sub *Reader) error {
		n, err := decodeWorldNode(sub)
		n.Index = int32(i + firstNodeIndex)
		nodes = append(nodes, n)
		return err
	})
	return nodes, err
}

func decodeWorldNode(r *Reader) (WorldNode, error) {
	r.Int32() // version
	n := WorldNode{
		ParentID:   r.Int32(),
		FolderName: r.Name(),
		X:          r.Float32(),
		Y:          r.Float32(),
		Z:          r.Float32(),
		W:          r.Float32(),
		N:          r.Float32(),
		U:          r.Float32(),
		Unknown1:   r.Int32(),
		Type:       NodeType(r.Int32()),
	}
	if err := r.Err(); err != nil {
		return n, err
	}

	switch n.Type {
	case NodeFolder:
		f := &FolderData{}
		for i := range f.Reserved {
			f.Reserved[i] = r.Int32()
		}
		n.Payload = f
	case NodeGround:
		g, err := readGround(r)
		n.Payload = g
		if err != nil {
			return n, err
		}
	case NodeObject:
		o, err := readObjectData(r)
		n.Payload = o
		if err != nil {
			return n, err
		}
	case NodeLight:
		l := &LightData{Unknown1: r.Int32()}
		for i := range l.Floats11 {
			l.Floats11[i] = r.Float32()
		}
		l.Unknown2 = r.Int32()
		for i := range l.Floats13 {
			l.Floats13[i] = r.Float32()
		}
		for i := range l.Unknown3 {
			l.Unknown3[i] = r.Int32()
		}
		n.Payload = l
	default:
		r.Fail(&VariantError{Discriminant: int32(n.Type), Context: "world node"})
	}
	return n, r.Err()
}

func readGround(r *Reader) (*GroundData, error) {
	g := &GroundData{ModelID: r.Int32()}
	n := r.Count()
	if r.room(n, 8) && n > 0 {
		g.Connections = make([]Connection, n)
		for i := range g.Connections {
			g.Connections[i] = Connection{Target: r.Int32(), Flag: r.Int32()}
		}
	}
	g.Reserved = r.Int32()

	start := r.Offset()
	if r.Tag() == TagShadow {
		s := &Shadow{Size1: r.Int32(), Size2: r.Int32()}
		if s.Size1 < 0 || s.Size2 < 0 {
			r.Fail(fmt.Errorf("%w: shadow %dx%d", ErrInvalidCount, s.Size1, s.Size2))
		}
		s.Data = r.Float32s(ShadowLen(s.Size1, s.Size2))
		g.Shadow = s
		return g, withPath("decode", r.Err(), label(TagShadow), start)
	}
	return g, r.Err()
}

func readObjectData(r *Reader) (*ObjectData, error) {
	o := &ObjectData{ObjectID: r.Int32(), UnknownZero: r.Int32()}
	if r.PeekTag() == TagInfo {
		info, err := decodeInfo(r)
		o.Info = info
		if err != nil {
			return o, err
		}
	} else {
		r.Int32()
	}
	o.UnknownZero2 = r.Int32()
	return o, r.Err()
}

func encodeTree(w *Writer, nodes []WorldNode) error {
	return writeContainer(w, TagTree, TagNode, len(nodes), func(i int, cw *Writer) error {
		return encodeWorldNode(cw, &nodes[i])
	})
}

func encodeWorldNode(w *Writer, n *WorldNode) error {
	if n.Type < NodeFolder || n.Type > NodeLight {
		return &VariantError{Discriminant: int32(n.Type), Context: "world node"}
	}
	if n.Payload == nil || n.Payload.nodeType() != n.Type {
		return fmt.Errorf("%w: world node %d of type %s", ErrMissingPayload, n.Index, n.Type)
	}

	w.Int32(nodeVersion)
	w.Int32(n.ParentID)
	w.Name(n.FolderName)
	w.Float32s([]float32{n.X, n.Y, n.Z, n.W, n.N, n.U})
	w.Int32(n.Unknown1)
	w.Int32(int32(n.Type))

	switch p := n.Payload.(type) {
	case *FolderData:
		w.Int32s(p.Reserved[:])
	case *GroundData:
		return writeGround(w, p)
	case *ObjectData:
		w.Int32(p.ObjectID)
		w.Int32(p.UnknownZero)
		if p.Info != nil {
			if err := encodeInfo(w, p.Info); err != nil {
				return err
			}
		} else {
			w.Int32(0)
		}
		w.Int32(p.UnknownZero2)
	case *LightData:
		w.Int32(p.Unknown1)
		w.Float32s(p.Floats11[:])
		w.Int32(p.Unknown2)
		w.Float32s(p.Floats13[:])
		w.Int32s(p.Unknown3[:])
	}
	return w.Err()
}

func writeGround(w *Writer, g *GroundData) error {
	w.Int32(g.ModelID)
	w.Count(len(g.Connections))
	for _, c := range g.Connections {
		w.Int32(c.Target)
		w.Int32(c.Flag)
	}
	w.Int32(g.Reserved)
	if g.Shadow == nil {
		w.Int32(0)
		return w.Err()
	}
	s := g.Shadow
	if want := ShadowLen(s.Size1, s.Size2); len(s.Data) != want {
		err := fmt.Errorf("%w: %dx%d needs %d floats, got %d", ErrShadowSize, s.Size1, s.Size2, want, len(s.Data))
		return withPath("encode", err, label(TagShadow), -1)
	}
	w.Tag(TagShadow)
	w.Int32(s.Size1)
	w.Int32(s.Size2)
	w.Float32s(s.Data)
	return w.Err()
}
