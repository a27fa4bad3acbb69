package formats

import (
	"fmt"
	"sort"
)

// Model node tags.
const (
	TagNMF     = "NMF "
	TagRoot    = "ROOT"
	TagLocator = "LOCA"
	TagFrame   = "FRAM"
	TagJoint   = "JOIN"
	TagMesh    = "MESH"
)

// Reserved words stored in front of each node, by tag.
const (
	reservedLocator = 0
	reservedMesh    = 14
	reservedOther   = 2
)

// NodeData is the tag-specific payload of a model node: *Root, *Locator,
// *Frame, *Joint or *Mesh.
type NodeData interface {
	nodeTag() string
}

// Frame is a transform node. Root nodes share its layout.
type Frame struct {
	Matrix               Matrix     `yaml:"matrix,flow"`
	Translation          Vec3       `yaml:"translation,flow"`
	Scaling              Vec3       `yaml:"scaling,flow"`
	Rotation             Vec3       `yaml:"rotation,flow"`
	RotatePivotTranslate Vec3       `yaml:"rotate_pivot_translate,flow"`
	RotatePivot          Vec3       `yaml:"rotate_pivot,flow"`
	ScalePivotTranslate  Vec3       `yaml:"scale_pivot_translate,flow"`
	ScalePivot           Vec3       `yaml:"scale_pivot,flow"`
	Shear                Vec3       `yaml:"shear,flow"`
	Anim                 *Animation `yaml:"anim,omitempty"`
}

// Root is the top node of a model.
type Root struct {
	Frame `yaml:",inline"`
}

// Locator marks a point and carries no payload.
type Locator struct{}

// Joint is a skeleton bone. Rotation limits are in radians.
type Joint struct {
	Matrix         Matrix     `yaml:"matrix,flow"`
	Translation    Vec3       `yaml:"translation,flow"`
	Scaling        Vec3       `yaml:"scaling,flow"`
	Rotation       Vec3       `yaml:"rotation,flow"`
	RotationMatrix Matrix     `yaml:"rotation_matrix,flow"`
	MinRotLimit    Vec3       `yaml:"min_rot_limit,flow"`
	MaxRotLimit    Vec3       `yaml:"max_rot_limit,flow"`
	Anim           *Animation `yaml:"anim,omitempty"`
}

func (*Root) nodeTag() string    { return TagRoot }
func (*Locator) nodeTag() string { return TagLocator }
func (*Frame) nodeTag() string   { return TagFrame }
func (*Joint) nodeTag() string   { return TagJoint }
func (*Mesh) nodeTag() string    { return TagMesh }

// Node is one entry of a model's node graph.
type Node struct {
	Name     string   `yaml:"name"`
	Parent   int32    `yaml:"parent_iid"`
	Index    int32    `yaml:"index"`
	Reserved int32    `yaml:"reserved"`
	Data     NodeData `yaml:"data"`
}

// Tag returns the chunk tag of the node.
func (n *Node) Tag() string {
	if n.Data == nil {
		return ""
	}
	return n.Data.nodeTag()
}

// NMF is a decoded model: its nodes in stream order, indexed from 1.
type NMF struct {
	Nodes []Node `yaml:"nodes"`
}

// NewNode returns a node with the reserved word the format expects for its
// payload type.
func NewNode(name string, parent int32, data NodeData) Node {
	n := Node{Name: name, Parent: parent, Data: data, Reserved: reservedOther}
	switch data.(type) {
	case *Locator:
		n.Reserved = reservedLocator
	case *Mesh:
		n.Reserved = reservedMesh
	}
	return n
}

// ParseNMF decodes a standalone NMF model.
func ParseNMF(data []byte) (*NMF, error) {
	r := NewReader(data)
	m, err := decodeNMF(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeNMF encodes m.
func EncodeNMF(m *NMF) ([]byte, error) {
	w := NewWriter()
	if err := encodeNMF(w, m); err != nil {
		return nil, err
	}
	return w.Data(), nil
}

func decodeNMF(r *Reader) (*NMF, error) {
	start := r.Offset()
	r.Expect(TagNMF)
	r.Int32()
	if err := r.Err(); err != nil {
		return nil, withPath("decode", err, label(TagNMF), start)
	}

	m := &NMF{}
	for i := 0; ; i++ {
		tag := r.PeekTag()
		if tag == TagEnd || r.Err() != nil {
			break
		}
		off := r.Offset()
		r.Tag()
		size := r.Uint32BE()
		sub := r.Sub(int(size))
		if err := r.Err(); err != nil {
			return nil, withPath("decode", err, label(TagNMF), start)
		}
		n, err := decodeNode(sub, tag, int32(i+1))
		if err == nil {
			err = sub.done()
		}
		if err != nil {
			return nil, withPath("decode", withPath("decode", err, indexed(tag, i), off), label(TagNMF), start)
		}
		m.Nodes = append(m.Nodes, n)
	}
	readEnd(r)
	if err := r.Err(); err != nil {
		return nil, withPath("decode", err, label(TagNMF), start)
	}
	return m, nil
}

func decodeNode(r *Reader, tag string, index int32) (Node, error) {
	n := Node{Index: index}
	n.Reserved = r.Int32()
	n.Parent = r.Int32()
	n.Name = r.Name()

	switch tag {
	case TagRoot:
		n.Data = &Root{Frame: readFrame(r)}
	case TagLocator:
		n.Data = &Locator{}
	case TagFrame:
		f := readFrame(r)
		n.Data = &f
	case TagJoint:
		n.Data = readJoint(r)
	case TagMesh:
		n.Data = readMesh(r)
	default:
		r.Fail(&TagError{Found: tag, Expected: "model node"})
	}
	return n, r.Err()
}

func readMatrix(r *Reader) Matrix {
	var m Matrix
	for i := range m {
		m[i] = r.Float32()
	}
	return m
}

func readFrame(r *Reader) Frame {
	var f Frame
	f.Matrix = readMatrix(r)
	for _, v := range []*Vec3{
		&f.Translation, &f.Scaling, &f.Rotation,
		&f.RotatePivotTranslate, &f.RotatePivot,
		&f.ScalePivotTranslate, &f.ScalePivot, &f.Shear,
	} {
		*v = r.Vec3()
	}
	f.Anim = readAnimation(r)
	return f
}

func readJoint(r *Reader) *Joint {
	j := &Joint{}
	j.Matrix = readMatrix(r)
	j.Translation = r.Vec3()
	j.Scaling = r.Vec3()
	j.Rotation = r.Vec3()
	j.RotationMatrix = readMatrix(r)
	j.MinRotLimit = r.Vec3()
	j.MaxRotLimit = r.Vec3()
	j.Anim = readAnimation(r)
	return j
}

func encodeNMF(w *Writer, m *NMF) error {
	nodes := make([]Node, len(m.Nodes))
	copy(nodes, m.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Index < nodes[j].Index })

	w.Tag(TagNMF)
	w.Int32(0)
	for i := range nodes {
		n := &nodes[i]
		tag := n.Tag()
		if tag == "" {
			err := fmt.Errorf("%w: node %q has no data", ErrMissingPayload, n.Name)
			return withPath("encode", err, label(TagNMF), -1)
		}
		err := w.chunk(tag, indexed(tag, i), func(cw *Writer) error {
			return encodeNode(cw, n)
		})
		if err != nil {
			return withPath("encode", err, label(TagNMF), -1)
		}
	}
	w.End()
	return w.Err()
}

func encodeNode(w *Writer, n *Node) error {
	w.Int32(n.Reserved)
	w.Int32(n.Parent)
	w.Name(n.Name)

	switch d := n.Data.(type) {
	case *Root:
		return writeFrame(w, &d.Frame)
	case *Locator:
		return w.Err()
	case *Frame:
		return writeFrame(w, d)
	case *Joint:
		return writeJoint(w, d)
	case *Mesh:
		return writeMesh(w, d)
	}
	return w.Err()
}

func writeFrame(w *Writer, f *Frame) error {
	w.Float32s(f.Matrix[:])
	for _, v := range []Vec3{
		f.Translation, f.Scaling, f.Rotation,
		f.RotatePivotTranslate, f.RotatePivot,
		f.ScalePivotTranslate, f.ScalePivot, f.Shear,
	} {
		w.Vec3(v)
	}
	return writeAnimation(w, f.Anim)
}

func writeJoint(w *Writer, j *Joint) error {
	w.Float32s(j.Matrix[:])
	w.Vec3(j.Translation)
	w.Vec3(j.Scaling)
	w.Vec3(j.Rotation)
	w.Float32s(j.RotationMatrix[:])
	w.Vec3(j.MinRotLimit)
	w.Vec3(j.MaxRotLimit)
	return writeAnimation(w, j.Anim)
}

// nmfExtent returns the byte length of the NMF model at the start of data by
// walking its chunk run, without decoding any node.
func nmfExtent(r *Reader) int {
	start := r.pos
	r.Expect(TagNMF)
	r.Int32()
	for r.Err() == nil && r.PeekTag() != TagEnd {
		r.Tag()
		r.Sub(int(r.Uint32BE()))
	}
	readEnd(r)
	return r.pos - start
}
