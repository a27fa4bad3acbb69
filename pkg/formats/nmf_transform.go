package formats

import (
	"fmt"

	"github.com/Faultbox/sting-wld/pkg/math"
)

// NodeByIndex returns the node with the given index, or nil.
func (m *NMF) NodeByIndex(index int32) *Node {
	for i := range m.Nodes {
		if m.Nodes[i].Index == index {
			return &m.Nodes[i]
		}
	}
	return nil
}

// LocalMatrix returns the stored transform of a node. Locators and meshes
// carry none and get the identity.
func (n *Node) LocalMatrix() math.Mat4 {
	switch d := n.Data.(type) {
	case *Root:
		return math.FromRowMajor(d.Matrix)
	case *Frame:
		return math.FromRowMajor(d.Matrix)
	case *Joint:
		return math.FromRowMajor(d.Matrix)
	}
	return math.Identity()
}

// WorldMatrix composes the local matrices from the top of the node graph
// down to the node with the given index. Parent 0 ends the chain.
func (m *NMF) WorldMatrix(index int32) (math.Mat4, error) {
	return m.chain(index, (*Node).LocalMatrix)
}

// PoseMatrix is WorldMatrix with every animated frame and joint rebuilt
// from its curves sampled at time t.
func (m *NMF) PoseMatrix(index int32, t float32) (math.Mat4, error) {
	return m.chain(index, func(n *Node) math.Mat4 { return n.posed(t) })
}

func (m *NMF) chain(index int32, local func(*Node) math.Mat4) (math.Mat4, error) {
	visited := make(map[int32]bool)
	world := math.Identity()
	for index != 0 {
		if visited[index] {
			return math.Identity(), fmt.Errorf("node %d: parent loop", index)
		}
		visited[index] = true

		n := m.NodeByIndex(index)
		if n == nil {
			return math.Identity(), fmt.Errorf("node %d: not found", index)
		}
		world = local(n).Mul(world)
		index = n.Parent
	}
	return world, nil
}

// posed returns the local matrix of n at time t. Nodes without animation
// keep their stored matrix.
func (n *Node) posed(t float32) math.Mat4 {
	switch d := n.Data.(type) {
	case *Root:
		if d.Anim != nil {
			f := d.Frame.sampled(t)
			return f.Compose()
		}
	case *Frame:
		if d.Anim != nil {
			f := d.sampled(t)
			return f.Compose()
		}
	case *Joint:
		if d.Anim != nil {
			j := *d
			j.Translation = d.Anim.Translation.Sample(t, d.Translation)
			j.Rotation = d.Anim.Rotation.Sample(t, d.Rotation)
			j.Scaling = d.Anim.Scaling.Sample(t, d.Scaling)
			return j.Compose()
		}
	}
	return n.LocalMatrix()
}

// sampled returns a copy of f with its channels taken from the curves.
func (f *Frame) sampled(t float32) Frame {
	out := *f
	out.Translation = f.Anim.Translation.Sample(t, f.Translation)
	out.Rotation = f.Anim.Rotation.Sample(t, f.Rotation)
	out.Scaling = f.Anim.Scaling.Sample(t, f.Scaling)
	return out
}

// Orient returns the joint orientation in radians.
func (j *Joint) Orient() math.Vec3 {
	return math.FromRowMajor(j.RotationMatrix).EulerXYZ()
}

// Sample returns the curve value at time t, interpolating linearly between
// the surrounding keys and clamping outside them. Sentinel slots are skipped.
func (c *Curve) Sample(t float32) (float32, bool) {
	var (
		prevKey, prevVal float32
		havePrev         bool
	)
	for i := 0; i < len(c.Keys) && i < len(c.Values); i++ {
		k, v := c.Keys[i], c.Values[i]
		if k.IsSentinel() || v.IsSentinel() {
			continue
		}
		key, val := k.Value(), v.Value()
		if key >= t {
			if !havePrev || key == prevKey {
				return val, true
			}
			f := (t - prevKey) / (key - prevKey)
			return prevVal + (val-prevVal)*f, true
		}
		prevKey, prevVal, havePrev = key, val, true
	}
	return prevVal, havePrev
}

// Sample evaluates the three axes at time t. Absent axes keep def.
func (tr *Track) Sample(t float32, def Vec3) Vec3 {
	out := def
	for axis, c := range tr {
		if c == nil {
			continue
		}
		if v, ok := c.Sample(t); ok {
			out[axis] = v
		}
	}
	return out
}
