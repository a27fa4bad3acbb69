package formats

import "github.com/Faultbox/sting-wld/pkg/math"

// normalEpsilon is the length below which a normal counts as degenerate.
const normalEpsilon = 1e-8

// Compose rebuilds the frame transform from its channels with the pivot
// chain T * RPT * RP * R * -RP * SPT * SP * S * -SP. Rotation is in radians
// and applied X, then Y, then Z. Shear is ignored.
func (f *Frame) Compose() math.Mat4 {
	t := func(v Vec3) math.Mat4 { return math.Translate(v[0], v[1], v[2]) }
	neg := func(v Vec3) math.Mat4 { return math.Translate(-v[0], -v[1], -v[2]) }

	return t(f.Translation).
		Mul(t(f.RotatePivotTranslate)).
		Mul(t(f.RotatePivot)).
		Mul(math.FromEulerXYZ(math.FromArray(f.Rotation))).
		Mul(neg(f.RotatePivot)).
		Mul(t(f.ScalePivotTranslate)).
		Mul(t(f.ScalePivot)).
		Mul(math.Scale(f.Scaling[0], f.Scaling[1], f.Scaling[2])).
		Mul(neg(f.ScalePivot))
}

// Compose rebuilds the joint transform T * JO * R * S, with the joint
// orientation taken from RotationMatrix.
func (j *Joint) Compose() math.Mat4 {
	return math.Translate(j.Translation[0], j.Translation[1], j.Translation[2]).
		Mul(math.FromRowMajor(j.RotationMatrix)).
		Mul(math.FromEulerXYZ(math.FromArray(j.Rotation))).
		Mul(math.Scale(j.Scaling[0], j.Scaling[1], j.Scaling[2]))
}

// position returns the first three vbuf floats.
func (v *Vertex) position() math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }

// normal returns vbuf floats three to five.
func (v *Vertex) normal() math.Vec3 { return math.Vec3{X: v[3], Y: v[4], Z: v[5]} }

func unit(v math.Vec3) math.Vec3 {
	if v.Length() < normalEpsilon {
		return math.Vec3{}
	}
	return v.Normalize()
}

// RightHanded reports whether the triangle winding agrees with the stored
// vertex normals for at least half of the triangles. Triangles with an
// index outside the vertex buffer are skipped.
func (m *Mesh) RightHanded() bool {
	var agree, disagree int
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		if a < 0 || b < 0 || c < 0 || a >= len(m.Vertices) || b >= len(m.Vertices) || c >= len(m.Vertices) {
			continue
		}
		v0, v1, v2 := &m.Vertices[a], &m.Vertices[b], &m.Vertices[c]

		p0 := v0.position()
		geom := unit(v1.position().Sub(p0).Cross(v2.position().Sub(p0)))
		avg := unit(v0.normal().Add(v1.normal()).Add(v2.normal()))
		if geom.Dot(avg) >= 0 {
			agree++
		} else {
			disagree++
		}
	}
	return agree >= disagree
}

// Bounds returns the box holding every vertex position after applying
// world. ok is false for a mesh without vertices.
func (m *Mesh) Bounds(world math.Mat4) (lo, hi math.Vec3, ok bool) {
	for i := range m.Vertices {
		p := world.TransformVec3(m.Vertices[i].position())
		if !ok {
			lo, hi, ok = p, p, true
			continue
		}
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi, ok
}
