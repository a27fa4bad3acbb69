package formats

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/sting-wld/pkg/math"
)

func near(a, b math.Vec3) bool {
	const eps = 1e-5
	return stdmath.Abs(float64(a.X-b.X)) < eps &&
		stdmath.Abs(float64(a.Y-b.Y)) < eps &&
		stdmath.Abs(float64(a.Z-b.Z)) < eps
}

func TestFrame_Compose(t *testing.T) {
	quarter := float32(stdmath.Pi / 2)
	tests := []struct {
		name  string
		frame Frame
		in    math.Vec3
		want  math.Vec3
	}{
		{
			name:  "identity channels",
			frame: Frame{Scaling: Vec3{1, 1, 1}},
			in:    math.Vec3{X: 1, Y: 2, Z: 3},
			want:  math.Vec3{X: 1, Y: 2, Z: 3},
		},
		{
			name:  "scale then rotate then translate",
			frame: Frame{Translation: Vec3{1, 2, 3}, Rotation: Vec3{0, 0, quarter}, Scaling: Vec3{2, 2, 2}},
			in:    math.Vec3{X: 1},
			want:  math.Vec3{X: 1, Y: 4, Z: 3},
		},
		{
			name:  "rotate pivot stays fixed",
			frame: Frame{Rotation: Vec3{0, 0, quarter}, Scaling: Vec3{1, 1, 1}, RotatePivot: Vec3{1, 0, 0}},
			in:    math.Vec3{X: 1},
			want:  math.Vec3{X: 1},
		},
		{
			name:  "scale pivot stays fixed",
			frame: Frame{Scaling: Vec3{3, 3, 3}, ScalePivot: Vec3{0, 1, 0}},
			in:    math.Vec3{Y: 1},
			want:  math.Vec3{Y: 1},
		},
		{
			name:  "pivot translations add",
			frame: Frame{Scaling: Vec3{1, 1, 1}, RotatePivotTranslate: Vec3{0, 0, 1}, ScalePivotTranslate: Vec3{0, 0, 2}},
			in:    math.Vec3{},
			want:  math.Vec3{Z: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.frame.Compose().TransformVec3(tt.in)
			if !near(got, tt.want) {
				t.Errorf("Compose() maps %v to %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func vertexAt(x, y, z, nx, ny, nz float32) Vertex {
	return Vertex{x, y, z, nx, ny, nz}
}

func TestMesh_RightHanded(t *testing.T) {
	up := []Vertex{
		vertexAt(0, 0, 0, 0, 0, 1),
		vertexAt(1, 0, 0, 0, 0, 1),
		vertexAt(0, 1, 0, 0, 0, 1),
	}
	down := []Vertex{
		vertexAt(0, 0, 0, 0, 0, -1),
		vertexAt(1, 0, 0, 0, 0, -1),
		vertexAt(0, 1, 0, 0, 0, -1),
	}
	tests := []struct {
		name     string
		vertices []Vertex
		indices  []int16
		want     bool
	}{
		{"counter clockwise with normals", up, []int16{0, 1, 2}, true},
		{"flipped normals", down, []int16{0, 1, 2}, false},
		{"flipped winding", up, []int16{0, 2, 1}, false},
		{"majority wins", up, []int16{0, 2, 1, 0, 2, 1, 0, 1, 2}, false},
		{"tie counts as right handed", up, []int16{0, 1, 2, 0, 2, 1}, true},
		{"out of range index skipped", down, []int16{0, 1, 7}, true},
		{"trailing partial triangle ignored", down, []int16{0, 1, 2, 0}, false},
		{"empty", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices, Indices: tt.indices}
			if got := m.RightHanded(); got != tt.want {
				t.Errorf("RightHanded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMesh_Bounds(t *testing.T) {
	m := &Mesh{Vertices: []Vertex{
		vertexAt(0, 0, 0, 0, 0, 1),
		vertexAt(1, 2, 3, 0, 0, 1),
		vertexAt(-1, 5, 0, 0, 0, 1),
	}}
	lo, hi, ok := m.Bounds(math.Translate(10, 0, 0))
	if !ok {
		t.Fatal("Bounds reported no vertices")
	}
	if lo != (math.Vec3{X: 9, Y: 0, Z: 0}) || hi != (math.Vec3{X: 11, Y: 5, Z: 3}) {
		t.Errorf("Bounds = %v..%v", lo, hi)
	}

	if _, _, ok := (&Mesh{}).Bounds(math.Identity()); ok {
		t.Error("empty mesh should report no bounds")
	}
}
