package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	if got := v.Length(); got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
	n := v.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Array(t *testing.T) {
	v := FromArray([3]float32{1, 2, 3})
	if v != (Vec3{1, 2, 3}) || v.Array() != [3]float32{1, 2, 3} {
		t.Errorf("FromArray/Array = %v", v)
	}
	if d := (Vec3{4, 6, 3}).Sub(v); d != (Vec3{3, 4, 0}) || d.Length() != 5 {
		t.Errorf("Sub = %v", d)
	}
}

func TestVec3AddDot(t *testing.T) {
	tests := []struct {
		a, b Vec3
		sum  Vec3
		dot  float32
	}{
		{Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{1, 1, 0}, 0},
		{Vec3{1, 2, 3}, Vec3{4, 5, 6}, Vec3{5, 7, 9}, 32},
		{Vec3{0, 0, 1}, Vec3{0, 0, -1}, Vec3{}, -1},
	}
	for _, tt := range tests {
		if got := tt.a.Add(tt.b); got != tt.sum {
			t.Errorf("%v.Add(%v) = %v, want %v", tt.a, tt.b, got, tt.sum)
		}
		if got := tt.a.Dot(tt.b); got != tt.dot {
			t.Errorf("%v.Dot(%v) = %v, want %v", tt.a, tt.b, got, tt.dot)
		}
	}
}
