package math

import (
	"math"
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

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
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 12}
	l := v.Normalize().Length()
	if math.Abs(l-1) > 1e-12 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return zero")
	}
}

func TestVec3ApproxEqual(t *testing.T) {
	a := Vec3{1, 2, 3}
	if !a.ApproxEqual(Vec3{1.0000001, 2, 3}, 1e-6) {
		t.Error("expected vectors to be approximately equal")
	}
	if a.ApproxEqual(Vec3{1.1, 2, 3}, 1e-6) {
		t.Error("expected vectors to differ")
	}
}

func TestBoundsExtend(t *testing.T) {
	b := EmptyBounds()
	if !b.IsEmpty() {
		t.Fatal("EmptyBounds should be empty")
	}
	if b.Size() != (Vec3{}) {
		t.Errorf("empty Size() = %v, want zero", b.Size())
	}

	b.Extend(Vec3{1, -2, 3})
	b.Extend(Vec3{-1, 4, 0})

	if b.IsEmpty() {
		t.Fatal("bounds should not be empty after Extend")
	}
	if want := (Vec3{-1, -2, 0}); b.Min != want {
		t.Errorf("Min = %v, want %v", b.Min, want)
	}
	if want := (Vec3{1, 4, 3}); b.Max != want {
		t.Errorf("Max = %v, want %v", b.Max, want)
	}
	if want := (Vec3{2, 6, 3}); b.Size() != want {
		t.Errorf("Size() = %v, want %v", b.Size(), want)
	}
	if want := (Vec3{0, 1, 1.5}); b.Center() != want {
		t.Errorf("Center() = %v, want %v", b.Center(), want)
	}
}
