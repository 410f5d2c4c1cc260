package pdfdoc

import (
	"math"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{name: "overlapping", a: Rect{0, 0, 10, 10}, b: Rect{5, 5, 15, 15}, want: true},
		{name: "contained", a: Rect{0, 0, 10, 10}, b: Rect{2, 2, 4, 4}, want: true},
		{name: "disjoint", a: Rect{0, 0, 10, 10}, b: Rect{20, 20, 30, 30}, want: false},
		{name: "touching edges", a: Rect{0, 0, 10, 10}, b: Rect{10, 0, 20, 10}, want: false},
		{name: "unnormalized corners", a: Rect{10, 10, 0, 0}, b: Rect{5, 5, 15, 15}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnionAndIntersect(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 20, 8}

	if got, want := a.Union(b), (Rect{0, 0, 20, 10}); got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
	if got, want := a.Intersect(b), (Rect{5, 5, 10, 8}); got != want {
		t.Errorf("Intersect() = %v, want %v", got, want)
	}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("Union with empty = %v, want %v", got, a)
	}
	if got := a.Intersect(Rect{20, 20, 30, 30}); !got.IsEmpty() {
		t.Errorf("Intersect of disjoint rects = %v, want empty", got)
	}
}

func TestRectExpanded(t *testing.T) {
	r := Rect{10, 20, 30, 40}.Expanded(5, 2)
	want := Rect{5, 18, 35, 42}
	if r != want {
		t.Errorf("Expanded() = %v, want %v", r, want)
	}
}

func TestMatrixApply(t *testing.T) {
	// The page flip used by the extractor: y is inverted around the top
	// edge of an 800pt tall page.
	flip := Matrix{1, 0, 0, -1, 0, 800}
	x, y := flip.Apply(100, 300)
	if x != 100 || y != 500 {
		t.Errorf("Apply() = (%v, %v), want (100, 500)", x, y)
	}
}

func TestMatrixMul(t *testing.T) {
	// Scaling then translating is not translating then scaling.
	st := ScaleMatrix(2, 2).Mul(TranslateMatrix(10, 0))
	x, _ := st.Apply(5, 0)
	if x != 20 {
		t.Errorf("scale-then-translate x = %v, want 20", x)
	}
	ts := TranslateMatrix(10, 0).Mul(ScaleMatrix(2, 2))
	x, _ = ts.Apply(5, 0)
	if x != 30 {
		t.Errorf("translate-then-scale x = %v, want 30", x)
	}
}

func TestTransformRect(t *testing.T) {
	flip := Matrix{1, 0, 0, -1, 0, 792}
	got := flip.TransformRect(Rect{72, 700, 172, 720})
	want := Rect{72, 72, 172, 92}
	if math.Abs(got.X0-want.X0) > 1e-9 || math.Abs(got.Y0-want.Y0) > 1e-9 ||
		math.Abs(got.X1-want.X1) > 1e-9 || math.Abs(got.Y1-want.Y1) > 1e-9 {
		t.Errorf("TransformRect() = %v, want %v", got, want)
	}
}
