// geometry.go defines the coordinate primitives for page-space math (PRT-3).
//
// Rectangles use top-down page coordinates: the origin is the top-left corner
// of the page, x grows right, y grows down, one unit = one PDF point. This is
// the coordinate system the rest of the application thinks in (search rects,
// cover rects, raster pixels). PDF content streams use the opposite, bottom-up
// convention; the extractor and editor flip between the two at the boundary.
package pdfdoc

import "math"

// Point is a position in top-down page space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in top-down page space.
// Y0 is the top edge, Y1 the bottom edge (Y0 <= Y1 when normalized).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Norm returns the rectangle with its corners ordered so that
// X0 <= X1 and Y0 <= Y1.
func (r Rect) Norm() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Intersects reports whether r and s share any area. Touching edges do not
// count as an intersection, matching the strict overlap the span matcher needs.
func (r Rect) Intersects(s Rect) bool {
	r, s = r.Norm(), s.Norm()
	return r.X0 < s.X1 && s.X0 < r.X1 && r.Y0 < s.Y1 && s.Y0 < r.Y1
}

// Union returns the smallest rectangle containing both r and s.
// An empty rectangle acts as the identity.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, s.X0),
		Y0: math.Min(r.Y0, s.Y0),
		X1: math.Max(r.X1, s.X1),
		Y1: math.Max(r.Y1, s.Y1),
	}
}

// Expanded returns the rectangle grown by dx on the left and right edges
// and dy on the top and bottom edges.
func (r Rect) Expanded(dx, dy float64) Rect {
	return Rect{X0: r.X0 - dx, Y0: r.Y0 - dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// Intersect returns the overlapping region of r and s. The result is empty
// when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	r, s = r.Norm(), s.Norm()
	return Rect{
		X0: math.Max(r.X0, s.X0),
		Y0: math.Max(r.Y0, s.Y0),
		X1: math.Min(r.X1, s.X1),
		Y1: math.Min(r.Y1, s.Y1),
	}
}

// Matrix is a PDF transformation matrix [a b c d e f].
// A point (x, y) maps to (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// IdentityMatrix is the no-op transform.
var IdentityMatrix = Matrix{1, 0, 0, 1, 0, 0}

// Mul returns the concatenation "m then n": applying the result is the same
// as applying m first and n second.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformRect transforms all four corners of r and returns their bounding
// box. For the rotation-free matrices this tool encounters the result is the
// transformed rectangle itself.
func (m Matrix) TransformRect(r Rect) Rect {
	x0, y0 := m.Apply(r.X0, r.Y0)
	x1, y1 := m.Apply(r.X1, r.Y1)
	x2, y2 := m.Apply(r.X0, r.Y1)
	x3, y3 := m.Apply(r.X1, r.Y0)
	return Rect{
		X0: math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		Y0: math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		X1: math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		Y1: math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// ScaleMatrix returns a matrix scaling by sx horizontally and sy vertically.
func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// TranslateMatrix returns a matrix translating by (tx, ty).
func TranslateMatrix(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}
