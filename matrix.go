package blit

import (
	"math"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/blit/internal/soft"
)

// Matrix is a 2D affine transform in the row-major layout of
// golang.org/x/image/math/f64:
//
//	x' = m[0]*x + m[1]*y + m[2]
//	y' = m[3]*x + m[4]*y + m[5]
//
// The zero Matrix collapses everything onto the origin; use Identity.
type Matrix f64.Aff3

// Identity returns the transform that leaves coordinates unchanged.
func Identity() Matrix { return Matrix{1, 0, 0, 0, 1, 0} }

// Translate returns a transform moving coordinates by (dx, dy).
func Translate(dx, dy float64) Matrix { return Matrix{1, 0, dx, 0, 1, dy} }

// Scale returns a transform scaling about the origin.
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, 0, sy, 0} }

// Rotate returns a rotation about the origin by angle radians. The y axis
// points down, so positive angles turn clockwise on screen.
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{cos, -sin, 0, sin, cos, 0}
}

// Then returns the transform applying m first and next afterwards.
func (m Matrix) Then(next Matrix) Matrix {
	return Matrix(soft.Mul(f64.Aff3(next), f64.Aff3(m)))
}

// Apply maps (x, y) through m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Inverse returns the inverse of m. ok is false when m is singular.
func (m Matrix) Inverse() (inv Matrix, ok bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	return Matrix{
		m[4] / det, -m[1] / det, (m[1]*m[5] - m[2]*m[4]) / det,
		-m[3] / det, m[0] / det, (m[2]*m[3] - m[0]*m[5]) / det,
	}, true
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool { return m == Identity() }

// Aff3 returns m for use with golang.org/x/image/draw.
func (m Matrix) Aff3() f64.Aff3 { return f64.Aff3(m) }
