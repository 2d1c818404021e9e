package vmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the tolerance used for direction and position comparisons
const Epsilon = 1e-9

// Identity returns the rotation that leaves every vector unchanged
func Identity() r3.Rotation {
	return r3.Rotation{Real: 1}
}

// Compose returns the rotation applying inner first, then outer
func Compose(outer, inner r3.Rotation) r3.Rotation {
	q := quat.Mul(quat.Number(outer), quat.Number(inner))
	if n := quat.Abs(q); n != 0 && n != 1 {
		q = quat.Scale(1/n, q)
	}
	return r3.Rotation(q)
}

// Inverse returns the rotation undoing r
func Inverse(r r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Conj(quat.Number(r)))
}

// Unit normalizes v, returning the zero vector for degenerate input instead of NaN
func Unit(v r3.Vec) r3.Vec {
	if r3.Norm(v) < Epsilon {
		return r3.Vec{}
	}
	return r3.Unit(v)
}

// Distance returns the euclidean distance between a and b
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Midpoint returns the point halfway between a and b
func Midpoint(a, b r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(a, b))
}

// ApproxEqual reports whether a and b are within tol on every axis
func ApproxEqual(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// Perpendicular returns a unit vector orthogonal to v
// Picks the cardinal axis least aligned with v to keep the cross product well conditioned
func Perpendicular(v r3.Vec) r3.Vec {
	u := Unit(v)
	axis := r3.Vec{X: 1}
	if math.Abs(u.X) > math.Abs(u.Y) {
		axis = r3.Vec{Y: 1}
	}
	if math.Abs(u.Z) < math.Min(math.Abs(u.X), math.Abs(u.Y)) {
		axis = r3.Vec{Z: 1}
	}
	return Unit(r3.Cross(u, axis))
}

// AlignRotation returns the minimal rotation taking direction from onto direction to
// Parallel input yields identity; antiparallel input yields a half turn about a perpendicular axis
func AlignRotation(from, to r3.Vec) r3.Rotation {
	f, t := Unit(from), Unit(to)
	if f == (r3.Vec{}) || t == (r3.Vec{}) {
		return Identity()
	}

	d := r3.Dot(f, t)
	switch {
	case d >= 1-Epsilon:
		return Identity()
	case d <= -1+Epsilon:
		return r3.NewRotation(math.Pi, Perpendicular(f))
	}

	angle := math.Acos(math.Max(-1, math.Min(1, d)))
	return r3.NewRotation(angle, r3.Cross(f, t))
}

// RotateAbout rotates point p by rot around pivot
func RotateAbout(p, pivot r3.Vec, rot r3.Rotation) r3.Vec {
	return r3.Add(pivot, rot.Rotate(r3.Sub(p, pivot)))
}
