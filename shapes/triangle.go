package shapes

import (
	stdmath "math"

	"pyrite/math"
	"pyrite/sampler"
)

// Triangle is three positions plus three vertex (shading) normals. UV is
// optional; a zero value leaves texture coordinates at the origin.
type Triangle struct {
	Positions [3]math.Vec3
	Normals   [3]math.Vec3
	UV        [3]math.Vec2
	Material  int
}

func NewTriangle(p0, p1, p2, n0, n1, n2 math.Vec3, material int) *Triangle {
	return &Triangle{Positions: [3]math.Vec3{p0, p1, p2}, Normals: [3]math.Vec3{n0, n1, n2}, Material: material}
}

func (t *Triangle) MaterialID() int { return t.Material }

// Intersect uses the Möller-Trumbore algorithm; barycentric coordinates
// are clipped to u,v >= 0, u+v <= 1, and the hit distance is accepted
// only beyond math.Epsilon.
func (t *Triangle) Intersect(ray math.Ray3) (Hit, bool) {
	e1 := t.Positions[1].Sub(t.Positions[0])
	e2 := t.Positions[2].Sub(t.Positions[0])

	pvec := ray.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if det > -math.Epsilon && det < math.Epsilon {
		return Hit{}, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(t.Positions[0])
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return Hit{}, false
	}

	qvec := tvec.Cross(e1)
	v := ray.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return Hit{}, false
	}

	dist := e2.Dot(qvec) * invDet
	if dist <= math.Epsilon {
		return Hit{}, false
	}

	w := 1 - u - v
	normal := t.Normals[0].Mul(w).Add(t.Normals[1].Mul(u)).Add(t.Normals[2].Mul(v)).Normalize()
	uv := t.UV[0].Mul(w).Add(t.UV[1].Mul(u)).Add(t.UV[2].Mul(v))

	return Hit{Distance: dist, Point: ray.At(dist), Normal: normal, Texture: uv}, true
}

func (t *Triangle) Bounds() math.AABB {
	b := math.EmptyAABB()
	b = b.UnionPoint(t.Positions[0])
	b = b.UnionPoint(t.Positions[1])
	b = b.UnionPoint(t.Positions[2])
	return b
}

// SurfaceArea is half the magnitude of the edge cross product.
func (t *Triangle) SurfaceArea() float32 {
	e1 := t.Positions[1].Sub(t.Positions[0])
	e2 := t.Positions[2].Sub(t.Positions[0])
	return 0.5 * e1.Cross(e2).Length()
}

// SolidAngleTowards is always undefined for triangles; direct-light
// sampling falls back to area-based weighting with a Jacobian.
func (t *Triangle) SolidAngleTowards(math.Vec3) (float32, bool) {
	return 0, false
}

func (t *Triangle) SampleTowards(_ math.Vec3, rng sampler.Sampler) SurfaceSample {
	return t.SamplePoint(rng)
}

// SamplePoint draws a uniform point via the standard triangle
// barycentric square-root mapping.
func (t *Triangle) SamplePoint(rng sampler.Sampler) SurfaceSample {
	u, v := rng.Float32(), rng.Float32()
	su := float32(stdmath.Sqrt(float64(u)))
	b0 := 1 - su
	b1 := v * su
	b2 := 1 - b0 - b1

	point := t.Positions[0].Mul(b0).Add(t.Positions[1].Mul(b1)).Add(t.Positions[2].Mul(b2))
	normal := t.Normals[0].Mul(b0).Add(t.Normals[1].Mul(b1)).Add(t.Normals[2].Mul(b2)).Normalize()
	return SurfaceSample{Point: point, Normal: normal}
}
