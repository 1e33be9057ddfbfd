package shapes

import (
	stdmath "math"

	"pyrite/math"
	"pyrite/sampler"
)

// Sphere is a perfect sphere shape: centre + radius.
type Sphere struct {
	Center   math.Vec3
	Radius   float32
	Material int
}

func NewSphere(center math.Vec3, radius float32, material int) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

func (s *Sphere) MaterialID() int { return s.Material }

// Intersect solves the standard analytic quadratic and returns the
// nearest root beyond math.Epsilon.
func (s *Sphere) Intersect(ray math.Ray3) (Hit, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return Hit{}, false
	}

	sqrtDisc := float32(stdmath.Sqrt(float64(disc)))
	t0 := (-b - sqrtDisc) / (2 * a)
	t1 := (-b + sqrtDisc) / (2 * a)

	t := t0
	if t <= math.Epsilon {
		t = t1
	}
	if t <= math.Epsilon {
		return Hit{}, false
	}

	point := ray.At(t)
	normal := point.Sub(s.Center).Div(s.Radius)
	return Hit{Distance: t, Point: point, Normal: normal, Texture: sphereUV(normal)}, true
}

func sphereUV(normal math.Vec3) math.Vec2 {
	phi := float32(stdmath.Atan2(float64(normal.Z), float64(normal.X)))
	theta := float32(stdmath.Acos(float64(math.Clamp(normal.Y, -1, 1))))
	return math.Vec2{X: (phi + stdmath.Pi) / (2 * stdmath.Pi), Y: theta / stdmath.Pi}
}

func (s *Sphere) Bounds() math.AABB {
	r := math.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return math.AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

func (s *Sphere) SurfaceArea() float32 {
	return 4 * stdmath.Pi * s.Radius * s.Radius
}

// SolidAngleTowards uses the spherical-cap formula. Undefined (false)
// when target lies inside the sphere.
func (s *Sphere) SolidAngleTowards(target math.Vec3) (float32, bool) {
	distSqr := target.Sub(s.Center).LengthSqr()
	if distSqr <= s.Radius*s.Radius {
		return 0, false
	}
	sinThetaMax2 := (s.Radius * s.Radius) / distSqr
	cosThetaMax := float32(stdmath.Sqrt(stdmath.Max(0, float64(1-sinThetaMax2))))
	return 2 * stdmath.Pi * (1 - cosThetaMax), true
}

// SampleTowards importance-samples the solid-angle cone towards target
// when target is outside the sphere, falling back to a uniform surface
// point otherwise.
func (s *Sphere) SampleTowards(target math.Vec3, rng sampler.Sampler) SurfaceSample {
	toCenter := s.Center.Sub(target)
	distSqr := toCenter.LengthSqr()
	if distSqr <= s.Radius*s.Radius {
		return s.SamplePoint(rng)
	}

	dist := float32(stdmath.Sqrt(float64(distSqr)))
	axis := toCenter.Div(dist)
	sinThetaMax2 := (s.Radius * s.Radius) / distSqr
	cosThetaMax := float32(stdmath.Sqrt(stdmath.Max(0, float64(1-sinThetaMax2))))

	local := math.SampleCone(rng.Float32(), rng.Float32(), cosThetaMax)
	tangent, bitangent := math.OrthonormalBasis(axis)
	dir := math.ToWorld(local, tangent, bitangent, axis)

	// Project the cone sample back onto the sphere surface.
	point, ok := s.Intersect(math.NewRay3(target, dir))
	if !ok {
		// Grazing numerical edge case: fall back to the nearest point
		// along the sampled direction.
		closest := target.Add(dir.Mul(dist))
		n := closest.Sub(s.Center).Normalize()
		return SurfaceSample{Point: s.Center.Add(n.Mul(s.Radius)), Normal: n}
	}
	return SurfaceSample{Point: point.Point, Normal: point.Normal}
}

func (s *Sphere) SamplePoint(rng sampler.Sampler) SurfaceSample {
	dir := math.SampleUniformSphere(rng.Float32(), rng.Float32())
	return SurfaceSample{Point: s.Center.Add(dir.Mul(s.Radius)), Normal: dir}
}
