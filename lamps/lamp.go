// Package lamps implements the three light source kinds a scene can
// declare: a directional (sun-like) light, a point light, and a shape
// lamp that turns ordinary scene geometry into an emitter sampled by
// solid angle (spec.md §4.8).
package lamps

import (
	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
	"pyrite/shapes"
)

// Context mirrors materials.Context: the wavelength a lamp is being
// queried for, so its color expression can vary spectrally.
type Context struct {
	Wavelength float32
}

// Sample is one next-event-estimation draw towards a lamp: the
// direction and distance to the sampled point, the radiance arriving
// from it, and the solid-angle density the direction was drawn with
// (1 for a point lamp and for a zero-width directional lamp). Delta
// marks samples that light sampling does not MIS-weight.
type Sample struct {
	Direction math.Vec3
	Distance  float32
	Radiance  float32
	PDF       float32
	Delta     bool
}

// Lamp is a next-event-estimation light source, queried from a shading
// point rather than traced from the lamp itself. A bounce ray that
// happens to hit a shape lamp's geometry still picks up its emission
// through the material store's Emissive material, independent of this
// interface.
type Lamp interface {
	// SampleTowards draws a Sample visible from point p with shading
	// normal n (n is used only to discard samples below the surface).
	SampleTowards(p, n math.Vec3, rng sampler.Sampler, ctx Context) (Sample, bool)

	// PDF returns the solid-angle density SampleTowards would have used
	// to draw direction dir from p -- needed to MIS-combine against
	// BSDF sampling.
	PDF(p math.Vec3, dir math.Vec3, ctx Context) float32
}

// Directional is an infinitely distant lamp emitting uniformly over a
// cone of directions (cone_half_angle_cos == 1 for a perfect point
// direction, i.e. a traditional sun with zero angular size).
type Directional struct {
	Direction    math.Vec3 // direction light travels, i.e. points away from the lamp
	CosHalfAngle float32
	Color        program.Program
}

func (d Directional) SampleTowards(p, n math.Vec3, rng sampler.Sampler, ctx Context) (Sample, bool) {
	toLamp := d.Direction.Negate()
	dir := toLamp
	pdf := float32(1)
	if d.CosHalfAngle < 1 {
		t, b := math.OrthonormalBasis(toLamp)
		local := math.SampleCone(rng.Float32(), rng.Float32(), d.CosHalfAngle)
		dir = math.ToWorld(local, t, b, toLamp)
		pdf = d.PDF(p, dir, ctx)
	}
	if n.Dot(dir) <= 0 {
		return Sample{}, false
	}
	return Sample{
		Direction: dir,
		Distance:  math.MaxFloat32(),
		Radiance:  d.Color.Evaluate(program.RenderContext{Wavelength: ctx.Wavelength}),
		PDF:       pdf,
		// A directional lamp has no geometry a BSDF sample could ever
		// hit, so it always carries the full (unweighted) estimate --
		// cone width only changes the sampling density, never the MIS
		// treatment (spec.md §4.8/§4.9).
		Delta: true,
	}, true
}

func (d Directional) PDF(p math.Vec3, dir math.Vec3, ctx Context) float32 {
	solidAngle := 2 * math.Pi * (1 - d.CosHalfAngle)
	if solidAngle <= 0 {
		return 0
	}
	return 1 / solidAngle
}

// Point is an isotropic point light at a fixed world position: a
// solid-angle delta, so PDF (used only for MIS against BSDF sampling)
// is always 0 -- a BSDF sample can never land exactly on a point.
type Point struct {
	Position math.Vec3
	Color    program.Program
}

func (pt Point) SampleTowards(p, n math.Vec3, rng sampler.Sampler, ctx Context) (Sample, bool) {
	toLamp := pt.Position.Sub(p)
	distance := toLamp.Length()
	if distance < math.Epsilon {
		return Sample{}, false
	}
	dir := toLamp.Div(distance)
	if n.Dot(dir) <= 0 {
		return Sample{}, false
	}
	radiance := pt.Color.Evaluate(program.RenderContext{Wavelength: ctx.Wavelength}) / (distance * distance)
	return Sample{Direction: dir, Distance: distance, Radiance: radiance, PDF: 1, Delta: true}, true
}

func (pt Point) PDF(p math.Vec3, dir math.Vec3, ctx Context) float32 { return 0 }

// Shape turns an emissive shape already in the scene's geometry store
// into a sampled light: sampled radiance comes from the lamp's own
// Color, and the shape supplies the geometric sampling machinery.
type Shape struct {
	Store   *shapes.Store
	ShapeID int
	Color   program.Program
}

func (s Shape) shape() shapes.Shape {
	return s.Store.Get(s.ShapeID)
}

func (s Shape) SampleTowards(p, n math.Vec3, rng sampler.Sampler, ctx Context) (Sample, bool) {
	target := s.shape()
	surf := target.SampleTowards(p, rng)

	toSurf := surf.Point.Sub(p)
	distance := toSurf.Length()
	if distance < math.Epsilon {
		return Sample{}, false
	}
	dir := toSurf.Div(distance)
	if n.Dot(dir) <= 0 {
		return Sample{}, false
	}

	pdf := s.PDF(p, dir, ctx)
	if pdf <= 0 {
		return Sample{}, false
	}
	return Sample{
		Direction: dir,
		Distance:  distance,
		Radiance:  s.Color.Evaluate(program.RenderContext{Wavelength: ctx.Wavelength}),
		PDF:       pdf,
	}, true
}

// PDF recomputes the solid-angle density SampleTowards would have used:
// the spherical-cap formula when the shape defines one, otherwise the
// standard area-to-solid-angle Jacobian (distance^2 / (cosLight * area))
// at the point where the ray from p along dir hits the shape, which is
// the density of uniform-area sampling. SampleTowards uses this value as
// its sample's PDF, and MIS weighting uses it too.
func (s Shape) PDF(p math.Vec3, dir math.Vec3, ctx Context) float32 {
	target := s.shape()
	if solidAngle, ok := target.SolidAngleTowards(p); ok {
		if solidAngle <= 0 {
			return 0
		}
		return 1 / solidAngle
	}

	ray := math.NewRay3(p, dir)
	hit, ok := target.Intersect(ray)
	if !ok {
		return 0
	}
	cosLight := hit.Normal.Dot(dir.Negate())
	if cosLight <= 0 {
		return 0
	}
	area := target.SurfaceArea()
	return (hit.Distance * hit.Distance) / (cosLight * area)
}
