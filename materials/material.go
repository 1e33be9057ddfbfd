// Package materials implements the BSDF variant system: every surface
// in a scene resolves to one of a small set of Material implementations,
// composable into trees via Mix and Add (spec.md §4.7, §9).
package materials

import (
	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
)

// Context is the local shading frame a Material is evaluated in.
// Normal and Incident are both world-space and point away from the
// surface; Incident is the direction back towards whatever the ray
// arrived from (i.e. -ray.Direction), following the convention that
// lets every BSDF formula read like the textbook rendering equation.
type Context = program.RenderContext

// Scatter is the result of importance-sampling a material's outgoing
// direction. Throughput already folds in f(wo,wi)*|cos(wi)|/PDF, so an
// integrator can multiply it straight into its running path weight.
type Scatter struct {
	Direction  math.Vec3
	Throughput float32
	PDF        float32
	Specular   bool // true when PDF is a delta (Evaluate/PDF are meaningless)

	// Dispersive marks a sample whose Direction depends on wavelength
	// (a refractive transmission, whose angle follows Snell's law at a
	// wavelength-dependent IOR). Only Refractive's transmit branch ever
	// sets this, and only when the material is actually dispersive
	// (nonzero dispersion term); once true, a path can no longer carry
	// more than its hero wavelength; spec.md §9 "dispersion collapse".
	Dispersive bool

	// SpecularEval recomputes this scatter's throughput at a wavelength
	// other than the one Sample used, reusing the same branch decision
	// and Direction -- a coherent (still multi-wavelength) path that
	// takes a specular bounce needs this to render a tinted mirror or a
	// colored dielectric correctly, instead of broadcasting the hero
	// wavelength's throughput across every bin. Nil only for materials
	// that never produce a Specular scatter.
	SpecularEval func(wavelength float32) float32
}

// ctxAt returns ctx with its wavelength replaced, for re-evaluating a
// color program at a wavelength other than the one a Scatter was
// originally sampled at.
func ctxAt(ctx Context, wavelength float32) Context {
	ctx.Wavelength = wavelength
	return ctx
}

// Material is a BSDF plus an optional emission term. Every operation
// reads the wavelength off ctx.Wavelength, so one Material value serves
// every hero wavelength a path carries until it disperses.
type Material interface {
	// Sample draws an outgoing direction proportional to the BSDF (or,
	// for a delta material, its single valid direction). ok is false
	// when the surface absorbs everything along this path (e.g. a wo
	// on the back face of a one-sided material).
	Sample(ctx Context, wo math.Vec3, rng sampler.Sampler) (Scatter, bool)

	// Evaluate returns f(wo, wi) at ctx.Wavelength. Meaningless (and
	// always 0) for a Specular material.
	Evaluate(ctx Context, wo, wi math.Vec3) float32

	// PDF returns the density Sample would have drawn wi with.
	PDF(ctx Context, wo, wi math.Vec3) float32

	// Emission returns radiance leaving the surface towards wo. Zero
	// for every non-emissive material.
	Emission(ctx Context, wo math.Vec3) float32

	// Specular reports whether this material's scattering distribution
	// is a delta function, in which case light sampling (NEE) cannot
	// usefully evaluate it and should be skipped in favour of pure
	// BSDF sampling.
	Specular() bool
}

func sameSide(n, a, b math.Vec3) bool {
	return (n.Dot(a) > 0) == (n.Dot(b) > 0)
}
