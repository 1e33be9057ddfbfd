package materials

import (
	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
)

// Diffuse is a Lambertian BSDF: f(wo, wi) = color(wavelength) / pi,
// sampled proportional to cos(theta) so that f*cos/pdf collapses to
// the albedo itself.
type Diffuse struct {
	Color program.Program
}

func (d Diffuse) Sample(ctx Context, wo math.Vec3, rng sampler.Sampler) (Scatter, bool) {
	t, b := math.OrthonormalBasis(ctx.Normal)
	local := math.SampleCosineHemisphere(rng.Float32(), rng.Float32())
	wi := math.ToWorld(local, t, b, ctx.Normal)

	if ctx.Normal.Dot(wo) <= 0 || ctx.Normal.Dot(wi) <= 0 {
		return Scatter{}, false
	}

	return Scatter{
		Direction:  wi,
		Throughput: d.albedo(ctx),
		PDF:        d.PDF(ctx, wo, wi),
	}, true
}

func (d Diffuse) Evaluate(ctx Context, wo, wi math.Vec3) float32 {
	if !sameSide(ctx.Normal, wo, wi) {
		return 0
	}
	return d.albedo(ctx) / math.Pi
}

func (d Diffuse) PDF(ctx Context, wo, wi math.Vec3) float32 {
	if !sameSide(ctx.Normal, wo, wi) {
		return 0
	}
	cos := ctx.Normal.Dot(wi)
	if cos < 0 {
		cos = -cos
	}
	return cos / math.Pi
}

func (d Diffuse) Emission(ctx Context, wo math.Vec3) float32 { return 0 }

func (d Diffuse) Specular() bool { return false }

func (d Diffuse) albedo(ctx Context) float32 {
	input := ctx
	return d.Color.Evaluate(input)
}
