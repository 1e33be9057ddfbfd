package materials

import (
	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
)

// Emissive is a light-emitting surface with no scattering of its own;
// it absorbs every incoming ray and radiates Color(wavelength) towards
// the side its normal faces.
type Emissive struct {
	Color program.Program
}

func (e Emissive) Sample(ctx Context, wo math.Vec3, rng sampler.Sampler) (Scatter, bool) {
	return Scatter{}, false
}

func (e Emissive) Evaluate(ctx Context, wo, wi math.Vec3) float32 { return 0 }
func (e Emissive) PDF(ctx Context, wo, wi math.Vec3) float32      { return 0 }

func (e Emissive) Emission(ctx Context, wo math.Vec3) float32 {
	if ctx.Normal.Dot(wo) <= 0 {
		return 0
	}
	return e.Color.Evaluate(ctx)
}

func (e Emissive) Specular() bool { return false }
