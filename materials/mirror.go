package materials

import (
	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
)

// Mirror is a perfect specular reflector: f is a delta at the mirror
// direction, so there is exactly one wi that ever carries energy.
type Mirror struct {
	Color program.Program
}

func (m Mirror) Sample(ctx Context, wo math.Vec3, rng sampler.Sampler) (Scatter, bool) {
	cos := ctx.Normal.Dot(wo)
	if cos <= 0 {
		return Scatter{}, false
	}
	wi := ctx.Normal.Mul(2 * cos).Sub(wo)
	return Scatter{
		Direction:  wi,
		Throughput: m.Color.Evaluate(ctx),
		PDF:        1,
		Specular:   true,
		SpecularEval: func(wavelength float32) float32 {
			return m.Color.Evaluate(ctxAt(ctx, wavelength))
		},
	}, true
}

func (m Mirror) Evaluate(ctx Context, wo, wi math.Vec3) float32 { return 0 }
func (m Mirror) PDF(ctx Context, wo, wi math.Vec3) float32      { return 0 }
func (m Mirror) Emission(ctx Context, wo math.Vec3) float32     { return 0 }
func (m Mirror) Specular() bool                                 { return true }
