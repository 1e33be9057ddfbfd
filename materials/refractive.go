package materials

import (
	stdmath "math"

	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
)

// Refractive is a dielectric: Fresnel-Schlick splits each sample
// between reflection and transmission by Russian roulette, weighted so
// that either branch's throughput stays an unbiased estimator of the
// full BSDF. Index of refraction varies with wavelength via a Cauchy
// term, which is what collapses a dispersed path down to its hero
// wavelength the first time it refracts (spec.md §4.7, §9).
type Refractive struct {
	IOR           float32
	Dispersion    float32
	EnvIOR        float32
	EnvDispersion float32
	Color         program.Program
}

func (r Refractive) iorAt(wavelength float32) float32 {
	micrometers := wavelength * 0.001
	return r.IOR + r.Dispersion/(micrometers*micrometers)
}

func (r Refractive) envIorAt(wavelength float32) float32 {
	micrometers := wavelength * 0.001
	return r.EnvIOR + r.EnvDispersion/(micrometers*micrometers)
}

// fresnelAt recomputes the Schlick reflectance at wavelength for the
// same incidence geometry (cosI, entering) a hero-wavelength Sample
// already settled on -- letting a coherent path re-evaluate a specular
// bounce's reflectance per wavelength without re-deciding the branch.
func (r Refractive) fresnelAt(wavelength, cosI float32, entering bool) float32 {
	etaI, etaT := r.envIorAt(wavelength), r.iorAt(wavelength)
	if !entering {
		etaI, etaT = etaT, etaI
	}
	r0 := (etaI - etaT) / (etaI + etaT)
	r0 *= r0
	return r0 + (1-r0)*pow5(1-cosI)
}

func (r Refractive) Sample(ctx Context, wo math.Vec3, rng sampler.Sampler) (Scatter, bool) {
	n := ctx.Normal
	cosI := n.Dot(wo)
	entering := cosI > 0
	if !entering {
		n = n.Negate()
		cosI = -cosI
	}

	etaI, etaT := r.envIorAt(ctx.Wavelength), r.iorAt(ctx.Wavelength)
	if !entering {
		etaI, etaT = etaT, etaI
	}
	eta := etaI / etaT

	sinT2 := eta * eta * (1 - cosI*cosI)
	color := r.Color.Evaluate(ctx)

	if sinT2 >= 1 {
		// Total internal reflection: no transmission branch exists.
		wi := n.Mul(2 * cosI).Sub(wo)
		return Scatter{
			Direction: wi, Throughput: color, PDF: 1, Specular: true,
			SpecularEval: func(wavelength float32) float32 {
				return r.Color.Evaluate(ctxAt(ctx, wavelength))
			},
		}, true
	}

	cosT := float32(stdmath.Sqrt(float64(1 - sinT2)))
	r0 := (etaI - etaT) / (etaI + etaT)
	r0 *= r0
	fresnel := r0 + (1-r0)*pow5(1-cosI)

	p := 0.25 + 0.5*fresnel
	if rng.Float32() < p {
		wi := n.Mul(2 * cosI).Sub(wo)
		return Scatter{
			Direction: wi, Throughput: color * fresnel / p, PDF: 1, Specular: true,
			SpecularEval: func(wavelength float32) float32 {
				fr := r.fresnelAt(wavelength, cosI, entering)
				return r.Color.Evaluate(ctxAt(ctx, wavelength)) * fr / p
			},
		}, true
	}

	incoming := wo.Negate()
	wi := incoming.Mul(eta).Add(n.Mul(eta*cosI - cosT))
	radianceCompression := (etaT / etaI) * (etaT / etaI)
	transmittance := (1 - fresnel) * radianceCompression
	return Scatter{
		Direction: wi, Throughput: color * transmittance / (1 - p),
		PDF: 1, Specular: true,
		// Only a wavelength-dependent IOR actually bends wavelengths
		// apart; a non-dispersive dielectric (both dispersion terms
		// zero) refracts every wavelength along the same direction, so
		// the path can stay coherent (spec.md §4.7).
		Dispersive: r.Dispersion != 0 || r.EnvDispersion != 0,
		SpecularEval: func(wavelength float32) float32 {
			fr := r.fresnelAt(wavelength, cosI, entering)
			etaI2, etaT2 := r.envIorAt(wavelength), r.iorAt(wavelength)
			if !entering {
				etaI2, etaT2 = etaT2, etaI2
			}
			rc := (etaT2 / etaI2) * (etaT2 / etaI2)
			return r.Color.Evaluate(ctxAt(ctx, wavelength)) * (1 - fr) * rc / (1 - p)
		},
	}, true
}

func (r Refractive) Evaluate(ctx Context, wo, wi math.Vec3) float32 { return 0 }
func (r Refractive) PDF(ctx Context, wo, wi math.Vec3) float32      { return 0 }
func (r Refractive) Emission(ctx Context, wo math.Vec3) float32     { return 0 }
func (r Refractive) Specular() bool                                 { return true }

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}
