// Package integrator implements the bidirectionally-unweighted forward
// path tracer: the per-sample bounce loop that turns a primary ray into
// a radiance estimate, combining next-event estimation with BSDF
// sampling via MIS and terminating with Russian roulette (spec.md
// §4.10).
package integrator

import (
	"pyrite/lighting"
	"pyrite/materials"
	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
	"pyrite/spectrum"
	"pyrite/world"
)

// Config controls how deep and how long a path runs.
type Config struct {
	MaxBounces     int
	DirectLighting bool
	// RouletteStart is the bounce index (0-based) after which Russian
	// roulette may terminate a path early.
	RouletteStart int
}

// DefaultConfig matches the scene-file defaults (SPEC_FULL.md §2):
// bounces=8, direct_light=true.
func DefaultConfig() Config {
	return Config{MaxBounces: 8, DirectLighting: true, RouletteStart: 3}
}

// Trace estimates the radiance arriving at the camera along ray across
// every wavelength in wavelengths at once. Every bounce's scattering
// direction is decided at the hero wavelength (index 0) alone, since a
// path can only travel in one direction; the other wavelengths ride
// along, each tracking its own throughput, until either the path ends
// or a dispersive scatter (glass refraction) fires. At that point the
// wavelengths' directions would diverge, so the buffer permanently
// collapses to hero-only (spectrum.Light.SingleWavelength), matching
// how a handful of true spectral renderers avoid tracing a full
// wavelength fan through dispersive media.
//
// The returned Light is acquired from pool and is the caller's to
// Release.
func Trace(w *world.World, ray math.Ray3, wavelengths *spectrum.Wavelengths, pool *spectrum.Pool, rng sampler.Sampler, cfg Config) *spectrum.Light {
	result := pool.Get()
	throughput := pool.Acquire(1)
	defer throughput.Release()

	specularBounce := true
	bsdfPDF := float32(0)
	current := ray

	for bounce := 0; bounce <= cfg.MaxBounces; bounce++ {
		hit, ok := w.Intersect(current)
		n := throughput.Len()

		if !ok {
			for i := 0; i < n; i++ {
				sky := w.SkyRadiance(current, wavelengthAt(wavelengths, i, result.SingleWavelength))
				result.SetAt(i, result.At(i)+throughput.At(i)*sky)
			}
			break
		}

		wo := current.Direction.Negate()
		mat := hit.Material

		for i := 0; i < n; i++ {
			wl := wavelengthAt(wavelengths, i, result.SingleWavelength)
			emission := mat.Emission(materials.Context{Wavelength: wl, Normal: hit.Hit.Normal}, wo)
			if emission <= 0 {
				continue
			}
			weight := float32(1)
			if !specularBounce && cfg.DirectLighting {
				if lamp, isLamp := w.LampForShape(hit.ShapeID); isLamp {
					lightPDF := lighting.LampPDF(w, lamp, current.Origin, current.Direction)
					weight = math.PowerHeuristic(1, bsdfPDF, 1, lightPDF)
				}
			}
			result.SetAt(i, result.At(i)+throughput.At(i)*emission*weight)
		}

		if cfg.DirectLighting {
			for i := 0; i < n; i++ {
				wl := wavelengthAt(wavelengths, i, result.SingleWavelength)
				direct := lighting.Sample(w, hit.Hit.Point, hit.Hit.Normal, mat, wo, wl, rng)
				result.SetAt(i, result.At(i)+throughput.At(i)*direct)
			}
		}

		heroCtx := materials.Context{Wavelength: wavelengths.Hero(), Normal: hit.Hit.Normal, Texture: hit.Hit.Texture}
		scatter, ok := mat.Sample(heroCtx, wo, rng)
		if !ok || scatter.Throughput <= 0 {
			break
		}

		if scatter.Dispersive && !result.SingleWavelength {
			result.SingleWavelength = true
			throughput.SingleWavelength = true
		}

		n = throughput.Len()
		// A non-specular bounce re-evaluates the same material at every
		// rider wavelength with Normal/Texture held fixed and only
		// Wavelength changing -- exactly what Memoized exists to avoid
		// re-binding from scratch each time.
		var evalMemo *program.Memoized
		if !scatter.Specular {
			evalMemo = program.Memoize(materialEval{mat: mat, wo: wo, wi: scatter.Direction}, materials.Context{Normal: hit.Hit.Normal, Texture: hit.Hit.Texture})
		}
		for i := 0; i < n; i++ {
			f := scatter.Throughput
			if i > 0 {
				wl := wavelengthAt(wavelengths, i, false)
				if scatter.Specular {
					// The direction is shared once Dispersive is
					// false, but a tinted mirror or a colored
					// dielectric's reflectance can still vary by
					// wavelength, so re-evaluate rather than broadcast
					// the hero channel's throughput.
					if scatter.SpecularEval != nil {
						f = scatter.SpecularEval(wl)
					}
				} else {
					fval := evalMemo.SetWavelength(wl).Run()
					cos := hit.Hit.Normal.Dot(scatter.Direction)
					if cos < 0 {
						cos = -cos
					}
					f = fval * cos / scatter.PDF
				}
			}
			throughput.SetAt(i, throughput.At(i)*f)
		}

		current = math.NewRay3(hit.Hit.Point.Add(scatter.Direction.Mul(math.Epsilon*128)), scatter.Direction)
		specularBounce = scatter.Specular
		bsdfPDF = scatter.PDF

		if bounce >= cfg.RouletteStart {
			// q = max(0.05, 1 - throughput.max()): terminate with
			// probability q, else divide by the survival probability
			// 1-q to keep the estimator unbiased (spec.md §4.10 step 6).
			q := 1 - throughput.Max()
			if q < 0.05 {
				q = 0.05
			}
			if rng.Float32() < q {
				break
			}
			throughput.DivScalar(1 - q)
		}
	}

	return result
}

// wavelengthAt returns the wavelength index i should be evaluated at:
// the hero wavelength once the path has collapsed (i must be 0 then),
// otherwise wavelengths.At(i).
func wavelengthAt(wavelengths *spectrum.Wavelengths, i int, collapsed bool) float32 {
	if collapsed {
		return wavelengths.Hero()
	}
	return wavelengths.At(i)
}

// materialEval adapts a Material's (wo, wi)-parameterized Evaluate into
// a plain program.Program, so the per-wavelength re-evaluation loop can
// drive it through a Memoized rather than rebuilding a materials.Context
// literal on every iteration.
type materialEval struct {
	mat    materials.Material
	wo, wi math.Vec3
}

func (e materialEval) Evaluate(ctx program.RenderContext) float32 {
	return e.mat.Evaluate(ctx, e.wo, e.wi)
}
