// Package lighting implements next-event estimation: given a shading
// point, pick one lamp, sample it, and combine the result with BSDF
// sampling via the power heuristic (spec.md §4.9).
package lighting

import (
	"pyrite/lamps"
	"pyrite/materials"
	"pyrite/math"
	"pyrite/sampler"
	"pyrite/world"
)

// Sample estimates the direct lighting arriving at a shading point p
// with shading normal n, from a surface whose BSDF is mat, looking
// back towards wo. It returns 0 when there are no lamps, the chosen
// lamp sample is occluded, or the BSDF the point exhibits doesn't
// scatter in that direction at all.
//
// Specular materials (mirrors, glass) get 0 without a sampler draw:
// their single valid direction is already fixed by Sample, so NEE has
// zero chance of drawing it.
func Sample(w *world.World, p, n math.Vec3, mat materials.Material, wo math.Vec3, wavelength float32, rng sampler.Sampler) float32 {
	if mat.Specular() || len(w.Lamps) == 0 {
		return 0
	}

	lamp := w.Lamps[mustIndex(rng, len(w.Lamps))]
	selectPDF := float32(1) / float32(len(w.Lamps))

	ls, ok := lamp.SampleTowards(p, n, rng, lamps.Context{Wavelength: wavelength})
	if !ok || ls.Radiance <= 0 {
		return 0
	}

	lightPDF := ls.PDF * selectPDF
	if !ls.Delta && lightPDF <= 0 {
		return 0
	}

	if w.Occluded(p, ls.Direction, ls.Distance) {
		return 0
	}

	ctx := materials.Context{Wavelength: wavelength, Normal: n, Incident: wo}
	f := mat.Evaluate(ctx, wo, ls.Direction)
	if f <= 0 {
		return 0
	}
	cos := n.Dot(ls.Direction)
	if cos <= 0 {
		return 0
	}

	if ls.Delta {
		return ls.Radiance * f * cos / lightPDF
	}

	bsdfPDF := mat.PDF(ctx, wo, ls.Direction)
	weight := math.PowerHeuristic(1, lightPDF, 1, bsdfPDF)
	return ls.Radiance * f * cos * weight / lightPDF
}

// LampPDF returns the solid-angle density a BSDF-sampled direction wi
// would have had under the lamp it happens to have struck, weighted by
// the uniform lamp-selection probability -- the other half of the MIS
// pair Sample computes, used when a bounce ray directly hits a shape
// lamp's geometry.
func LampPDF(w *world.World, lamp lamps.Lamp, p, wi math.Vec3) float32 {
	if len(w.Lamps) == 0 {
		return 0
	}
	selectPDF := float32(1) / float32(len(w.Lamps))
	return lamp.PDF(p, wi, lamps.Context{}) * selectPDF
}

func mustIndex(rng sampler.Sampler, n int) int {
	i, _ := sampler.Index(rng, n)
	return i
}
