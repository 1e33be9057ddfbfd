package materials

import (
	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
)

// Mix blends two materials, choosing Rhs with probability Amount(ctx)
// and Lhs otherwise. Sampling picks a branch by that probability and
// weights the result by the other branch's PDF too (balance heuristic)
// so the estimator stays unbiased regardless of which side fires.
type Mix struct {
	Lhs, Rhs Material
	Amount   program.Program
}

func (m Mix) amount(ctx Context) float32 {
	return math.Clamp(m.Amount.Evaluate(ctx), 0, 1)
}

func (m Mix) Sample(ctx Context, wo math.Vec3, rng sampler.Sampler) (Scatter, bool) {
	t := m.amount(ctx)
	u := rng.Float32()

	var scatter Scatter
	var ok bool
	if u < t {
		scatter, ok = m.Rhs.Sample(ctx, wo, rng)
	} else {
		scatter, ok = m.Lhs.Sample(ctx, wo, rng)
	}
	if !ok {
		return Scatter{}, false
	}
	if scatter.Specular {
		return scatter, true
	}

	pdf := m.PDF(ctx, wo, scatter.Direction)
	if pdf <= 0 {
		return Scatter{}, false
	}
	f := m.Evaluate(ctx, wo, scatter.Direction)
	cos := ctx.Normal.Dot(scatter.Direction)
	if cos < 0 {
		cos = -cos
	}
	return Scatter{Direction: scatter.Direction, Throughput: f * cos / pdf, PDF: pdf}, true
}

func (m Mix) Evaluate(ctx Context, wo, wi math.Vec3) float32 {
	t := m.amount(ctx)
	return (1-t)*m.Lhs.Evaluate(ctx, wo, wi) + t*m.Rhs.Evaluate(ctx, wo, wi)
}

func (m Mix) PDF(ctx Context, wo, wi math.Vec3) float32 {
	t := m.amount(ctx)
	return (1-t)*m.Lhs.PDF(ctx, wo, wi) + t*m.Rhs.PDF(ctx, wo, wi)
}

func (m Mix) Emission(ctx Context, wo math.Vec3) float32 {
	t := m.amount(ctx)
	return (1-t)*m.Lhs.Emission(ctx, wo) + t*m.Rhs.Emission(ctx, wo)
}

func (m Mix) Specular() bool {
	return m.Lhs.Specular() && m.Rhs.Specular()
}

// Add is the un-normalized sum of two materials (e.g. a clear coat
// layered over a diffuse base). Sampling splits evenly between the two
// and combines via the balance heuristic, same as Mix with a fixed 0.5
// amount, since an additive layer has no single "blend fraction".
type Add struct {
	Lhs, Rhs Material
}

func (a Add) Sample(ctx Context, wo math.Vec3, rng sampler.Sampler) (Scatter, bool) {
	var scatter Scatter
	var ok bool
	if rng.Float32() < 0.5 {
		scatter, ok = a.Rhs.Sample(ctx, wo, rng)
	} else {
		scatter, ok = a.Lhs.Sample(ctx, wo, rng)
	}
	if !ok {
		return Scatter{}, false
	}
	if scatter.Specular {
		return scatter, true
	}

	pdf := a.PDF(ctx, wo, scatter.Direction)
	if pdf <= 0 {
		return Scatter{}, false
	}
	f := a.Evaluate(ctx, wo, scatter.Direction)
	cos := ctx.Normal.Dot(scatter.Direction)
	if cos < 0 {
		cos = -cos
	}
	return Scatter{Direction: scatter.Direction, Throughput: f * cos / pdf, PDF: pdf}, true
}

func (a Add) Evaluate(ctx Context, wo, wi math.Vec3) float32 {
	return a.Lhs.Evaluate(ctx, wo, wi) + a.Rhs.Evaluate(ctx, wo, wi)
}

func (a Add) PDF(ctx Context, wo, wi math.Vec3) float32 {
	return 0.5*a.Lhs.PDF(ctx, wo, wi) + 0.5*a.Rhs.PDF(ctx, wo, wi)
}

func (a Add) Emission(ctx Context, wo math.Vec3) float32 {
	return a.Lhs.Emission(ctx, wo) + a.Rhs.Emission(ctx, wo)
}

func (a Add) Specular() bool {
	return a.Lhs.Specular() && a.Rhs.Specular()
}
