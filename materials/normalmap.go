package materials

import (
	stdmath "math"

	"pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
)

// NormalMap perturbs the shading normal in tangent space before
// delegating every operation to Base, letting a texture-driven bump or
// normal map tilt reflection without moving the underlying geometry
// (spec.md §4.7, optional per-leaf normal maps). X and Y supply the
// tangent-space offset; Z is reconstructed to keep the perturbed normal
// unit length, the usual two-channel normal-map encoding.
type NormalMap struct {
	Base Material
	X, Y program.Program
}

func (n NormalMap) perturb(ctx Context) Context {
	tangent, bitangent := math.OrthonormalBasis(ctx.Normal)
	dx := math.Clamp(n.X.Evaluate(ctx), -1, 1)
	dy := math.Clamp(n.Y.Evaluate(ctx), -1, 1)
	dz2 := 1 - dx*dx - dy*dy
	if dz2 < 0 {
		dz2 = 0
	}
	dz := float32(stdmath.Sqrt(float64(dz2)))

	ctx.Normal = tangent.Mul(dx).Add(bitangent.Mul(dy)).Add(ctx.Normal.Mul(dz)).Normalize()
	return ctx
}

func (n NormalMap) Sample(ctx Context, wo math.Vec3, rng sampler.Sampler) (Scatter, bool) {
	return n.Base.Sample(n.perturb(ctx), wo, rng)
}

func (n NormalMap) Evaluate(ctx Context, wo, wi math.Vec3) float32 {
	return n.Base.Evaluate(n.perturb(ctx), wo, wi)
}

func (n NormalMap) PDF(ctx Context, wo, wi math.Vec3) float32 {
	return n.Base.PDF(n.perturb(ctx), wo, wi)
}

func (n NormalMap) Emission(ctx Context, wo math.Vec3) float32 {
	return n.Base.Emission(n.perturb(ctx), wo)
}

func (n NormalMap) Specular() bool { return n.Base.Specular() }
