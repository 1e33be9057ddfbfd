package lamps

import (
	"math"
	"testing"

	pmath "pyrite/math"
	"pyrite/program"
	"pyrite/sampler"
	"pyrite/shapes"
)

type fixedSampler struct{ values []float32 }

func (f *fixedSampler) Float32() float32 {
	v := f.values[0]
	if len(f.values) > 1 {
		f.values = f.values[1:]
	}
	return v
}

var _ sampler.Sampler = (*fixedSampler)(nil)

func TestPointLampInverseSquareFalloff(t *testing.T) {
	p := Point{Position: pmath.Vec3{X: 0, Y: 0, Z: 0}, Color: program.Constant(4)}
	near, ok := p.SampleTowards(pmath.Vec3{X: 0, Y: 0, Z: 1}, pmath.Vec3Back, &fixedSampler{values: []float32{0}}, Context{})
	if !ok {
		t.Fatal("SampleTowards returned ok=false")
	}
	far, ok := p.SampleTowards(pmath.Vec3{X: 0, Y: 0, Z: 2}, pmath.Vec3Back, &fixedSampler{values: []float32{0}}, Context{})
	if !ok {
		t.Fatal("SampleTowards returned ok=false")
	}
	if math.Abs(float64(far.Radiance-near.Radiance/4)) > 1e-4 {
		t.Fatalf("radiance at 2x distance = %v, want 1/4 of near radiance %v", far.Radiance, near.Radiance)
	}
	if !near.Delta {
		t.Fatal("a point lamp sample must be Delta")
	}
	if p.PDF(pmath.Vec3Zero, pmath.Vec3Up, Context{}) != 0 {
		t.Fatal("a point lamp's PDF must always be 0 (never hittable by BSDF sampling)")
	}
}

func TestPointLampRejectsBacksideNormal(t *testing.T) {
	p := Point{Position: pmath.Vec3{X: 0, Y: 0, Z: 1}, Color: program.Constant(1)}
	_, ok := p.SampleTowards(pmath.Vec3Zero, pmath.Vec3Down, &fixedSampler{values: []float32{0}}, Context{})
	if ok {
		t.Fatal("a lamp behind the shading normal must be rejected")
	}
}

func TestDirectionalLampPointSourceIsDelta(t *testing.T) {
	d := Directional{Direction: pmath.Vec3Down, CosHalfAngle: 1, Color: program.Constant(2)}
	s, ok := d.SampleTowards(pmath.Vec3Zero, pmath.Vec3Up, &fixedSampler{values: []float32{0, 0}}, Context{})
	if !ok {
		t.Fatal("SampleTowards returned ok=false")
	}
	if !s.Delta {
		t.Fatal("cone_half_angle_cos == 1 must produce a Delta sample")
	}
	if s.Distance != pmath.MaxFloat32() {
		t.Fatalf("Distance = %v, want MaxFloat32 (infinitely distant)", s.Distance)
	}
}

func TestDirectionalLampWithAngularSizeIsStillDelta(t *testing.T) {
	d := Directional{Direction: pmath.Vec3Down, CosHalfAngle: 0.99, Color: program.Constant(2)}
	s, ok := d.SampleTowards(pmath.Vec3Zero, pmath.Vec3Up, &fixedSampler{values: []float32{0.1, 0.1}}, Context{})
	if !ok {
		t.Fatal("SampleTowards returned ok=false")
	}
	// A directional lamp has no geometry a BSDF sample could ever hit,
	// so it always carries full weight regardless of its cone width.
	if !s.Delta {
		t.Fatal("a directional lamp sample must always be Delta")
	}
	if s.PDF <= 0 {
		t.Fatalf("PDF = %v, want > 0 for a finite solid angle", s.PDF)
	}
}

func TestShapeLampSamplesOntoSphereSurface(t *testing.T) {
	store := shapes.NewStore()
	id := store.Add(shapes.NewSphere(pmath.Vec3{X: 0, Y: 0, Z: -10}, 2, 0))
	lamp := Shape{Store: store, ShapeID: id, Color: program.Constant(5)}

	s, ok := lamp.SampleTowards(pmath.Vec3Zero, pmath.Vec3Back, &fixedSampler{values: []float32{0.3, 0.6}}, Context{Wavelength: 550})
	if !ok {
		t.Fatal("SampleTowards returned ok=false")
	}
	if s.Radiance != 5 {
		t.Fatalf("Radiance = %v, want 5", s.Radiance)
	}
	if s.PDF <= 0 {
		t.Fatalf("PDF = %v, want > 0", s.PDF)
	}
	if s.Delta {
		t.Fatal("a shape lamp is never a delta distribution")
	}
}

func TestShapeLampPDFMatchesSolidAngleFormula(t *testing.T) {
	store := shapes.NewStore()
	sphere := shapes.NewSphere(pmath.Vec3{X: 0, Y: 0, Z: -10}, 2, 0)
	id := store.Add(sphere)
	lamp := Shape{Store: store, ShapeID: id, Color: program.Constant(1)}

	p := pmath.Vec3Zero
	dir := pmath.Vec3Back
	solidAngle, ok := sphere.SolidAngleTowards(p)
	if !ok {
		t.Fatal("expected SolidAngleTowards to be defined outside the sphere")
	}

	got := lamp.PDF(p, dir, Context{})
	want := 1 / solidAngle
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Fatalf("PDF() = %v, want 1/solidAngle = %v", got, want)
	}
}
