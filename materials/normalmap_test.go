package materials

import (
	"math"
	"testing"

	pmath "pyrite/math"
	"pyrite/program"
)

func TestNormalMapZeroOffsetMatchesBase(t *testing.T) {
	base := Diffuse{Color: program.Constant(0.8)}
	nm := NormalMap{Base: base, X: program.Constant(0), Y: program.Constant(0)}
	ctx := upContext()

	got := nm.PDF(ctx, pmath.Vec3Up, pmath.Vec3Up)
	want := base.PDF(ctx, pmath.Vec3Up, pmath.Vec3Up)
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Fatalf("PDF with zero offset = %v, want the unperturbed %v", got, want)
	}
}

func TestNormalMapTiltsPDFViaOffset(t *testing.T) {
	base := Diffuse{Color: program.Constant(0.8)}
	flat := NormalMap{Base: base, X: program.Constant(0), Y: program.Constant(0)}
	tilted := NormalMap{Base: base, X: program.Constant(0.9), Y: program.Constant(0)}
	ctx := upContext()

	flatPDF := flat.PDF(ctx, pmath.Vec3Up, pmath.Vec3Up)
	tiltedPDF := tilted.PDF(ctx, pmath.Vec3Up, pmath.Vec3Up)
	if flatPDF == tiltedPDF {
		t.Fatal("a tilted normal map offset must change the PDF evaluated at a fixed wi")
	}
}

func TestNormalMapDelegatesSpecularAndEmission(t *testing.T) {
	base := Mirror{Color: program.Constant(1)}
	nm := NormalMap{Base: base, X: program.Constant(0), Y: program.Constant(0)}
	if !nm.Specular() {
		t.Fatal("NormalMap must pass through Base.Specular()")
	}

	emissive := Emissive{Color: program.Constant(3)}
	nmEmissive := NormalMap{Base: emissive, X: program.Constant(0), Y: program.Constant(0)}
	ctx := Context{Normal: pmath.Vec3Up}
	if got := nmEmissive.Emission(ctx, pmath.Vec3Up); got != 3 {
		t.Fatalf("Emission with zero offset = %v, want the unperturbed 3", got)
	}
}

func TestNormalMapSampleUsesPerturbedNormal(t *testing.T) {
	base := Diffuse{Color: program.Constant(0.8)}
	nm := NormalMap{Base: base, X: program.Constant(0), Y: program.Constant(0)}
	ctx := upContext()

	_, ok := nm.Sample(ctx, pmath.Vec3Up, &fixedSampler{values: []float32{0.3, 0.6}})
	if !ok {
		t.Fatal("Sample returned ok=false for a valid upward wo")
	}
}
