package scenefile

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"

	"pyrite/program"
	"pyrite/textures"
)

func decodeExpr(t *testing.T, doc string) expr {
	t.Helper()
	var e expr
	if err := yaml.Unmarshal([]byte(doc), &e); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	return e
}

func TestExprDecodesScalar(t *testing.T) {
	e := decodeExpr(t, "0.5")
	if e.Scalar == nil || *e.Scalar != 0.5 {
		t.Fatalf("Scalar = %v, want 0.5", e.Scalar)
	}
}

func TestExprDecodesRGBTriple(t *testing.T) {
	e := decodeExpr(t, "[0.1, 0.2, 0.3]")
	if len(e.RGB) != 3 || e.RGB[0] != 0.1 || e.RGB[1] != 0.2 || e.RGB[2] != 0.3 {
		t.Fatalf("RGB = %v, want [0.1 0.2 0.3]", e.RGB)
	}
}

func TestExprDecodesTextureMap(t *testing.T) {
	e := decodeExpr(t, "texture:\n  path: foo.png\n  channel: red\n")
	if e.Texture == nil {
		t.Fatal("Texture must be set for a texture map")
	}
	if e.Texture.Path != "foo.png" || e.Texture.Channel != "red" {
		t.Fatalf("Texture = %+v, want path foo.png channel red", e.Texture)
	}
}

func TestExprBuildProducesWorkingProgram(t *testing.T) {
	e := decodeExpr(t, "[1, 1, 1]")
	p, err := e.build(textures.NewCache(1))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// A flat [1,1,1] input should evaluate to roughly the same value at
	// each primary's own lobe centre (the point each lobe is tuned for).
	r := p.Evaluate(program.RenderContext{Wavelength: 611})
	g := p.Evaluate(program.RenderContext{Wavelength: 549})
	b := p.Evaluate(program.RenderContext{Wavelength: 465})
	if r <= 0 || g <= 0 || b <= 0 {
		t.Fatalf("expected positive reflectance at every primary, got r=%v g=%v b=%v", r, g, b)
	}
}

func TestExprBuildConstantForScalar(t *testing.T) {
	e := decodeExpr(t, "0.42")
	p, err := e.build(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := p.Evaluate(program.RenderContext{Wavelength: 550}); math.Abs(float64(got-0.42)) > 1e-6 {
		t.Fatalf("Evaluate = %v, want 0.42", got)
	}
}
