package shapes

import (
	"math"
	"testing"

	pmath "pyrite/math"
)

func unitTriangle() *Triangle {
	return NewTriangle(
		pmath.Vec3{X: 0, Y: 0, Z: 0},
		pmath.Vec3{X: 1, Y: 0, Z: 0},
		pmath.Vec3{X: 0, Y: 1, Z: 0},
		pmath.Vec3Back, pmath.Vec3Back, pmath.Vec3Back,
		0,
	)
}

func TestTriangleIntersectHitsInterior(t *testing.T) {
	tri := unitTriangle()
	ray := pmath.NewRay3(pmath.Vec3{X: 0.2, Y: 0.2, Z: 5}, pmath.Vec3{X: 0, Y: 0, Z: -1})

	hit, ok := tri.Intersect(ray)
	if !ok {
		t.Fatal("expected a hit inside the triangle")
	}
	if math.Abs(float64(hit.Distance-5)) > 1e-4 {
		t.Fatalf("Distance = %v, want 5", hit.Distance)
	}
}

func TestTriangleIntersectMissesOutsideEdges(t *testing.T) {
	tri := unitTriangle()
	ray := pmath.NewRay3(pmath.Vec3{X: 5, Y: 5, Z: 5}, pmath.Vec3{X: 0, Y: 0, Z: -1})
	if _, ok := tri.Intersect(ray); ok {
		t.Fatal("a ray outside the triangle's footprint must miss")
	}
}

func TestTriangleSurfaceAreaIsHalfCrossProduct(t *testing.T) {
	tri := unitTriangle()
	if math.Abs(float64(tri.SurfaceArea()-0.5)) > 1e-5 {
		t.Fatalf("SurfaceArea() = %v, want 0.5", tri.SurfaceArea())
	}
}

func TestTriangleSolidAngleTowardsAlwaysUndefined(t *testing.T) {
	tri := unitTriangle()
	if _, ok := tri.SolidAngleTowards(pmath.Vec3{X: 0, Y: 0, Z: 5}); ok {
		t.Fatal("Triangle.SolidAngleTowards must always report undefined")
	}
}

func TestTriangleSamplePointLiesInPlane(t *testing.T) {
	tri := unitTriangle()
	rng := &fixedSampler{values: []float32{0.25, 0.75}}
	surf := tri.SamplePoint(rng)

	if math.Abs(float64(surf.Point.Z)) > 1e-4 {
		t.Fatalf("sampled point Z = %v, want 0 (triangle lies in the XY plane)", surf.Point.Z)
	}
	// Barycentric coordinates must stay within the triangle: x, y >= 0
	// and x + y <= 1.
	if surf.Point.X < -1e-4 || surf.Point.Y < -1e-4 || surf.Point.X+surf.Point.Y > 1+1e-4 {
		t.Fatalf("sampled point %+v falls outside the triangle", surf.Point)
	}
}
