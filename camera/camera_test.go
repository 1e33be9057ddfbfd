package camera

import (
	"math"
	"testing"

	pmath "pyrite/math"
)

type zeroSampler struct{}

func (zeroSampler) Float32() float32 { return 0 }

func TestPinholeCameraPointsDownForward(t *testing.T) {
	cam := New(pmath.Vec3Zero, pmath.QuaternionIdentity(), 1, 0, 0)
	ray := cam.RayTowards(0, 0, zeroSampler{})

	if ray.Origin != pmath.Vec3Zero {
		t.Fatalf("Origin = %+v, want the camera position", ray.Origin)
	}
	want := pmath.Vec3{X: 0, Y: 0, Z: -1}
	if math.Abs(float64(ray.Direction.X-want.X)) > 1e-5 ||
		math.Abs(float64(ray.Direction.Y-want.Y)) > 1e-5 ||
		math.Abs(float64(ray.Direction.Z-want.Z)) > 1e-5 {
		t.Fatalf("Direction at image centre = %+v, want %+v", ray.Direction, want)
	}
}

func TestPinholeCameraDirectionIsNormalized(t *testing.T) {
	cam := New(pmath.Vec3Zero, pmath.QuaternionIdentity(), 2, 0, 0)
	ray := cam.RayTowards(0.7, -0.4, zeroSampler{})
	if math.Abs(float64(ray.Direction.LengthSqr()-1)) > 1e-4 {
		t.Fatalf("|Direction|^2 = %v, want 1", ray.Direction.LengthSqr())
	}
}

func TestThinLensOriginMovesOffAxis(t *testing.T) {
	cam := New(pmath.Vec3Zero, pmath.QuaternionIdentity(), 1, 1, 5)
	ray := cam.RayTowards(0, 0, &fixedSampler{values: []float32{0.9, 0.1}})
	if ray.Origin == pmath.Vec3Zero {
		t.Fatal("a thin-lens sample should displace the ray origin off the camera position")
	}
}

type fixedSampler struct{ values []float32 }

func (f *fixedSampler) Float32() float32 {
	v := f.values[0]
	if len(f.values) > 1 {
		f.values = f.values[1:]
	}
	return v
}

func TestToViewAreaCentreMatchesPixelCentre(t *testing.T) {
	cam := New(pmath.Vec3Zero, pmath.QuaternionIdentity(), 1, 0, 0)
	area := cam.ToViewArea(0, 0, 100, 100, 100, 100)
	cx, cy := area.Center()
	if math.Abs(float64(cx)) > 1e-5 || math.Abs(float64(cy)) > 1e-5 {
		t.Fatalf("Center() of the full image = (%v, %v), want (0, 0)", cx, cy)
	}
}
