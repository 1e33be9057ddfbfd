package world

import (
	"testing"

	"pyrite/lamps"
	"pyrite/materials"
	pmath "pyrite/math"
	"pyrite/program"
	"pyrite/shapes"
)

func TestIntersectReturnsHitMaterial(t *testing.T) {
	shapeStore := shapes.NewStore()
	sphereID := shapeStore.Add(shapes.NewSphere(pmath.Vec3{X: 0, Y: 0, Z: -5}, 1, 0))

	matStore := materials.NewStore()
	matStore.Add(materials.Diffuse{Color: program.Constant(0.5)})

	w := New(shapeStore, matStore, nil, program.Constant(0), 4)

	ray := pmath.NewRay3(pmath.Vec3Zero, pmath.Vec3Back)
	hit, ok := w.Intersect(ray)
	if !ok {
		t.Fatal("expected a hit on the sphere")
	}
	if hit.ShapeID != sphereID {
		t.Fatalf("ShapeID = %d, want %d", hit.ShapeID, sphereID)
	}
	if _, isDiffuse := hit.Material.(materials.Diffuse); !isDiffuse {
		t.Fatalf("Material = %T, want materials.Diffuse", hit.Material)
	}
}

func TestOccludedDetectsBlocker(t *testing.T) {
	shapeStore := shapes.NewStore()
	shapeStore.Add(shapes.NewSphere(pmath.Vec3{X: 0, Y: 0, Z: -5}, 1, 0))
	matStore := materials.NewStore()
	matStore.Add(materials.Diffuse{})
	w := New(shapeStore, matStore, nil, program.Constant(0), 4)

	if !w.Occluded(pmath.Vec3Zero, pmath.Vec3Back, 100) {
		t.Fatal("expected the sphere to occlude a long segment through it")
	}
	if w.Occluded(pmath.Vec3Zero, pmath.Vec3Back, 2) {
		t.Fatal("a segment ending before the sphere must not be occluded")
	}
}

func TestSkyRadianceReturnsZeroWithoutASky(t *testing.T) {
	shapeStore := shapes.NewStore()
	matStore := materials.NewStore()
	w := New(shapeStore, matStore, nil, nil, 4)

	ray := pmath.NewRay3(pmath.Vec3Zero, pmath.Vec3Up)
	if got := w.SkyRadiance(ray, 550); got != 0 {
		t.Fatalf("SkyRadiance with nil Sky = %v, want 0", got)
	}
}

func TestLampForShapeOnlyRegistersShapeLamps(t *testing.T) {
	shapeStore := shapes.NewStore()
	lampShapeID := shapeStore.Add(shapes.NewSphere(pmath.Vec3{X: 5, Y: 0, Z: 0}, 1, 0))
	plainShapeID := shapeStore.Add(shapes.NewSphere(pmath.Vec3{X: -5, Y: 0, Z: 0}, 1, 0))

	matStore := materials.NewStore()
	matStore.Add(materials.Emissive{Color: program.Constant(1)})
	matStore.Add(materials.Diffuse{})

	lampList := []lamps.Lamp{lamps.Shape{Store: shapeStore, ShapeID: lampShapeID, Color: program.Constant(1)}}
	w := New(shapeStore, matStore, lampList, program.Constant(0), 4)

	if _, ok := w.LampForShape(lampShapeID); !ok {
		t.Fatal("the registered shape lamp must be found by LampForShape")
	}
	if _, ok := w.LampForShape(plainShapeID); ok {
		t.Fatal("a shape never wrapped as a lamp must not be found")
	}
}
