// Package world assembles a scene's geometry, spatial index, materials,
// lamps, and background into the single object the integrator queries
// every bounce (spec.md §3 "World").
package world

import (
	"pyrite/lamps"
	"pyrite/materials"
	"pyrite/math"
	"pyrite/program"
	"pyrite/shapes"
	"pyrite/spatial"
)

// World is built once per render from the decoded scene and is
// read-only from then on, so every tile worker can query it
// concurrently without locking.
type World struct {
	Shapes    *shapes.Store
	Tree      *spatial.Tree
	Materials *materials.Store
	Lamps     []lamps.Lamp
	Sky       program.Program

	shapeLamps map[int]lamps.Lamp
}

// New builds the spatial index over shapes and bundles it with the
// rest of the scene. Call once after every shape, material, and lamp
// has been added.
func New(shapeStore *shapes.Store, materialStore *materials.Store, lampList []lamps.Lamp, sky program.Program, leafArity int) *World {
	w := &World{
		Shapes:     shapeStore,
		Tree:       spatial.Build(shapeStore, leafArity),
		Materials:  materialStore,
		Lamps:      lampList,
		Sky:        sky,
		shapeLamps: make(map[int]lamps.Lamp),
	}
	for _, l := range lampList {
		if shapeLamp, ok := l.(lamps.Shape); ok {
			w.shapeLamps[shapeLamp.ShapeID] = l
		}
	}
	return w
}

// LampForShape returns the Lamp wrapping shapeID, if that shape was
// registered as a shape lamp -- used to MIS-weight a BSDF-sampled ray
// that happens to land on a light source's own geometry.
func (w *World) LampForShape(shapeID int) (lamps.Lamp, bool) {
	l, ok := w.shapeLamps[shapeID]
	return l, ok
}

// Intersection is a ray/scene hit together with the material it struck.
type Intersection struct {
	Hit      shapes.Hit
	Material materials.Material
	ShapeID  int
}

// Intersect finds the closest-hit shape along ray, if any.
func (w *World) Intersect(ray math.Ray3) (Intersection, bool) {
	hit, id, ok := w.Tree.Intersect(ray)
	if !ok {
		return Intersection{}, false
	}
	shape := w.Shapes.Get(id)
	return Intersection{Hit: hit, Material: w.Materials.Get(shape.MaterialID()), ShapeID: id}, true
}

// Occluded reports whether anything blocks the segment from p towards
// dir, up to (but not including) maxDistance -- the visibility test
// next-event estimation needs before trusting a lamp sample.
func (w *World) Occluded(p, dir math.Vec3, maxDistance float32) bool {
	ray := math.NewRay3(p.Add(dir.Mul(math.Epsilon * 128)), dir)
	hit, _, ok := w.Tree.Intersect(ray)
	if !ok {
		return false
	}
	return hit.Distance < maxDistance-math.Epsilon*128
}

// SkyRadiance evaluates the background program for a ray that escaped
// the scene entirely, re-evaluated per escaping ray rather than baked
// into a texture so it can vary with both direction and wavelength
// (SPEC_FULL.md §4, sky-as-color-expression).
func (w *World) SkyRadiance(ray math.Ray3, wavelength float32) float32 {
	if w.Sky == nil {
		return 0
	}
	return w.Sky.Evaluate(program.RenderContext{
		Wavelength: wavelength,
		Normal:     ray.Direction,
		Incident:   ray.Direction.Negate(),
	})
}
