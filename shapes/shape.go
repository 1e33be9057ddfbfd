// Package shapes implements the two primitive types Pyrite scenes are
// built from -- triangles and spheres -- and the operations the spatial
// index and lamp sampling need from them: ray intersection, surface-point
// sampling towards a target, surface area, and (where defined) solid
// angle towards a target.
package shapes

import (
	"pyrite/math"
	"pyrite/sampler"
)

// Hit is a ray/shape intersection result in world space.
type Hit struct {
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	Texture  math.Vec2
}

// SurfaceSample is a point drawn from a shape's surface, with the normal
// at that point, used by shape lamps for sampling towards a shading
// point. Nothing in this module emits rays from a lamp.
type SurfaceSample struct {
	Point  math.Vec3
	Normal math.Vec3
}

// Shape is implemented by Triangle and Sphere. MaterialID indexes into
// the scene's material store; shapes never hold a material reference
// directly so the shape store and the material store can be built and
// addressed independently (spec.md §9, "shared shapes across lamps and
// the object list").
type Shape interface {
	Intersect(ray math.Ray3) (Hit, bool)
	Bounds() math.AABB
	SurfaceArea() float32
	MaterialID() int

	// SampleTowards draws a surface point biased towards target,
	// importance-sampling solid angle when SolidAngleTowards is defined.
	SampleTowards(target math.Vec3, s sampler.Sampler) SurfaceSample

	// SamplePoint draws a uniform surface point. Triangle.SampleTowards
	// returns it directly, and Sphere.SampleTowards falls back to it when
	// target is inside the sphere.
	SamplePoint(s sampler.Sampler) SurfaceSample

	// SolidAngleTowards returns the solid angle the shape subtends as
	// seen from target, and false if undefined (triangles: always
	// false; spheres: false when target is inside the sphere).
	SolidAngleTowards(target math.Vec3) (float32, bool)
}
