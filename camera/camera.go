// Package camera maps normalized view-space pixel positions to primary
// rays, supporting both a pinhole model (aperture = 0) and a thin-lens
// model with depth of field (spec.md §4.5).
package camera

import (
	stdmath "math"

	"pyrite/math"
	"pyrite/sampler"
)

// Camera is constructed once per render from the scene's camera block.
type Camera struct {
	Position      math.Vec3
	Orientation   math.Quaternion
	Lens          float32 // focal length scale; larger = narrower FOV
	Aperture      float32 // 0 disables depth of field (pinhole)
	FocalDistance float32
}

func New(position math.Vec3, orientation math.Quaternion, lens, aperture, focalDistance float32) *Camera {
	return &Camera{
		Position:      position,
		Orientation:   orientation,
		Lens:          lens,
		Aperture:      aperture,
		FocalDistance: focalDistance,
	}
}

// RayTowards builds a primary ray through normalized view-space point
// (x, y) in [-1, 1], consuming sampler draws only when the aperture
// requires lens sampling.
func (c *Camera) RayTowards(x, y float32, rng sampler.Sampler) math.Ray3 {
	if c.Aperture == 0 {
		dir := math.NewVec3(x, -y, -c.Lens)
		return math.NewRay3(c.Position, c.Orientation.RotateVector(dir).Normalize())
	}

	focalPoint := math.NewVec3(x/c.Lens, -y/c.Lens, -1).Mul(c.FocalDistance)

	u, v := rng.Float32(), rng.Float32()
	lx, ly := math.SampleDisk(u, v)
	lensPoint := math.NewVec3(lx*sqrt32(c.Aperture), ly*sqrt32(c.Aperture), 0)

	origin := c.Position.Add(c.Orientation.RotateVector(lensPoint))
	direction := c.Orientation.RotateVector(focalPoint.Sub(lensPoint)).Normalize()
	return math.NewRay3(origin, direction)
}

func sqrt32(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(stdmath.Sqrt(float64(v)))
}

// ToViewArea maps a pixel-space rectangle (in pixels, within an image of
// size w x h) to its view-space area, used by the tile scheduler to
// order tiles by distance from the image's visual centre.
func (c *Camera) ToViewArea(x, y, w, h, imgW, imgH float32) ViewArea {
	toView := func(px, py float32) (float32, float32) {
		return (px/imgW)*2 - 1, (py/imgH)*2 - 1
	}
	minX, minY := toView(x, y)
	maxX, maxY := toView(x+w, y+h)
	return ViewArea{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// ViewArea is a camera-space rectangle, used by the scheduler purely for
// tile distance ordering -- it carries no 3D information.
type ViewArea struct {
	MinX, MinY, MaxX, MaxY float32
}

func (v ViewArea) Center() (float32, float32) {
	return (v.MinX + v.MaxX) / 2, (v.MinY + v.MaxY) / 2
}
