// Package program describes the contract a pluggable "value program"
// must satisfy to back a color expression (spectral reflectance,
// emission, texture lookup, ...). The concrete expression/shader
// evaluator is an external collaborator (spec.md §1, §9); this package
// only defines the interface the rendering core calls through, plus a
// memoization wrapper that lets a caller re-bind one field of the
// context (typically the wavelength) and re-run without rebuilding the
// whole context each time.
package program

import "pyrite/math"

// RenderContext is the tuple a value program is evaluated against.
type RenderContext struct {
	Wavelength float32
	Normal     math.Vec3
	Incident   math.Vec3
	Texture    math.Vec2
}

// Program is a parameterized scalar value: reflectance, emitted power,
// a texture channel, or any arithmetic/mix combination of those.
// Implementations are supplied by the scene front-end; the rendering
// core only ever calls Evaluate.
type Program interface {
	Evaluate(ctx RenderContext) float32
}

// Constant is the simplest Program: a fixed value independent of
// context. Useful standalone and as a building block for tests that
// exercise materials without a full expression evaluator.
type Constant float32

func (c Constant) Evaluate(RenderContext) float32 {
	return float32(c)
}

// Memoized wraps a Program with a mutable RenderContext, re-evaluating
// only when the context has been marked dirty since the last Run. The
// integrator uses this to iterate a program over every wavelength of a
// Wavelengths set without re-binding normal/incident/texture each time.
type Memoized struct {
	program Program
	ctx     RenderContext
	dirty   bool
	cached  float32
}

func Memoize(p Program, ctx RenderContext) *Memoized {
	return &Memoized{program: p, ctx: ctx, dirty: true}
}

// Input exposes the mutable context for the caller to update in place;
// any call to one of its setters below marks the memo dirty.
func (m *Memoized) Input() *Memoized {
	return m
}

func (m *Memoized) SetWavelength(wl float32) *Memoized {
	m.ctx.Wavelength = wl
	m.dirty = true
	return m
}

func (m *Memoized) SetNormal(n math.Vec3) *Memoized {
	m.ctx.Normal = n
	m.dirty = true
	return m
}

func (m *Memoized) SetTexture(t math.Vec2) *Memoized {
	m.ctx.Texture = t
	m.dirty = true
	return m
}

// Run evaluates the wrapped program if dirty, otherwise returns the
// cached value from the previous Run.
func (m *Memoized) Run() float32 {
	if m.dirty {
		m.cached = m.program.Evaluate(m.ctx)
		m.dirty = false
	}
	return m.cached
}
