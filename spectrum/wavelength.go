package spectrum

import "pyrite/sampler"

// Span is the wavelength range [Min, Max] (nanometres) a film bins
// radiance over.
type Span struct {
	Min, Max float32
}

func (s Span) Width() float32 {
	return s.Max - s.Min
}

// Bin maps a wavelength to a bin index in [0, binCount), clamped at the
// edges (spec.md §3 invariant: "Spectral bins are always indexed
// (wavelength - span_min) / span_width * bin_count, clamped").
func (s Span) Bin(wavelength float32, binCount int) int {
	t := (wavelength - s.Min) / s.Width()
	idx := int(t * float32(binCount))
	if idx < 0 {
		idx = 0
	}
	if idx >= binCount {
		idx = binCount - 1
	}
	return idx
}

// Wavelengths is the ordered set of N sample wavelengths drawn for one
// pixel sample; index 0 is the hero wavelength. It is ephemeral: built
// fresh per pixel sample and discarded immediately after.
type Wavelengths struct {
	values []float32
}

// NewWavelengths allocates room for n samples; n must be > 0.
func NewWavelengths(n int) *Wavelengths {
	if n <= 0 {
		panic("spectrum: need at least one wavelength sample")
	}
	return &Wavelengths{values: make([]float32, n)}
}

// Sample draws N stratified wavelengths across span (stratum i draws
// from [min + (i+u)*w/N, ...)) and then swaps a uniformly chosen index
// into position 0 to become the hero wavelength.
func (w *Wavelengths) Sample(span Span, s sampler.Sampler) {
	n := len(w.values)
	width := span.Width() / float32(n)
	for i := 0; i < n; i++ {
		u := s.Float32()
		w.values[i] = span.Min + (float32(i)+u)*width
	}

	hero, _ := sampler.Index(s, n)
	w.values[0], w.values[hero] = w.values[hero], w.values[0]
}

func (w *Wavelengths) Hero() float32 {
	return w.values[0]
}

func (w *Wavelengths) Len() int {
	return len(w.values)
}

func (w *Wavelengths) At(i int) float32 {
	return w.values[i]
}

func (w *Wavelengths) All() []float32 {
	return w.values
}
