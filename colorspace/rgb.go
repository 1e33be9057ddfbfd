// Package colorspace integrates a film's per-pixel spectral bins
// against the CIE 1931 standard observer into CIE XYZ, converts to
// linear sRGB, and encodes the result as an 8-bit gamma-corrected PNG
// (spec.md §4.6).
package colorspace

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	stdmath "math"
	"os"

	"pyrite/core"
	"pyrite/film"
)

// Integrate converts one pixel's spectral bins into linear-light CIE
// XYZ, then into linear sRGB.
func Integrate(f *film.Film, x, y int) core.Color {
	bins := f.Bins(x, y)
	var sumX, sumY, sumZ float32
	for i, value := range bins {
		wavelength := f.BinWavelength(i)
		xb, yb, zb := cieMatch(wavelength)
		sumX += value * xb
		sumY += value * yb
		sumZ += value * zb
	}

	binWidth := f.Span.Width() / float32(f.BinCount)
	norm := binWidth / cieYIntegral
	X, Y, Z := sumX*norm, sumY*norm, sumZ*norm

	return xyzToLinearSRGB(X, Y, Z)
}

// xyzToLinearSRGB applies the standard CIE XYZ (D65) -> linear sRGB
// matrix.
func xyzToLinearSRGB(x, y, z float32) core.Color {
	r := 3.2406*x - 1.5372*y - 0.4986*z
	g := -0.9689*x + 1.8758*y + 0.0415*z
	b := 0.0557*x - 0.2040*y + 1.0570*z
	return core.Color{R: r, G: g, B: b}
}

// encodeSRGB applies the sRGB OETF (gamma) and quantizes to 8 bits.
func encodeSRGB(c float32) uint8 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	var v float64
	if c <= 0.0031308 {
		v = float64(c) * 12.92
	} else {
		v = 1.055*stdmath.Pow(float64(c), 1/2.4) - 0.055
	}
	return uint8(stdmath.Round(v * 255))
}

// WritePNG integrates every pixel of f and writes the tonemapped,
// gamma-encoded result to path as an 8-bit PNG.
func WritePNG(f *film.Film, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := Integrate(f, x, y).Clamp(0, 1)
			img.SetRGBA(x, y, color.RGBA{
				R: encodeSRGB(c.R),
				G: encodeSRGB(c.G),
				B: encodeSRGB(c.B),
				A: 255,
			})
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := png.Encode(w, img); err != nil {
		return err
	}
	return w.Flush()
}
