package scenefile

import (
	"fmt"
	stdmath "math"

	"gopkg.in/yaml.v3"

	"pyrite/program"
	"pyrite/textures"
)

// rgbSpectrum turns a (non-spectral) RGB triple the scene author wrote
// by hand into a smooth, plausible reflectance spectrum: a sum of three
// broad Gaussian-like lobes centred near the red, green, and blue
// primaries. It is not a print-accurate upsampler, but it is smooth and
// cheap to evaluate per wavelength per bounce. The lobes are not
// normalized, so a gray input does not give a flat spectrum: [1,1,1]
// peaks above 1 near 580nm and falls well below 1 towards 400nm.
type rgbSpectrum struct {
	r, g, b float32
}

func (c rgbSpectrum) Evaluate(ctx program.RenderContext) float32 {
	return c.r*lobe(ctx.Wavelength, 611) + c.g*lobe(ctx.Wavelength, 549) + c.b*lobe(ctx.Wavelength, 465)
}

func lobe(wavelength, center float32) float32 {
	d := (wavelength - center) / 50
	return float32(stdmath.Exp(-float64(d * d)))
}

// expr is the yaml shape a color expression is written in: either a
// bare number (gray), a 3-element [r, g, b] list, or a map selecting a
// texture channel.
type expr struct {
	Scalar  *float32
	RGB     []float32
	Texture *textureExpr
}

type textureExpr struct {
	Path    string `yaml:"path"`
	Channel string `yaml:"channel"`
}

// UnmarshalYAML lets a color field in the scene file be written as
// 0.8, [0.8, 0.2, 0.1], or {texture: {path: ..., channel: ...}}.
func (e *expr) UnmarshalYAML(value *yaml.Node) error {
	var scalar float32
	if err := value.Decode(&scalar); err == nil {
		e.Scalar = &scalar
		return nil
	}

	var rgb []float32
	if err := value.Decode(&rgb); err == nil && len(rgb) == 3 {
		e.RGB = rgb
		return nil
	}

	var m struct {
		Texture *textureExpr `yaml:"texture"`
	}
	if err := value.Decode(&m); err == nil && m.Texture != nil {
		e.Texture = m.Texture
		return nil
	}

	return fmt.Errorf("scenefile: color expression must be a number, [r,g,b], or {texture: ...}")
}

func (e expr) build(cache *textures.Cache) (program.Program, error) {
	switch {
	case e.Scalar != nil:
		return program.Constant(*e.Scalar), nil
	case e.RGB != nil:
		return rgbSpectrum{r: e.RGB[0], g: e.RGB[1], b: e.RGB[2]}, nil
	case e.Texture != nil:
		channel := textures.ChannelLuma
		switch e.Texture.Channel {
		case "red":
			channel = textures.ChannelRed
		case "green":
			channel = textures.ChannelGreen
		case "blue":
			channel = textures.ChannelBlue
		case "alpha":
			channel = textures.ChannelAlpha
		}
		return textures.New(cache, e.Texture.Path, channel), nil
	default:
		return program.Constant(0), nil
	}
}
