// Package textures decodes image files referenced from a scene's color
// expressions and caches the decoded pixels, so repeated Texture(path)
// lookups across many path-tracer bounces never re-hit the filesystem.
package textures

import (
	"fmt"
	"image"
	stdmath "math"
	"os"

	_ "image/jpeg"
	_ "image/png"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/tiff"

	"pyrite/program"
)

// Cache decodes and memoizes images by file path, bounded so a scene
// with many large textures can't exhaust memory.
type Cache struct {
	images *lru.Cache[string, image.Image]
}

// NewCache builds a cache holding at most capacity decoded images.
func NewCache(capacity int) *Cache {
	c, err := lru.New[string, image.Image](capacity)
	if err != nil {
		panic(fmt.Sprintf("textures: invalid cache capacity %d: %v", capacity, err))
	}
	return &Cache{images: c}
}

func (c *Cache) load(path string) (image.Image, error) {
	if img, ok := c.images.Get(path); ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("textures: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("textures: decode %s: %w", path, err)
	}
	c.images.Add(path, img)
	return img, nil
}

// Channel selects one component of a sampled texel.
type Channel int

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
	ChannelAlpha
	ChannelLuma
)

// Texture is a program.Program backed by one channel of one image file,
// sampled at ctx.Texture with nearest-neighbour wrapping repeat.
type Texture struct {
	cache   *Cache
	Path    string
	Channel Channel
}

func New(cache *Cache, path string, channel Channel) *Texture {
	return &Texture{cache: cache, Path: path, Channel: channel}
}

func (t *Texture) Evaluate(ctx program.RenderContext) float32 {
	img, err := t.cache.load(t.Path)
	if err != nil {
		return 0
	}

	bounds := img.Bounds()
	u := wrap(ctx.Texture.X)
	v := wrap(ctx.Texture.Y)
	x := bounds.Min.X + int(u*float32(bounds.Dx()))
	y := bounds.Min.Y + int(v*float32(bounds.Dy()))
	x = clampInt(x, bounds.Min.X, bounds.Max.X-1)
	y = clampInt(y, bounds.Min.Y, bounds.Max.Y-1)

	r, g, b, a := img.At(x, y).RGBA()
	const maxVal = float32(0xffff)
	switch t.Channel {
	case ChannelRed:
		return float32(r) / maxVal
	case ChannelGreen:
		return float32(g) / maxVal
	case ChannelBlue:
		return float32(b) / maxVal
	case ChannelAlpha:
		return float32(a) / maxVal
	default:
		return (0.2126*float32(r) + 0.7152*float32(g) + 0.0722*float32(b)) / maxVal
	}
}

func wrap(v float32) float32 {
	v = float32(stdmath.Mod(float64(v), 1))
	if v < 0 {
		v += 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
