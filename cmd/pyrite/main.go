// Command pyrite renders a scene file to a PNG image.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pyrite/camera"
	"pyrite/colorspace"
	"pyrite/film"
	"pyrite/integrator"
	"pyrite/sampler"
	"pyrite/scenefile"
	"pyrite/scheduler"
	"pyrite/spectrum"
	"pyrite/world"
)

func main() {
	output := flag.String("o", "render.png", "output PNG path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pyrite [-o output.png] scene.yaml")
		os.Exit(1)
	}

	if err := render(flag.Arg(0), *output); err != nil {
		log.Fatalf("pyrite: %v", err)
	}
}

func render(scenePath, outputPath string) error {
	scene, err := scenefile.Load(scenePath)
	if err != nil {
		return err
	}

	log.Printf("Rendering %dx%d, %d samples/px, %d bounces", scene.Film.Width, scene.Film.Height, scene.PixelSamples, scene.Integrator.MaxBounces)

	tiles := scheduler.Plan(scene.Camera, scene.Film.Width, scene.Film.Height, scene.TileSize)

	scheduler.Run(tiles, scene.Threads, func(tile scheduler.Tile) {
		renderTile(scene.Camera, scene.Film, scene.World, scene.Integrator, tile, scene.PixelSamples, scene.Seed)
	}, func(tile scheduler.Tile, percent float64) {
		log.Printf("Tile %d %.1f%%", tile.Index, percent)
	})

	if err := colorspace.WritePNG(scene.Film, outputPath); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	log.Printf("Rendering 100%%, wrote %s", outputPath)
	return nil
}

const wavelengthsPerSample = 4

func renderTile(cam *camera.Camera, f *film.Film, w *world.World, cfg integrator.Config, tile scheduler.Tile, pixelSamples int, seed int64) {
	rng := sampler.New(scheduler.Seed(seed, tile.Index))
	wavelengths := spectrum.NewWavelengths(wavelengthsPerSample)
	pool := spectrum.NewPool(spectrum.NewArena(), wavelengthsPerSample)

	for y := tile.Y; y < tile.Y+tile.Height; y++ {
		for x := tile.X; x < tile.X+tile.Width; x++ {
			for s := 0; s < pixelSamples; s++ {
				px := float32(x) + rng.Float32()
				py := float32(y) + rng.Float32()

				ndcX := (px/float32(f.Width))*2 - 1
				ndcY := (py/float32(f.Height))*2 - 1

				ray := cam.RayTowards(ndcX, ndcY, rng)
				wavelengths.Sample(f.Span, rng)

				radiance := integrator.Trace(w, ray, wavelengths, pool, rng, cfg)
				// Every wavelength write carries the same weight whether
				// this path stayed coherent (N writes) or collapsed to
				// its hero wavelength (1 write): spec.md §4.10 gives each
				// write weight 1, so a dispersed sample's single vote
				// doesn't outweigh one of a coherent sample's N votes
				// when they land in the same film bin.
				weight := float32(1) / float32(pixelSamples)
				for i := 0; i < radiance.Len(); i++ {
					wl := wavelengths.At(i)
					if radiance.Len() == 1 {
						wl = wavelengths.Hero()
					}
					f.Expose(px, py, film.Sample{Brightness: radiance.At(i), Wavelength: wl, Weight: weight})
				}
				radiance.Release()
			}
		}
	}
}
