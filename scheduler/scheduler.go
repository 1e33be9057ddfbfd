// Package scheduler partitions a film into tiles, orders them by
// distance from the image's visual centre (so a preview converges from
// the middle outward), and dispatches them across a worker pool with
// deterministic per-tile seeding (spec.md §4.11, §5).
package scheduler

import (
	"sort"
	"sync"
	"sync/atomic"

	"pyrite/camera"
)

// Tile is a rectangular region of the film, in pixel coordinates.
type Tile struct {
	X, Y, Width, Height int
	Index               int
}

// Plan partitions a width x height image into tileSize x tileSize tiles
// (the last row/column may be smaller) and orders them by distance from
// the image centre in camera view space.
func Plan(cam *camera.Camera, width, height, tileSize int) []Tile {
	var tiles []Tile
	index := 0
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			w := tileSize
			if x+w > width {
				w = width - x
			}
			h := tileSize
			if y+h > height {
				h = height - y
			}
			tiles = append(tiles, Tile{X: x, Y: y, Width: w, Height: h, Index: index})
			index++
		}
	}

	area := cam.ToViewArea(0, 0, float32(width), float32(height), float32(width), float32(height))
	centerX, centerY := area.Center()

	sort.Slice(tiles, func(i, j int) bool {
		return tileDistance(cam, tiles[i], width, height, centerX, centerY) <
			tileDistance(cam, tiles[j], width, height, centerX, centerY)
	})
	return tiles
}

func tileDistance(cam *camera.Camera, t Tile, width, height int, centerX, centerY float32) float32 {
	va := cam.ToViewArea(float32(t.X), float32(t.Y), float32(t.Width), float32(t.Height), float32(width), float32(height))
	tx, ty := va.Center()
	dx, dy := tx-centerX, ty-centerY
	return dx*dx + dy*dy
}

// Seed derives a deterministic per-tile RNG seed from one run-wide seed,
// so re-rendering with the same seed reproduces identical tiles
// regardless of how many workers ran them or in what order (spec.md
// §5 invariant).
func Seed(runSeed int64, tileIndex int) int64 {
	return splitmix64(uint64(runSeed) ^ uint64(splitmix64(uint64(tileIndex))))
}

// splitmix64 is used purely as a fast, well-distributed integer mixer,
// not as a general-purpose RNG.
func splitmix64(x uint64) int64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return int64(z)
}

// Progress reports render completion as tiles finish.
type Progress struct {
	done  int64
	total int64
}

func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// Tick marks one tile complete and returns the overall percentage done.
func (p *Progress) Tick() float64 {
	done := atomic.AddInt64(&p.done, 1)
	return 100 * float64(done) / float64(p.total)
}

// Run dispatches every tile in tiles to work across workers goroutines,
// calling render for each and progress after each completes. It blocks
// until every tile has been rendered.
func Run(tiles []Tile, workers int, render func(Tile), onProgress func(Tile, float64)) {
	if workers < 1 {
		workers = 1
	}
	progress := NewProgress(len(tiles))

	queue := make(chan Tile)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for tile := range queue {
				render(tile)
				if onProgress != nil {
					onProgress(tile, progress.Tick())
				}
			}
		}()
	}
	for _, t := range tiles {
		queue <- t
	}
	close(queue)
	wg.Wait()
}
