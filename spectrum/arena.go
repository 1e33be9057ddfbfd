// Package spectrum implements the wavelength-indexed light buffers the
// path tracer accumulates radiance into, and the per-worker pool/arena
// that keeps the hot path free of per-sample heap allocation.
package spectrum

// Arena is a bump allocator for float32 slices. It never frees
// individual allocations; Reset drops every slice handed out since the
// last reset. cmd/pyrite builds a fresh arena for each tile rather than
// resetting one. This mirrors the bumpalo::Bump arena the original renderer
// holds per worker thread.
type Arena struct {
	chunks     [][]float32
	chunkIndex int
	offset     int
}

const arenaChunkSize = 4096

func NewArena() *Arena {
	return &Arena{chunks: [][]float32{make([]float32, arenaChunkSize)}}
}

// Alloc returns a zero-filled slice of length n backed by the arena. The
// returned slice must not be used after the next Reset.
func (a *Arena) Alloc(n int) []float32 {
	if n > arenaChunkSize {
		return make([]float32, n)
	}

	chunk := a.chunks[a.chunkIndex]
	if a.offset+n > len(chunk) {
		a.chunkIndex++
		if a.chunkIndex >= len(a.chunks) {
			a.chunks = append(a.chunks, make([]float32, arenaChunkSize))
		}
		a.offset = 0
		chunk = a.chunks[a.chunkIndex]
	}

	slice := chunk[a.offset : a.offset+n : a.offset+n]
	a.offset += n
	for i := range slice {
		slice[i] = 0
	}
	return slice
}

// Reset reclaims every slice allocated since construction (or the last
// Reset) in one step. It must not be called while any of those slices
// is still in use.
func (a *Arena) Reset() {
	a.chunkIndex = 0
	a.offset = 0
}
