// Package meshio loads triangle meshes from Wavefront OBJ files
// directly into a shapes.Store, computing any face normal the file
// left out (spec.md §9, "mesh" object type).
package meshio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pyrite/math"
	"pyrite/shapes"
)

// Load parses path and appends every triangle (fan-triangulating faces
// with more than three vertices) to store, assigning materialID to
// each. It returns the ids of the appended triangles.
func Load(path string, materialID int, store *shapes.Store) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: open %s: %w", path, err)
	}
	defer f.Close()

	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2
	var ids []int

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			if len(parts) >= 4 {
				positions = append(positions, parseVec3(parts[1:4]))
			}
		case "vn":
			if len(parts) >= 4 {
				normals = append(normals, parseVec3(parts[1:4]))
			}
		case "vt":
			if len(parts) >= 3 {
				u, _ := strconv.ParseFloat(parts[1], 32)
				v, _ := strconv.ParseFloat(parts[2], 32)
				uvs = append(uvs, math.Vec2{X: float32(u), Y: float32(v)})
			}
		case "f":
			verts := make([]faceVertex, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				verts = append(verts, parseFaceVertex(spec, len(positions), len(normals), len(uvs)))
			}
			for i := 2; i < len(verts); i++ {
				tri := buildTriangle(verts[0], verts[i-1], verts[i], positions, normals, uvs, materialID)
				ids = append(ids, store.Add(tri))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("meshio: read %s: %w", path, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("meshio: %s contains no faces", path)
	}
	return ids, nil
}

type faceVertex struct {
	position int
	uv       int // -1 if absent
	normal   int // -1 if absent
}

func parseVec3(fields []string) math.Vec3 {
	x, _ := strconv.ParseFloat(fields[0], 32)
	y, _ := strconv.ParseFloat(fields[1], 32)
	z, _ := strconv.ParseFloat(fields[2], 32)
	return math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}
}

func parseFaceVertex(spec string, nPositions, nNormals, nUVs int) faceVertex {
	parts := strings.Split(spec, "/")
	fv := faceVertex{uv: -1, normal: -1}

	fv.position = resolveIndex(parts[0], nPositions)
	if len(parts) >= 2 && parts[1] != "" {
		fv.uv = resolveIndex(parts[1], nUVs)
	}
	if len(parts) >= 3 && parts[2] != "" {
		fv.normal = resolveIndex(parts[2], nNormals)
	}
	return fv
}

// resolveIndex converts OBJ's 1-based (or negative, relative-to-end)
// index into a 0-based slice index.
func resolveIndex(s string, count int) int {
	idx, _ := strconv.Atoi(s)
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}

func buildTriangle(a, b, c faceVertex, positions, normals []math.Vec3, uvs []math.Vec2, materialID int) *shapes.Triangle {
	tri := &shapes.Triangle{Material: materialID}
	verts := [3]faceVertex{a, b, c}
	for i, v := range verts {
		if v.position >= 0 && v.position < len(positions) {
			tri.Positions[i] = positions[v.position]
		}
		if v.uv >= 0 && v.uv < len(uvs) {
			tri.UV[i] = uvs[v.uv]
		}
	}

	haveNormals := true
	for _, v := range verts {
		if v.normal < 0 || v.normal >= len(normals) {
			haveNormals = false
			break
		}
	}
	if haveNormals {
		for i, v := range verts {
			tri.Normals[i] = normals[v.normal]
		}
		return tri
	}

	faceNormal := tri.Positions[1].Sub(tri.Positions[0]).Cross(tri.Positions[2].Sub(tri.Positions[0])).Normalize()
	tri.Normals = [3]math.Vec3{faceNormal, faceNormal, faceNormal}
	return tri
}
