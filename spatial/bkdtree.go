// Package spatial implements the BKD tree (a binary spatial partition
// whose splitting axis cycles X -> Y -> Z at every level) that makes
// closest-hit ray queries against a scene's shapes tractable. Build is a
// simple median split on a cyclically-chosen axis: it sacrifices some
// query quality compared to a cost-model (SAH) BVH in exchange for a
// deterministic, fast, allocation-light construction (spec.md §4.4,
// §9).
package spatial

import (
	"pyrite/math"
	"pyrite/shapes"

	"golang.org/x/exp/slices"
)

// Tree is a BKD tree over a fixed set of shape ids drawn from a
// shapes.Store. It does not own the shapes themselves.
type Tree struct {
	root  *node
	store *shapes.Store
}

type node struct {
	bounds math.AABB
	axis   math.Axis
	left   *node
	right  *node
	// leaf-only
	ids []int
}

func (n *node) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// Build partitions every shape in store into a tree with at most arity
// shapes per leaf.
func Build(store *shapes.Store, arity int) *Tree {
	ids := make([]int, store.Len())
	for i := range ids {
		ids[i] = i
	}
	if arity < 1 {
		arity = 1
	}
	return &Tree{root: build(store, ids, math.AxisX, arity), store: store}
}

func build(store *shapes.Store, ids []int, axis math.Axis, arity int) *node {
	bounds := totalBounds(store, ids)

	if len(ids) <= arity {
		return &node{bounds: bounds, axis: axis, ids: ids}
	}

	slices.SortFunc(ids, func(a, b int) int {
		ca := centroidOnAxis(store.Get(a).Bounds(), axis)
		cb := centroidOnAxis(store.Get(b).Bounds(), axis)
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		default:
			return 0
		}
	})

	median := len(ids) / 2
	left := build(store, ids[:median], axis.Next(), arity)
	right := build(store, ids[median:], axis.Next(), arity)

	return &node{bounds: bounds, axis: axis, left: left, right: right}
}

func centroidOnAxis(b math.AABB, axis math.Axis) float32 {
	lo, hi := b.Interval(axis)
	return (lo + hi) / 2
}

// totalBounds unions every shape's full 3D AABB, even though distance()
// only ever reads this node's own axis: children may split on a
// different axis and need the other two slabs to stay accurate.
func totalBounds(store *shapes.Store, ids []int) math.AABB {
	bounds := math.EmptyAABB()
	for _, id := range ids {
		bounds = bounds.Union(store.Get(id).Bounds())
	}
	return bounds
}

func (n *node) distance(ray math.Ray3) (float32, float32) {
	lo, hi := n.bounds.Interval(n.axis)
	return ray.PlaneDistance(lo, hi, n.axis)
}

type stackEntry struct {
	n        *node
	near, far float32
}

// Intersect returns the closest hit along ray, the id of the shape hit,
// and whether any shape was hit at all.
func (t *Tree) Intersect(ray math.Ray3) (shapes.Hit, int, bool) {
	near, far := t.root.distance(ray)
	if far < math.Epsilon {
		return shapes.Hit{}, -1, false
	}

	tHit := float32(math.MaxFloat32())
	var bestHit shapes.Hit
	bestID := -1

	stack := []stackEntry{{t.root, maxf(math.Epsilon, near), far}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.near > tHit || top.far < math.Epsilon {
			continue
		}

		if top.n.isLeaf() {
			for _, id := range top.n.ids {
				hit, ok := t.store.Get(id).Intersect(ray)
				if ok && hit.Distance > math.Epsilon && hit.Distance < tHit {
					tHit = hit.Distance
					bestHit = hit
					bestID = id
				}
			}
			continue
		}

		leftNear, leftFar := top.n.left.distance(ray)
		rightNear, rightFar := top.n.right.distance(ray)

		first, firstNear, firstFar := top.n.left, leftNear, leftFar
		second, secondNear, secondFar := top.n.right, rightNear, rightFar
		if (rightNear + rightFar) < (leftNear + leftFar) {
			first, firstNear, firstFar = top.n.right, rightNear, rightFar
			second, secondNear, secondFar = top.n.left, leftNear, leftFar
		}

		if secondNear <= tHit && secondFar >= top.near {
			stack = append(stack, stackEntry{second, maxf(secondNear, top.near), secondFar})
		}
		if firstNear <= tHit && firstFar >= top.near {
			stack = append(stack, stackEntry{first, maxf(firstNear, top.near), firstFar})
		}
	}

	if bestID < 0 {
		return shapes.Hit{}, -1, false
	}
	return bestHit, bestID, true
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
