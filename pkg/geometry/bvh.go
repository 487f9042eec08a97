package geometry

import (
	"errors"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrEmptyBVH is returned when building a BVH over no objects
var ErrEmptyBVH = errors.New("geometry: cannot build BVH from zero objects")

// BVHNode is a node in the Bounding Volume Hierarchy. Children are either
// further nodes or the scene objects themselves.
type BVHNode struct {
	Left  Intersectable
	Right Intersectable
	bbox  core.AABB

	// aliased is set when a single object was split: both children are that object
	aliased bool
}

// NewBVH builds a BVH over objects. The split axis at every level is drawn from rng,
// so the same seed always yields the same tree. The input slice is not modified.
func NewBVH(objects []Intersectable, rng *core.PCG32) (*BVHNode, error) {
	if len(objects) == 0 {
		return nil, ErrEmptyBVH
	}

	// Copy so sorting never reorders the caller's slice
	objectsCopy := make([]Intersectable, len(objects))
	copy(objectsCopy, objects)

	return buildBVH(objectsCopy, rng), nil
}

// buildBVH recursively splits objects at the median along a random axis
func buildBVH(objects []Intersectable, rng *core.PCG32) *BVHNode {
	axis := int(rng.Uint32Between(0, 3))
	node := &BVHNode{}

	switch len(objects) {
	case 1:
		node.Left = objects[0]
		node.Right = objects[0]
		node.aliased = true
	case 2:
		if boxMin(objects[0], axis) < boxMin(objects[1], axis) {
			node.Left, node.Right = objects[0], objects[1]
		} else {
			node.Left, node.Right = objects[1], objects[0]
		}
	default:
		sortObjectsByAxis(objects, axis)
		mid := len(objects) / 2
		node.Left = buildBVH(objects[:mid], rng)
		node.Right = buildBVH(objects[mid:], rng)
	}

	node.bbox = node.Left.BoundingBox().Union(node.Right.BoundingBox())
	return node
}

// boxMin returns the minimum of an object's bounding box along axis
func boxMin(obj Intersectable, axis int) float64 {
	return obj.BoundingBox().Min.Axis(axis)
}

// sortObjectsByAxis sorts objects by their bounding box minimum along the specified axis
func sortObjectsByAxis(objects []Intersectable, axis int) {
	sort.SliceStable(objects, func(i, j int) bool {
		return boxMin(objects[i], axis) < boxMin(objects[j], axis)
	})
}

// Hit tests the left subtree first, then searches the right subtree only up to
// the left hit, so the nearer of the two is returned.
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !n.bbox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax)
	if !hitLeft {
		return n.Right.Hit(ray, tMin, tMax)
	}

	if rightHit, hitRight := n.Right.Hit(ray, tMin, leftHit.T); hitRight {
		return rightHit, true
	}
	return leftHit, true
}

// BoundingBox returns the union of both children's boxes
func (n *BVHNode) BoundingBox() core.AABB {
	return n.bbox
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	Nodes    int // Interior BVH nodes
	Leaves   int // Scene objects reachable from the root
	MaxDepth int // Depth of the deepest object, the root's children being depth 1
}

// Stats walks the tree and collects structural statistics
func (n *BVHNode) Stats() BVHStats {
	var stats BVHStats
	n.collectStats(0, &stats)
	return stats
}

// collectStats recursively collects statistics about the BVH
func (n *BVHNode) collectStats(depth int, stats *BVHStats) {
	stats.Nodes++

	children := []Intersectable{n.Left, n.Right}
	if n.aliased {
		children = children[:1]
	}

	for _, child := range children {
		if node, ok := child.(*BVHNode); ok {
			node.collectStats(depth+1, stats)
			continue
		}
		stats.Leaves++
		stats.MaxDepth = max(stats.MaxDepth, depth+1)
	}
}
