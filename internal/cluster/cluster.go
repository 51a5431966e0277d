// Package cluster partitions point sets into groups of mutually reachable points.
package cluster

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ayusman/fingercount/internal/geometry"
)

// Adjacency reports whether two points belong to the same neighbourhood.
type Adjacency func(a, b geometry.Point) bool

// WithinRadius returns an Adjacency that links points closer than radius.
func WithinRadius(radius float64) Adjacency {
	return func(a, b geometry.Point) bool {
		return geometry.Distance(a, b) < radius
	}
}

// Partition groups the indices of points into the connected components of the
// graph whose edges are the pairs satisfying adjacent. Points linked only through
// intermediate points end up in the same group.
//
// Each group is sorted ascending and groups are ordered by their lowest index, so
// the output is deterministic for a given input ordering.
func Partition(points []geometry.Point, adjacent Adjacency) [][]int {
	if len(points) == 0 {
		return nil
	}

	g := simple.NewUndirectedGraph()
	for i := range points {
		g.AddNode(simple.Node(i))
	}

	// Hull sizes stay small, so the pairwise scan is fine.
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if adjacent(points[i], points[j]) {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}

	components := topo.ConnectedComponents(g)
	groups := make([][]int, 0, len(components))
	for _, component := range components {
		group := make([]int, len(component))
		for k, n := range component {
			group[k] = int(n.ID())
		}
		sort.Ints(group)
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})

	return groups
}

// Representative returns the member of group (indices into points) closest to the
// group's centroid. On ties the member that comes first in group wins.
func Representative(points []geometry.Point, group []int) (int, error) {
	members := make([]geometry.Point, len(group))
	for k, idx := range group {
		members[k] = points[idx]
	}

	center, err := geometry.Centroid(members)
	if err != nil {
		return 0, err
	}

	best := group[0]
	bestDist := geometry.Distance(members[0], center)
	for k := 1; k < len(members); k++ {
		if d := geometry.Distance(members[k], center); d < bestDist {
			best = group[k]
			bestDist = d
		}
	}

	return best, nil
}
