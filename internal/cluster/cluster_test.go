package cluster

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"testing"

	"github.com/ayusman/fingercount/internal/geometry"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name   string
		points []geometry.Point
		radius float64
		want   [][]int
	}{
		{
			name:   "empty input",
			points: nil,
			radius: 20,
			want:   nil,
		},
		{
			name:   "distance 19 merges",
			points: []geometry.Point{{0, 0}, {19, 0}},
			radius: 20,
			want:   [][]int{{0, 1}},
		},
		{
			name:   "distance 21 stays separate",
			points: []geometry.Point{{0, 0}, {21, 0}},
			radius: 20,
			want:   [][]int{{0}, {1}},
		},
		{
			name:   "distance equal to radius stays separate",
			points: []geometry.Point{{0, 0}, {20, 0}},
			radius: 20,
			want:   [][]int{{0}, {1}},
		},
		{
			name:   "transitive chain forms one cluster",
			points: []geometry.Point{{0, 0}, {15, 0}, {30, 0}},
			radius: 20,
			want:   [][]int{{0, 1, 2}},
		},
		{
			name:   "interleaved clusters",
			points: []geometry.Point{{0, 0}, {100, 100}, {5, 5}, {105, 100}, {300, 0}},
			radius: 20,
			want:   [][]int{{0, 2}, {1, 3}, {4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.points, WithinRadius(tt.radius))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Partition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartition_OrderIndependent(t *testing.T) {
	points := []geometry.Point{{0, 0}, {15, 0}, {200, 0}, {30, 0}, {210, 5}, {400, 400}}
	// The same points in a different order; perm[i] is the original index of reordered[i].
	perm := []int{5, 3, 0, 4, 2, 1}
	reordered := make([]geometry.Point, len(perm))
	for i, p := range perm {
		reordered[i] = points[p]
	}

	toSets := func(groups [][]int, mapping []int) []string {
		var sets []string
		for _, g := range groups {
			members := make([]int, len(g))
			for k, idx := range g {
				if mapping != nil {
					idx = mapping[idx]
				}
				members[k] = idx
			}
			sort.Ints(members)
			sets = append(sets, fmt.Sprint(members))
		}
		sort.Strings(sets)
		return sets
	}

	a := toSets(Partition(points, WithinRadius(20)), nil)
	b := toSets(Partition(reordered, WithinRadius(20)), perm)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("partition depends on input order: %v vs %v", a, b)
	}
	if len(a) != 3 {
		t.Errorf("expected 3 clusters, got %d (%v)", len(a), a)
	}
}

func TestRepresentative(t *testing.T) {
	t.Run("closest to centroid", func(t *testing.T) {
		points := []geometry.Point{{0, 0}, {9, 0}, {10, 0}, {11, 0}, {40, 0}}
		got, err := Representative(points, []int{1, 2, 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 2 {
			t.Errorf("Representative() = %d, want 2", got)
		}
	})

	t.Run("equidistant tie picks first in input order", func(t *testing.T) {
		// Equilateral triangle centred on the origin: all members are exactly
		// 10 away from the centroid.
		s := 10 * math.Sqrt(3) / 2
		a := geometry.Point{X: 10, Y: 0}
		b := geometry.Point{X: -5, Y: s}
		c := geometry.Point{X: -5, Y: -s}

		orders := [][]geometry.Point{{a, b, c}, {b, c, a}, {c, a, b}}
		for _, points := range orders {
			got, err := Representative(points, []int{0, 1, 2})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != 0 {
				t.Errorf("Representative(%v) = %d, want 0", points, got)
			}
		}

		// The group order, not the point slice order, decides ties.
		got, _ := Representative([]geometry.Point{a, b, c}, []int{2, 0, 1})
		if got != 2 {
			t.Errorf("Representative() with reordered group = %d, want 2", got)
		}
	})

	t.Run("empty group", func(t *testing.T) {
		_, err := Representative([]geometry.Point{{1, 1}}, nil)
		if !errors.Is(err, geometry.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
