package aggregator

// Coalesce merges every group of mutually overlapping active points into a
// single point and returns the resulting list: merged groups first in the
// order of their earliest member, then inactive points unchanged.
//
// Each round links intersecting pairs with a union-find and folds every
// component into its earliest member. A merged rectangle can overlap a point
// that none of its members touched, so rounds repeat until one merges
// nothing. Points are mutated in place; callers pass freshly built points.
func Coalesce(points []*DataPoint) []*DataPoint {
	var active, inactive []*DataPoint
	for _, p := range points {
		if p == nil {
			continue
		}
		if p.Active {
			active = append(active, p)
		} else {
			inactive = append(inactive, p)
		}
	}

	for len(active) > 1 {
		merged := mergeRound(active)
		if len(merged) == len(active) {
			break
		}
		active = merged
	}

	out := make([]*DataPoint, 0, len(active)+len(inactive))
	out = append(out, active...)
	return append(out, inactive...)
}

func mergeRound(points []*DataPoint) []*DataPoint {
	uf := newUnionFind(len(points))
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i].IntersectsDataPoint(points[j]) {
				uf.union(i, j)
			}
		}
	}

	out := make([]*DataPoint, 0, len(points))
	for i, p := range points {
		root := uf.find(i)
		if root == i {
			out = append(out, p)
			continue
		}
		points[root].AddAggregatorDataPoint(p)
	}
	return out
}

// unionFind keeps the smallest index of each component as its root so merged
// groups preserve input order.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
