// internal/group/forest.go
package group

// forest is a disjoint-set over arena indices. Each root records whether an
// overlap joined the set.
type forest struct {
	parent  []int
	size    []int
	overlap []bool
}

func newForest(n int) *forest {
	f := &forest{
		parent:  make([]int, n),
		size:    make([]int, n),
		overlap: make([]bool, n),
	}
	for i := range f.parent {
		f.parent[i] = i
		f.size[i] = 1
	}
	return f
}

func (f *forest) find(x int) int {
	for f.parent[x] != x {
		f.parent[x] = f.parent[f.parent[x]]
		x = f.parent[x]
	}
	return x
}

// union joins the sets of x and y and returns the new root.
func (f *forest) union(x, y int) int {
	rx, ry := f.find(x), f.find(y)
	if rx == ry {
		return rx
	}
	if f.size[rx] < f.size[ry] {
		rx, ry = ry, rx
	}
	f.parent[ry] = rx
	f.size[rx] += f.size[ry]
	f.overlap[rx] = f.overlap[rx] || f.overlap[ry]
	return rx
}
