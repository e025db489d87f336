package kdtree

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
)

// Tree is a static k-d tree over a fixed set of points, built once and
// queried repeatedly for exact k-nearest-neighbor and radius searches.
//
// The tree is stored as a complete binary tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
//   - a nil entry marks an empty slot
//   - the node at depth h splits on dimension h mod Dims()
//
// A built Tree is immutable. Queries allocate their own search state, so any
// number of goroutines may query one Tree concurrently.
type Tree[C Coordinate, D Scalar] struct {
	nodes  [][]C // level-order slots; entries alias data
	data   []C   // flat row-major copy of the input points
	count  int
	dims   int
	metric Metric[C, D]
	bounds Bounds[C]
	logger *Logger
}

// Neighbor is a query result: a stored point and its metric distance to the
// query target.
type Neighbor[C Coordinate, D Scalar] struct {
	Point    []C
	Distance D
}

// New builds a tree from points of dimensionality dims using the default
// configuration. See NewWithConfig.
func New[C Coordinate, D Scalar](dims int, points [][]C, metric Metric[C, D]) (*Tree[C, D], error) {
	return NewWithConfig(dims, points, metric, Config[C]{})
}

// NewWithConfig builds a tree by recursive median splitting. Points are
// copied, so the caller may reuse the input afterwards.
//
// It returns an error wrapping ErrInvalidConstruction if dims <= 0, points is
// empty, metric is nil, any point does not have exactly dims coordinates, or
// cfg is invalid.
func NewWithConfig[C Coordinate, D Scalar](dims int, points [][]C, metric Metric[C, D], cfg Config[C]) (*Tree[C, D], error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validateConstruction(dims, points, metric); err != nil {
		cfg.Logger.LogBuild(len(points), dims, 0, err)
		return nil, err
	}

	n := len(points)
	t := &Tree[C, D]{
		nodes:  make([][]C, slotCount(n)),
		count:  n,
		dims:   dims,
		metric: metric,
		bounds: *cfg.Bounds,
		logger: cfg.Logger,
	}

	work := t.copyPoints(points)
	t.grow(0, 0, work)

	t.logger.LogBuild(n, dims, len(t.nodes), nil)
	return t, nil
}

func validateConstruction[C Coordinate, D Scalar](dims int, points [][]C, metric Metric[C, D]) error {
	if dims <= 0 {
		return fmt.Errorf("%w: dimensions must be > 0, got %d", ErrInvalidConstruction, dims)
	}
	if len(points) == 0 {
		return fmt.Errorf("%w: no points given", ErrInvalidConstruction)
	}
	if metric == nil {
		return fmt.Errorf("%w: metric is nil", ErrInvalidConstruction)
	}
	for i, p := range points {
		if len(p) != dims {
			return &DimensionMismatchError{Expected: dims, Actual: len(p), Index: i, kind: ErrInvalidConstruction}
		}
	}
	return nil
}

// slotCount returns the smallest power of two strictly greater than n.
// Median splitting yields a tree of height floor(log2 n)+1, whose
// level-order array always fits.
func slotCount(n int) int {
	return 1 << bits.Len(uint(n))
}

// copyPoints copies points into the tree's flat data array and returns
// per-point views into it.
func (t *Tree[C, D]) copyPoints(points [][]C) [][]C {
	t.data = make([]C, len(points)*t.dims)
	views := make([][]C, len(points))
	for i, p := range points {
		row := t.data[i*t.dims : (i+1)*t.dims : (i+1)*t.dims]
		copy(row, p)
		views[i] = row
	}
	return views
}

// grow stores the median of points (by dim) at index and recurses into the
// points before and after it.
func (t *Tree[C, D]) grow(index, dim int, points [][]C) {
	sortByDimension(points, dim)

	median := len(points) / 2
	t.nodes[index] = points[median]

	next := (dim + 1) % t.dims
	t.place(LeftChild(index), next, points[:median])
	t.place(RightChild(index), next, points[median+1:])
}

// place stores a singleton directly and only recurses for larger subsets.
func (t *Tree[C, D]) place(index, dim int, points [][]C) {
	switch len(points) {
	case 0:
	case 1:
		t.nodes[index] = points[0]
	default:
		t.grow(index, dim, points)
	}
}

// sortByDimension stably sorts points by coordinate dim.
func sortByDimension[C Coordinate](points [][]C, dim int) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i][dim] < points[j][dim]
	})
}

// NearestNeighbors returns up to k points closest to target, nearest first.
// Fewer than k points are returned when the tree holds fewer.
func (t *Tree[C, D]) NearestNeighbors(target []C, k int) ([][]C, error) {
	found, err := t.SearchNearest(target, k)
	if err != nil {
		return nil, err
	}
	return pointsOf(found), nil
}

// RadialSearch returns every point within radius of center, nearest first.
// The radius is mapped onto the metric's scale with RadiusReducer.
func (t *Tree[C, D]) RadialSearch(center []C, radius D) ([][]C, error) {
	return t.RadialSearchN(center, radius, t.count)
}

// RadialSearchN is like RadialSearch but returns at most limit points.
func (t *Tree[C, D]) RadialSearchN(center []C, radius D, limit int) ([][]C, error) {
	found, err := t.SearchRadius(center, radius, limit)
	if err != nil {
		return nil, err
	}
	return pointsOf(found), nil
}

// SearchNearest is NearestNeighbors with the distance of every result.
func (t *Tree[C, D]) SearchNearest(target []C, k int) ([]Neighbor[C, D], error) {
	if k < 0 {
		err := fmt.Errorf("%w: k must be >= 0, got %d", ErrInvalidQuery, k)
		t.logger.LogSearch("knn", k, 0, err)
		return nil, err
	}
	if err := t.validateTarget(target); err != nil {
		t.logger.LogSearch("knn", k, 0, err)
		return nil, err
	}

	found := t.query(target, k, unbounded[D]())
	t.logger.LogSearch("knn", k, len(found), nil)
	return found, nil
}

// SearchRadius is RadialSearchN with the distance of every result.
func (t *Tree[C, D]) SearchRadius(center []C, radius D, limit int) ([]Neighbor[C, D], error) {
	var err error
	switch {
	case radius < 0 || math.IsNaN(float64(radius)):
		err = fmt.Errorf("%w: radius must be >= 0, got %v", ErrInvalidQuery, radius)
	case limit < 0:
		err = fmt.Errorf("%w: limit must be >= 0, got %d", ErrInvalidQuery, limit)
	default:
		err = t.validateTarget(center)
	}
	if err != nil {
		t.logger.LogSearch("radial", limit, 0, err)
		return nil, err
	}

	found := t.query(center, limit, reduceRadius(t.metric, radius))
	t.logger.LogSearch("radial", limit, len(found), nil)
	return found, nil
}

func (t *Tree[C, D]) validateTarget(target []C) error {
	if len(target) != t.dims {
		return &DimensionMismatchError{Expected: t.dims, Actual: len(target), Index: -1, kind: ErrInvalidQuery}
	}
	return nil
}

// query runs the pruning search with a fresh rectangle and result list.
func (t *Tree[C, D]) query(target []C, limit int, maxRadius D) []Neighbor[C, D] {
	limit = min(limit, t.count)
	if limit == 0 || len(t.nodes) == 0 {
		return []Neighbor[C, D]{}
	}

	results := NewBoundedList[[]C, D](limit)
	rect := InfiniteRect(t.dims, t.bounds.Min, t.bounds.Max)
	t.search(0, target, rect, 0, results, maxRadius)

	out := make([]Neighbor[C, D], 0, results.Len())
	for p, d := range results.All() {
		out = append(out, Neighbor[C, D]{Point: p, Distance: d})
	}
	return out
}

// search visits the subtree rooted at index. rect bounds the region the
// subtree may occupy and is owned by this call.
//
// The nearer child is searched first so the result list tightens early. The
// further child is then visited only if the closest point of its rectangle is
// within maxRadius and, once the list is full, strictly closer than the
// current worst result. Finally the node itself is offered to the list.
func (t *Tree[C, D]) search(index int, target []C, rect HyperRect[C], depth int, results *BoundedList[[]C, D], maxRadius D) {
	if index >= len(t.nodes) || t.nodes[index] == nil {
		return
	}
	node := t.nodes[index]

	dim := depth % t.dims
	leftRect, rightRect := rect.Split(dim, node[dim])

	nearer, further := LeftChild(index), RightChild(index)
	nearerRect, furtherRect := leftRect, rightRect
	if target[dim] > node[dim] {
		nearer, further = further, nearer
		nearerRect, furtherRect = furtherRect, nearerRect
	}

	t.search(nearer, target, nearerRect, depth+1, results, maxRadius)

	if t.occupied(further) {
		bound := t.metric.Distance(furtherRect.ClosestPoint(target), target)
		if bound <= maxRadius && (!results.Full() || bound < results.MaxPriority()) {
			t.search(further, target, furtherRect, depth+1, results, maxRadius)
		}
	}

	if d := t.metric.Distance(node, target); d <= maxRadius {
		results.Add(node, d)
	}
}

func (t *Tree[C, D]) occupied(index int) bool {
	return index < len(t.nodes) && t.nodes[index] != nil
}

func pointsOf[C Coordinate, D Scalar](found []Neighbor[C, D]) [][]C {
	out := make([][]C, len(found))
	for i, nb := range found {
		out[i] = nb.Point
	}
	return out
}

// --- Introspection ---

// Len returns the number of points in the tree.
func (t *Tree[C, D]) Len() int { return t.count }

// Dims returns the dimensionality of each point.
func (t *Tree[C, D]) Dims() int { return t.dims }

// Bounds returns the search window used for the root rectangle.
func (t *Tree[C, D]) Bounds() Bounds[C] { return t.bounds }

// Metric returns the metric the tree was built with.
func (t *Tree[C, D]) Metric() Metric[C, D] { return t.metric }

// Array returns the level-order slot array; nil entries are empty slots.
// The outer slice is a copy, but the points are shared with the tree and
// must not be modified.
func (t *Tree[C, D]) Array() [][]C {
	out := make([][]C, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Root returns a Navigator positioned at the root node.
func (t *Tree[C, D]) Root() Navigator[C] {
	return Navigator[C]{nodes: t.nodes}
}
