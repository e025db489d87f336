// Package kdtree implements a static k-d tree for exact k-nearest-neighbor
// and radius-bounded neighbor queries over a fixed set of k-dimensional
// points.
//
// The tree is built once by recursive median splitting with cyclic axis
// rotation and stored as an implicit binary tree in a flat level-order
// array. Queries walk the array nearer-branch first, bounding every subtree
// by an axis-aligned hyper-rectangle and skipping subtrees whose closest
// possible point cannot improve the current results.
//
// Basic usage:
//
//	points := [][]float64{{7, 2}, {5, 4}, {2, 3}, {4, 7}, {9, 6}, {8, 1}}
//	tree, err := kdtree.New(2, points, kdtree.SquaredEuclidean[float64]{})
//	// handle err
//	nearest, err := tree.NearestNeighbors([]float64{9, 2}, 2)
//	// nearest[0] is the closest point
//	inside, err := tree.RadialSearch([]float64{6, 3}, 2.5)
//	// every point within distance 2.5, closest first
//
// Coordinates and distances are independent numeric type parameters. The
// metric must be non-decreasing in each per-coordinate absolute difference
// (any Lp norm or power of one); see [Metric].
//
// Radial searches compare metric output against the radius mapped through
// [RadiusReducer]; metrics that do not implement it are treated as squared
// distances.
//
// A built tree is immutable and safe for concurrent queries. Use
// [Tree.NearestNeighborsBatch] to fan queries out over goroutines, and the
// persist subpackage to store a built tree and restore it without
// rebuilding.
package kdtree
