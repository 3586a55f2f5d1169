package lisa

import (
	"container/heap"
	"sort"
)

// defaultLeafSize is the maximum number of points stored in a tree leaf.
const defaultLeafSize = 16

// kdTree is a planar (2D, Euclidean) KD-tree used for exact k-nearest-
// neighbor queries. Points are stored in a flat row-major array and
// reordered internally via an index permutation array.
//
// Neighbor ties are broken deterministically: among equidistant
// candidates, the lowest original index wins. The search never prunes a
// subtree whose lower bound equals the current k-th distance, so an
// equidistant lower-index candidate is always reachable.
type kdTree struct {
	coords   []float64 // flat row-major [x, y] pairs
	idxArray []int     // permutation: tree-order position → original index
	root     *kdNode
	leafSize int
}

type kdNode struct {
	// points idxArray[start:end] fall inside this node
	start, end int
	// axis-aligned bounding box of the node's points
	minX, minY, maxX, maxY float64
	left, right            *kdNode
}

func (nd *kdNode) isLeaf() bool { return nd.left == nil }

// newKDTree builds a KD-tree over n = len(coords)/2 planar points. The
// coordinate slice is not modified.
func newKDTree(coords []float64, leafSize int) *kdTree {
	if leafSize < 1 {
		leafSize = defaultLeafSize
	}
	n := len(coords) / 2
	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}
	t := &kdTree{coords: coords, idxArray: idxArray, leafSize: leafSize}
	if n > 0 {
		t.root = t.build(0, n)
	}
	return t
}

// build constructs the subtree for points idxArray[start:end], splitting
// at the median of the dimension with the greatest spread.
func (t *kdTree) build(start, end int) *kdNode {
	nd := &kdNode{start: start, end: end}
	t.computeBounds(nd)

	if end-start <= t.leafSize {
		return nd
	}

	dim := 0
	if nd.maxY-nd.minY > nd.maxX-nd.minX {
		dim = 1
	}
	t.sortByDimension(start, end, dim)
	mid := start + (end-start)/2

	nd.left = t.build(start, mid)
	nd.right = t.build(mid, end)
	return nd
}

func (t *kdTree) computeBounds(nd *kdNode) {
	first := t.idxArray[nd.start]
	nd.minX, nd.maxX = t.coords[2*first], t.coords[2*first]
	nd.minY, nd.maxY = t.coords[2*first+1], t.coords[2*first+1]
	for i := nd.start + 1; i < nd.end; i++ {
		idx := t.idxArray[i]
		x, y := t.coords[2*idx], t.coords[2*idx+1]
		if x < nd.minX {
			nd.minX = x
		}
		if x > nd.maxX {
			nd.maxX = x
		}
		if y < nd.minY {
			nd.minY = y
		}
		if y > nd.maxY {
			nd.maxY = y
		}
	}
}

func (t *kdTree) sortByDimension(start, end, dim int) {
	sub := t.idxArray[start:end]
	coords := t.coords
	sort.Slice(sub, func(i, j int) bool {
		return coords[2*sub[i]+dim] < coords[2*sub[j]+dim]
	})
}

// query finds the k nearest neighbors of the point with original index q,
// excluding q itself. Results are sorted by (distance, index) ascending
// and reported as squared Euclidean distances.
func (t *kdTree) query(q, k int) (indices []int, sqDists []float64) {
	if k < 1 || t.root == nil {
		return nil, nil
	}
	qx, qy := t.coords[2*q], t.coords[2*q+1]

	h := &knnHeap{}
	heap.Init(h)
	t.search(t.root, qx, qy, q, k, h)

	m := h.Len()
	indices = make([]int, m)
	sqDists = make([]float64, m)
	for i := m - 1; i >= 0; i-- {
		item := heap.Pop(h).(knnItem)
		indices[i] = item.index
		sqDists[i] = item.sqDist
	}
	return indices, sqDists
}

// search traverses the tree maintaining a bounded max-heap of the k best
// candidates under the (distance, index) total order.
func (t *kdTree) search(nd *kdNode, qx, qy float64, exclude, k int, h *knnHeap) {
	if nd.isLeaf() {
		for i := nd.start; i < nd.end; i++ {
			idx := t.idxArray[i]
			if idx == exclude {
				continue
			}
			dx := qx - t.coords[2*idx]
			dy := qy - t.coords[2*idx+1]
			d := dx*dx + dy*dy
			if h.Len() < k {
				heap.Push(h, knnItem{index: idx, sqDist: d})
			} else if worst := (*h)[0]; d < worst.sqDist || (d == worst.sqDist && idx < worst.index) {
				(*h)[0] = knnItem{index: idx, sqDist: d}
				heap.Fix(h, 0)
			}
		}
		return
	}

	leftBound := nd.left.minSqDist(qx, qy)
	rightBound := nd.right.minSqDist(qx, qy)

	near, far := nd.left, nd.right
	farBound := rightBound
	if rightBound < leftBound {
		near, far = nd.right, nd.left
		farBound = leftBound
	}

	t.search(near, qx, qy, exclude, k, h)

	// Non-strict bound: a subtree at exactly the k-th distance may hold an
	// equidistant candidate with a lower index.
	if h.Len() < k || farBound <= (*h)[0].sqDist {
		t.search(far, qx, qy, exclude, k, h)
	}
}

// minSqDist returns the squared distance from (qx, qy) to the node's
// bounding box: a lower bound on the distance to any point inside.
func (nd *kdNode) minSqDist(qx, qy float64) float64 {
	var dx, dy float64
	if qx < nd.minX {
		dx = nd.minX - qx
	} else if qx > nd.maxX {
		dx = qx - nd.maxX
	}
	if qy < nd.minY {
		dy = nd.minY - qy
	} else if qy > nd.maxY {
		dy = qy - nd.maxY
	}
	return dx*dx + dy*dy
}

// --- bounded max-heap for KNN queries ---

type knnItem struct {
	index  int
	sqDist float64
}

// knnHeap orders items worst-first: greater distance on top, ties broken
// by greater index so that the lowest-index equidistant candidate survives.
type knnHeap []knnItem

func (h knnHeap) Len() int { return len(h) }
func (h knnHeap) Less(i, j int) bool {
	if h[i].sqDist != h[j].sqDist {
		return h[i].sqDist > h[j].sqDist
	}
	return h[i].index > h[j].index
}
func (h knnHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *knnHeap) Push(x interface{}) { *h = append(*h, x.(knnItem)) }
func (h *knnHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
