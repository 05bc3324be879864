// Package recommend turns the engine's accumulated output rows back
// into cosine item-item similarities and, from there, ranked
// recommendations for a user — the same top-K neighbor selection and
// item-based prediction the worker's engine/similarity_core.go and
// recommend/recommend.go do, now fed by the engine's own dedup-and-sort
// instead of an in-process map accumulator.
package recommend

import (
	"container/heap"
	"math"
	"sort"

	"goflix/internal/expand"
	"goflix/pkg/types"
)

// Neighbor is one item similarity entry: item j is Sim-similar to the
// row item.
type Neighbor struct {
	Item int
	Sim  float64
}

// NeighborHeap is a min-heap on Sim, used to keep the top-K neighbors
// of a row while scanning its columns once.
type NeighborHeap []Neighbor

func (h NeighborHeap) Len() int            { return len(h) }
func (h NeighborHeap) Less(i, j int) bool  { return h[i].Sim < h[j].Sim }
func (h NeighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *NeighborHeap) Push(x interface{}) { *h = append(*h, x.(Neighbor)) }
func (h *NeighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// SimMatrix maps item i to its nonzero similarities to other items.
type SimMatrix map[int]map[int]float64

// BuildSimilarities consumes the engine's output records for the whole
// item-item product matrix and dequantizes diagonal entries into norms
// and off-diagonal entries into cosine similarities. Records may arrive
// in any order; row and col are engine-sorted within a row but rows can
// be collected as they complete.
func BuildSimilarities(records []types.OutputRecord) SimMatrix {
	norms := make(map[int]float64)
	dots := make(map[int]map[int]float64)

	for _, r := range records {
		if r.Row == r.Col {
			norms[int(r.Row)] = math.Sqrt(dequantize(r.Value))
			continue
		}
		row, ok := dots[int(r.Row)]
		if !ok {
			row = make(map[int]float64)
			dots[int(r.Row)] = row
		}
		row[int(r.Col)] = dequantize(r.Value)
	}

	sim := make(SimMatrix, len(dots))
	for i, row := range dots {
		ni := norms[i]
		if ni == 0 {
			continue
		}
		out := make(map[int]float64, len(row))
		for j, dot := range row {
			nj := norms[j]
			if nj == 0 {
				continue
			}
			out[j] = dot / (ni * nj)
		}
		sim[i] = out
	}
	return sim
}

func dequantize(v int32) float64 {
	return float64(v) / expand.Scale
}

// TopKNeighbors keeps, for every item with at least one similarity, its
// k strongest neighbors in descending similarity order.
func TopKNeighbors(sim SimMatrix, k int) map[int][]Neighbor {
	out := make(map[int][]Neighbor, len(sim))
	for i, row := range sim {
		h := &NeighborHeap{}
		heap.Init(h)
		for j, s := range row {
			if i == j {
				continue
			}
			if h.Len() < k {
				heap.Push(h, Neighbor{Item: j, Sim: s})
			} else if s > (*h)[0].Sim {
				heap.Pop(h)
				heap.Push(h, Neighbor{Item: j, Sim: s})
			}
		}
		n := h.Len()
		buf := make([]Neighbor, n)
		for idx := n - 1; idx >= 0; idx-- {
			buf[idx] = heap.Pop(h).(Neighbor)
		}
		out[i] = buf
	}
	return out
}

// PredictForUserItem estimates a user's rating of item i from their
// other ratings and item i's neighbor list, weighting by similarity.
func PredictForUserItem(i int, ratings map[int]float64, neighbors map[int][]Neighbor) (float64, bool) {
	nbrs, ok := neighbors[i]
	if !ok || len(nbrs) == 0 {
		return 0, false
	}
	var num, den float64
	for _, nb := range nbrs {
		if r, ok := ratings[nb.Item]; ok {
			num += nb.Sim * r
			den += math.Abs(nb.Sim)
		}
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// Rec is one ranked recommendation.
type Rec struct {
	Item  int
	Score float64
}

// TopN ranks the best n items a user hasn't rated yet, predicting a
// score for every neighbor of something they have rated.
func TopN(n int, ratings map[int]float64, neighbors map[int][]Neighbor) []Rec {
	seen := make(map[int]struct{}, len(ratings))
	for item := range ratings {
		seen[item] = struct{}{}
	}

	candidates := make(map[int]struct{})
	for item := range ratings {
		for _, nb := range neighbors[item] {
			if _, ok := seen[nb.Item]; !ok {
				candidates[nb.Item] = struct{}{}
			}
		}
	}

	var scored []Rec
	for item := range candidates {
		if score, ok := PredictForUserItem(item, ratings, neighbors); ok {
			scored = append(scored, Rec{Item: item, Score: score})
		}
	}
	sort.Slice(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
