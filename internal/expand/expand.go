// Package expand turns a sparse user-item ratings matrix into the
// row-grouped (row, col, value) partial-product stream the engine
// expects, by walking co-rated item pairs the way the worker's
// BuildSimilaritiesConcurrent does for item-item similarity, but
// handing raw unsummed partial products to the engine instead of
// pre-summing them in Go — the engine's accumulator does that job.
package expand

import (
	"math"
	"sort"

	"goflix/pkg/types"
)

// Scale fixes the point position when quantizing a float64 rating
// product into the engine's int32 wire value: value = round(product * Scale).
const Scale = 1 << 14

// partial is one unsummed (col, value) contribution to a row, before
// the engine accumulates duplicates.
type partial struct {
	col   uint16
	value int32
}

// Stream builds the ordered triple sequence for userRatings: a map
// from user ID to that user's {item ID: rating}. Every pair of items
// co-rated by the same user contributes a symmetric pair of partial
// products (row=i,col=j) and (row=j,col=i), bucketed by row so all of a
// row's triples are emitted contiguously and rows appear in ascending
// order, per the engine's streaming contract. It quantizes ratings to
// int32 via Scale and marks the final triple of the final non-empty row
// as Last.
func Stream(userRatings map[int]map[int]float64) []types.Triple {
	buckets := make(map[uint16][]partial)

	for _, ru := range userRatings {
		items := make([]int, 0, len(ru))
		for i := range ru {
			items = append(items, i)
		}
		sort.Ints(items)

		for a := 0; a < len(items); a++ {
			i := items[a]
			ri := ru[i]

			// Diagonal entry: accumulating these over all users at
			// (row=i, col=i) gives ||item i||^2, needed to normalize the
			// dot products below into cosine similarities downstream.
			diag := uint16(i)
			buckets[diag] = append(buckets[diag], partial{col: diag, value: quantize(ri * ri)})

			for b := a + 1; b < len(items); b++ {
				j := items[b]
				rj := ru[j]
				v := quantize(ri * rj)

				row, col := uint16(i), uint16(j)
				buckets[row] = append(buckets[row], partial{col: col, value: v})
				buckets[col] = append(buckets[col], partial{col: row, value: v})
			}
		}
	}

	rows := make([]uint16, 0, len(buckets))
	for r := range buckets {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a] < rows[b] })

	var out []types.Triple
	for ri, row := range rows {
		entries := buckets[row]
		for ei, p := range entries {
			last := ri == len(rows)-1 && ei == len(entries)-1
			out = append(out, types.Triple{Row: row, Col: p.col, Value: p.value, Last: last})
		}
	}
	return out
}

func quantize(v float64) int32 {
	return int32(math.Round(v * Scale))
}
