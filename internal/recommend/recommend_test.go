package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goflix/internal/expand"
	"goflix/internal/recommend"
	"goflix/pkg/types"
)

func scaledSq(v float64) int32 {
	return int32(v * expand.Scale)
}

func TestBuildSimilaritiesNormalizesToCosine(t *testing.T) {
	records := []types.OutputRecord{
		{Row: 0, Col: 0, Value: scaledSq(4)}, // norm^2 of item 0 = 4 -> norm = 2
		{Row: 1, Col: 1, Value: scaledSq(9)}, // norm^2 of item 1 = 9 -> norm = 3
		{Row: 0, Col: 1, Value: scaledSq(6)}, // dot(0,1) = 6
		{Row: 1, Col: 0, Value: scaledSq(6)},
	}
	sim := recommend.BuildSimilarities(records)

	got, ok := sim[0][1]
	require.True(t, ok, "expected a (0,1) similarity entry")
	require.InDelta(t, 6.0/(2.0*3.0), got, 1e-9)
}

func TestBuildSimilaritiesSkipsItemsMissingNorm(t *testing.T) {
	records := []types.OutputRecord{
		{Row: 0, Col: 1, Value: scaledSq(6)},
	}
	sim := recommend.BuildSimilarities(records)
	require.Empty(t, sim, "expected no similarities without diagonal norms")
}

func TestTopKNeighborsOrdersDescendingAndCaps(t *testing.T) {
	sim := recommend.SimMatrix{
		0: {1: 0.5, 2: 0.9, 3: 0.1},
	}
	out := recommend.TopKNeighbors(sim, 2)
	nbrs := out[0]
	require.Len(t, nbrs, 2)
	require.Equal(t, 2, nbrs[0].Item)
	require.Equal(t, 1, nbrs[1].Item)
}

func TestTopNExcludesAlreadyRatedItems(t *testing.T) {
	neighbors := map[int][]recommend.Neighbor{
		10: {{Item: 20, Sim: 0.8}},
		20: {{Item: 10, Sim: 0.8}},
	}
	ratings := map[int]float64{10: 5.0, 20: 4.0}
	recs := recommend.TopN(5, ratings, neighbors)
	require.Empty(t, recs, "expected no recommendations when every candidate is already rated")
}

func TestTopNRanksByScoreDescending(t *testing.T) {
	neighbors := map[int][]recommend.Neighbor{
		10: {{Item: 30, Sim: 0.9}, {Item: 40, Sim: 0.2}},
		30: {{Item: 10, Sim: 0.9}},
		40: {{Item: 10, Sim: 0.2}},
	}
	ratings := map[int]float64{10: 5.0}
	recs := recommend.TopN(5, ratings, neighbors)
	require.Len(t, recs, 2)
	require.GreaterOrEqual(t, recs[0].Score, recs[1].Score)
}
