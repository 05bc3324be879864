package expand_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goflix/internal/expand"
)

func TestStreamRowsAscendingAndLastFlag(t *testing.T) {
	matrix := map[int]map[int]float64{
		1: {0: 1.0, 2: 2.0},
		2: {0: 1.0, 1: 3.0},
	}
	out := expand.Stream(matrix)
	require.NotEmpty(t, out)

	for i := 1; i < len(out); i++ {
		require.GreaterOrEqual(t, out[i].Row, out[i-1].Row, "rows out of order at %d", i)
	}

	for i, tr := range out {
		if tr.Last {
			require.Equal(t, len(out)-1, i, "Last set on non-final triple")
		}
	}
	require.True(t, out[len(out)-1].Last, "final triple must have Last set")
}

func TestStreamEmitsDiagonalNormSquared(t *testing.T) {
	matrix := map[int]map[int]float64{
		1: {0: 2.0},
	}
	out := expand.Stream(matrix)

	var found bool
	for _, tr := range out {
		if tr.Row == 0 && tr.Col == 0 {
			found = true
			want := int32((2.0 * 2.0) * expand.Scale)
			require.Equal(t, want, tr.Value)
		}
	}
	require.True(t, found, "expected a diagonal (0,0) entry for item 0's norm-squared contribution")
}

func TestStreamSymmetricOffDiagonal(t *testing.T) {
	matrix := map[int]map[int]float64{
		1: {0: 2.0, 1: 3.0},
	}
	out := expand.Stream(matrix)

	var forward, backward bool
	for _, tr := range out {
		if tr.Row == 0 && tr.Col == 1 {
			forward = true
		}
		if tr.Row == 1 && tr.Col == 0 {
			backward = true
		}
	}
	require.True(t, forward && backward, "expected symmetric (0,1) and (1,0) partial products for a co-rated pair")
}

func TestStreamEmptyMatrix(t *testing.T) {
	out := expand.Stream(map[int]map[int]float64{})
	require.Empty(t, out)
}
