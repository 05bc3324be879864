package verify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goflix/internal/verify"
	"goflix/pkg/types"
)

func rec(row, col uint16, value int32) types.OutputRecord {
	return types.OutputRecord{Row: row, Col: col, Value: value}
}

func TestCompareIdenticalStreamsPass(t *testing.T) {
	a := []types.OutputRecord{rec(0, 1, 10), rec(1, 2, 20)}
	rep := verify.Compare(a, a, 0)
	require.True(t, rep.Passed, rep.Summary())
	require.Equal(t, 2, rep.TotalKeys)
}

func TestCompareDetectsMissing(t *testing.T) {
	golden := []types.OutputRecord{rec(0, 1, 10)}
	got := []types.OutputRecord{}
	rep := verify.Compare(golden, got, 0)
	require.False(t, rep.Passed, "expected failure when got is missing a golden key")
	require.Len(t, rep.MissingInGot, 1)
}

func TestCompareDetectsUnexpected(t *testing.T) {
	golden := []types.OutputRecord{}
	got := []types.OutputRecord{rec(0, 1, 10)}
	rep := verify.Compare(golden, got, 0)
	require.False(t, rep.Passed, "expected failure when got has an extra key")
	require.Len(t, rep.UnexpectedInGot, 1)
}

func TestCompareToleratesSmallDrift(t *testing.T) {
	golden := []types.OutputRecord{rec(0, 1, 100)}
	got := []types.OutputRecord{rec(0, 1, 102)}

	rep := verify.Compare(golden, got, 5)
	require.True(t, rep.Passed, "expected drift of 2 within tolerance 5 to pass: %s", rep.Summary())

	rep = verify.Compare(golden, got, 1)
	require.False(t, rep.Passed, "expected drift of 2 outside tolerance 1 to fail")
}

func TestReferenceAccumulatesWithWrap(t *testing.T) {
	ref := verify.NewReference()
	ref.Add(0, 1, 2147483647)
	ref.Add(0, 1, 1)
	records := ref.Records()
	require.Len(t, records, 1)
	require.Equal(t, int32(-2147483648), records[0].Value)
}
