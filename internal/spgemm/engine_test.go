package spgemm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goflix/internal/spgemm"
	"goflix/pkg/types"
)

// drive feeds triples into e one at a time, draining the engine fully
// back to FILL between submissions (as a real caller would, respecting
// the in_ready backpressure), and collects every emitted output record
// in stream order.
func drive(e *spgemm.Engine, triples []types.Triple) []types.OutputRecord {
	var out []types.OutputRecord
	for _, t := range triples {
		e.Submit(t)
		drain(e, &out)
	}
	return out
}

func drain(e *spgemm.Engine, out *[]types.OutputRecord) {
	for !e.Idle() {
		if rec, ok := e.PollOutput(); ok {
			*out = append(*out, rec)
			e.AckOutput()
			continue
		}
		e.Tick()
	}
}

func tr(row, col uint16, value int32, last bool) types.Triple {
	return types.Triple{Row: row, Col: col, Value: value, Last: last}
}

func TestScenarioDedup(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	out := drive(e, []types.Triple{
		tr(0, 5, 10, false),
		tr(0, 5, 20, false),
		tr(0, 5, 3, true),
	})
	want := []types.OutputRecord{{Row: 0, Col: 5, Value: 33}}
	require.Equal(t, want, out)
}

func TestScenarioSort(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	out := drive(e, []types.Triple{
		tr(0, 7, 1, false),
		tr(0, 0, 2, false),
		tr(0, 255, 3, false),
		tr(0, 4, 4, false),
		tr(0, 256, 5, true),
	})
	want := []types.OutputRecord{
		{Row: 0, Col: 0, Value: 2},
		{Row: 0, Col: 4, Value: 4},
		{Row: 0, Col: 7, Value: 1},
		{Row: 0, Col: 255, Value: 3},
		{Row: 0, Col: 256, Value: 5},
	}
	require.Equal(t, want, out)
}

func TestScenarioRowChange(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	out := drive(e, []types.Triple{
		tr(0, 2, 100, false),
		tr(0, 2, 1, false),
		tr(1, 2, 7, true),
	})
	want := []types.OutputRecord{
		{Row: 0, Col: 2, Value: 101},
		{Row: 1, Col: 2, Value: 7},
	}
	require.Equal(t, want, out)
}

func TestScenarioOutOfRangeReject(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	out := drive(e, []types.Triple{
		tr(0, 5, 1, false),
		tr(0, 2048, 99, false),
		tr(0, 6, 2, true),
	})
	want := []types.OutputRecord{
		{Row: 0, Col: 5, Value: 1},
		{Row: 0, Col: 6, Value: 2},
	}
	require.Equal(t, want, out)
}

// An out-of-range column must report OutOfRange, not Refused — a caller
// that retries on Refused but drops on OutOfRange would otherwise spin
// forever on a column the store can never fit, no matter how much the
// engine drains.
func TestSubmitOutOfRangeOutcome(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	require.Equal(t, spgemm.OutOfRange, e.Submit(tr(0, 2048, 1, false)))
	// The engine must stay in FILL and otherwise usable afterward.
	require.True(t, e.Idle(), "expected the engine to remain in FILL after an out-of-range submit")
	require.Equal(t, spgemm.Accepted, e.Submit(tr(0, 5, 1, true)))
}

// Refused (transient, mid-flush) must remain distinct from OutOfRange
// (permanent) so callers can retry one and drop the other.
func TestSubmitRefusedDistinctFromOutOfRange(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	// Force the engine out of FILL by completing a row.
	e.Submit(tr(0, 1, 1, true))
	require.False(t, e.Idle(), "expected engine to be mid-flush right after a Last triple")
	require.Equal(t, spgemm.Refused, e.Submit(tr(1, 1, 1, false)))
}

func TestScenarioFullBank(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	triples := make([]types.Triple, 0, 257)
	for c := 0; c < 256; c++ {
		triples = append(triples, tr(0, uint16(c), int32(c), false))
	}
	triples = append(triples, tr(0, 0, 0, true))
	out := drive(e, triples)

	require.Len(t, out, 256)
	for i, rec := range out {
		require.Equal(t, uint16(i), rec.Col, "ascending order violated at index %d", i)
	}
	require.Equal(t, int32(0), out[0].Value, "accumulating 0 should not change it")
}

func TestScenarioWrap(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	out := drive(e, []types.Triple{
		tr(0, 1, 2_000_000_000, false),
		tr(0, 1, 2_000_000_000, true),
	})
	want := []types.OutputRecord{{Row: 0, Col: 1, Value: -294_967_296}}
	require.Equal(t, want, out)
}

func TestSingleTripleRow(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	out := drive(e, []types.Triple{tr(3, 10, 99, true)})
	require.Equal(t, []types.OutputRecord{{Row: 3, Col: 10, Value: 99}}, out)
}

func TestEndOfStreamOnFirstTripleOfRow(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	// The row-boundary triple for row 1 is also its only triple, marked
	// last: end-of-stream lands on the first element of a row.
	out := drive(e, []types.Triple{
		tr(0, 1, 1, false),
		tr(1, 2, 2, true),
	})
	require.Equal(t, []types.OutputRecord{
		{Row: 0, Col: 1, Value: 1},
		{Row: 1, Col: 2, Value: 2},
	}, out)
}

func TestTwoRowsSameColumnsNoPollution(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	out := drive(e, []types.Triple{
		tr(0, 1, 5, false),
		tr(0, 2, 6, false),
		tr(1, 1, 50, false),
		tr(1, 2, 60, true),
	})
	require.Equal(t, []types.OutputRecord{
		{Row: 0, Col: 1, Value: 5},
		{Row: 0, Col: 2, Value: 6},
		{Row: 1, Col: 1, Value: 50},
		{Row: 1, Col: 2, Value: 60},
	}, out)
}

func TestColumnBoundaries(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	out := drive(e, []types.Triple{
		tr(0, 0, 1, false),
		tr(0, 2047, 2, false),
		tr(0, 2048, 3, true), // rejected: col == B*D, so its Last flag is never seen
	})
	// The rejected triple was the stream's last, so end the stream explicitly.
	e.Finish(func(rec types.OutputRecord) { out = append(out, rec) })
	require.Equal(t, []types.OutputRecord{
		{Row: 0, Col: 0, Value: 1},
		{Row: 0, Col: 2047, Value: 2},
	}, out)
}

func TestIdempotentClearAcrossRows(t *testing.T) {
	e := spgemm.New(spgemm.DefaultConfig())
	drive(e, []types.Triple{tr(0, 5, 1, true)})
	require.True(t, e.Idle(), "engine should be idle (back in FILL) after draining a row")
	// Next row must start from a clean store: submitting at the same
	// column must not see any leftover value from the previous row.
	out := drive(e, []types.Triple{tr(1, 5, 9, true)})
	require.Equal(t, []types.OutputRecord{{Row: 1, Col: 5, Value: 9}}, out)
}
