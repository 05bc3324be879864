// Package verify compares a stream of output records against a golden
// reference, the way the original MatRaptor prototype's
// verification/verifier.py compares a coprocessor's recommendations.csv
// against a golden one: not bit-for-bit, but within an absolute value
// tolerance, reporting a pass/fail plus the offending records when it
// fails. Any missing, unexpected or out-of-tolerance record fails the
// comparison; there is no mismatch-rate threshold.
package verify

import (
	"fmt"

	"goflix/pkg/types"
)

// Report is the outcome of comparing two output streams.
type Report struct {
	Passed          bool
	TotalKeys       int
	MissingInGot    []types.OutputRecord // present in golden, absent from got
	UnexpectedInGot []types.OutputRecord // present in got, absent from golden
	ValueMismatches []Mismatch
}

// Mismatch is one (row, col) present in both streams with differing values.
type Mismatch struct {
	Row, Col    uint16
	Golden, Got int32
}

type key struct {
	row, col uint16
}

// Compare reports whether got matches golden within tolerance: every
// (row, col) in golden must appear in got with a value within tolerance,
// and got must not contain extra (row, col) pairs absent from golden.
// tolerance is an absolute bound on |golden-got|, since the accumulator
// is an exact integer sum and values are expected to match exactly unless
// the caller is comparing against a floating-point reference pipeline.
func Compare(golden, got []types.OutputRecord, tolerance int32) Report {
	goldenByKey := make(map[key]int32, len(golden))
	for _, r := range golden {
		goldenByKey[key{r.Row, r.Col}] = r.Value
	}
	gotByKey := make(map[key]int32, len(got))
	for _, r := range got {
		gotByKey[key{r.Row, r.Col}] = r.Value
	}

	rep := Report{TotalKeys: len(goldenByKey)}
	for k, gv := range goldenByKey {
		ov, ok := gotByKey[k]
		if !ok {
			rep.MissingInGot = append(rep.MissingInGot, types.OutputRecord{Row: k.row, Col: k.col, Value: gv})
			continue
		}
		if diff := gv - ov; diff > tolerance || diff < -tolerance {
			rep.ValueMismatches = append(rep.ValueMismatches, Mismatch{Row: k.row, Col: k.col, Golden: gv, Got: ov})
		}
	}
	for k, ov := range gotByKey {
		if _, ok := goldenByKey[k]; !ok {
			rep.UnexpectedInGot = append(rep.UnexpectedInGot, types.OutputRecord{Row: k.row, Col: k.col, Value: ov})
		}
	}

	rep.Passed = len(rep.MissingInGot) == 0 && len(rep.UnexpectedInGot) == 0 && len(rep.ValueMismatches) == 0
	return rep
}

// Summary renders a short human-readable description of the report, in
// the spirit of the original verifier's pass/fail printout.
func (r Report) Summary() string {
	if r.Passed {
		return fmt.Sprintf("PASSED: %d keys verified", r.TotalKeys)
	}
	return fmt.Sprintf("FAILED: %d missing, %d unexpected, %d value mismatches (of %d golden keys)",
		len(r.MissingInGot), len(r.UnexpectedInGot), len(r.ValueMismatches), r.TotalKeys)
}

// Reference is a naive map-based accumulator used as the golden model in
// tests: it implements the same accumulation semantics as the engine
// (sum per (row, col), wrapping 32-bit) without any of its streaming or
// storage-layout constraints, so the engine's streamed output can be
// checked against it.
type Reference struct {
	sums map[key]int32
	seen map[key]bool
}

// NewReference creates an empty golden accumulator.
func NewReference() *Reference {
	return &Reference{sums: make(map[key]int32), seen: make(map[key]bool)}
}

// Add accumulates one triple, wrapping exactly as bank.Store.Accumulate does.
func (ref *Reference) Add(row, col uint16, value int32) {
	k := key{row, col}
	ref.sums[k] = int32(uint32(ref.sums[k]) + uint32(value))
	ref.seen[k] = true
}

// Records returns the accumulated entries as output records, unordered.
func (ref *Reference) Records() []types.OutputRecord {
	out := make([]types.OutputRecord, 0, len(ref.sums))
	for k, v := range ref.sums {
		out = append(out, types.OutputRecord{Row: k.row, Col: k.col, Value: v})
	}
	return out
}
