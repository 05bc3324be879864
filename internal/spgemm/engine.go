// Package spgemm implements the Fill Engine (C2), Merge Engine (C3) and
// Row Controller FSM (C4) of the SpGEMM accumulation engine: a
// single-threaded, cooperative, step-driven transformer from a stream of
// (row, col, value) partial products to, per row, the accumulated
// nonzeros in ascending column order.
package spgemm

import (
	"goflix/internal/bank"
	"goflix/pkg/types"
)

// Engine owns one Column-Bank Store exclusively; the Fill and Merge paths
// are never active in the same step, so no locking is required within a
// single Engine. Running many shards concurrently (one Engine per
// row-range) is the coordinator's concern, not this package's.
type Engine struct {
	cfg   Config
	store *bank.Store
	st    State

	currentRow   uint16
	firstElement bool

	pending    types.Triple
	hasPending bool

	mergeBank int
	mergeAddr int

	outRec   types.OutputRecord
	outValid bool
}

// New builds an engine ready to accept its first triple. RESET's only
// action (first_element:=true, clear store) is folded into construction
// since it happens unconditionally and has no observable I/O.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:          cfg,
		store:        bank.New(cfg.Banks, cfg.Depth),
		st:           stFill,
		firstElement: true,
	}
}

// State reports the current FSM state. Diagnostic only.
func (e *Engine) State() State { return e.st }

// Idle reports whether the engine is in FILL with nothing pending — the
// state it starts in and returns to between rows.
func (e *Engine) Idle() bool { return e.st == stFill }

// Submit attempts to transfer one triple into the engine. It is the
// in_valid/in_ready handshake: if the engine is not in FILL this step (it
// is mid-flush or mid-merge), the triple is not transferred and Submit
// returns Refused so the caller knows to hold it and retry after more
// Tick/AckOutput calls drain the engine back to FILL. A column outside
// the store's range is never acceptable regardless of state, so that
// case returns OutOfRange instead — the caller must drop the triple, not
// retry it.
func (e *Engine) Submit(t types.Triple) FillOutcome {
	if int(t.Col) >= e.cfg.maxCol() {
		return OutOfRange
	}

	if e.st != stFill {
		return Refused
	}

	if !e.firstElement && t.Row != e.currentRow {
		e.pending = t
		e.hasPending = true
		e.st = stFlush
		return RowBoundary
	}

	e.place(t.Row, t.Col, t.Value)
	if t.Last {
		e.st = stFlush
	}
	return Accepted
}

// place writes or accumulates a triple known to be in range, and updates
// row state. Shared by Submit and by the MergeDone->FILL pending-accept.
func (e *Engine) place(row, col uint16, value int32) {
	b, a := e.cfg.bank(col), e.cfg.addr(col)
	if e.store.Occupied(b, a) {
		e.store.Accumulate(b, a, value)
	} else {
		e.store.Write(b, a, value)
	}
	e.currentRow = row
	e.firstElement = false
}

// Tick advances the FSM exactly one transition. It drives the
// unconditional FLUSH->MERGE_START->MERGE_FIND chain and the MERGE_FIND
// bank-advance/MERGE_DONE->FILL transitions; MERGE_OUTPUT is driven by
// AckOutput instead, since that state's transition is gated on the
// consumer's out_ready.
func (e *Engine) Tick() {
	switch e.st {
	case stFill, stReset:
		// idle: nothing to do without a Submit
	case stFlush:
		e.st = stMergeStart
	case stMergeStart:
		e.mergeBank = 0
		e.st = stMergeFind
	case stMergeFind:
		e.advanceMergeFind()
	case stMergeOutput:
		// holds; only AckOutput moves this state forward
	case stMergeDone:
		e.enterFill()
	}
}

func (e *Engine) advanceMergeFind() {
	addr, ok := e.store.FindNextOccupied(e.mergeBank, 0)
	if ok {
		e.mergeAddr = addr
		e.presentOutput(addr)
		e.st = stMergeOutput
		return
	}
	e.mergeBank++
	if e.mergeBank >= e.cfg.Banks {
		e.st = stMergeDone
	}
}

func (e *Engine) presentOutput(addr int) {
	col := uint16(e.mergeBank*e.cfg.Depth + addr)
	e.outRec = types.OutputRecord{Row: e.currentRow, Col: col, Value: e.store.Value(e.mergeBank, addr)}
	e.outValid = true
}

// enterFill performs the MERGE_DONE->FILL transition: the pending
// row-boundary triple, if any, is accepted on entry. Submit only ever
// holds a triple as pending after its column has already passed the
// range check, so it is always safe to place here.
func (e *Engine) enterFill() {
	e.firstElement = true
	e.st = stFill

	if !e.hasPending {
		return
	}
	t := e.pending
	e.hasPending = false
	e.place(t.Row, t.Col, t.Value)
	if t.Last {
		e.st = stFlush
	}
}

// PollOutput reports the output record currently held ready, if any. The
// caller must call AckOutput to consume it and let the merge advance.
func (e *Engine) PollOutput() (types.OutputRecord, bool) {
	return e.outRec, e.outValid
}

// AckOutput asserts out_ready for this step: it clears the just-emitted
// slot and either advances to the bank's next occupied slot (staying in
// MERGE_OUTPUT), moves on to MERGE_FIND for the next bank, or, after the
// last bank, to MERGE_DONE.
func (e *Engine) AckOutput() {
	if !e.outValid {
		return
	}
	e.store.Clear(e.mergeBank, e.mergeAddr)
	e.outValid = false

	if addr, ok := e.store.FindNextOccupied(e.mergeBank, e.mergeAddr+1); ok {
		e.mergeAddr = addr
		e.presentOutput(addr)
		return
	}
	e.mergeBank++
	if e.mergeBank >= e.cfg.Banks {
		e.st = stMergeDone
		return
	}
	e.st = stMergeFind
}

// Finish signals end of stream: if the engine holds any accepted, not yet
// flushed row, it requests a flush, then drains Tick/PollOutput/AckOutput
// until the FSM is idle back in FILL, calling sink for every emitted
// record. It is equivalent to resubmitting the last triple with
// last=true and draining to completion.
func (e *Engine) Finish(sink func(types.OutputRecord)) {
	if e.st == stFill && !e.firstElement {
		e.st = stFlush
	}
	for {
		if e.st == stFill {
			return
		}
		if e.outValid {
			rec, _ := e.PollOutput()
			sink(rec)
			e.AckOutput()
			continue
		}
		e.Tick()
	}
}
