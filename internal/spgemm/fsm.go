package spgemm

// State is the Row Controller's FSM state. It is exported only for
// diagnostics (State()); it is never part of the engine's semantic
// contract.
type State int

const (
	stReset State = iota
	stFill
	stFlush
	stMergeStart
	stMergeFind
	stMergeOutput
	stMergeDone
)

func (s State) String() string {
	switch s {
	case stReset:
		return "RESET"
	case stFill:
		return "FILL"
	case stFlush:
		return "FLUSH"
	case stMergeStart:
		return "MERGE_START"
	case stMergeFind:
		return "MERGE_FIND"
	case stMergeOutput:
		return "MERGE_OUTPUT"
	case stMergeDone:
		return "MERGE_DONE"
	default:
		return "UNKNOWN"
	}
}

// FillOutcome is the result of attempting to submit a triple. Refused is
// transient backpressure (the engine is mid-flush this step; hold the
// triple and retry). OutOfRange is permanent: the column doesn't fit the
// store no matter how long the caller waits, and the triple must be
// dropped rather than retried.
type FillOutcome int

const (
	Accepted FillOutcome = iota
	Refused
	RowBoundary
	OutOfRange
)

func (o FillOutcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Refused:
		return "refused"
	case RowBoundary:
		return "row_boundary"
	case OutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}
