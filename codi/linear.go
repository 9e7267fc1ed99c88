package codi

import (
	"github.com/codi-go/codi/internal/active"
	"github.com/codi-go/codi/internal/tape"
)

// LinearTape is a reverse-mode tape that issues each new active
// variable the next unused index and never recycles one. Prefer it for
// programs that record once and evaluate once, where the total count
// of active assignments over the program's lifetime is what matters.
type LinearTape[R Real] struct {
	t *tape.LinearTape[R]
}

// NewLinearTape constructs an inactive Linear-Index Tape with default
// tuning. Call SetActive before recording.
func NewLinearTape[R Real]() *LinearTape[R] {
	return &LinearTape[R]{t: tape.NewLinearTape[R](DefaultConfig())}
}

// NewLinearTapeWithConfig constructs a Linear-Index Tape with custom
// tuning (chunk size, jacobian filtering).
func NewLinearTapeWithConfig[R Real](cfg Config) *LinearTape[R] {
	return &LinearTape[R]{t: tape.NewLinearTape[R](cfg)}
}

func (lt *LinearTape[R]) SetActive()  { lt.t.SetActive() }
func (lt *LinearTape[R]) SetPassive() { lt.t.SetPassive() }
func (lt *LinearTape[R]) IsActive() bool { return lt.t.IsActive() }

// NewInput registers v as a fresh active input on the tape.
func (lt *LinearTape[R]) NewInput(v R) Var[R] {
	return Var[R]{v: active.New[R](lt.t, v)}
}

// NewConst wraps v as a passive constant tied to this tape.
func (lt *LinearTape[R]) NewConst(v R) Var[R] {
	return Var[R]{v: active.Const[R](lt.t, v)}
}

func (lt *LinearTape[R]) Evaluate()               { lt.t.Evaluate() }
func (lt *LinearTape[R]) Reset()                  { lt.t.Reset() }
func (lt *LinearTape[R]) ClearAdjoints()          { lt.t.ClearAdjoints() }
func (lt *LinearTape[R]) AllocateAdjoints()        { lt.t.AllocateAdjoints() }
func (lt *LinearTape[R]) GetUsedStatementsSize() int { return lt.t.GetUsedStatementsSize() }
func (lt *LinearTape[R]) GetUsedDataEntriesSize() int { return lt.t.GetUsedDataEntriesSize() }
func (lt *LinearTape[R]) GetAdjointsSize() int       { return lt.t.GetAdjointsSize() }

// GetPosition snapshots the tape's current write head, for a later
// partial Evaluate or Reset.
func (lt *LinearTape[R]) GetPosition() tape.LinearPosition { return lt.t.GetPosition() }

func (lt *LinearTape[R]) EvaluateRange(end, start tape.LinearPosition) {
	lt.t.EvaluateRange(end, start)
}

func (lt *LinearTape[R]) ResetTo(pos tape.LinearPosition) { lt.t.ResetTo(pos) }

// PushExternalFunction anchors fn at the tape's current position: when
// Evaluate later replays back past this point, fn.Reverse runs exactly
// once, in its correct place relative to the statements recorded
// before and after it.
func (lt *LinearTape[R]) PushExternalFunction(fn tape.ExternalFunc) {
	lt.t.PushExternalFunction(fn)
}

func (lt *LinearTape[R]) Driver() tape.Driver[R] { return lt.t }
