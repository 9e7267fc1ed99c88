package codi

import (
	"github.com/codi-go/codi/internal/active"
	"github.com/codi-go/codi/internal/tape"
)

// ReuseTape is a reverse-mode tape whose adjoint indices are recycled
// through a free list as variables are destroyed. Prefer it for
// long-running programs that create and discard many short-lived
// active scalars (inside a loop, say), where bounding the adjoint
// array to the high-water mark of concurrently live variables matters
// more than the simplicity of a monotonic counter.
type ReuseTape[R Real] struct {
	t *tape.ReuseTape[R]
}

func NewReuseTape[R Real]() *ReuseTape[R] {
	return &ReuseTape[R]{t: tape.NewReuseTape[R](DefaultConfig())}
}

func NewReuseTapeWithConfig[R Real](cfg Config) *ReuseTape[R] {
	return &ReuseTape[R]{t: tape.NewReuseTape[R](cfg)}
}

func (rt *ReuseTape[R]) SetActive()     { rt.t.SetActive() }
func (rt *ReuseTape[R]) SetPassive()    { rt.t.SetPassive() }
func (rt *ReuseTape[R]) IsActive() bool { return rt.t.IsActive() }

func (rt *ReuseTape[R]) NewInput(v R) Var[R] {
	return Var[R]{v: active.New[R](rt.t, v)}
}

func (rt *ReuseTape[R]) NewConst(v R) Var[R] {
	return Var[R]{v: active.Const[R](rt.t, v)}
}

func (rt *ReuseTape[R]) Evaluate()                { rt.t.Evaluate() }
func (rt *ReuseTape[R]) Reset()                   { rt.t.Reset() }
func (rt *ReuseTape[R]) ClearAdjoints()           { rt.t.ClearAdjoints() }
func (rt *ReuseTape[R]) AllocateAdjoints()         { rt.t.AllocateAdjoints() }
func (rt *ReuseTape[R]) GetUsedStatementsSize() int { return rt.t.GetUsedStatementsSize() }
func (rt *ReuseTape[R]) GetUsedDataEntriesSize() int { return rt.t.GetUsedDataEntriesSize() }
func (rt *ReuseTape[R]) GetAdjointsSize() int        { return rt.t.GetAdjointsSize() }

func (rt *ReuseTape[R]) GetPosition() tape.ReusePosition { return rt.t.GetPosition() }

func (rt *ReuseTape[R]) EvaluateRange(end, start tape.ReusePosition) {
	rt.t.EvaluateRange(end, start)
}

func (rt *ReuseTape[R]) ResetTo(pos tape.ReusePosition) { rt.t.ResetTo(pos) }

func (rt *ReuseTape[R]) PushExternalFunction(fn tape.ExternalFunc) {
	rt.t.PushExternalFunction(fn)
}

func (rt *ReuseTape[R]) Driver() tape.Driver[R] { return rt.t }
