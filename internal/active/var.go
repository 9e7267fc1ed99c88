// Package active supplies the active scalar type that drives a tape:
// the narrow Driver/Expression/Recorder contract the core tape package
// exposes has to be exercised by something, the way born's
// ops.Operation implementations are the things that actually drive a
// GradientTape rather than the tape driving itself.
package active

import "github.com/codi-go/codi/internal/tape"

// Var is an active scalar: a value paired with whatever adjoint index
// its owning tape has assigned it (zero if the tape considers it
// passive). Arithmetic on Var computes the result value immediately
// and, while the tape is active, records the Expression onto the tape.
type Var[R tape.Real] struct {
	value R
	index tape.Index
	drv   tape.Driver[R]
}

// New registers a fresh input variable with value v on drv.
func New[R tape.Real](drv tape.Driver[R], v R) Var[R] {
	var x Var[R]
	x.drv = drv
	drv.InitGradientData(&x.index)
	if drv.IsActive() {
		drv.RegisterInput(v, &x.index)
	}
	x.value = v
	return x
}

// Const wraps a passive constant: never recorded, never differentiated.
func Const[R tape.Real](drv tape.Driver[R], v R) Var[R] {
	return Var[R]{value: v, drv: drv}
}

func (x Var[R]) Value() R       { return x.value }
func (x Var[R]) Index() tape.Index { return x.index }

// Destroy releases x's adjoint slot back to its tape, if the tape
// recycles indices (a Reuse-Index Tape) — a no-op on a Linear-Index
// Tape, whose DestroyGradientData never returns anything to a pool.
func (x *Var[R]) Destroy() {
	if x.drv != nil {
		x.drv.DestroyGradientData(&x.index)
	}
}

// Seed sets x's own adjoint to v, the usual way of marking x as the
// quantity whose gradient an Evaluate() call should propagate. Seeding
// a passive Var (one with no assigned index) is a no-op: there is no
// adjoint slot to write into.
func (x Var[R]) Seed(v R) {
	if x.index == tape.InvalidIndex {
		return
	}
	if g, ok := x.drv.(gradientSetter[R]); ok {
		g.SetGradient(x.index, v)
	}
}

// Grad reads x's adjoint after an Evaluate() call. A passive Var
// always reports a zero gradient, since it was never given an adjoint
// slot to accumulate into.
func (x Var[R]) Grad() R {
	if x.index == tape.InvalidIndex {
		return 0
	}
	if g, ok := x.drv.(gradientGetter[R]); ok {
		return g.GetGradient(x.index)
	}
	return 0
}

type gradientSetter[R tape.Real] interface {
	SetGradient(tape.Index, R)
}

type gradientGetter[R tape.Real] interface {
	GetGradient(tape.Index) R
}

// assign stores the result of evaluating rhs into x, via drv's
// StoreExpr — the single recording point every arithmetic operator
// below funnels through.
func assign[R tape.Real](drv tape.Driver[R], rhs tape.Expression[R]) Var[R] {
	var x Var[R]
	x.drv = drv
	drv.StoreExpr(&x.value, &x.index, rhs)
	return x
}
