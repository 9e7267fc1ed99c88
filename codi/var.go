package codi

import "github.com/codi-go/codi/internal/active"

// Var is an active scalar produced by a Tape. It carries its own
// value and whichever adjoint index its owning tape assigned it.
type Var[R Real] struct {
	v active.Var[R]
}

func (x Var[R]) Value() R { return x.v.Value() }

func (x Var[R]) Add(y Var[R]) Var[R] { return Var[R]{x.v.Add(y.v)} }
func (x Var[R]) Sub(y Var[R]) Var[R] { return Var[R]{x.v.Sub(y.v)} }
func (x Var[R]) Mul(y Var[R]) Var[R] { return Var[R]{x.v.Mul(y.v)} }
func (x Var[R]) Div(y Var[R]) Var[R] { return Var[R]{x.v.Div(y.v)} }
func (x Var[R]) Neg() Var[R]         { return Var[R]{x.v.Neg()} }
func (x Var[R]) Copy() Var[R]        { return Var[R]{x.v.Copy()} }

func (x *Var[R]) SetConst(v R) { x.v.SetConst(v) }

// Seed marks x as a result whose adjoint Evaluate should propagate,
// by default 1 meaning "differentiate this output directly".
func (x Var[R]) Seed(v R) { x.v.Seed(v) }

// Grad reads x's adjoint after Evaluate has run.
func (x Var[R]) Grad() R { return x.v.Grad() }

// Destroy releases x's adjoint index back to its tape's free list, a
// no-op unless the owning tape recycles indices.
func (x *Var[R]) Destroy() { x.v.Destroy() }
