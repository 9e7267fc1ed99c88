package active

import "github.com/codi-go/codi/internal/tape"

// addExpr records z = a + b: d(a+b)/da = 1, d(a+b)/db = 1.
type addExpr[R tape.Real] struct{ a, b Var[R] }

func (e addExpr[R]) Value() R               { return e.a.value + e.b.value }
func (e addExpr[R]) MaxActiveVariables() int { return 2 }
func (e addExpr[R]) CalcGradient(rec tape.Recorder[R]) {
	rec.PushJacobi(1, e.a.index)
	rec.PushJacobi(1, e.b.index)
}

// subExpr records z = a - b: d(a-b)/da = 1, d(a-b)/db = -1.
type subExpr[R tape.Real] struct{ a, b Var[R] }

func (e subExpr[R]) Value() R               { return e.a.value - e.b.value }
func (e subExpr[R]) MaxActiveVariables() int { return 2 }
func (e subExpr[R]) CalcGradient(rec tape.Recorder[R]) {
	rec.PushJacobi(1, e.a.index)
	rec.PushJacobi(-1, e.b.index)
}

// mulExpr records z = a * b: d(a*b)/da = b, d(a*b)/db = a.
type mulExpr[R tape.Real] struct{ a, b Var[R] }

func (e mulExpr[R]) Value() R               { return e.a.value * e.b.value }
func (e mulExpr[R]) MaxActiveVariables() int { return 2 }
func (e mulExpr[R]) CalcGradient(rec tape.Recorder[R]) {
	rec.PushJacobi(e.b.value, e.a.index)
	rec.PushJacobi(e.a.value, e.b.index)
}

// divExpr records z = a / b: d(a/b)/da = 1/b, d(a/b)/db = -a/b^2.
type divExpr[R tape.Real] struct{ a, b Var[R] }

func (e divExpr[R]) Value() R               { return e.a.value / e.b.value }
func (e divExpr[R]) MaxActiveVariables() int { return 2 }
func (e divExpr[R]) CalcGradient(rec tape.Recorder[R]) {
	rec.PushJacobi(1/e.b.value, e.a.index)
	rec.PushJacobi(-e.a.value/(e.b.value*e.b.value), e.b.index)
}

// negExpr records z = -a: d(-a)/da = -1.
type negExpr[R tape.Real] struct{ a Var[R] }

func (e negExpr[R]) Value() R               { return -e.a.value }
func (e negExpr[R]) MaxActiveVariables() int { return 1 }
func (e negExpr[R]) CalcGradient(rec tape.Recorder[R]) {
	rec.PushJacobi(-1, e.a.index)
}

func (x Var[R]) Add(y Var[R]) Var[R] { return assign[R](x.drv, addExpr[R]{x, y}) }
func (x Var[R]) Sub(y Var[R]) Var[R] { return assign[R](x.drv, subExpr[R]{x, y}) }
func (x Var[R]) Mul(y Var[R]) Var[R] { return assign[R](x.drv, mulExpr[R]{x, y}) }
func (x Var[R]) Div(y Var[R]) Var[R] { return assign[R](x.drv, divExpr[R]{x, y}) }
func (x Var[R]) Neg() Var[R]         { return assign[R](x.drv, negExpr[R]{x}) }

// Copy records y = x through StoreCopy rather than StoreExpr. On a
// Linear-Index Tape y aliases x's index and nothing is recorded; on a
// Reuse-Index Tape y picks up a fresh or recycled index distinct from
// x's, with a single-jacobi statement forwarding its adjoint to x.
func (x Var[R]) Copy() Var[R] {
	var y Var[R]
	y.drv = x.drv
	x.drv.StoreCopy(&y.value, &y.index, x.value, x.index)
	return y
}

// SetConst overwrites x in place with a passive constant, clearing any
// index it held.
func (x *Var[R]) SetConst(v R) {
	x.drv.StorePassive(&x.value, &x.index, v)
}
