package tape_test

import (
	"testing"

	"github.com/codi-go/codi/internal/tape"
)

func newReuseInput(t *tape.ReuseTape[float64], v float64) tape.Index {
	var idx tape.Index
	t.RegisterInput(v, &idx)
	return idx
}

func TestReuseChainRule(t *testing.T) {
	tp := tape.NewReuseTape[float64](tape.Config{ChunkSize: 8})
	tp.SetActive()

	xi := newReuseInput(tp, 3.0)
	yi := newReuseInput(tp, 4.0)
	zi := newReuseInput(tp, 5.0)

	var sum float64
	var sumIdx tape.Index
	tp.StoreExpr(&sum, &sumIdx, constJac[float64]{val: 7.0, operands: []tape.Index{xi, yi}, partials: []float64{1, 1}})

	var w float64
	var wIdx tape.Index
	tp.StoreExpr(&w, &wIdx, constJac[float64]{val: 35.0, operands: []tape.Index{sumIdx, zi}, partials: []float64{5.0, 7.0}})

	tp.SetGradient(wIdx, 1.0)
	tp.Evaluate()

	if got := tp.GetGradient(xi); got != 5.0 {
		t.Errorf("dw/dx = %v, want 5", got)
	}
	if got := tp.GetGradient(zi); got != 7.0 {
		t.Errorf("dw/dz = %v, want 7", got)
	}
}

// TestReuseCopyAliasing mirrors the linear copy-aliasing scenario but
// on the reuse variant, where the copy target draws its index from the
// free-list allocator rather than a running counter.
func TestReuseCopyAliasing(t *testing.T) {
	tp := tape.NewReuseTape[float64](tape.Config{ChunkSize: 8})
	tp.SetActive()

	xi := newReuseInput(tp, 2.0)

	var y float64
	var yIdx tape.Index
	tp.StoreCopy(&y, &yIdx, 2.0, xi)

	tp.SetGradient(yIdx, 1.0)
	tp.Evaluate()

	if got := tp.GetGradient(xi); got != 1.0 {
		t.Errorf("dy/dx via copy = %v, want 1", got)
	}
}

// TestReuseRecyclesIndices creates and destroys 1000 scoped scalars in
// a loop, each depending on a shared root variable, and checks that
// the free-list allocator keeps the maximum assigned index bounded to
// the number of *concurrently* live variables rather than letting it
// grow to 1000.
func TestReuseRecyclesIndices(t *testing.T) {
	tp := tape.NewReuseTape[float64](tape.Config{ChunkSize: 8})
	tp.SetActive()

	root := newReuseInput(tp, 1.0)

	for i := 0; i < 1000; i++ {
		var v float64
		var idx tape.Index
		tp.StoreExpr(&v, &idx, constJac[float64]{val: 1.0, operands: []tape.Index{root}, partials: []float64{1.0}})
		tp.DestroyGradientData(&idx)
	}

	if got := tp.GetUsedStatementsSize(); got != 1000 {
		t.Fatalf("expected 1000 statements recorded, got %d", got)
	}

	tp.AllocateAdjoints()
	if got := tp.GetAdjointsSize(); got > 3 {
		t.Errorf("adjoints grew to %d entries, want at most 3 (index 0, root, one reused slot) — indices are not being recycled", got)
	}
}

// TestReuseZeroOnRead checks that an adjoint consumed during Evaluate
// is zeroed immediately, so a later reuse of the same index starts
// from a clean slate rather than inheriting a stale value.
func TestReuseZeroOnRead(t *testing.T) {
	tp := tape.NewReuseTape[float64](tape.Config{ChunkSize: 8})
	tp.SetActive()

	xi := newReuseInput(tp, 2.0)

	var y float64
	var yIdx tape.Index
	tp.StoreExpr(&y, &yIdx, constJac[float64]{val: 4.0, operands: []tape.Index{xi}, partials: []float64{2.0}})

	tp.SetGradient(yIdx, 1.0)
	tp.Evaluate()

	if got := tp.GetGradient(yIdx); got != 0 {
		t.Errorf("adjoint at %v = %v after Evaluate, want 0 (zero-on-read)", yIdx, got)
	}
}

func TestReuseGetGradientZeroPanics(t *testing.T) {
	tp := tape.NewReuseTape[float64](tape.Config{ChunkSize: 8})
	defer func() {
		if recover() == nil {
			t.Fatal("expected GetGradient(0) to panic")
		}
	}()
	tp.GetGradient(tape.InvalidIndex)
}
