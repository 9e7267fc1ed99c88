package active_test

import (
	"testing"

	"github.com/codi-go/codi/internal/active"
	"github.com/codi-go/codi/internal/tape"
)

func TestVarDivGradient(t *testing.T) {
	tp := tape.NewLinearTape[float64](tape.Config{ChunkSize: 8})
	tp.SetActive()

	x := active.New[float64](tp, 6.0)
	y := active.New[float64](tp, 3.0)

	z := x.Div(y) // z = x/y = 2

	z.Seed(1.0)
	tp.Evaluate()

	if got := x.Grad(); got != 1.0/3.0 {
		t.Errorf("dz/dx = %v, want %v", got, 1.0/3.0)
	}
	want := -6.0 / 9.0
	if got := y.Grad(); got != want {
		t.Errorf("dz/dy = %v, want %v", got, want)
	}
}

func TestVarSetConstClearsIndex(t *testing.T) {
	tp := tape.NewLinearTape[float64](tape.Config{ChunkSize: 8})
	tp.SetActive()

	x := active.New[float64](tp, 1.0)
	x.SetConst(9.0)

	if x.Index() != tape.InvalidIndex {
		t.Errorf("expected index cleared after SetConst, got %v", x.Index())
	}
	if x.Value() != 9.0 {
		t.Errorf("value = %v, want 9", x.Value())
	}
}

func TestVarInactiveTapeRecordsNothing(t *testing.T) {
	tp := tape.NewLinearTape[float64](tape.Config{ChunkSize: 8})
	// tape left passive

	x := active.New[float64](tp, 2.0)
	y := x.Mul(x)

	if tp.GetUsedStatementsSize() != 0 {
		t.Errorf("expected no statements recorded while tape is passive")
	}
	if y.Value() != 4.0 {
		t.Errorf("value should still compute while passive, got %v", y.Value())
	}
}
