package tape

// Index identifies an adjoint slot. The zero value means "inactive":
// no operation on an inactively-indexed operand contributes to any
// derivative, and the tape never issues index 0 to a live variable.
type Index uint32

const InvalidIndex Index = 0

// Real is the set of floating point types the tape can differentiate.
type Real interface {
	float32 | float64
}
