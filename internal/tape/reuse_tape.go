package tape

// reuseStmtEntry is one statement in the Reuse-Index Tape's statement
// stream. Unlike the linear variant, the lhs index is stored
// explicitly: indices are recycled by the indexHandler, so they can no
// longer be reconstructed from a running counter.
type reuseStmtEntry struct {
	Lhs          Index
	NumJacobians int
}

// ReusePosition is a checkpoint into a ReuseTape's three streams.
type ReusePosition struct {
	Stmt Position[struct{}]
	Jac  Position[struct{}]
	ExtF Position[struct{}]
}

type reuseExtFuncAnchor struct {
	fn  ExternalFunc
	pos ReusePosition
}

// ReuseTape is the free-list reverse-mode tape: each active assignment
// is given an index drawn from an indexHandler, which is freed back to
// the pool when the owning scalar is destroyed, allowing long-lived
// programs with many short-lived temporaries to bound their adjoint
// array to the high-water mark of *concurrently live* variables rather
// than the total count ever recorded.
type ReuseTape[R Real] struct {
	cfg Config

	jacobians  *chunkVector[jacobianEntry[R], struct{}]
	statements *chunkVector[reuseStmtEntry, struct{}]
	extFuncs   *chunkVector[reuseExtFuncAnchor, struct{}]

	indices  *indexHandler
	adjoints []R
	active   bool
}

func NewReuseTape[R Real](cfg Config) *ReuseTape[R] {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &ReuseTape[R]{
		cfg:        cfg,
		jacobians:  newChunkVector[jacobianEntry[R], struct{}](cfg.ChunkSize, nil),
		statements: newChunkVector[reuseStmtEntry, struct{}](cfg.ChunkSize, nil),
		extFuncs:   newChunkVector[reuseExtFuncAnchor, struct{}](cfg.ChunkSize, nil),
		indices:    newIndexHandler(),
		adjoints:   make([]R, 1),
	}
}

// --- Driver / Recorder ---

func (t *ReuseTape[R]) PushJacobi(partial R, operand Index) {
	if operand == InvalidIndex {
		return
	}
	if t.cfg.DropZeroJacobians && partial == 0 {
		return
	}
	if t.cfg.DropNonFiniteJacobians && !isFinite(partial) {
		return
	}
	t.jacobians.push(jacobianEntry[R]{Partial: partial, Operand: operand})
}

func (t *ReuseTape[R]) InitGradientData(index *Index) { *index = InvalidIndex }

// DestroyGradientData returns index to the free list so a future
// statement can reuse the adjoint slot.
func (t *ReuseTape[R]) DestroyGradientData(index *Index) { t.indices.freeIndex(index) }

func (t *ReuseTape[R]) StoreExpr(value *R, index *Index, rhs Expression[R]) {
	*value = rhs.Value()
	if !t.active {
		return
	}
	before := t.jacobians.size()
	rhs.CalcGradient(t)
	pushed := t.jacobians.size() - before
	if pushed == 0 {
		t.indices.freeIndex(index)
		return
	}
	t.indices.checkIndex(index)
	t.statements.push(reuseStmtEntry{Lhs: *index, NumJacobians: pushed})
	t.growAdjoints(*index)
}

func (t *ReuseTape[R]) StoreCopy(value *R, index *Index, rhsValue R, rhsIndex Index) {
	*value = rhsValue
	if !t.active {
		return
	}
	if rhsIndex == InvalidIndex {
		t.indices.freeIndex(index)
		return
	}
	t.jacobians.push(jacobianEntry[R]{Partial: R(1), Operand: rhsIndex})
	t.indices.checkIndex(index)
	t.statements.push(reuseStmtEntry{Lhs: *index, NumJacobians: 1})
	t.growAdjoints(*index)
}

func (t *ReuseTape[R]) StorePassive(value *R, index *Index, rhsValue R) {
	*value = rhsValue
	t.indices.freeIndex(index)
}

func (t *ReuseTape[R]) RegisterInput(value R, index *Index) {
	t.indices.checkIndex(index)
	t.growAdjoints(*index)
}

func (t *ReuseTape[R]) RegisterOutput(index Index) {}

func (t *ReuseTape[R]) IsActive() bool { return t.active }
func (t *ReuseTape[R]) SetActive()     { t.active = true }
func (t *ReuseTape[R]) SetPassive()    { t.active = false }

// --- adjoints ---

func (t *ReuseTape[R]) growAdjoints(upTo Index) {
	if int(upTo) < len(t.adjoints) {
		return
	}
	grown := make([]R, int(upTo)+1)
	copy(grown, t.adjoints)
	t.adjoints = grown
}

func (t *ReuseTape[R]) GetGradient(i Index) R {
	if i == InvalidIndex {
		panic("tape: GetGradient(0) is invalid: index 0 is never active")
	}
	if int(i) >= len(t.adjoints) {
		return 0
	}
	return t.adjoints[i]
}

func (t *ReuseTape[R]) SetGradient(i Index, v R) {
	if i == InvalidIndex {
		panic("tape: SetGradient(0) is invalid: index 0 is never active")
	}
	t.growAdjoints(i)
	t.adjoints[i] = v
}

func (t *ReuseTape[R]) Gradient(i Index) *R {
	if i == InvalidIndex {
		panic("tape: Gradient(0) is invalid: index 0 is never active")
	}
	t.growAdjoints(i)
	return &t.adjoints[i]
}

func (t *ReuseTape[R]) ClearAdjoints() {
	for i := range t.adjoints {
		t.adjoints[i] = 0
	}
}

// ClearAdjointsRange zeroes the adjoints of every lhs index recorded by
// a statement in (start, end]. The original C++ reuse-index tape
// derives this range from a three-levels-deep inner position
// (inner.inner.inner) that, for this variant, is a jacobian-stream data
// offset rather than an adjoint index — almost certainly a latent bug,
// since the reuse variant's terminator carries no adjoint-index
// information at all. This instead walks the actual statement records
// in range and zeroes the index each one really recorded.
func (t *ReuseTape[R]) ClearAdjointsRange(end, start ReusePosition) {
	total := t.statements.offset(end.Stmt) - t.statements.offset(start.Stmt)
	if total <= 0 {
		return
	}
	cur := newReverseCursor[reuseStmtEntry, struct{}](t.statements, end.Stmt)
	for n := 0; n < total; n++ {
		s := cur.prev()
		if int(s.Lhs) < len(t.adjoints) {
			t.adjoints[s.Lhs] = 0
		}
	}
}

// --- position / reset ---

func (t *ReuseTape[R]) GetPosition() ReusePosition {
	return ReusePosition{
		Stmt: t.statements.position(),
		Jac:  t.jacobians.position(),
		ExtF: t.extFuncs.position(),
	}
}

func (t *ReuseTape[R]) zeroPosition() ReusePosition { return ReusePosition{} }

func (t *ReuseTape[R]) Reset() {
	t.ResetTo(t.zeroPosition())
	t.indices.reset()
}

func (t *ReuseTape[R]) ResetTo(pos ReusePosition) {
	t.deleteExternalFunctionsAfter(pos.ExtF)
	t.statements.reset(pos.Stmt)
	t.jacobians.reset(pos.Jac)
	t.extFuncs.reset(pos.ExtF)
}

// deleteExternalFunctionsAfter invokes Delete, in reverse order, on
// every external function record that ResetTo is about to discard.
// See LinearTape.deleteExternalFunctionsAfter.
func (t *ReuseTape[R]) deleteExternalFunctionsAfter(from Position[struct{}]) {
	current := t.extFuncs.position()
	total := t.extFuncs.offset(current) - t.extFuncs.offset(from)
	if total <= 0 {
		return
	}
	cur := newReverseCursor[reuseExtFuncAnchor, struct{}](t.extFuncs, current)
	for n := 0; n < total; n++ {
		a := cur.prev()
		if a.fn.Delete != nil {
			a.fn.Delete(a.fn.Payload)
		}
	}
}

// --- external functions ---

func (t *ReuseTape[R]) PushExternalFunction(fn ExternalFunc) {
	t.extFuncs.push(reuseExtFuncAnchor{fn: fn, pos: t.GetPosition()})
}

// --- reverse evaluation ---

func (t *ReuseTape[R]) Evaluate() { t.EvaluateRange(t.GetPosition(), t.zeroPosition()) }

func (t *ReuseTape[R]) EvaluateRange(end, start ReusePosition) {
	anchors := t.collectExtFuncAnchors(end, start)
	cursor := end
	for _, a := range anchors {
		t.evaluateStatements(cursor, a.pos)
		if a.fn.Reverse != nil {
			a.fn.Reverse(a.fn.Payload)
		}
		cursor = a.pos
	}
	t.evaluateStatements(cursor, start)
}

func (t *ReuseTape[R]) collectExtFuncAnchors(end, start ReusePosition) []reuseExtFuncAnchor {
	var anchors []reuseExtFuncAnchor
	if t.extFuncs.size() == 0 {
		return anchors
	}
	cur := newReverseCursor[reuseExtFuncAnchor, struct{}](t.extFuncs, end.ExtF)
	n := t.extFuncs.offset(end.ExtF) - t.extFuncs.offset(start.ExtF)
	for ; n > 0 && cur.hasPrev(); n-- {
		anchors = append(anchors, cur.prev())
	}
	return anchors
}

// evaluateStatements replays statements from end back to start,
// zeroing each consumed adjoint immediately after it propagates (§4.6.1
// zero-on-read): because indices are recycled, a stale nonzero adjoint
// left behind would corrupt the next variable that happens to be
// assigned the same slot.
func (t *ReuseTape[R]) evaluateStatements(end, start ReusePosition) {
	total := t.statements.offset(end.Stmt) - t.statements.offset(start.Stmt)
	if total <= 0 {
		return
	}
	stmtCur := newReverseCursor[reuseStmtEntry, struct{}](t.statements, end.Stmt)
	jacCur := newReverseCursor[jacobianEntry[R], struct{}](t.jacobians, end.Jac)
	for n := 0; n < total; n++ {
		stmt := stmtCur.prev()
		var adj R
		if int(stmt.Lhs) < len(t.adjoints) {
			adj = t.adjoints[stmt.Lhs]
			t.adjoints[stmt.Lhs] = 0
		}
		skip := t.cfg.GuardZeroAdjoint && adj == 0
		for j := 0; j < stmt.NumJacobians; j++ {
			je := jacCur.prev()
			if !skip {
				t.growAdjoints(je.Operand)
				t.adjoints[je.Operand] += je.Partial * adj
			}
		}
	}
}

// --- sizing / bookkeeping ---

func (t *ReuseTape[R]) SetDataChunkSize(n int)             { t.jacobians.setChunkSize(n) }
func (t *ReuseTape[R]) SetStatementChunkSize(n int)        { t.statements.setChunkSize(n) }
func (t *ReuseTape[R]) SetExternalFunctionChunkSize(n int) { t.extFuncs.setChunkSize(n) }

func (t *ReuseTape[R]) GetUsedDataEntriesSize() int { return t.jacobians.size() }
func (t *ReuseTape[R]) GetUsedStatementsSize() int  { return t.statements.size() }
func (t *ReuseTape[R]) GetAdjointsSize() int        { return len(t.adjoints) }

// AllocateAdjoints pre-grows the adjoint array to cover the highest
// index the free-list allocator has ever handed out.
func (t *ReuseTape[R]) AllocateAdjoints() { t.growAdjoints(t.indices.maxAssignedIndex()) }

// Resize pre-reserves chunk capacity for dataSize upcoming jacobian
// entries and statementSize upcoming statements; see LinearTape.Resize.
func (t *ReuseTape[R]) Resize(dataSize, statementSize int) {
	t.statements.resize(statementSize)
	t.jacobians.resize(dataSize)
}
