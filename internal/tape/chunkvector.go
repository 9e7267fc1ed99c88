package tape

// Position identifies a point in a chunked stream: which chunk, which
// slot inside it, and a position of the inner (child) stream. IP is the
// inner stream's own position type; every stream in this package uses
// struct{}, so Inner carries no information there.
type Position[IP any] struct {
	Chunk int
	Slot  int
	Inner IP
}

// chunkVector is a growable sequence of chunks of type T, bridged to an
// inner stream whose position type is IP. Every time a new chunk is
// opened, the inner stream's current position is snapshotted into
// boundaries so that reverse replay can jump into the middle of this
// vector and still recover where the inner stream stood at that point
// (see §4.2.1 boundary bridging).
type chunkVector[T any, IP any] struct {
	chunkSize  int
	chunks     []*chunk[T]
	boundaries []IP
	snapshot   func() IP
}

func newChunkVector[T any, IP any](chunkSize int, snapshot func() IP) *chunkVector[T, IP] {
	return &chunkVector[T, IP]{chunkSize: chunkSize, snapshot: snapshot}
}

func (cv *chunkVector[T, IP]) openChunk() {
	var boundary IP
	if cv.snapshot != nil {
		boundary = cv.snapshot()
	}
	cv.boundaries = append(cv.boundaries, boundary)
	cv.chunks = append(cv.chunks, newChunk[T](cv.chunkSize))
}

// push appends v, opening a new chunk first if the current one is full
// (or none exists yet). Returns the (chunk, slot) coordinate it landed on.
func (cv *chunkVector[T, IP]) push(v T) (chunkIdx, slot int) {
	if len(cv.chunks) == 0 || cv.chunks[len(cv.chunks)-1].isFull() {
		cv.openChunk()
	}
	chunkIdx = len(cv.chunks) - 1
	slot = cv.chunks[chunkIdx].push(v)
	return
}

func (cv *chunkVector[T, IP]) get(chunkIdx, slot int) T {
	return cv.chunks[chunkIdx].get(slot)
}

func (cv *chunkVector[T, IP]) set(chunkIdx, slot int, v T) {
	cv.chunks[chunkIdx].set(slot, v)
}

// size returns the total number of entries across all chunks.
func (cv *chunkVector[T, IP]) size() int {
	if len(cv.chunks) == 0 {
		return 0
	}
	total := (len(cv.chunks) - 1) * cv.chunkSize
	total += cv.chunks[len(cv.chunks)-1].size()
	return total
}

func (cv *chunkVector[T, IP]) numChunks() int { return len(cv.chunks) }

// position returns the current write head: the slot one past the last
// pushed entry, paired with the inner stream's live position.
func (cv *chunkVector[T, IP]) position() Position[IP] {
	var inner IP
	if cv.snapshot != nil {
		inner = cv.snapshot()
	}
	if len(cv.chunks) == 0 {
		return Position[IP]{Chunk: 0, Slot: 0, Inner: inner}
	}
	last := len(cv.chunks) - 1
	return Position[IP]{Chunk: last, Slot: cv.chunks[last].size(), Inner: inner}
}

// innerBoundary returns the inner stream position recorded when the
// given chunk was opened — the bridging operation of §4.2.1.
func (cv *chunkVector[T, IP]) innerBoundary(chunkIdx int) IP {
	return cv.boundaries[chunkIdx]
}

// reset truncates the vector back to pos, discarding every entry
// recorded after it.
func (cv *chunkVector[T, IP]) reset(pos Position[IP]) {
	if len(cv.chunks) == 0 {
		return
	}
	if pos.Chunk >= len(cv.chunks) {
		return
	}
	cv.chunks[pos.Chunk].truncate(pos.Slot)
	cv.chunks = cv.chunks[:pos.Chunk+1]
	cv.boundaries = cv.boundaries[:pos.Chunk+1]
	if cv.chunks[pos.Chunk].size() == 0 && pos.Chunk > 0 {
		cv.chunks = cv.chunks[:pos.Chunk]
		cv.boundaries = cv.boundaries[:pos.Chunk]
	}
}

func (cv *chunkVector[T, IP]) clear() {
	cv.chunks = nil
	cv.boundaries = nil
}

func (cv *chunkVector[T, IP]) setChunkSize(n int) { cv.chunkSize = n }

func (cv *chunkVector[T, IP]) getChunkSize() int { return cv.chunkSize }

// offset returns p's absolute entry count from the start of the
// vector. Only chunks before the last are ever exactly chunkSize long,
// so this is exact regardless of how many entries the last chunk holds.
func (cv *chunkVector[T, IP]) offset(p Position[IP]) int {
	return p.Chunk*cv.chunkSize + p.Slot
}

// resize pre-reserves slice capacity for the chunk and boundary lists
// so that growing up to n entries' worth of chunks later doesn't need
// to reallocate those bookkeeping slices. It does not eagerly open
// empty chunks — an unpushed chunk would violate size()/offset()'s
// assumption that every chunk but the last is exactly chunkSize long.
// Advisory only, matching the original's allocateAdjoints semantics
// (§12 of the design document).
func (cv *chunkVector[T, IP]) resize(n int) {
	want := n / cv.chunkSize
	if n%cv.chunkSize != 0 {
		want++
	}
	if cap(cv.chunks) >= want {
		return
	}
	grownChunks := make([]*chunk[T], len(cv.chunks), want)
	copy(grownChunks, cv.chunks)
	cv.chunks = grownChunks

	grownBounds := make([]IP, len(cv.boundaries), want)
	copy(grownBounds, cv.boundaries)
	cv.boundaries = grownBounds
}

// reverseCursor walks a chunkVector backward from an exclusive end
// position, one entry at a time, crossing chunk boundaries
// transparently. This replaces the original's explicit pointer/position
// bridging functions with a pull-based iterator — each Prev() call
// already has live access to the Position it is standing on, so there
// is no need to separately thread "inner position" bridges through a
// family of evaluate* functions.
type reverseCursor[T any, IP any] struct {
	cv       *chunkVector[T, IP]
	chunkIdx int
	slot     int
}

// newReverseCursor seeds a cursor standing just before pos (i.e. the
// first Prev() call returns the entry immediately preceding pos).
func newReverseCursor[T any, IP any](cv *chunkVector[T, IP], pos Position[IP]) *reverseCursor[T, IP] {
	return &reverseCursor[T, IP]{cv: cv, chunkIdx: pos.Chunk, slot: pos.Slot}
}

func (rc *reverseCursor[T, IP]) hasPrev() bool {
	return rc.slot > 0 || rc.chunkIdx > 0
}

// prev returns the previous entry and steps the cursor back onto it.
func (rc *reverseCursor[T, IP]) prev() T {
	if rc.slot == 0 {
		rc.chunkIdx--
		rc.slot = rc.cv.chunks[rc.chunkIdx].size()
	}
	rc.slot--
	return rc.cv.chunks[rc.chunkIdx].get(rc.slot)
}

// position reports the cursor's current standing position, usable to
// seed a nested reverseCursor over an inner stream.
func (rc *reverseCursor[T, IP]) position() Position[IP] {
	return Position[IP]{Chunk: rc.chunkIdx, Slot: rc.slot, Inner: rc.cv.innerBoundary(rc.chunkIdx)}
}
