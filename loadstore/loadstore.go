// Package loadstore implements the load/store queue: the FIFO of
// in-flight LOAD/STORE program indices that enforces in-order address
// resolution and the memory-dependence discipline (spec.md §3, §4.2).
package loadstore

// Queue is an ordered sequence of program indices for in-flight
// LOAD/STORE instructions, in program issue order. A plain slice
// suffices — the queue never holds more entries than there are
// load/store reservation stations, which is small.
type Queue struct {
	indices []int
}

// Empty reports whether the queue holds no in-flight memory ops.
func (q *Queue) Empty() bool {
	return len(q.indices) == 0
}

// Len returns the number of in-flight memory ops.
func (q *Queue) Len() int {
	return len(q.indices)
}

// PushBack appends a newly-issued LOAD/STORE's program index to the
// tail (spec.md §4.1 step 7).
func (q *Queue) PushBack(programIndex int) {
	q.indices = append(q.indices, programIndex)
}

// Front returns the head (oldest in-flight) program index. ok is false
// if the queue is empty.
func (q *Queue) Front() (int, bool) {
	if q.Empty() {
		return 0, false
	}
	return q.indices[0], true
}

// PopFront removes the head entry, called once an address calculation
// completes (spec.md §4.2: "At most one queue pop per cycle, from the
// front").
func (q *Queue) PopFront() {
	if q.Empty() {
		return
	}
	q.indices = q.indices[1:]
}

// PopTailWhile removes entries from the tail as long as shouldFlush
// reports true for them, stopping at the first entry it rejects. Used
// by misprediction/call/ret flush to discard younger in-flight memory
// ops (spec.md §4.3): since the queue is ordered by strictly increasing
// issue cycle, once an entry is found to be no younger than the flush
// point, nothing before it can be younger either.
func (q *Queue) PopTailWhile(shouldFlush func(programIndex int) bool) {
	for len(q.indices) > 0 {
		tail := q.indices[len(q.indices)-1]
		if !shouldFlush(tail) {
			break
		}
		q.indices = q.indices[:len(q.indices)-1]
	}
}

// All returns a copy of the queue contents, head-first, for read-only
// snapshots and invariant checks.
func (q *Queue) All() []int {
	out := make([]int, len(q.indices))
	copy(out, q.indices)
	return out
}
