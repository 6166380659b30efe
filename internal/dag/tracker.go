package dag

// blobAccess records, for a single blob, the most recent writer and every
// reader since that write.
type blobAccess struct {
	lastWriter int // operator index, -1 until the first write
	readers    map[int]struct{}
}

// accessTracker answers, per blob, which operators must finish before a new
// reader or writer may proceed. It is build-time scratch state, updated by a
// single goroutine walking the operator list in declaration order, and is
// discarded once the graph exists.
type accessTracker struct {
	blobs map[string]*blobAccess
}

func newAccessTracker() *accessTracker {
	return &accessTracker{blobs: make(map[string]*blobAccess)}
}

func (t *accessTracker) entry(blob string) *blobAccess {
	a, ok := t.blobs[blob]
	if !ok {
		a = &blobAccess{lastWriter: -1, readers: make(map[int]struct{})}
		t.blobs[blob] = a
	}
	return a
}

// recordRead adds op to the blob's reader set. The last writer is untouched.
func (t *accessTracker) recordRead(blob string, op int) {
	t.entry(blob).readers[op] = struct{}{}
}

// recordWrite makes op the blob's last writer and resets the reader set.
func (t *accessTracker) recordWrite(blob string, op int) {
	a := t.entry(blob)
	a.lastWriter = op
	a.readers = make(map[int]struct{})
}

// readDeps returns the operator a new reader of blob must wait for: the last
// writer, if any (read-after-write). A blob read before any write simply has
// no writer predecessor.
func (t *accessTracker) readDeps(blob string) []int {
	a, ok := t.blobs[blob]
	if !ok || a.lastWriter < 0 {
		return nil
	}
	return []int{a.lastWriter}
}

// writeDeps returns the operators a new writer of blob must wait for: every
// reader since the last write (write-after-read) plus the last writer
// (write-after-write).
func (t *accessTracker) writeDeps(blob string) []int {
	a, ok := t.blobs[blob]
	if !ok {
		return nil
	}
	deps := make([]int, 0, len(a.readers)+1)
	for r := range a.readers {
		deps = append(deps, r)
	}
	if a.lastWriter >= 0 {
		deps = append(deps, a.lastWriter)
	}
	return deps
}
