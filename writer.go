// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

// Writer is the single-producer side of a Region. All fields below
// are private cursors owned exclusively by the writer; nothing here
// is shared except through the Region's ring and status word.
type Writer struct {
	region *Region
	wake   WakeupTarget

	nextWrite uint32 // descriptor index the next Commit will publish to

	writePtr       int // byte offset of the current write position
	freeContiguous int
	freeAfterWrap  int

	lastReaderIdx uint32
	lastReadPtr   int // byte offset; -1 means "one before data start"
}

// NewWriter creates a Writer bound to region. A region may have at
// most one live Writer at a time; nothing enforces this, mirroring
// the original design's trust in the deployment topology.
func NewWriter(region *Region) *Writer {
	return &Writer{
		region:         region,
		freeContiguous: region.dataLen,
		lastReadPtr:    -1,
	}
}

// SetWakeupTarget installs the target woken by WakeupReader.
func (w *Writer) SetWakeupTarget(t WakeupTarget) {
	w.wake = t
}

// UpdateReader refreshes the writer's view of where the reader
// stands, by scanning the descriptor ring's used bits rather than any
// shared cursor (the reader's cursor is private to the reader). This
// must be called before GetFreeContiguous or GetFreeTotal.
func (w *Writer) UpdateReader() {
	r := &w.region.ring
	idx := w.lastReaderIdx
	for {
		if payload, used := r.get(idx); used {
			w.lastReaderIdx = idx
			offset, _ := decodeBD(payload)
			w.lastReadPtr = offset
			if w.lastReadPtr >= w.writePtr {
				w.freeContiguous = w.lastReadPtr - w.writePtr
				w.freeAfterWrap = 0
			} else {
				w.freeAfterWrap = w.lastReadPtr
			}
			return
		}
		if idx == w.nextWrite {
			break
		}
		idx = r.next(idx)
	}

	// Reader has caught up all the way to the writer's own cursor:
	// the FIFO is empty.
	w.lastReaderIdx = w.nextWrite
	w.freeContiguous = w.region.dataLen
	w.freeAfterWrap = 0
	w.writePtr = 0
	w.lastReadPtr = -1
}

// GetFreeContiguous returns the size of the contiguous free block at
// the current write pointer, wrapping to the start of the data area
// first if the after-wrap region is larger and min doesn't fit.
// Callers must call UpdateReader first.
func (w *Writer) GetFreeContiguous(min int) int {
	aligned := alignUp(min, int(w.region.align))
	if w.freeContiguous < aligned && w.freeAfterWrap > w.freeContiguous {
		w.writePtr = 0
		w.freeContiguous = w.lastReadPtr
		w.freeAfterWrap = 0
	}
	return w.freeContiguous
}

// GetFreeTotal returns contiguous-free plus after-wrap-free.
// Callers must call UpdateReader first.
func (w *Writer) GetFreeTotal() int {
	return w.freeContiguous + w.freeAfterWrap
}

// GetPointer returns a slice over the writer's current contiguous
// write position, sized to the last GetFreeContiguous result.
func (w *Writer) GetPointer() []byte {
	return w.region.bytesAt(w.writePtr, w.freeContiguous)
}

// Commit publishes a descriptor referencing ptr[:size] to the reader.
// ptr must be (a slice of) the span returned by GetPointer. Commit
// does not move the write cursor; call Advance afterward.
func (w *Writer) Commit(ptr []byte, size int) (int, error) {
	if size > MaxRecordSize {
		return 0, ErrOversizeRecord
	}
	offset, err := w.region.offsetOf(ptr)
	if err != nil {
		return 0, err
	}
	if offset+size > w.region.dataLen {
		return 0, ErrInvalidPointer
	}

	w.region.ring.put(w.nextWrite, encodeBD(offset, size))
	w.nextWrite = w.region.ring.next(w.nextWrite)
	return size, nil
}

// Advance moves the write cursor past a committed span, rounding size
// up to the alignment quantum. Returns the aligned amount consumed.
func (w *Writer) Advance(size int) int {
	aligned := alignUp(size, int(w.region.align))
	w.freeContiguous -= aligned
	w.writePtr += aligned
	return aligned
}

// SetWaiting marks this writer parked (or running) in writer_status,
// so the reader's WakeupWriter(false) knows whether to bother.
func (w *Writer) SetWaiting(waiting bool) {
	setWaiting(w.region, true, waiting)
}

// WakeupReader invokes the installed wakeup target if force is set or
// the reader's WAITING flag is observed set.
func (w *Writer) WakeupReader(force bool) {
	if w.wake == nil {
		return
	}
	if force || isWaiting(w.region, false) {
		w.wake.Wakeup()
	}
}
