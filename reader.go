// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

// Reader is the single-consumer side of a Region.
type Reader struct {
	region *Region
	wake   WakeupTarget

	nextRead uint32 // descriptor index to read or pop next
}

// NewReader creates a Reader bound to region. A region may have at
// most one live Reader at a time.
func NewReader(region *Region) *Reader {
	return &Reader{region: region}
}

// SetWakeupTarget installs the target woken by WakeupWriter.
func (rd *Reader) SetWakeupTarget(t WakeupTarget) {
	rd.wake = t
}

// IsEmpty reports whether the slot at the reader's cursor is unused.
func (rd *Reader) IsEmpty() bool {
	return !rd.region.ring.isUsed(rd.nextRead)
}

// Get returns the record currently at the reader's cursor without
// advancing. size is 0 iff the slot is empty.
func (rd *Reader) Get() (ptr []byte, size int) {
	offset, sz, ok := rd.peekFront()
	if !ok {
		return nil, 0
	}
	return rd.region.bytesAt(offset, sz), sz
}

// peekFront returns the offset and size of the descriptor at the
// reader's current cursor without advancing, or ok=false if empty.
func (rd *Reader) peekFront() (offset, size int, ok bool) {
	payload, used := rd.region.ring.get(rd.nextRead)
	if !used {
		return 0, 0, false
	}
	offset, size = decodeBD(payload)
	return offset, size, true
}

// GetBatch accumulates the longest run of descriptors starting at the
// reader's cursor whose offsets strictly increase (detecting wrap)
// and whose combined span stays within maxSize. It returns the base
// pointer of the run, the descriptor count, the byte span, and false
// if the very first slot is already empty or already larger than
// maxSize on its own.
func (rd *Reader) GetBatch(maxSize int) (ptr []byte, count int, span int, ok bool) {
	r := &rd.region.ring
	idx := rd.nextRead

	payload, used := r.get(idx)
	if !used {
		return nil, 0, 0, false
	}
	firstOffset, firstSize := decodeBD(payload)
	if firstSize > maxSize {
		return nil, 0, 0, false
	}

	count = 1
	span = firstSize
	for {
		next := r.next(idx)
		payload, used = r.get(next)
		if !used {
			break
		}
		offset, size := decodeBD(payload)
		if offset <= firstOffset {
			break // not contiguous: this is the writer's wrap point
		}
		temp := (offset - firstOffset) + size
		if temp > maxSize {
			break
		}
		count++
		span = temp
		idx = next
	}

	return rd.region.bytesAt(firstOffset, span), count, span, true
}

// Pop clears the used bit of the slot at the reader's cursor,
// releasing its bytes back to the writer, then advances the cursor.
func (rd *Reader) Pop() {
	rd.region.ring.clearSlot(rd.nextRead)
	rd.nextRead = rd.region.ring.next(rd.nextRead)
}

// SetWaiting marks this reader parked (or running) in reader_status,
// so the writer's WakeupReader(false) knows whether to bother.
func (rd *Reader) SetWaiting(waiting bool) {
	setWaiting(rd.region, false, waiting)
}

// WakeupWriter invokes the installed wakeup target if force is set or
// the writer's WAITING flag is observed set.
func (rd *Reader) WakeupWriter(force bool) {
	if rd.wake == nil {
		return
	}
	if force || isWaiting(rd.region, true) {
		rd.wake.Wakeup()
	}
}
