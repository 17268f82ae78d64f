// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import "testing"

func newTestRegion(t *testing.T, fifoSize, bdCount, align int) *Region {
	t.Helper()
	buf := make([]byte, fifoSize)
	region, err := NewRegion(bdCount, align).Create(buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return region
}

func TestWriterReaderSingleRecordRoundTrip(t *testing.T) {
	region := newTestRegion(t, 1024, 8, 16)
	w := NewWriter(region)
	r := NewReader(region)

	w.UpdateReader()
	size := w.GetFreeContiguous(16)
	if size < 16 {
		t.Fatalf("GetFreeContiguous: got %d, want >= 16", size)
	}
	block := w.GetPointer()
	copy(block, []byte("hello, shmpipe!!"))
	n, err := w.Commit(block, 16)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	w.Advance(n)

	if r.IsEmpty() {
		t.Fatalf("reader: got empty, want a record")
	}
	data, got := r.Get()
	if got != 16 || string(data) != "hello, shmpipe!!" {
		t.Fatalf("Get: got (%q, %d)", data, got)
	}
	r.Pop()
	if !r.IsEmpty() {
		t.Fatalf("reader: got non-empty after Pop")
	}
}

func TestWriterGetFreeContiguousWrapsWhenTailIsSmaller(t *testing.T) {
	region := newTestRegion(t, 256, 8, 16)
	w := NewWriter(region)
	r := NewReader(region)

	// record1 occupies most of the data area from offset 0; record2
	// fills nearly all of what's left, deliberately leaving only a
	// small tail free ahead of the writer. Popping record1 frees a
	// much larger span at the start than remains at the tail, so the
	// next GetFreeContiguous call for a size that doesn't fit in the
	// tail must wrap to the start instead.
	tailReserve := 16
	w.UpdateReader()
	block1 := w.GetPointer()
	size1 := len(block1) - 48
	n1, err := w.Commit(block1, size1)
	if err != nil {
		t.Fatalf("Commit record1: %v", err)
	}
	w.Advance(n1)

	w.UpdateReader()
	block2 := w.GetPointer()
	size2 := len(block2) - tailReserve
	n2, err := w.Commit(block2, size2)
	if err != nil {
		t.Fatalf("Commit record2: %v", err)
	}
	w.Advance(n2)

	r.Get()
	r.Pop() // frees record1's span at the start of the data area

	w.UpdateReader()
	want := alignUp(size1, int(region.align))
	if got := w.freeAfterWrap; got != want {
		t.Fatalf("freeAfterWrap: got %d, want %d", got, want)
	}
	if got := w.freeContiguous; got >= want {
		t.Fatalf("freeContiguous: got %d, want < freeAfterWrap (%d)", got, want)
	}

	got := w.GetFreeContiguous(tailReserve + 32) // doesn't fit in the small tail
	if got != want {
		t.Fatalf("GetFreeContiguous after wrap: got %d, want %d", got, want)
	}
	if w.writePtr != 0 {
		t.Fatalf("writePtr after wrap: got %d, want 0", w.writePtr)
	}
}

func TestReaderGetBatchCoalescesContiguousRecords(t *testing.T) {
	region := newTestRegion(t, 1024, 8, 16)
	w := NewWriter(region)
	r := NewReader(region)

	for i := 0; i < 3; i++ {
		w.UpdateReader()
		block := w.GetPointer()
		n, err := w.Commit(block, 16)
		if err != nil {
			t.Fatalf("Commit(%d): %v", i, err)
		}
		w.Advance(n)
	}

	_, count, span, ok := r.GetBatch(1024)
	if !ok {
		t.Fatalf("GetBatch: got ok=false")
	}
	if count != 3 {
		t.Fatalf("GetBatch count: got %d, want 3", count)
	}
	if span != 48 {
		t.Fatalf("GetBatch span: got %d, want 48", span)
	}
}

func TestReaderGetBatchStopsAtMaxSize(t *testing.T) {
	region := newTestRegion(t, 1024, 8, 16)
	w := NewWriter(region)
	r := NewReader(region)

	for i := 0; i < 3; i++ {
		w.UpdateReader()
		block := w.GetPointer()
		n, err := w.Commit(block, 16)
		if err != nil {
			t.Fatalf("Commit(%d): %v", i, err)
		}
		w.Advance(n)
	}

	_, count, span, ok := r.GetBatch(32)
	if !ok {
		t.Fatalf("GetBatch: got ok=false")
	}
	if count != 2 || span != 32 {
		t.Fatalf("GetBatch(32): got count=%d span=%d, want count=2 span=32", count, span)
	}
}

func TestWriterCommitRejectsOversizeRecord(t *testing.T) {
	region := newTestRegion(t, 1<<13, 8, 16)
	w := NewWriter(region)
	w.UpdateReader()
	block := w.GetPointer()
	if _, err := w.Commit(block, MaxRecordSize+1); err != ErrOversizeRecord {
		t.Fatalf("Commit oversize: got %v, want ErrOversizeRecord", err)
	}
}

func TestStatusWaitingFlag(t *testing.T) {
	region := newTestRegion(t, 256, 8, 16)
	w := NewWriter(region)
	r := NewReader(region)

	if isWaiting(region, true) {
		t.Fatalf("writer waiting: got true, want false initially")
	}
	w.SetWaiting(true)
	if !isWaiting(region, true) {
		t.Fatalf("writer waiting: got false, want true after SetWaiting(true)")
	}
	w.SetWaiting(false)
	if isWaiting(region, true) {
		t.Fatalf("writer waiting: got true, want false after SetWaiting(false)")
	}

	r.SetWaiting(true)
	if !isWaiting(region, false) {
		t.Fatalf("reader waiting: got false, want true after SetWaiting(true)")
	}
}

type countingWakeup struct{ n int }

func (c *countingWakeup) Wakeup() { c.n++ }

func TestWakeupSuppressedUnlessWaitingOrForced(t *testing.T) {
	region := newTestRegion(t, 256, 8, 16)
	w := NewWriter(region)
	target := &countingWakeup{}
	w.SetWakeupTarget(target)

	w.WakeupReader(false) // reader not waiting: suppressed
	if target.n != 0 {
		t.Fatalf("wakeups: got %d, want 0", target.n)
	}

	w.WakeupReader(true) // forced
	if target.n != 1 {
		t.Fatalf("wakeups: got %d, want 1", target.n)
	}

	r := NewReader(region)
	r.SetWaiting(true)
	w.WakeupReader(false)
	if target.n != 2 {
		t.Fatalf("wakeups: got %d, want 2", target.n)
	}
}
