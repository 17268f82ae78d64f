// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

// TransferStrategy places a batch's bytes into the sink and then
// commits it. SyncTransfer does this inline; AsyncTransfer hands the
// copy to an Engine and commits from its completion callback.
type TransferStrategy interface {
	Execute(rec *transferRecord)
}

// transferRecord is one in-flight batch moving from a Pipe's source
// to its sink. Allocated by Pipe.Transfer from the pipe's pool,
// handed to the strategy, and released back to the pool once commit
// has run — allocated → queued-for-copy → copied → committed →
// released, with no step skippable.
type transferRecord struct {
	pipe   *Pipe
	handle uintptr // this record's index in the pool it was dequeued from
	dstPtr []byte
	srcPtr []byte
	span   int
	count  int
}

// SyncTransfer copies bytes inline on the calling goroutine and
// commits immediately. This is the default strategy.
type SyncTransfer struct{}

// Execute implements TransferStrategy.
func (SyncTransfer) Execute(rec *transferRecord) {
	copy(rec.dstPtr, rec.srcPtr)
	rec.pipe.commit(rec)
}

// AsyncTransfer submits the copy to an Engine; the engine's own
// goroutine invokes commit once the copy lands, preserving the
// engine's FIFO completion order (load-bearing: see Engine).
type AsyncTransfer struct {
	Engine *Engine
}

// Execute implements TransferStrategy.
func (a AsyncTransfer) Execute(rec *transferRecord) {
	a.Engine.Submit(rec.dstPtr, rec.srcPtr, func() { rec.pipe.commit(rec) })
}

// Pipe forwards records from one FIFO's reader to another FIFO's
// writer, coalescing contiguous records into urgency-sized batches.
// A Pipe borrows its source and sink rather than owning them, so
// reader/writer lifetimes stay with whoever created the FIFOs.
type Pipe struct {
	src *Reader
	dst *Writer

	strategy  TransferStrategy
	pool      *recordPool
	urgentCap int
	maxBatch  int
}

// PipeOption configures a Pipe at construction.
type PipeOption func(*Pipe)

// WithTransferStrategy overrides the default SyncTransfer.
func WithTransferStrategy(s TransferStrategy) PipeOption {
	return func(p *Pipe) { p.strategy = s }
}

// WithURGENTCap overrides DefaultURGENTCap.
func WithURGENTCap(n int) PipeOption {
	return func(p *Pipe) { p.urgentCap = n }
}

// WithMaxBatch overrides DefaultMaxBatch.
func WithMaxBatch(n int) PipeOption {
	return func(p *Pipe) { p.maxBatch = n }
}

// WithRecordPoolSize overrides the default in-flight transfer-record
// pool size. Size bounds how many batches can be queued-for-copy at
// once under AsyncTransfer; it has no effect under SyncTransfer,
// which always completes a record before Transfer returns.
func WithRecordPoolSize(n int) PipeOption {
	return func(p *Pipe) { p.pool = newRecordPool(n) }
}

// NewPipe connects src's reader side to dst's writer side.
func NewPipe(src *Reader, dst *Writer, opts ...PipeOption) *Pipe {
	p := &Pipe{
		src:       src,
		dst:       dst,
		strategy:  SyncTransfer{},
		pool:      newRecordPool(32),
		urgentCap: DefaultURGENTCap,
		maxBatch:  DefaultMaxBatch,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Transfer performs one forwarding step and returns the number of
// bytes copied: 0 means the source is empty, 1 means the sink has no
// room for even the smallest pending record, otherwise the batch's
// byte span.
func (p *Pipe) Transfer() int {
	_, minSize := p.src.Get()
	if minSize == 0 {
		return 0
	}

	p.dst.UpdateReader()
	maxSize := p.dst.GetFreeContiguous(minSize)
	if maxSize < minSize {
		return 1
	}

	if p.dst.GetFreeTotal() >= p.dst.region.totalSize()-p.urgentCap && maxSize > p.urgentCap {
		maxSize = p.urgentCap
	}
	if maxSize > p.maxBatch {
		maxSize = p.maxBatch
	}
	if maxSize < minSize {
		maxSize = minSize
	}

	srcSpan, count, span, ok := p.src.GetBatch(maxSize)
	if !ok {
		return 1
	}

	dstFull := p.dst.GetPointer()
	if len(dstFull) < span {
		return 1
	}

	idx, err := p.pool.Dequeue()
	if err != nil {
		return 1 // every in-flight slot is still queued-for-copy
	}
	rec := p.pool.record(idx)
	rec.pipe = p
	rec.handle = idx
	rec.dstPtr = dstFull[:span]
	rec.srcPtr = srcSpan
	rec.span = span
	rec.count = count

	p.strategy.Execute(rec)
	return span
}

// commit re-publishes each of rec's count source records into the
// sink at its corresponding sub-offset, pops each from the source,
// advances the sink's write cursor past the whole span, wakes both
// neighbors, and releases rec back to the pool.
func (p *Pipe) commit(rec *transferRecord) {
	firstOffset := -1
	for i := 0; i < rec.count; i++ {
		offset, size, ok := p.src.peekFront()
		if !ok {
			break // defensive: should never happen, count was derived from GetBatch
		}
		if firstOffset < 0 {
			firstOffset = offset
		}
		rel := offset - firstOffset
		p.dst.Commit(rec.dstPtr[rel:rel+size], size)
		p.src.Pop()
	}
	p.dst.Advance(rec.span)

	p.src.WakeupWriter(false)
	p.dst.WakeupReader(false)

	_ = p.pool.Enqueue(rec.handle)
}
