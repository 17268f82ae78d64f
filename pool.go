// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// recordPool is a single-producer single-consumer free-list handing
// out indices into a fixed, pool-owned slice of transferRecord rather
// than raw addresses: the slice itself is an ordinary Go value the
// pool holds a live reference to, so every record stays reachable to
// the garbage collector for the pool's whole lifetime regardless of
// which index is currently checked out. Handing one out is a Dequeue
// and returning it is an Enqueue, with no heap traffic on the pipe's
// steady-state path.
//
// A pipe's worker goroutine is the only Dequeue caller (it allocates a
// record before queuing a copy job), and the engine's completion
// callback is the only Enqueue caller (it releases the record once the
// sink has committed it) — genuinely one producer, one consumer, even
// though a single goroutine may alternate between both roles for a
// synchronous transfer strategy.
type recordPool struct {
	_          pad
	head       atomix.Uint64 // consumer (Dequeue) reads from here
	_          pad
	cachedTail uint64
	_          pad
	tail       atomix.Uint64 // producer (Enqueue) writes here
	_          pad
	cachedHead uint64
	_          pad
	records []transferRecord
	buffer  []uintptr
	mask    uint64
}

// newRecordPool pre-allocates capacity transfer records and seeds the
// pool with their indices, so steady-state Dequeue never touches the
// Go allocator. Capacity rounds up to the next power of 2.
func newRecordPool(capacity int) *recordPool {
	if capacity < 2 {
		panic("shmpipe: pool capacity must be >= 2")
	}
	n := uint64(roundToPow2(capacity))
	p := &recordPool{
		records: make([]transferRecord, n),
		buffer:  make([]uintptr, n),
		mask:    n - 1,
	}
	for i := uint64(0); i < n; i++ {
		p.buffer[i] = uintptr(i)
	}
	p.tail.StoreRelaxed(n)
	return p
}

// record returns the transferRecord a prior Dequeue's index refers to.
func (p *recordPool) record(idx uintptr) *transferRecord {
	return &p.records[idx]
}

// Enqueue returns a record's index to the pool. Called after the
// record's bytes have been committed into the sink FIFO and are no
// longer referenced.
func (p *recordPool) Enqueue(elem uintptr) error {
	tail := p.tail.LoadRelaxed()
	if tail-p.cachedHead > p.mask {
		p.cachedHead = p.head.LoadAcquire()
		if tail-p.cachedHead > p.mask {
			return ErrWouldBlock
		}
	}
	*(*uintptr)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(p.buffer)), int(tail&p.mask)*ptrSize)) = elem
	p.tail.StoreRelease(tail + 1)
	return nil
}

// Dequeue hands out one record's index. Returns ErrWouldBlock if every
// record is currently in flight (source contiguous-free budget
// already bounds this so it should be rare, not absent).
func (p *recordPool) Dequeue() (uintptr, error) {
	head := p.head.LoadRelaxed()
	if head >= p.cachedTail {
		p.cachedTail = p.tail.LoadAcquire()
		if head >= p.cachedTail {
			return 0, ErrWouldBlock
		}
	}
	elem := *(*uintptr)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(p.buffer)), int(head&p.mask)*ptrSize))
	p.head.StoreRelease(head + 1)
	return elem, nil
}

// Cap returns the pool size.
func (p *recordPool) Cap() int {
	return int(p.mask + 1)
}
