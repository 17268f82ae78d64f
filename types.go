// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

// QueueIndirect is the combined interface for indirect (uintptr) queues.
//
// QueueIndirect passes indices or handles instead of full objects. The
// pipe's transfer-record pool is the concrete user: it hands out
// indices into its own backing slice of transferRecord as uintptr, so
// allocation is a Dequeue and release is an Enqueue, with no heap
// traffic on the steady-state path and every record kept reachable by
// the pool's own slice reference for as long as the pool lives.
type QueueIndirect interface {
	ProducerIndirect
	ConsumerIndirect
	Cap() int
}

// ProducerIndirect enqueues uintptr values (non-blocking).
type ProducerIndirect interface {
	Enqueue(elem uintptr) error
}

// ConsumerIndirect dequeues uintptr values (non-blocking).
type ConsumerIndirect interface {
	Dequeue() (uintptr, error)
}

// Drainer signals that no more enqueues will occur.
//
// The copy engine implements this: Engine.Drain closes its job
// channel so queued and in-flight jobs finish before the worker
// goroutine exits, instead of the channel being abandoned mid-batch.
type Drainer interface {
	// Drain is a hint — the caller must ensure no further Enqueue calls
	// will be made after calling Drain.
	Drain()
}
