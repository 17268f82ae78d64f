// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package shmpipe implements a shared-memory single-producer
// single-consumer byte-stream transport and its pipeline composition
// primitives: a descriptor-ring FIFO, a reader and writer over it, a
// one-way pipe that forwards records between two FIFOs via bulk
// copies, and an asynchronous copy engine.
//
// It models an asymmetric multiprocessor data path — a host and an
// offload processor, or any two execution contexts that communicate
// only through shared memory — where a chain of FIFOs joined by
// copy engines forms a unidirectional pipeline.
//
// # Quick Start
//
// Create a region, bind a writer and reader to it, and commit records:
//
//	buf := make([]byte, shmpipe.DefaultFIFOSize)
//	region, err := shmpipe.NewRegion(shmpipe.DefaultBDCount, shmpipe.DefaultAlign).Create(buf)
//	if err != nil {
//	    return err
//	}
//
//	w := shmpipe.NewWriter(region)
//	r := shmpipe.NewReader(region)
//
//	w.UpdateReader()
//	block := w.GetPointer()
//	n := copy(block, payload)
//	w.Commit(block, n)
//	w.Advance(n)
//	w.WakeupReader(true)
//
//	data, size := r.Get()
//	_ = data[:size]
//	r.Pop()
//
// # Chaining FIFOs with a Pipe
//
// A [Pipe] moves records from one FIFO's reader to another's writer,
// coalescing contiguous records into urgency-sized batches:
//
//	p := shmpipe.NewPipe(sourceReader, sinkWriter)
//	for p.Transfer() > 1 {
//	    // keep draining while the sink has room
//	}
//
// [NewPipeWorker] wraps a Pipe in a goroutine driven by wakeups
// instead of polling. Installed as the wakeup target of the pipe's
// upstream writer and downstream reader, it runs another pass when new
// data arrives or space is freed; NewPipeWorker does not install it on
// those two itself:
//
//	worker := shmpipe.NewPipeWorker(p)
//	upstreamWriter.SetWakeupTarget(worker)
//	downstreamReader.SetWakeupTarget(worker)
//	go worker.Run()
//	defer worker.Stop()
//
// For asynchronous bulk copies instead of inline memcpy, pair the
// pipe with an [Engine]:
//
//	engine := shmpipe.NewEngine(64)
//	defer engine.Drain()
//	p := shmpipe.NewPipe(sourceReader, sinkWriter,
//	    shmpipe.WithTransferStrategy(shmpipe.AsyncTransfer{Engine: engine}))
//
// # Wakeup Discipline
//
// Readers and writers each carry a WAITING flag in the region's
// header. WakeupReader/WakeupWriter only invoke the installed
// [WakeupTarget] when force is set or the counterpart's WAITING flag
// is observed set — this suppresses wakeup traffic while the
// counterpart is actively draining, and guarantees delivery once it
// parks. A [WakeupFunc] adapts any closure to [WakeupTarget].
//
// # Connecting to an Existing Region
//
// A region created by one side of the channel is joined by the other
// via Connect, which reads bd_count and align back out of the header
// rather than trusting its own configuration:
//
//	region, err := shmpipe.NewRegion(0, 0).Connect(buf)
//
// # Error Handling
//
// Commit returns [ErrOversizeRecord] or [ErrInvalidPointer] instead of
// panicking; these are ordinary operational conditions a caller
// should check, not programmer errors. Create/Connect return
// [ErrMisconfigured] for a buffer too small or misaligned for the
// computed layout — this is the Go-idiomatic counterpart to the
// original design's fatal-at-init assertion. [ErrWouldBlock] is
// reserved for the transfer-record pool ([code.hybscloud.com/iox]'s
// sentinel, re-exported for ecosystem consistency); it is not an
// error a Reader or Writer ever returns directly (Get/IsEmpty report
// emptiness through a zero size, not an error).
//
//	backoff := iox.Backoff{}
//	for {
//	    if p.Transfer() != 1 {
//	        backoff.Reset()
//	        continue
//	    }
//	    backoff.Wait()
//	}
//
// # Thread Safety
//
// Exactly one goroutine may drive a Writer and exactly one may drive
// a Reader at a time; this package enforces single-producer
// single-consumer semantics by construction, not by locking — there
// are no locks. Violating single-ownership causes data corruption,
// not a detectable error.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// backoff, [code.hybscloud.com/atomix] for in-process atomics with
// explicit memory ordering (the copy engine's exit flag, the pipe
// worker's exit flag, the transfer-record pool's cursors), and plain
// [sync/atomic] for the descriptor ring and status words that live
// inside the caller-owned region buffer, since atomix's wrapper types
// own their field's storage and cannot bind to a caller-picked
// address. See [code.hybscloud.com/shmpipe/internal/fixture] for the
// monotonic-counter producer/consumer used to validate a chain
// end-to-end, and cmd/loopback for a runnable demonstration.
package shmpipe
