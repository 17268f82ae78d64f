// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fixture

import (
	"sync"

	"code.hybscloud.com/shmpipe"
)

// ChainOptions configures a Harness chain.
type ChainOptions struct {
	FIFOSize    int // total backing buffer size per FIFO region
	BDCount     int // descriptor ring length per FIFO region
	Align       int
	TargetBytes int

	// Engines selects how many FIFO-to-FIFO hops use an async copy
	// engine, starting from the first hop; remaining hops use the
	// synchronous inline strategy. 0 means every hop is synchronous.
	Engines int

	// TinyRecordRun, if nonzero, caps the producer's first n records
	// to a single u32 word each (the tiny-record stress scenario).
	TinyRecordRun uint32

	// URGENTCap and MaxBatch override pipe batching defaults when
	// nonzero (the urgent-backpressure scenario sets these to force
	// urgency sooner at a smaller FIFO_SIZE).
	URGENTCap int
	MaxBatch  int
}

// Harness wires producer → [FIFO → pipe]* → FIFO → consumer, matching
// the original test harness's topology: one FIFO region per hop, an
// optional copy engine per pipe, one PipeWorker per pipe driving it.
type Harness struct {
	opts ChainOptions

	producer *Producer
	consumer *Consumer

	regions []*shmpipe.Region
	readers []*shmpipe.Reader
	writers []*shmpipe.Writer

	pipes   []*shmpipe.Pipe
	workers []*shmpipe.PipeWorker
	engines []*shmpipe.Engine
}

// NewHarness builds a chain of numFIFOs regions (numFIFOs ≥ 1).
// numFIFOs == 1 models single-FIFO loopback: the producer and
// consumer share that one region directly, with no pipe in between.
func NewHarness(numFIFOs int, opts ChainOptions) *Harness {
	if numFIFOs < 1 {
		panic("fixture: numFIFOs must be >= 1")
	}
	h := &Harness{opts: opts}

	for i := 0; i < numFIFOs; i++ {
		buf := make([]byte, opts.FIFOSize)
		region, err := shmpipe.NewRegion(opts.BDCount, opts.Align).Create(buf)
		if err != nil {
			panic(err)
		}
		h.regions = append(h.regions, region)
		h.readers = append(h.readers, shmpipe.NewReader(region))
		h.writers = append(h.writers, shmpipe.NewWriter(region))
	}

	h.producer = NewProducer(h.writers[0], opts.TargetBytes)
	if opts.TinyRecordRun > 0 {
		h.producer.WithTinyRecordRun(opts.TinyRecordRun)
	}
	h.consumer = NewConsumer(h.readers[numFIFOs-1], opts.TargetBytes)

	for i := 0; i < numFIFOs-1; i++ {
		var pipeOpts []shmpipe.PipeOption
		if opts.URGENTCap > 0 {
			pipeOpts = append(pipeOpts, shmpipe.WithURGENTCap(opts.URGENTCap))
		}
		if opts.MaxBatch > 0 {
			pipeOpts = append(pipeOpts, shmpipe.WithMaxBatch(opts.MaxBatch))
		}
		if i < opts.Engines {
			engine := shmpipe.NewEngine(64)
			h.engines = append(h.engines, engine)
			pipeOpts = append(pipeOpts, shmpipe.WithTransferStrategy(shmpipe.AsyncTransfer{Engine: engine}))
		}
		pipe := shmpipe.NewPipe(h.readers[i], h.writers[i+1], pipeOpts...)
		h.pipes = append(h.pipes, pipe)
		h.workers = append(h.workers, shmpipe.NewPipeWorker(pipe))
	}

	// Each worker is woken by its upstream writer publishing data and by
	// its downstream reader freeing space. Installed after every
	// NewPipeWorker call, since those set targets on the same shared
	// Reader/Writer values.
	for i, w := range h.workers {
		h.writers[i].SetWakeupTarget(w)
		h.readers[i+1].SetWakeupTarget(w)
	}

	return h
}

// Run starts the producer, every pipe worker, and the consumer, and
// blocks until both producer and consumer have reached their target
// (or the consumer observes a mismatch). It then stops every pipe
// worker and drains every engine before returning.
func (h *Harness) Run() {
	var wg sync.WaitGroup
	for _, w := range h.workers {
		wg.Add(1)
		go func(w *shmpipe.PipeWorker) {
			defer wg.Done()
			w.Run()
		}(w)
	}

	producerDone := make(chan struct{})
	consumerDone := make(chan struct{})
	go func() { h.producer.Run(); close(producerDone) }()
	go func() { h.consumer.Run(); close(consumerDone) }()

	<-consumerDone
	if h.consumer.Err() != nil {
		// Unwind promptly instead of letting the producer spin
		// against a chain nothing is draining anymore.
		h.producer.forceDone()
	}
	<-producerDone

	for _, w := range h.workers {
		w.Stop()
	}
	for _, e := range h.engines {
		e.Drain()
	}
	wg.Wait()
}

// Producer returns the harness's producer, for inspecting
// ProducedBytes after Run.
func (h *Harness) Producer() *Producer { return h.producer }

// Consumer returns the harness's consumer, for inspecting
// ConsumedBytes and Err after Run.
func (h *Harness) Consumer() *Consumer { return h.consumer }
