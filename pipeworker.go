// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// PipeWorker drives a Pipe from wakeup notifications instead of
// busy-spinning: while (not exit) { while (pipe.Transfer() > 1); wait
// for a wakeup }. Installed as the wakeup target of the pipe's
// upstream Writer and downstream Reader, it runs another pass when new
// data arrives or space is freed. NewPipeWorker does not install it on
// those two (a Pipe holds only its own source Reader and sink Writer);
// that takes SetWakeupTarget calls on them, as fixture.Harness makes.
//
// Wakeups are counted rather than edge-triggered: each call to Wakeup
// adds one credit to a buffered channel used as a counting semaphore,
// so a burst of wakeups that arrives while the worker is still
// draining the pipe is coalesced into however many credits fit,
// without ever losing the final edge.
type PipeWorker struct {
	pipe *Pipe

	credits chan struct{}
	exit    atomix.Bool
	done    chan struct{}
	once    sync.Once
}

// NewPipeWorker creates a worker for p and installs it as the wakeup
// target on p's source reader and sink writer. It does not start
// running until Run is called.
func NewPipeWorker(p *Pipe) *PipeWorker {
	w := &PipeWorker{
		pipe:    p,
		credits: make(chan struct{}, 1<<16),
		done:    make(chan struct{}),
	}
	p.src.SetWakeupTarget(w)
	p.dst.SetWakeupTarget(w)
	return w
}

// Wakeup implements WakeupTarget by adding one credit. Non-blocking:
// if the credit channel is momentarily full the wakeup is already
// redundant with one already queued.
func (w *PipeWorker) Wakeup() {
	select {
	case w.credits <- struct{}{}:
	default:
	}
}

// Run drains the pipe until told to stop. It blocks the calling
// goroutine; callers typically invoke it via `go worker.Run()`.
//
// Stop always posts a credit, so the wait below reliably wakes even
// though it only watches the credits channel, not exit directly.
func (w *PipeWorker) Run() {
	defer close(w.done)
	for {
		for w.pipe.Transfer() > 1 {
		}
		if w.exit.Load() {
			return
		}
		w.pipe.src.SetWaiting(true)
		w.pipe.dst.SetWaiting(true)
		<-w.credits
		w.pipe.src.SetWaiting(false)
		w.pipe.dst.SetWaiting(false)
		if w.exit.Load() {
			return
		}
	}
}

// Stop requests orderly shutdown: the worker finishes its current
// drain pass, if any, and returns from Run. Stop blocks until Run has
// returned.
func (w *PipeWorker) Stop() {
	w.once.Do(func() {
		w.exit.Store(true)
		w.Wakeup()
	})
	<-w.done
}
