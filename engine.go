// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// copyJob is one unit of work for an Engine: copy src into dst, then
// invoke onComplete out-of-line on the engine's own goroutine.
type copyJob struct {
	dst, src   []byte
	onComplete func()
}

// Engine is a single goroutine serving a FIFO-ordered queue of copy
// jobs. Jobs complete strictly in submission order — each job runs to
// completion, onComplete included, before the next begins — which is
// load-bearing for Pipe: descriptor re-publication into the sink must
// land in the same order records left the source.
//
// The original design's std::thread plus std::mutex/condition_variable
// plus std::list translates here to a goroutine draining a buffered
// channel: the channel is both the queue and the wakeup signal, so
// there's no separate mutex/cond to get wrong.
type Engine struct {
	jobs   chan copyJob
	done   chan struct{}
	closed atomix.Bool
	once   sync.Once
}

// NewEngine starts an Engine with the given job queue depth. Submit
// blocks once the queue is full, which throttles the submitting pipe
// worker rather than growing without bound.
func NewEngine(queueCapacity int) *Engine {
	e := &Engine{
		jobs: make(chan copyJob, queueCapacity),
		done: make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *Engine) run() {
	for job := range e.jobs {
		copy(job.dst, job.src)
		if job.onComplete != nil {
			job.onComplete()
		}
	}
	close(e.done)
}

// Submit enqueues a copy job. Submission after Drain is a programmer
// error: the job is silently dropped, matching the original's
// shutdown-during-submit behavior.
func (e *Engine) Submit(dst, src []byte, onComplete func()) {
	if e.closed.Load() {
		return
	}
	e.jobs <- copyJob{dst: dst, src: src, onComplete: onComplete}
}

// Drain signals that no further Submit calls will be made, waits for
// all in-flight and queued jobs to finish, and stops the worker
// goroutine. Drain is idempotent.
func (e *Engine) Drain() {
	e.once.Do(func() {
		e.closed.Store(true)
		close(e.jobs)
	})
	<-e.done
}
