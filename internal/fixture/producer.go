// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fixture provides the monotonic-counter test producer,
// consumer, and chain-wiring harness used to validate shmpipe's
// no-loss, no-duplication, in-order guarantees end-to-end. None of
// this ships as part of the transport itself.
package fixture

import (
	"encoding/binary"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/shmpipe"
)

// Producer emits a monotonically increasing sequence of u32 values
// into a Writer, greedily sizing each commit against whatever
// contiguous free space is currently available.
type Producer struct {
	w *shmpipe.Writer

	targetWords uint32
	actual      uint32

	// tinyRun, if nonzero, caps every commit to exactly one u32 for
	// the first tinyRun records (scenario: tiny-record stress), after
	// which Producer reverts to greedy sizing.
	tinyRun uint32
}

// NewProducer creates a Producer targeting targetBytes total bytes
// (rounded down to a whole number of u32 words).
func NewProducer(w *shmpipe.Writer, targetBytes int) *Producer {
	return &Producer{w: w, targetWords: uint32(targetBytes / 4)}
}

// WithTinyRecordRun caps the first n records to a single u32 each,
// grounding the tiny-record stress scenario.
func (p *Producer) WithTinyRecordRun(n uint32) *Producer {
	p.tinyRun = n
	return p
}

// Done reports whether the producer has emitted its full target.
func (p *Producer) Done() bool {
	return p.actual >= p.targetWords
}

// ProducedBytes returns the total bytes emitted so far.
func (p *Producer) ProducedBytes() int {
	return int(p.actual) * 4
}

// forceDone marks the producer done regardless of target, so Run's
// loop exits promptly. Used by Harness to unwind a run abandoned
// because the consumer hit a mismatch downstream.
func (p *Producer) forceDone() {
	p.actual = p.targetWords
}

// produceOne writes as many words as fit in one contiguous commit and
// returns the byte count written, or 0 if there's currently no room.
func (p *Producer) produceOne() int {
	p.w.UpdateReader()
	size := p.w.GetFreeContiguous(4)
	if size > shmpipe.MaxRecordSize {
		size = shmpipe.MaxRecordSize
	}
	if p.tinyRun > 0 && size > 4 {
		size = 4
	}
	if size < 4 {
		return 0
	}

	words := size / 4
	remaining := p.targetWords - p.actual
	if uint32(words) > remaining {
		words = int(remaining)
	}

	block := p.w.GetPointer()
	for i := 0; i < words; i++ {
		binary.LittleEndian.PutUint32(block[i*4:], p.actual)
		p.actual++
	}

	n, err := p.w.Commit(block, words*4)
	if err != nil {
		return 0
	}
	p.w.Advance(n)
	p.w.WakeupReader(false)
	if p.tinyRun > 0 {
		p.tinyRun--
	}
	return n
}

// Run drains as much as currently fits, backing off when the sink is
// full, until Done. It force-wakes the reader once finished so a
// parked consumer is guaranteed to notice end-of-stream.
func (p *Producer) Run() {
	backoff := iox.Backoff{}
	for !p.Done() {
		if p.produceOne() > 0 {
			backoff.Reset()
			continue
		}
		backoff.Wait()
	}
	p.w.WakeupReader(true)
}
