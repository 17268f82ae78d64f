// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fixture

import (
	"encoding/binary"
	"fmt"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/shmpipe"
)

// Consumer reads u32 values from a Reader and checks that they form
// the exact monotonic sequence 0,1,2,...,targetWords-1 — the
// end-to-end integrity signal for the whole chain.
type Consumer struct {
	r *shmpipe.Reader

	targetWords uint32
	actual      uint32

	err error
}

// NewConsumer creates a Consumer expecting targetBytes total bytes.
func NewConsumer(r *shmpipe.Reader, targetBytes int) *Consumer {
	return &Consumer{r: r, targetWords: uint32(targetBytes / 4)}
}

// Done reports whether the consumer has verified its full target.
func (c *Consumer) Done() bool {
	return c.actual >= c.targetWords
}

// Err returns the first mismatch encountered, if any.
func (c *Consumer) Err() error {
	return c.err
}

// ConsumedBytes returns the total bytes verified so far.
func (c *Consumer) ConsumedBytes() int {
	return int(c.actual) * 4
}

func (c *Consumer) consumeOne() int {
	block, size := c.r.Get()
	if size < 4 {
		return 0
	}

	words := size / 4
	remaining := c.targetWords - c.actual
	if uint32(words) > remaining {
		words = int(remaining)
	}

	for i := 0; i < words; i++ {
		got := binary.LittleEndian.Uint32(block[i*4:])
		if got != c.actual {
			c.err = fmt.Errorf("fixture: expected %d, got %d at word %d", c.actual, got, c.actual)
			return 0
		}
		c.actual++
	}

	c.r.Pop()
	c.r.WakeupWriter(false)
	return words * 4
}

// Run drains as much as currently available, backing off when the
// source is empty, until Done or an error is observed.
func (c *Consumer) Run() {
	backoff := iox.Backoff{}
	for !c.Done() && c.err == nil {
		if c.consumeOne() > 0 {
			backoff.Reset()
			continue
		}
		backoff.Wait()
	}
	c.r.WakeupWriter(true)
}
