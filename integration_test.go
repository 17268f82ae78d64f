// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe_test

import (
	"testing"

	"code.hybscloud.com/shmpipe"
	"code.hybscloud.com/shmpipe/internal/fixture"
)

// Byte targets here are megabyte-scale rather than the gigabyte-scale
// streams spec.md's scenarios describe, so the suite runs quickly
// without changing any invariant under test.

func TestLoopbackSingleFIFO(t *testing.T) {
	h := fixture.NewHarness(1, fixture.ChainOptions{
		FIFOSize:    shmpipe.DefaultFIFOSize,
		BDCount:     shmpipe.DefaultBDCount,
		Align:       shmpipe.DefaultAlign,
		TargetBytes: 2 << 20,
	})
	h.Run()
	if err := h.Consumer().Err(); err != nil {
		t.Fatalf("consumer: %v", err)
	}
	if h.Consumer().ConsumedBytes() != h.Producer().ProducedBytes() {
		t.Fatalf("consumed %d != produced %d", h.Consumer().ConsumedBytes(), h.Producer().ProducedBytes())
	}
}

func TestPipeSynchronous(t *testing.T) {
	h := fixture.NewHarness(2, fixture.ChainOptions{
		FIFOSize:    shmpipe.DefaultFIFOSize,
		BDCount:     shmpipe.DefaultBDCount,
		Align:       shmpipe.DefaultAlign,
		TargetBytes: 2 << 20,
		Engines:     0, // every hop synchronous
	})
	h.Run()
	if err := h.Consumer().Err(); err != nil {
		t.Fatalf("consumer: %v", err)
	}
}

func TestPipeAsyncEngine(t *testing.T) {
	h := fixture.NewHarness(2, fixture.ChainOptions{
		FIFOSize:    shmpipe.DefaultFIFOSize,
		BDCount:     shmpipe.DefaultBDCount,
		Align:       shmpipe.DefaultAlign,
		TargetBytes: 2 << 20,
		Engines:     1, // the one hop forwards via a copy engine
	})
	h.Run()
	if err := h.Consumer().Err(); err != nil {
		t.Fatalf("consumer: %v", err)
	}
}

func TestLooptestTwoEngines(t *testing.T) {
	h := fixture.NewHarness(3, fixture.ChainOptions{
		FIFOSize:    shmpipe.DefaultFIFOSize,
		BDCount:     shmpipe.DefaultBDCount,
		Align:       shmpipe.DefaultAlign,
		TargetBytes: 2 << 20,
		Engines:     2, // both hops forward via copy engines
	})
	h.Run()
	if err := h.Consumer().Err(); err != nil {
		t.Fatalf("consumer: %v", err)
	}
	if h.Consumer().ConsumedBytes() != h.Producer().ProducedBytes() {
		t.Fatalf("consumed %d != produced %d", h.Consumer().ConsumedBytes(), h.Producer().ProducedBytes())
	}
}

func TestTinyRecordStress(t *testing.T) {
	h := fixture.NewHarness(2, fixture.ChainOptions{
		FIFOSize:      shmpipe.DefaultFIFOSize,
		BDCount:       shmpipe.DefaultBDCount,
		Align:         shmpipe.DefaultAlign,
		TargetBytes:   512 << 10,
		Engines:       1,
		TinyRecordRun: 4096, // force many single-word commits through the chain
	})
	h.Run()
	if err := h.Consumer().Err(); err != nil {
		t.Fatalf("consumer: %v", err)
	}
}

func TestUrgentBackpressure(t *testing.T) {
	h := fixture.NewHarness(2, fixture.ChainOptions{
		FIFOSize:    4 * 1024,
		BDCount:     64,
		Align:       16,
		TargetBytes: 1 << 20,
		Engines:     0,
		URGENTCap:   512, // small FIFO + small urgentCap forces urgency early and often
		MaxBatch:    4 * 1024,
	})
	h.Run()
	if err := h.Consumer().Err(); err != nil {
		t.Fatalf("consumer: %v", err)
	}
	if h.Consumer().ConsumedBytes() != h.Producer().ProducedBytes() {
		t.Fatalf("consumed %d != produced %d", h.Consumer().ConsumedBytes(), h.Producer().ProducedBytes())
	}
}
