// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import (
	"sync"
	"testing"
)

func TestEngineCopiesAndCompletes(t *testing.T) {
	e := NewEngine(4)
	defer e.Drain()

	src := []byte("payload")
	dst := make([]byte, len(src))
	done := make(chan struct{})
	e.Submit(dst, src, func() { close(done) })
	<-done

	if string(dst) != string(src) {
		t.Fatalf("Submit: got %q, want %q", dst, src)
	}
}

func TestEngineCompletesInSubmissionOrder(t *testing.T) {
	e := NewEngine(1) // depth 1 forces jobs to serialize through Submit
	defer e.Drain()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	const n = 50

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		src := []byte{byte(i)}
		dst := make([]byte, 1)
		e.Submit(dst, src, func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("completion order: got %v at position %d, want %d", order, i, i)
		}
	}
}

func TestEngineDrainIsIdempotentAndSuppressesLateSubmit(t *testing.T) {
	e := NewEngine(2)
	e.Drain()
	e.Drain() // must not panic on double-close

	// A Submit after Drain is a no-op, not a panic on the closed channel.
	e.Submit(nil, nil, func() { t.Fatalf("onComplete ran after Drain") })
}
