// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

// WakeupTarget receives discretionary wakeups from the counterpart
// side of a FIFO. The C callback-plus-opaque-argument shape from the
// original design maps naturally onto a one-method interface here;
// WakeupFunc adapts a plain closure (typically a *PipeWorker's
// counted-wakeup semaphore) to satisfy it.
type WakeupTarget interface {
	Wakeup()
}

// WakeupFunc adapts a func() to a WakeupTarget.
type WakeupFunc func()

// Wakeup calls f.
func (f WakeupFunc) Wakeup() {
	f()
}
