package pipeline

import (
	"github.com/meterbox/beacon/internal/audioio"
	"github.com/meterbox/beacon/internal/logger"
	"github.com/meterbox/beacon/internal/metrics"
)

// SingleSlotQueue is the capacity-1 inter-stage queue of spec §4.4: "at
// most one window in flight"; on overflow the newest window is dropped
// with a warning. Grounded on the teacher's AudioQueue.SubmitJob
// non-blocking send with a default case, narrowed from a 100-deep buffered
// channel to exactly one slot.
type SingleSlotQueue struct {
	ch chan audioio.AudioWindow
}

// NewSingleSlotQueue constructs an empty queue.
func NewSingleSlotQueue() *SingleSlotQueue {
	return &SingleSlotQueue{ch: make(chan audioio.AudioWindow, 1)}
}

// Offer attempts to enqueue w. If the queue already holds a window, w is
// dropped and Offer reports false (spec §4.4: "the newest window is
// dropped"). Never blocks.
func (q *SingleSlotQueue) Offer(w audioio.AudioWindow) bool {
	select {
	case q.ch <- w:
		return true
	default:
		metrics.Get().WindowsDroppedTotal.Inc()
		logger.Warn("single-slot queue full, dropping newest window")
		return false
	}
}

// Receive returns the channel to range/select over; the processing task
// reads from it directly so it can also select on ctx.Done().
func (q *SingleSlotQueue) Receive() <-chan audioio.AudioWindow {
	return q.ch
}
