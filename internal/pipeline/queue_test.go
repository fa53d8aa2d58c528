package pipeline

import (
	"testing"
	"time"

	"github.com/meterbox/beacon/internal/audioio"
	"github.com/stretchr/testify/assert"
)

func TestSingleSlotQueueDropsNewestOnOverflow(t *testing.T) {
	q := NewSingleSlotQueue()
	first := audioio.AudioWindow{SampleRate: 1, AcquiredAt: time.Unix(1, 0)}
	second := audioio.AudioWindow{SampleRate: 2, AcquiredAt: time.Unix(2, 0)}

	assert.True(t, q.Offer(first))
	assert.False(t, q.Offer(second), "queue already holds a window; the new one must be dropped")

	got := <-q.Receive()
	assert.Equal(t, first, got, "the queued window must be the one already accepted, not the dropped one")
}

func TestSingleSlotQueueAcceptsAgainAfterDrain(t *testing.T) {
	q := NewSingleSlotQueue()
	assert.True(t, q.Offer(audioio.AudioWindow{SampleRate: 1}))
	<-q.Receive()
	assert.True(t, q.Offer(audioio.AudioWindow{SampleRate: 2}))
}
