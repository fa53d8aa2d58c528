package pipeline

import "sync"

// Broadcaster fans out StateChange events to any number of subscribers
// (the HMI display task being the primary one, spec §4.6). Grounded on
// the teacher's websocket Hub broadcast channel, simplified from a
// register/unregister goroutine loop to a mutex-guarded subscriber slice
// since the beacon has at most a handful of subscribers and no network
// clients to manage.
type Broadcaster struct {
	mu   sync.Mutex
	subs []chan StateChange
}

// NewBroadcaster constructs an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe returns a channel that receives every future StateChange.
// Buffered with room for one pending change so a slow subscriber (the
// display task, which only wakes every 500ms) never blocks the supervisor.
func (b *Broadcaster) Subscribe() <-chan StateChange {
	ch := make(chan StateChange, 1)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish sends change to every subscriber, dropping it for any subscriber
// whose buffer is already full rather than blocking the supervisor.
func (b *Broadcaster) Publish(change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- change:
		default:
		}
	}
}
