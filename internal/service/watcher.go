package service

import (
	"sync"

	"github.com/google/uuid"
)

// SeatWatcher fans seat-count updates out to live UI subscribers.
// It is a strictly read-only observer: reserve and release publish the new
// counter after the store write commits, and a subscriber can never slow down
// or participate in the reservation path — sends are non-blocking and slow
// subscribers simply miss intermediate values.
type SeatWatcher struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[int]chan int
	next int
}

// NewSeatWatcher constructs an empty SeatWatcher.
func NewSeatWatcher() *SeatWatcher {
	return &SeatWatcher{subs: make(map[uuid.UUID]map[int]chan int)}
}

// Subscribe registers interest in one schedule's seat count. The returned
// channel receives the count after every reserve/release; the returned
// cancel function must be called when the subscriber goes away.
// The channel has a buffer of 1 so a subscriber that lags always sees the
// most recent value it was offered, never a stale backlog.
func (w *SeatWatcher) Subscribe(scheduleID uuid.UUID) (<-chan int, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan int, 1)
	key := w.next
	w.next++

	if w.subs[scheduleID] == nil {
		w.subs[scheduleID] = make(map[int]chan int)
	}
	w.subs[scheduleID][key] = ch

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if m, ok := w.subs[scheduleID]; ok {
			delete(m, key)
			if len(m) == 0 {
				delete(w.subs, scheduleID)
			}
		}
	}
	return ch, cancel
}

// Publish offers the new seat count to every subscriber of the schedule.
// Never blocks: when a subscriber's buffer is full the stale value is
// discarded and replaced, so a lagging subscriber wakes to the latest count.
func (w *SeatWatcher) Publish(scheduleID uuid.UUID, available int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subs[scheduleID] {
		select {
		case ch <- available:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- available:
		default:
		}
	}
}
