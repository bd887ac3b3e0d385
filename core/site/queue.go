package site

import "github.com/chargesim/chargesim/core/model"

// Queue holds charging events that arrived while all points were busy. Order
// is a strict total order by (arrival step, event id) ascending and is never
// rearranged. MaxSize 0 disables queueing entirely: an arrival that finds no
// free point is rejected on the spot.
type Queue struct {
	MaxSize int
	items   []model.ChargingEvent
}

// NewQueue creates a queue bounded at maxSize entries.
func NewQueue(maxSize int) *Queue {
	return &Queue{MaxSize: maxSize}
}

// Len returns the number of waiting events.
func (q *Queue) Len() int { return len(q.items) }

// Push appends an event at the tail. It reports false when the queue is full
// or queueing is disabled; the caller counts the event as rejected.
func (q *Queue) Push(ev model.ChargingEvent) bool {
	if q.MaxSize <= 0 || len(q.items) >= q.MaxSize {
		return false
	}
	q.items = append(q.items, ev)
	return true
}

// Pop removes and returns the head of the queue.
func (q *Queue) Pop() (model.ChargingEvent, bool) {
	if len(q.items) == 0 {
		return model.ChargingEvent{}, false
	}
	ev := q.items[0]
	q.items = q.items[1:]
	return ev, true
}

// ExpireBefore drops every queued event whose parking duration has fully
// elapsed by the given step and returns them so the caller can report the
// vehicles that left without ever charging.
func (q *Queue) ExpireBefore(step int) []model.ChargingEvent {
	var expired []model.ChargingEvent
	kept := q.items[:0]
	for _, ev := range q.items {
		if ev.DepartureStep() <= step {
			expired = append(expired, ev)
			continue
		}
		kept = append(kept, ev)
	}
	q.items = kept
	return expired
}
