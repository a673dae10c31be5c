package service

import (
	"sync"

	"eventful/internal/models"
)

// EventLocks serializes check-then-persist sequences per event. The overlap
// check and the subsequent insert are two separate storage calls; without a
// lock two concurrent creations could both pass the check and persist
// overlapping time blocks. Both the schedule and vote services must share
// one EventLocks instance, since their time blocks conflict with each other.
type EventLocks struct {
	mu    sync.Mutex
	locks map[models.EventID]*sync.Mutex
}

// NewEventLocks creates an empty lock table.
func NewEventLocks() *EventLocks {
	return &EventLocks{locks: make(map[models.EventID]*sync.Mutex)}
}

// Lock acquires the mutex for the event and returns the unlock func.
//
//	unlock := locks.Lock(eventID)
//	defer unlock()
func (l *EventLocks) Lock(eventID models.EventID) func() {
	l.mu.Lock()
	lock, ok := l.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[eventID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
