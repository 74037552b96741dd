package schedule

import "sync"

// spaceLocks serializes mutating operations per parking space. Two racing
// creates for the same space and day must not both observe "no conflict", so
// every write takes the space's mutex before re-reading the day's slots. A
// slot's SpaceID is immutable, which keeps lock acquisition race-free: fetch
// the slot, lock its space, re-fetch for fresh state.
type spaceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSpaceLocks() *spaceLocks {
	return &spaceLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a given space, creating one if it doesn't exist.
func (l *spaceLocks) get(spaceID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, exists := l.locks[spaceID]
	if !exists {
		m = &sync.Mutex{}
		l.locks[spaceID] = m
	}
	return m
}
