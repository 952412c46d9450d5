package services

import "sync"

// LockRegistry serializes mutating engine operations per competition. Fixture
// generation, draws, result recording and standings recalculation all write
// team statistics or schedule rows; running two of them concurrently for the
// same competition could leave inconsistent intermediate state.
//
// One registry instance is shared by all services operating on the same store.
type LockRegistry struct {
	locks sync.Map // competitionID -> *sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{}
}

// Acquire blocks until the competition's lock is held and returns the release
// function. Locks are never evicted; the set of competitions is small.
func (l *LockRegistry) Acquire(competitionID int) func() {
	v, _ := l.locks.LoadOrStore(competitionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
