package service

import (
	"sync"

	"github.com/google/uuid"
)

// TournamentLocks hands out one mutex per tournament so bracket mutations on
// the same tournament run one at a time within this process. An entry lives
// only while someone holds or waits on it.
type TournamentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*tournamentLock
}

type tournamentLock struct {
	mu   sync.Mutex
	refs int
}

func NewTournamentLocks() *TournamentLocks {
	return &TournamentLocks{locks: make(map[uuid.UUID]*tournamentLock)}
}

// Lock blocks until the tournament is free and returns its unlock func.
func (l *TournamentLocks) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &tournamentLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, id)
			}
			l.mu.Unlock()
		})
	}
}

// Publisher pushes bracket changes to live subscribers of a tournament.
type Publisher interface {
	Broadcast(tournamentID uuid.UUID, event string, data any)
}

type nopPublisher struct{}

func (nopPublisher) Broadcast(uuid.UUID, string, any) {}
