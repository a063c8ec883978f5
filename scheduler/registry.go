// Package scheduler owns the per-game draw timers. Each running game has
// at most one entry, with an explicit start/stop lifecycle and cleanup on
// process shutdown.
package scheduler

import (
	"sync"
	"time"

	"github.com/bingolaperla/perla-backend/utils/logger"
)

type entry struct {
	stop chan struct{}
	done chan struct{}
}

// Registry holds the running draw loops, keyed by game id.
type Registry struct {
	mu      sync.Mutex
	entries map[uint]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint]*entry)}
}

// Start launches a ticker goroutine for the game that calls fn every
// interval. fn returning false ends the loop, so a draw that completes
// the game shuts its own timer down without deadlocking on Stop.
// Starting a game that is already running is a no-op returning false.
func (r *Registry) Start(gameID uint, interval time.Duration, fn func() bool) bool {
	r.mu.Lock()
	if _, running := r.entries[gameID]; running {
		r.mu.Unlock()
		return false
	}
	e := &entry{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	r.entries[gameID] = e
	r.mu.Unlock()

	go r.run(gameID, e, interval, fn)
	logger.Infof("autodraw started for game %d every %s", gameID, interval)
	return true
}

func (r *Registry) run(gameID uint, e *entry, interval time.Duration, fn func() bool) {
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		r.mu.Lock()
		if r.entries[gameID] == e {
			delete(r.entries, gameID)
		}
		r.mu.Unlock()
		close(e.done)
	}()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			if !fn() {
				logger.Infof("autodraw loop for game %d finished", gameID)
				return
			}
		}
	}
}

// Stop ends the game's draw loop and waits for it to exit. Returns false
// if no loop was running.
func (r *Registry) Stop(gameID uint) bool {
	r.mu.Lock()
	e, ok := r.entries[gameID]
	if ok {
		delete(r.entries, gameID)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	close(e.stop)
	<-e.done
	logger.Infof("autodraw stopped for game %d", gameID)
	return true
}

// Running reports whether the game currently has a draw loop.
func (r *Registry) Running(gameID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[gameID]
	return ok
}

// Shutdown stops every loop; called on process exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	entries := make(map[uint]*entry, len(r.entries))
	for id, e := range r.entries {
		entries[id] = e
	}
	r.entries = make(map[uint]*entry)
	r.mu.Unlock()

	for id, e := range entries {
		close(e.stop)
		<-e.done
		logger.Infof("autodraw stopped for game %d", id)
	}
}
