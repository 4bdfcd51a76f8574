package config

import "sync"

// Store holds the current Config behind a reader-writer lock, with an
// update channel so collaborators (the Hub, in particular) can react to
// a new generation instead of polling Get.
type Store struct {
	mu      sync.RWMutex
	current Config
	updates chan Config
}

// NewStore creates a Store seeded with initial. The update channel is
// buffered by one so a Set that races an un-drained previous update
// still lands (the newest Config always wins — see Set).
func NewStore(initial Config) *Store {
	return &Store{
		current: initial,
		updates: make(chan Config, 1),
	}
}

// Get returns the current Config.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the current Config and notifies Updates(). If a previous
// update is still sitting unread in the channel, it is drained first so
// Updates() always observes the newest Config, never a stale one.
func (s *Store) Set(cfg Config) {
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	for {
		select {
		case s.updates <- cfg:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Updates returns the channel on which new Config values are delivered.
func (s *Store) Updates() <-chan Config {
	return s.updates
}
