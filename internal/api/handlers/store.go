package handlers

import (
	"sync"
	"time"

	"tariff-engine/internal/api/models"
)

// storeEntry pairs a stored response with its expiry.
type storeEntry struct {
	resp      *models.OptimizeResponse
	expiresAt time.Time
}

// ResultStore keeps finished optimization responses retrievable by ID
// until their TTL lapses. Expired entries stop resolving immediately;
// a background sweeper reclaims their memory.
type ResultStore struct {
	mu    sync.RWMutex
	store map[string]*storeEntry
	ttl   time.Duration
	stop  chan struct{}
}

// NewResultStore starts the sweeper goroutine; call Close once to stop it.
func NewResultStore(ttl time.Duration) *ResultStore {
	s := &ResultStore{
		store: make(map[string]*storeEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Put stores a response under the given ID.
func (s *ResultStore) Put(id string, resp *models.OptimizeResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[id] = &storeEntry{
		resp:      resp,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Get retrieves a stored response if present and not expired.
func (s *ResultStore) Get(id string) (*models.OptimizeResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.store[id]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.resp, true
}

// Len counts live entries.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	now := time.Now()
	for _, entry := range s.store {
		if !now.After(entry.expiresAt) {
			n++
		}
	}
	return n
}

// Close stops the sweeper.
func (s *ResultStore) Close() {
	close(s.stop)
}

func (s *ResultStore) sweep() {
	interval := s.ttl / 2
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for id, entry := range s.store {
				if now.After(entry.expiresAt) {
					delete(s.store, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
