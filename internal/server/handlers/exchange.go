package handlers

import (
	"sync"
	"time"

	"github.com/iudanet/cardsync/internal/crypto"
)

// exchange незавершенный SRP обмен между signin/init и signin/complete
type exchange struct {
	expiresAt time.Time
	server    *crypto.SRPServer
	appleID   string
	sessionID string
	clientA   []byte
}

// exchangeStore держит обмены в памяти; обмен одноразовый
type exchangeStore struct {
	items map[string]*exchange
	ttl   time.Duration
	mu    sync.Mutex
}

func newExchangeStore(ttl time.Duration) *exchangeStore {
	return &exchangeStore{
		items: make(map[string]*exchange),
		ttl:   ttl,
	}
}

func (s *exchangeStore) put(id string, ex *exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, item := range s.items {
		if now.After(item.expiresAt) {
			delete(s.items, key)
		}
	}
	ex.expiresAt = now.Add(s.ttl)
	s.items[id] = ex
}

func (s *exchangeStore) take(id string) (*exchange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, ok := s.items[id]
	if !ok {
		return nil, false
	}
	delete(s.items, id)
	if time.Now().After(ex.expiresAt) {
		return nil, false
	}
	return ex, true
}
