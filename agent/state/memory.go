package state

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

const (
	defaultMemoryCapacity = 10_000
	defaultMemoryTTL      = 24 * time.Hour
)

// MemoryStore keeps transcripts in a bounded LRU. The least recently used user
// is evicted past capacity and idle entries expire after the TTL.
type MemoryStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Transcript]
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}

	onEvict := func(userID string, t *Transcript) {
		log.Debug().Str("user_id", userID).Int("exchanges", t.Len()).Msg("transcript evicted")
	}

	return &MemoryStore{
		cache: expirable.NewLRU[string, *Transcript](capacity, onEvict, ttl),
		now:   time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, userID string) (*Transcript, error) {
	id, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.cache.Get(id)
	if !ok {
		t = NewTranscript(id, s.now())
		s.cache.Add(id, t)
	}
	return t.Clone(), nil
}

func (s *MemoryStore) Append(_ context.Context, userID string, ex contractx.Exchange) error {
	id, err := normalizeUserID(userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.cache.Get(id)
	if !ok {
		t = NewTranscript(id, s.now())
	}
	t.Exchanges = append(t.Exchanges, ex)
	t.UpdatedAt = s.now().UTC()
	s.cache.Add(id, t)
	return nil
}

// Len reports how many users currently hold a transcript.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
