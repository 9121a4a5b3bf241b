package session

import (
	"context"
	"sync"
	"time"

	"github.com/linemk/shop-bot/internal/checkout"
)

type memoryEntry struct {
	session   checkout.Session
	expiresAt time.Time // нулевое значение - без срока
}

// MemoryStore держит состояние в памяти процесса, подходит для одного инстанса и тестов
type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, chatID int64) (checkout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[chatID]
	if !ok {
		return checkout.Session{}, ErrNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, chatID)
		return checkout.Session{}, ErrNotFound
	}
	return e.session, nil
}

func (s *MemoryStore) Save(_ context.Context, chatID int64, sess checkout.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{session: sess}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[chatID] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, chatID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
