package transaction

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cardledger/cardledger/internal/card"
)

type memoryStore struct {
	mu      sync.RWMutex
	storage map[string]Transaction
	cards   card.Repository
}

// NewMemoryStore builds an in-memory transaction store for tests. Status
// changes apply their card deltas through the provided card repository
// under the store's lock.
func NewMemoryStore(cards card.Repository) Store {
	return &memoryStore{storage: make(map[string]Transaction), cards: cards}
}

func (s *memoryStore) Create(_ context.Context, tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage[tx.ID] = tx
	return nil
}

func (s *memoryStore) Find(_ context.Context, id, ownerID string) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.storage[id]
	if !ok || tx.DeletedAt != nil {
		return Transaction{}, ErrNotFound
	}
	if ownerID != "" && tx.UserID != ownerID {
		return Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (s *memoryStore) List(_ context.Context, cardID, userID string, f Filter) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Transaction
	for _, tx := range s.storage {
		if tx.CardID != cardID || tx.UserID != userID || tx.DeletedAt != nil {
			continue
		}
		if f.Type != nil && tx.Type != *f.Type {
			continue
		}
		if f.StartDate != nil && tx.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && tx.CreatedAt.After(*f.EndDate) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryStore) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.storage[id]
	if !ok || tx.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	tx.DeletedAt = &now
	s.storage[id] = tx
	return nil
}

func (s *memoryStore) ApplyStatusChange(ctx context.Context, change StatusChange) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.storage[change.TransactionID]
	if !ok || tx.DeletedAt != nil {
		return Transaction{}, ErrNotFound
	}
	if tx.Status != change.FromStatus {
		return Transaction{}, ErrConcurrentUpdate
	}

	c, err := s.cards.Find(ctx, change.CardID)
	if err != nil {
		return Transaction{}, err
	}
	newBalance := c.Balance.Add(change.BalanceDelta)
	newReserved := c.ReservedBalance.Add(change.ReservedDelta)
	if err := s.cards.UpdateBalances(ctx, change.CardID, newBalance, newReserved); err != nil {
		return Transaction{}, err
	}

	tx.Status = change.ToStatus
	tx.UpdatedAt = time.Now().UTC()
	s.storage[change.TransactionID] = tx
	return tx, nil
}
