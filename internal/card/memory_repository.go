package card

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Card
}

// NewMemoryRepository constructs an in-memory card store for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Card)}
}

func (r *memoryRepository) Create(_ context.Context, card Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[card.ID]; exists {
		return errors.New("card exists")
	}
	r.storage[card.ID] = card
	return nil
}

func (r *memoryRepository) Find(_ context.Context, id string) (Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.storage[id]
	if !ok || c.DeletedAt != nil {
		return Card{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) UpdateReservedBalance(_ context.Context, id string, reserved decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.storage[id]
	if !ok || c.DeletedAt != nil {
		return ErrNotFound
	}
	c.ReservedBalance = reserved
	c.UpdatedAt = time.Now().UTC()
	r.storage[id] = c
	return nil
}

func (r *memoryRepository) UpdateBalances(_ context.Context, id string, balance, reserved decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.storage[id]
	if !ok || c.DeletedAt != nil {
		return ErrNotFound
	}
	c.Balance = balance
	c.ReservedBalance = reserved
	c.UpdatedAt = time.Now().UTC()
	r.storage[id] = c
	return nil
}
