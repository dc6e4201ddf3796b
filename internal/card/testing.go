package card

// Seed is a test helper that inserts or replaces a card when using the
// in-memory repository.
func Seed(r Repository, c Card) {
	if mem, ok := r.(*memoryRepository); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.storage[c.ID] = c
	}
}
