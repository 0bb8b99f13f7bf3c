package repository

import (
	"context"
	"fmt"
	"sync"

	"united_network/internal/domain/models"
	"united_network/internal/storage"
)

// MemoryCatalogRepo owns the item lists exclusively; List hands out
// copies so callers can never mutate the stored order.
type MemoryCatalogRepo struct {
	mu    sync.RWMutex
	items map[models.CatalogKind][]models.CatalogItem
}

func NewMemoryCatalogRepo() *MemoryCatalogRepo {
	return &MemoryCatalogRepo{
		items: make(map[models.CatalogKind][]models.CatalogItem),
	}
}

func (r *MemoryCatalogRepo) Add(ctx context.Context, kind models.CatalogKind, item models.CatalogItem) error {
	const op = "repository.MemoryCatalogRepo.Add"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// newest-first
	r.items[kind] = append([]models.CatalogItem{item}, r.items[kind]...)
	return nil
}

func (r *MemoryCatalogRepo) Remove(ctx context.Context, kind models.CatalogKind, id string) error {
	const op = "repository.MemoryCatalogRepo.Remove"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.items[kind]
	for i, item := range list {
		if item.ItemID() == id {
			r.items[kind] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
}

func (r *MemoryCatalogRepo) Get(ctx context.Context, kind models.CatalogKind, id string) (models.CatalogItem, error) {
	const op = "repository.MemoryCatalogRepo.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items[kind] {
		if item.ItemID() == id {
			return item, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
}

func (r *MemoryCatalogRepo) List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogItem, error) {
	const op = "repository.MemoryCatalogRepo.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CatalogItem, len(r.items[kind]))
	copy(out, r.items[kind])
	return out, nil
}
