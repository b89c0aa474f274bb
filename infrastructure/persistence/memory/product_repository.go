package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"ddd-shop/domain/product"
	"ddd-shop/domain/shared"
)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.products[p.ID()]; exists {
		return shared.NewConflictError("product", "product already exists: "+p.ID())
	}
	r.store.products[p.ID()] = p.ToDTO()
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, exists := r.store.products[p.ID()]
	if !exists {
		return product.NewProductNotFoundError(p.ID())
	}
	if stored.Version != p.Version() {
		return product.NewConcurrentModificationError(p.ID())
	}

	dto := p.ToDTO()
	dto.Version++
	dto.CreatedAt = stored.CreatedAt
	r.store.products[p.ID()] = dto

	p.IncrementVersionForSave()
	return nil
}

func (r *ProductRepository) Find(ctx context.Context, id string) (*product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, exists := r.store.products[id]
	if !exists {
		return nil, product.NewProductNotFoundError(id)
	}
	return product.RebuildFromDTO(dto), nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	dtos := slices.Collect(maps.Values(r.store.products))
	r.store.mu.RUnlock()

	slices.SortFunc(dtos, func(a, b product.ReconstructionDTO) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})

	products := make([]*product.Product, len(dtos))
	for i, dto := range dtos {
		products[i] = product.RebuildFromDTO(dto)
	}
	return products, nil
}

var _ product.Repository = (*ProductRepository)(nil)
