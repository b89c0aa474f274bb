package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/shared"
)

type CustomerRepository struct {
	store *Store
}

func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.customers[c.ID()]; exists {
		return shared.NewConflictError("customer", "customer already exists: "+c.ID())
	}
	r.store.customers[c.ID()] = c.ToDTO()
	return nil
}

// Update 以聚合当前版本做乐观锁校验
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, exists := r.store.customers[c.ID()]
	if !exists {
		return customer.NewCustomerNotFoundError(c.ID())
	}
	if stored.Version != c.Version() {
		return customer.NewConcurrentModificationError(c.ID())
	}

	dto := c.ToDTO()
	dto.Version++
	dto.CreatedAt = stored.CreatedAt
	r.store.customers[c.ID()] = dto

	c.IncrementVersionForSave()
	return nil
}

func (r *CustomerRepository) Find(ctx context.Context, id string) (*customer.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, exists := r.store.customers[id]
	if !exists {
		return nil, customer.NewCustomerNotFoundError(id)
	}
	return customer.RebuildFromDTO(dto), nil
}

// FindAll 按创建时间、ID 排序
func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	dtos := slices.Collect(maps.Values(r.store.customers))
	r.store.mu.RUnlock()

	slices.SortFunc(dtos, func(a, b customer.ReconstructionDTO) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})

	customers := make([]*customer.Customer, len(dtos))
	for i, dto := range dtos {
		customers[i] = customer.RebuildFromDTO(dto)
	}
	return customers, nil
}

var _ customer.Repository = (*CustomerRepository)(nil)
