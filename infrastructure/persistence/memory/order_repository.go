package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"ddd-shop/domain/order"
	"ddd-shop/domain/shared"
)

// OrderRepository 订单仓储
// 订单与订单项作为一个整体保存，Update 整体替换订单项
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.orders[o.ID()]; exists {
		return shared.NewConflictError("order", "order already exists: "+o.ID())
	}
	r.store.orders[o.ID()] = o.ToDTO()
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, exists := r.store.orders[o.ID()]
	if !exists {
		return order.NewOrderNotFoundError(o.ID())
	}
	if stored.Version != o.Version() {
		return order.NewConcurrentModificationError(o.ID())
	}

	dto := o.ToDTO()
	dto.Version++
	dto.CreatedAt = stored.CreatedAt
	r.store.orders[o.ID()] = dto

	o.IncrementVersionForSave()
	return nil
}

func (r *OrderRepository) Find(ctx context.Context, id string) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, exists := r.store.orders[id]
	if !exists {
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	return r.find(ctx, func(order.ReconstructionDTO) bool { return true })
}

func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.find(ctx, func(dto order.ReconstructionDTO) bool { return dto.CustomerID == customerID })
}

func (r *OrderRepository) find(ctx context.Context, match func(order.ReconstructionDTO) bool) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	var dtos []order.ReconstructionDTO
	for dto := range maps.Values(r.store.orders) {
		if match(dto) {
			dtos = append(dtos, dto)
		}
	}
	r.store.mu.RUnlock()

	slices.SortFunc(dtos, func(a, b order.ReconstructionDTO) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})

	orders := make([]*order.Order, len(dtos))
	for i, dto := range dtos {
		orders[i] = order.RebuildFromDTO(dto)
	}
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
