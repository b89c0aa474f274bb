/*
Package memory 进程内的仓储与工作单元实现。

数据以 ReconstructionDTO 副本保存，仓储每次返回重建后的新聚合，
调用方修改聚合不会影响存储，直到显式 Update。
工作单元通过快照实现回滚，提交后把事件写入内存 outbox 并交给分发器。
*/
package memory

import (
	"maps"
	"sync"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/order"
	"ddd-shop/domain/product"
	"ddd-shop/domain/shared"
)

// Store 所有内存仓储共享的数据
type Store struct {
	mu sync.RWMutex
	// txMu 串行化工作单元
	txMu sync.Mutex

	customers map[string]customer.ReconstructionDTO
	orders    map[string]order.ReconstructionDTO
	products  map[string]product.ReconstructionDTO
	outbox    []shared.DomainEvent
}

func NewStore() *Store {
	return &Store{
		customers: make(map[string]customer.ReconstructionDTO),
		orders:    make(map[string]order.ReconstructionDTO),
		products:  make(map[string]product.ReconstructionDTO),
	}
}

type snapshot struct {
	customers map[string]customer.ReconstructionDTO
	orders    map[string]order.ReconstructionDTO
	products  map[string]product.ReconstructionDTO
	outboxLen int
}

// 存储的 DTO 只会整体替换，浅拷贝 map 即可
func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot{
		customers: maps.Clone(s.customers),
		orders:    maps.Clone(s.orders),
		products:  maps.Clone(s.products),
		outboxLen: len(s.outbox),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers = snap.customers
	s.orders = snap.orders
	s.products = snap.products
	s.outbox = s.outbox[:snap.outboxLen]
}

func (s *Store) appendOutbox(events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(s.outbox, events...)
}

// OutboxEvents 已提交事件的副本，按提交顺序
func (s *Store) OutboxEvents() []shared.DomainEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]shared.DomainEvent, len(s.outbox))
	copy(events, s.outbox)
	return events
}
