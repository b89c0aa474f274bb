package gormstore

import (
	"context"
	"errors"

	"ddd-shop/domain/product"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	if err := getDB(ctx, r.db).Create(po.FromProductDomain(p)).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.NewConflictError("product", "product already exists: "+p.ID())
		}
		return err
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	productPO := po.FromProductDomain(p)
	expectedVersion := p.Version()

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&po.ProductPO{}).
			Where("id = ? AND version = ?", p.ID(), expectedVersion).
			Updates(map[string]any{
				"name":       productPO.Name,
				"price":      productPO.Price,
				"version":    expectedVersion + 1,
				"updated_at": productPO.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.ProductPO{}).Where("id = ?", p.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return product.NewProductNotFoundError(p.ID())
			}
			return product.NewConcurrentModificationError(p.ID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.IncrementVersionForSave()
	return nil
}

func (r *ProductRepository) Find(ctx context.Context, id string) (*product.Product, error) {
	var productPO po.ProductPO
	result := getDB(ctx, r.db).First(&productPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, product.NewProductNotFoundError(id)
		}
		return nil, result.Error
	}
	return productPO.ToDomain(), nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*product.Product, error) {
	var productPOs []po.ProductPO
	if err := getDB(ctx, r.db).Order("created_at ASC, id ASC").Find(&productPOs).Error; err != nil {
		return nil, err
	}

	products := make([]*product.Product, len(productPOs))
	for i := range productPOs {
		products[i] = productPOs[i].ToDomain()
	}
	return products, nil
}

var _ product.Repository = (*ProductRepository)(nil)
