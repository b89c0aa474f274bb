package product

import (
	"context"

	"ddd-shop/domain/product"
	"ddd-shop/domain/shared"

	"github.com/google/uuid"
)

// ApplicationService 商品应用服务
type ApplicationService struct {
	productRepo product.Repository
	uowFactory  shared.UnitOfWorkFactory
}

func NewApplicationService(productRepo product.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		productRepo: productRepo,
		uowFactory:  uowFactory,
	}
}

func (s *ApplicationService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	var p *product.Product
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = product.NewProduct(id, req.Name, req.Price)
		if err != nil {
			return err
		}

		if err := s.productRepo.Create(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toProductResponse(p), nil
}

func (s *ApplicationService) ChangePrice(ctx context.Context, req ChangePriceRequest) (*ProductResponse, error) {
	var p *product.Product
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.productRepo.Find(ctx, req.ProductID)
		if err != nil {
			return err
		}

		if err := p.ChangePrice(req.Price); err != nil {
			return err
		}

		if err := s.productRepo.Update(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toProductResponse(p), nil
}

// IncreaseAllPrices 所有商品按百分比调价，要么全部成功要么全部不变
func (s *ApplicationService) IncreaseAllPrices(ctx context.Context, percent float64) ([]*ProductResponse, error) {
	var products []*product.Product
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		products, err = s.productRepo.FindAll(ctx)
		if err != nil {
			return err
		}

		if err := product.IncreasePrices(products, percent); err != nil {
			return err
		}

		for _, p := range products {
			if err := s.productRepo.Update(ctx, p); err != nil {
				return err
			}
			uow.RegisterDirty(p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toProductResponses(products), nil
}

func (s *ApplicationService) GetProduct(ctx context.Context, productID string) (*ProductResponse, error) {
	p, err := s.productRepo.Find(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

func (s *ApplicationService) ListProducts(ctx context.Context) ([]*ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}
