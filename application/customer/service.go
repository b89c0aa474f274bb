/*
Package customer 客户用例编排。

每个写操作在一个工作单元内完成：读取聚合、调用聚合方法、保存、登记到工作单元。
事件由工作单元在提交后分发，应用服务不直接发布事件。
*/
package customer

import (
	"context"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/shared"

	"github.com/google/uuid"
)

// ApplicationService 客户应用服务
type ApplicationService struct {
	customerRepo customer.Repository
	uowFactory   shared.UnitOfWorkFactory
}

func NewApplicationService(customerRepo customer.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		customerRepo: customerRepo,
		uowFactory:   uowFactory,
	}
}

// RegisterCustomer 注册客户，可同时设置地址
func (s *ApplicationService) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*CustomerResponse, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	var c *customer.Customer
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		c, err = customer.NewCustomer(id, req.Name)
		if err != nil {
			return err
		}

		if req.Address != nil {
			address, err := toAddress(*req.Address)
			if err != nil {
				return err
			}
			if err := c.ChangeAddress(address); err != nil {
				return err
			}
		}

		if err := s.customerRepo.Create(ctx, c); err != nil {
			return err
		}
		uow.RegisterNew(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toCustomerResponse(c), nil
}

func (s *ApplicationService) RenameCustomer(ctx context.Context, req RenameCustomerRequest) (*CustomerResponse, error) {
	return s.modify(ctx, req.CustomerID, func(c *customer.Customer) error {
		return c.ChangeName(req.Name)
	})
}

func (s *ApplicationService) ChangeAddress(ctx context.Context, req ChangeAddressRequest) (*CustomerResponse, error) {
	address, err := toAddress(req.Address)
	if err != nil {
		return nil, err
	}
	return s.modify(ctx, req.CustomerID, func(c *customer.Customer) error {
		return c.ChangeAddress(address)
	})
}

// ActivateCustomer 激活客户；没有地址时返回 customer.ErrAddressRequired
func (s *ApplicationService) ActivateCustomer(ctx context.Context, customerID string) (*CustomerResponse, error) {
	return s.modify(ctx, customerID, func(c *customer.Customer) error {
		return c.Activate()
	})
}

func (s *ApplicationService) DeactivateCustomer(ctx context.Context, customerID string) (*CustomerResponse, error) {
	return s.modify(ctx, customerID, func(c *customer.Customer) error {
		c.Deactivate()
		return nil
	})
}

// modify 读取-修改-保存，整体在一个工作单元内
func (s *ApplicationService) modify(ctx context.Context, customerID string, change func(c *customer.Customer) error) (*CustomerResponse, error) {
	var c *customer.Customer
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.customerRepo.Find(ctx, customerID)
		if err != nil {
			return err
		}

		if err := change(c); err != nil {
			return err
		}

		if err := s.customerRepo.Update(ctx, c); err != nil {
			return err
		}
		uow.RegisterDirty(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toCustomerResponse(c), nil
}

func (s *ApplicationService) GetCustomer(ctx context.Context, customerID string) (*CustomerResponse, error) {
	c, err := s.customerRepo.Find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

func (s *ApplicationService) ListCustomers(ctx context.Context) ([]*CustomerResponse, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toCustomerResponses(customers), nil
}
