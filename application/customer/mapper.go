package customer

import "ddd-shop/domain/customer"

func toAddress(req AddressRequest) (customer.Address, error) {
	return customer.NewAddress(req.Street, req.Number, req.Zip, req.City)
}

func toCustomerResponse(c *customer.Customer) *CustomerResponse {
	resp := &CustomerResponse{
		ID:           c.ID(),
		Name:         c.Name(),
		Active:       c.IsActive(),
		RewardPoints: c.RewardPoints(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
	if c.HasAddress() {
		addr := c.Address()
		resp.Address = &AddressResponse{
			Street: addr.Street(),
			Number: addr.Number(),
			Zip:    addr.Zip(),
			City:   addr.City(),
		}
	}
	return resp
}

func toCustomerResponses(customers []*customer.Customer) []*CustomerResponse {
	responses := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = toCustomerResponse(c)
	}
	return responses
}
