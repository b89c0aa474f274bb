package product

import "ddd-shop/domain/product"

func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID(),
		Name:      p.Name(),
		Price:     p.Price(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toProductResponses(products []*product.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = toProductResponse(p)
	}
	return responses
}
