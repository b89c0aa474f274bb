package product

import "time"

// CreateProductRequest 创建商品入参；ID 为空时自动生成
type CreateProductRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ChangePriceRequest 修改单个商品价格
type ChangePriceRequest struct {
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
}

// ProductResponse 商品返回模型
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
