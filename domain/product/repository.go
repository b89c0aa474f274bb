package product

import "ddd-shop/domain/shared"

// Repository 商品仓储接口
type Repository interface {
	shared.Repository[*Product]
}
