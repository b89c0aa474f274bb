package customer

import "ddd-shop/domain/shared"

// Repository 客户仓储接口
// Find 在客户不存在时返回匹配 shared.ErrNotFound 的错误
// Update 在版本冲突时返回匹配 shared.ErrConflict 的错误
type Repository interface {
	shared.Repository[*Customer]
}
