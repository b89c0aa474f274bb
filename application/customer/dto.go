package customer

import "time"

// AddressRequest 地址入参
type AddressRequest struct {
	Street string `json:"street"`
	Number int    `json:"number"`
	Zip    string `json:"zip"`
	City   string `json:"city"`
}

// RegisterCustomerRequest 注册客户入参；ID 为空时自动生成
type RegisterCustomerRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Address *AddressRequest `json:"address,omitempty"`
}

// RenameCustomerRequest 修改客户名称入参
type RenameCustomerRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
}

// ChangeAddressRequest 修改客户地址入参
type ChangeAddressRequest struct {
	CustomerID string         `json:"customer_id"`
	Address    AddressRequest `json:"address"`
}

// CustomerResponse 客户返回模型
type CustomerResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Address      *AddressResponse `json:"address,omitempty"`
	Active       bool             `json:"active"`
	RewardPoints int              `json:"reward_points"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// AddressResponse 地址返回模型
type AddressResponse struct {
	Street string `json:"street"`
	Number int    `json:"number"`
	Zip    string `json:"zip"`
	City   string `json:"city"`
}
