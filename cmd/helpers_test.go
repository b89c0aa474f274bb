package cmd

import customerapp "ddd-shop/application/customer"

func customerRequest(id string) customerapp.RegisterCustomerRequest {
	return customerapp.RegisterCustomerRequest{ID: id, Name: "Customer " + id}
}
