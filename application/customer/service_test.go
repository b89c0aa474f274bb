package customer

import (
	"context"
	"testing"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*ApplicationService, *shared.EventDispatcher) {
	t.Helper()
	store := memory.NewStore()
	dispatcher := shared.NewEventDispatcher()
	return NewApplicationService(memory.NewCustomerRepository(store), memory.NewUnitOfWorkFactory(store, dispatcher)), dispatcher
}

func recordEvents(dispatcher *shared.EventDispatcher, names ...string) *[]string {
	var received []string
	handler := shared.NewFuncHandler("recorder", func(e shared.DomainEvent) error {
		received = append(received, e.EventName())
		return nil
	})
	for _, name := range names {
		dispatcher.Register(name, handler)
	}
	return &received
}

func TestRegisterCustomer(t *testing.T) {
	svc, dispatcher := newService(t)
	received := recordEvents(dispatcher, customer.EventCreated, customer.EventAddressChanged)
	ctx := context.Background()

	resp, err := svc.RegisterCustomer(ctx, RegisterCustomerRequest{
		Name:    "Customer 1",
		Address: &AddressRequest{Street: "Street 1", Number: 1, Zip: "Zipcode 1", City: "City 1"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.Address)
	assert.Equal(t, "City 1", resp.Address.City)
	assert.Equal(t, []string{customer.EventCreated, customer.EventAddressChanged}, *received)

	got, err := svc.GetCustomer(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer 1", got.Name)
}

func TestRegisterCustomerValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, RegisterCustomerRequest{ID: "c1"})
	assert.ErrorIs(t, err, customer.ErrInvalidName)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.RegisterCustomer(ctx, RegisterCustomerRequest{ID: "c1", Name: "John", Address: &AddressRequest{Number: 1}})
	assert.ErrorIs(t, err, customer.ErrStreetRequired)

	_, err = svc.GetCustomer(ctx, "c1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestActivateRequiresAddress(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, RegisterCustomerRequest{ID: "c1", Name: "John"})
	require.NoError(t, err)

	_, err = svc.ActivateCustomer(ctx, "c1")
	assert.ErrorIs(t, err, customer.ErrAddressRequired)

	_, err = svc.ChangeAddress(ctx, ChangeAddressRequest{
		CustomerID: "c1",
		Address:    AddressRequest{Street: "Street 1", Number: 1, Zip: "Zipcode 1", City: "City 1"},
	})
	require.NoError(t, err)

	resp, err := svc.ActivateCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, resp.Active)

	resp, err = svc.DeactivateCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, resp.Active)
}

func TestRenameAndList(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, RegisterCustomerRequest{ID: "c1", Name: "John"})
	require.NoError(t, err)
	_, err = svc.RegisterCustomer(ctx, RegisterCustomerRequest{ID: "c2", Name: "Jane"})
	require.NoError(t, err)

	_, err = svc.RenameCustomer(ctx, RenameCustomerRequest{CustomerID: "c1", Name: "Johnny"})
	require.NoError(t, err)

	_, err = svc.RenameCustomer(ctx, RenameCustomerRequest{CustomerID: "c1", Name: ""})
	assert.ErrorIs(t, err, customer.ErrInvalidName)

	all, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Johnny", all[0].Name)
}
