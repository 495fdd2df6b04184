package service

import (
	"context"
	"strings"

	"orderdesk/backend/internal/domain"
)

func matchCustomer(customer domain.Customer, needle string) bool {
	return containsFold(needle, customer.Name, customer.Email, customer.PhoneNumber)
}

func (s *Service) ListCustomers(ctx context.Context, params ListParams) Result[[]domain.Customer] {
	end := s.begin(collectionCustomers)
	defer end()

	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[[]domain.Customer](s.serverFailure("list_customers", err))
	}
	return listResult(customers, params, matchCustomer)
}

func (s *Service) ListCustomersWithOrderCounts(ctx context.Context, params ListParams) Result[[]domain.CustomerWithOrderCounts] {
	end := s.begin(collectionCustomers, collectionOrders)
	defer end()

	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[[]domain.CustomerWithOrderCounts](s.serverFailure("list_customers_with_order_counts", err))
	}
	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return fail[[]domain.CustomerWithOrderCounts](s.serverFailure("list_customers_with_order_counts", err))
	}

	return listResult(domain.WithOrderCounts(customers, orders), params, func(item domain.CustomerWithOrderCounts, needle string) bool {
		return matchCustomer(item.Customer, needle)
	})
}

func (s *Service) GetCustomer(ctx context.Context, id string) Result[domain.Customer] {
	end := s.begin(collectionCustomers)
	defer end()

	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[domain.Customer](s.serverFailure("get_customer", err))
	}
	index := findByID(customers, id, customerID)
	if index < 0 {
		return notFound[domain.Customer]("Customer not found")
	}
	return succeed(customers[index])
}

func (s *Service) CreateCustomer(ctx context.Context, input domain.CustomerInput) Result[domain.Customer] {
	end := s.begin(collectionCustomers)
	defer end()

	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[domain.Customer](s.serverFailure("create_customer", err))
	}
	if errs := validateCustomerInput(input, customers); len(errs) > 0 {
		return invalid[domain.Customer](errs...)
	}

	now := s.now()
	customer := domain.Customer{
		ID:          s.newID(now),
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.collections.SetCustomers(ctx, append(customers, customer)); err != nil {
		return fail[domain.Customer](s.serverFailure("create_customer", err))
	}

	s.telemetry.Record("customer.created", map[string]string{"customer_id": customer.ID})
	return succeed(customer)
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, patch domain.CustomerPatch) Result[domain.Customer] {
	end := s.begin(collectionCustomers)
	defer end()

	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[domain.Customer](s.serverFailure("update_customer", err))
	}
	index := findByID(customers, id, customerID)
	if index < 0 {
		return notFound[domain.Customer]("Customer not found")
	}
	if errs := validateCustomerPatch(id, patch, customers); len(errs) > 0 {
		return invalid[domain.Customer](errs...)
	}

	customer := customers[index]
	if patch.Name != nil {
		customer.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		customer.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.PhoneNumber != nil {
		customer.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
	}
	customer.UpdatedAt = s.now()
	customers[index] = customer

	if err := s.collections.SetCustomers(ctx, customers); err != nil {
		return fail[domain.Customer](s.serverFailure("update_customer", err))
	}

	s.telemetry.Record("customer.updated", map[string]string{"customer_id": customer.ID})
	return succeed(customer)
}

// DeleteCustomer refuses while any order references id. The reference check
// runs before the existence check, so an unknown id that orders still point
// at reports the reference violation.
func (s *Service) DeleteCustomer(ctx context.Context, id string) Result[struct{}] {
	end := s.begin(collectionCustomers, collectionOrders)
	defer end()

	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return fail[struct{}](s.serverFailure("delete_customer", err))
	}
	if domain.HasOrdersForCustomer(orders, id) {
		return invalid[struct{}](domain.FieldError{Field: fieldID, Message: "Customer has existing orders"})
	}

	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[struct{}](s.serverFailure("delete_customer", err))
	}
	index := findByID(customers, id, customerID)
	if index < 0 {
		return notFound[struct{}]("Customer not found")
	}

	remaining := append(customers[:index:index], customers[index+1:]...)
	if err := s.collections.SetCustomers(ctx, remaining); err != nil {
		return fail[struct{}](s.serverFailure("delete_customer", err))
	}

	s.telemetry.Record("customer.deleted", map[string]string{"customer_id": id})
	return succeed(struct{}{})
}
