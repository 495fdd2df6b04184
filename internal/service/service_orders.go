package service

import (
	"context"

	"orderdesk/backend/internal/domain"
)

func matchOrder(order domain.Order, needle string) bool {
	return containsFold(needle, order.ID, order.CustomerID, order.PackageID, string(order.Status))
}

func matchOrderWithDetails(order domain.OrderWithDetails, needle string) bool {
	if matchOrder(order.Order, needle) {
		return true
	}
	if order.Customer != nil && containsFold(needle, order.Customer.Name, order.Customer.Email) {
		return true
	}
	return order.Package != nil && containsFold(needle, order.Package.Name)
}

func (s *Service) ListOrders(ctx context.Context, params ListParams) Result[[]domain.Order] {
	end := s.begin(collectionOrders)
	defer end()

	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return fail[[]domain.Order](s.serverFailure("list_orders", err))
	}
	return listResult(orders, params, matchOrder)
}

// ListOrdersWithDetails joins every order with its customer and package. A
// reference that no longer resolves leaves the detail nil.
func (s *Service) ListOrdersWithDetails(ctx context.Context, params ListParams) Result[[]domain.OrderWithDetails] {
	end := s.begin(collectionCustomers, collectionPackages, collectionOrders)
	defer end()

	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[[]domain.OrderWithDetails](s.serverFailure("list_orders_with_details", err))
	}
	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return fail[[]domain.OrderWithDetails](s.serverFailure("list_orders_with_details", err))
	}
	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return fail[[]domain.OrderWithDetails](s.serverFailure("list_orders_with_details", err))
	}

	return listResult(domain.WithOrderDetails(orders, customers, packages), params, matchOrderWithDetails)
}

func (s *Service) GetOrder(ctx context.Context, id string) Result[domain.Order] {
	end := s.begin(collectionOrders)
	defer end()

	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return fail[domain.Order](s.serverFailure("get_order", err))
	}
	index := findByID(orders, id, orderID)
	if index < 0 {
		return notFound[domain.Order]("Order not found")
	}
	return succeed(orders[index])
}

func (s *Service) CreateOrder(ctx context.Context, input domain.OrderInput) Result[domain.Order] {
	end := s.begin(collectionCustomers, collectionPackages, collectionOrders)
	defer end()

	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[domain.Order](s.serverFailure("create_order", err))
	}
	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return fail[domain.Order](s.serverFailure("create_order", err))
	}

	pkg, errs := resolveOrderRefs(input.CustomerID, input.PackageID, customers, packages)
	amount, amountErrs := orderAmount(input.Amount, pkg)
	errs = append(errs, amountErrs...)
	errs = append(errs, validateStatus(input.Status)...)
	if len(errs) > 0 {
		return invalid[domain.Order](errs...)
	}

	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return fail[domain.Order](s.serverFailure("create_order", err))
	}

	now := s.now()
	order := domain.Order{
		ID:         s.newID(now),
		CustomerID: input.CustomerID,
		PackageID:  input.PackageID,
		Amount:     amount,
		Status:     input.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.collections.SetOrders(ctx, append(orders, order)); err != nil {
		return fail[domain.Order](s.serverFailure("create_order", err))
	}

	s.telemetry.Record("order.created", map[string]string{"order_id": order.ID})
	return succeed(order)
}

// UpdateOrder merges patch into the stored order. Changing the package
// without an amount takes the new package's price.
func (s *Service) UpdateOrder(ctx context.Context, id string, patch domain.OrderPatch) Result[domain.Order] {
	end := s.begin(collectionCustomers, collectionPackages, collectionOrders)
	defer end()

	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return fail[domain.Order](s.serverFailure("update_order", err))
	}
	index := findByID(orders, id, orderID)
	if index < 0 {
		return notFound[domain.Order]("Order not found")
	}
	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return fail[domain.Order](s.serverFailure("update_order", err))
	}
	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return fail[domain.Order](s.serverFailure("update_order", err))
	}

	order := orders[index]
	if patch.CustomerID != nil {
		order.CustomerID = *patch.CustomerID
	}
	packageChanged := patch.PackageID != nil && *patch.PackageID != order.PackageID
	if patch.PackageID != nil {
		order.PackageID = *patch.PackageID
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}

	var errs []domain.FieldError
	if patch.CustomerID != nil || patch.PackageID != nil {
		pkg, refErrs := resolveOrderRefs(order.CustomerID, order.PackageID, customers, packages)
		errs = append(errs, onlyFields(refErrs, patch.CustomerID != nil, patch.PackageID != nil)...)
		if packageChanged && patch.Amount == nil && pkg != nil {
			order.Amount = pkg.Price
		}
	}
	if patch.Amount != nil {
		amount, amountErrs := orderAmount(*patch.Amount, nil)
		errs = append(errs, amountErrs...)
		order.Amount = amount
	}
	if patch.Status != nil {
		errs = append(errs, validateStatus(order.Status)...)
	}
	if len(errs) > 0 {
		return invalid[domain.Order](errs...)
	}

	order.UpdatedAt = s.now()
	orders[index] = order
	if err := s.collections.SetOrders(ctx, orders); err != nil {
		return fail[domain.Order](s.serverFailure("update_order", err))
	}

	s.telemetry.Record("order.updated", map[string]string{"order_id": order.ID})
	return succeed(order)
}

func (s *Service) DeleteOrder(ctx context.Context, id string) Result[struct{}] {
	end := s.begin(collectionOrders)
	defer end()

	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return fail[struct{}](s.serverFailure("delete_order", err))
	}
	index := findByID(orders, id, orderID)
	if index < 0 {
		return notFound[struct{}]("Order not found")
	}

	remaining := append(orders[:index:index], orders[index+1:]...)
	if err := s.collections.SetOrders(ctx, remaining); err != nil {
		return fail[struct{}](s.serverFailure("delete_order", err))
	}

	s.telemetry.Record("order.deleted", map[string]string{"order_id": id})
	return succeed(struct{}{})
}

// onlyFields keeps the reference errors for the fields a patch actually sets.
func onlyFields(errs []domain.FieldError, customer, pkg bool) []domain.FieldError {
	kept := make([]domain.FieldError, 0, len(errs))
	for _, fieldErr := range errs {
		if (fieldErr.Field == fieldCustomerID && customer) || (fieldErr.Field == fieldPackageID && pkg) {
			kept = append(kept, fieldErr)
		}
	}
	return kept
}
