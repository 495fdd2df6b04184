package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"orderdesk/backend/internal/domain"
)

// Dashboard counts the three collections, loading them concurrently.
func (s *Service) Dashboard(ctx context.Context) Result[domain.Dashboard] {
	end := s.begin(collectionCustomers, collectionPackages, collectionOrders)
	defer end()

	var dashboard domain.Dashboard
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		orders, err := s.collections.Orders(groupCtx)
		dashboard.Orders = len(orders)
		return err
	})
	group.Go(func() error {
		customers, err := s.collections.Customers(groupCtx)
		dashboard.Customers = len(customers)
		return err
	})
	group.Go(func() error {
		packages, err := s.collections.Packages(groupCtx)
		dashboard.Packages = len(packages)
		return err
	})
	if err := group.Wait(); err != nil {
		return fail[domain.Dashboard](s.serverFailure("dashboard", err))
	}

	return succeed(dashboard)
}
