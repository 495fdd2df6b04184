package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"orderdesk/backend/internal/domain"
	"orderdesk/backend/internal/ports"
)

func (s *Service) Export(ctx context.Context) Result[json.RawMessage] {
	end := s.begin(collectionCustomers, collectionPackages, collectionOrders)
	defer end()

	payload, err := s.importer.Export(ctx)
	if err != nil {
		return fail[json.RawMessage](s.serverFailure("export", err))
	}
	return succeed(json.RawMessage(payload))
}

// Import replaces the collections present in raw and reports the resulting
// counts. A payload that does not decode changes nothing.
func (s *Service) Import(ctx context.Context, raw []byte) Result[domain.Dashboard] {
	end := s.begin(collectionCustomers, collectionPackages, collectionOrders)
	defer end()

	if err := s.importer.Import(ctx, raw); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.logger.Warn("import_rejected", "error", err)
			return invalid[domain.Dashboard](domain.FieldError{Field: "payload", Message: "Invalid import payload"})
		}
		return fail[domain.Dashboard](s.serverFailure("import", err))
	}

	var snapshot ports.Snapshot
	var err error
	if snapshot.Orders, err = s.collections.Orders(ctx); err != nil {
		return fail[domain.Dashboard](s.serverFailure("import", err))
	}
	if snapshot.Customers, err = s.collections.Customers(ctx); err != nil {
		return fail[domain.Dashboard](s.serverFailure("import", err))
	}
	if snapshot.Packages, err = s.collections.Packages(ctx); err != nil {
		return fail[domain.Dashboard](s.serverFailure("import", err))
	}
	dashboard := snapshot.Counts()

	s.telemetry.Record("snapshot.imported", map[string]string{
		"orders":    strconv.Itoa(dashboard.Orders),
		"customers": strconv.Itoa(dashboard.Customers),
		"packages":  strconv.Itoa(dashboard.Packages),
	})
	return succeed(dashboard)
}
