package impexp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orderdesk/backend/internal/adapters/persistence"
	"orderdesk/backend/internal/domain"
	"orderdesk/backend/internal/ports"
)

// SnapshotImportExport moves all three collections in one tagged-date JSON
// document. Import replaces only the collections present in the document.
type SnapshotImportExport struct {
	collections ports.Collections
}

var _ ports.ImportExport = (*SnapshotImportExport)(nil)

func NewSnapshotImportExport(collections ports.Collections) (*SnapshotImportExport, error) {
	if collections == nil {
		return nil, errors.New("new import/export: collections is nil")
	}
	return &SnapshotImportExport{collections: collections}, nil
}

func (s *SnapshotImportExport) Export(ctx context.Context) ([]byte, error) {
	customers, err := s.collections.Customers(ctx)
	if err != nil {
		return nil, err
	}
	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.collections.Orders(ctx)
	if err != nil {
		return nil, err
	}

	return persistence.Marshal(ports.Snapshot{
		Orders:    orders,
		Customers: customers,
		Packages:  packages,
	})
}

// Import fails with domain.ErrValidation when raw is not a valid snapshot and
// writes nothing in that case. When a backend write fails part way, the
// collections already replaced are restored to their previous contents.
func (s *SnapshotImportExport) Import(ctx context.Context, raw []byte) error {
	snapshot, err := ParseSnapshot(raw)
	if err != nil {
		return err
	}

	var steps []importStep
	if snapshot.Customers != nil {
		previous, err := s.collections.Customers(ctx)
		if err != nil {
			return err
		}
		steps = append(steps, importStep{
			name:    "customers",
			apply:   func() error { return s.collections.SetCustomers(ctx, snapshot.Customers) },
			restore: func() error { return s.collections.SetCustomers(ctx, previous) },
		})
	}
	if snapshot.Packages != nil {
		previous, err := s.collections.Packages(ctx)
		if err != nil {
			return err
		}
		steps = append(steps, importStep{
			name:    "packages",
			apply:   func() error { return s.collections.SetPackages(ctx, snapshot.Packages) },
			restore: func() error { return s.collections.SetPackages(ctx, previous) },
		})
	}
	if snapshot.Orders != nil {
		previous, err := s.collections.Orders(ctx)
		if err != nil {
			return err
		}
		steps = append(steps, importStep{
			name:    "orders",
			apply:   func() error { return s.collections.SetOrders(ctx, snapshot.Orders) },
			restore: func() error { return s.collections.SetOrders(ctx, previous) },
		})
	}

	for i, step := range steps {
		if err := step.apply(); err != nil {
			errs := []error{fmt.Errorf("import %s: %w", step.name, err)}
			for j := i - 1; j >= 0; j-- {
				if restoreErr := steps[j].restore(); restoreErr != nil {
					errs = append(errs, fmt.Errorf("restore %s: %w", steps[j].name, restoreErr))
				}
			}
			return errors.Join(errs...)
		}
	}
	return nil
}

type importStep struct {
	name    string
	apply   func() error
	restore func() error
}

func ParseSnapshot(raw []byte) (ports.Snapshot, error) {
	tree, err := persistence.Unmarshal(raw)
	if err != nil {
		return ports.Snapshot{}, errors.Join(domain.ErrValidation, fmt.Errorf("decode snapshot: %w", err))
	}
	if _, ok := tree.(map[string]any); !ok {
		return ports.Snapshot{}, errors.Join(domain.ErrValidation, errors.New("snapshot must be a JSON object"))
	}

	var snapshot ports.Snapshot
	if err := persistence.Decode(tree, &snapshot); err != nil {
		return ports.Snapshot{}, errors.Join(domain.ErrValidation, fmt.Errorf("decode snapshot: %w", err))
	}
	if err := validateSnapshot(snapshot); err != nil {
		return ports.Snapshot{}, errors.Join(domain.ErrValidation, err)
	}
	return snapshot, nil
}

// validateSnapshot applies the rules every other write enforces: unique
// non-empty ids, valid names and emails, case-insensitive uniqueness of emails
// and package names, positive prices and amounts, and known order statuses.
func validateSnapshot(snapshot ports.Snapshot) error {
	var errs []error

	ids := map[string]struct{}{}
	emails := map[string]struct{}{}
	for i, customer := range snapshot.Customers {
		errs = append(errs, checkID("customers", i, customer.ID, ids))
		if domain.ValidateName(customer.Name) != nil {
			errs = append(errs, fmt.Errorf("customers[%d]: name is required", i))
		}
		if domain.ValidateEmail(customer.Email) != nil {
			errs = append(errs, fmt.Errorf("customers[%d]: invalid email %q", i, customer.Email))
		} else if !firstText(emails, customer.Email) {
			errs = append(errs, fmt.Errorf("customers[%d]: duplicate email %q", i, customer.Email))
		}
	}

	ids = map[string]struct{}{}
	names := map[string]struct{}{}
	for i, pkg := range snapshot.Packages {
		errs = append(errs, checkID("packages", i, pkg.ID, ids))
		if domain.ValidateName(pkg.Name) != nil {
			errs = append(errs, fmt.Errorf("packages[%d]: name is required", i))
		} else if !firstText(names, pkg.Name) {
			errs = append(errs, fmt.Errorf("packages[%d]: duplicate name %q", i, pkg.Name))
		}
		if domain.ValidatePositive(pkg.Price) != nil {
			errs = append(errs, fmt.Errorf("packages[%d]: price must be positive", i))
		}
	}

	ids = map[string]struct{}{}
	for i, order := range snapshot.Orders {
		errs = append(errs, checkID("orders", i, order.ID, ids))
		if domain.ValidateName(order.CustomerID) != nil {
			errs = append(errs, fmt.Errorf("orders[%d]: customerId is required", i))
		}
		if domain.ValidateName(order.PackageID) != nil {
			errs = append(errs, fmt.Errorf("orders[%d]: packageId is required", i))
		}
		if domain.ValidatePositive(order.Amount) != nil {
			errs = append(errs, fmt.Errorf("orders[%d]: amount must be positive", i))
		}
		if !order.Status.Valid() {
			errs = append(errs, fmt.Errorf("orders[%d]: invalid status %q", i, order.Status))
		}
	}
	return errors.Join(errs...)
}

func checkID(collection string, index int, id string, seen map[string]struct{}) error {
	if id == "" {
		return fmt.Errorf("%s[%d]: id is required", collection, index)
	}
	if _, ok := seen[id]; ok {
		return fmt.Errorf("%s[%d]: duplicate id %q", collection, index, id)
	}
	seen[id] = struct{}{}
	return nil
}

// firstText records value case-insensitively and reports whether it was new.
func firstText(seen map[string]struct{}, value string) bool {
	key := strings.ToLower(strings.TrimSpace(value))
	if _, ok := seen[key]; ok {
		return false
	}
	seen[key] = struct{}{}
	return true
}
