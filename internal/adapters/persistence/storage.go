package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderdesk/backend/internal/domain"
	"orderdesk/backend/internal/ports"
)

const (
	KeyOrders    = "orders"
	KeyCustomers = "customers"
	KeyPackages  = "packages"
)

// Storage maps each entity collection onto one key of a KeyValueStore. A
// stored value that cannot be decoded is logged and read back as empty.
type Storage struct {
	store  ports.KeyValueStore
	logger *slog.Logger
}

var _ ports.Collections = (*Storage)(nil)

func NewStorage(store ports.KeyValueStore, logger *slog.Logger) (*Storage, error) {
	if store == nil {
		return nil, errors.New("new storage: key-value store is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{store: store, logger: logger}, nil
}

func (s *Storage) Orders(ctx context.Context) ([]domain.Order, error) {
	return loadCollection[domain.Order](ctx, s, KeyOrders)
}

func (s *Storage) SetOrders(ctx context.Context, orders []domain.Order) error {
	return saveCollection(ctx, s, KeyOrders, orders)
}

func (s *Storage) Customers(ctx context.Context) ([]domain.Customer, error) {
	return loadCollection[domain.Customer](ctx, s, KeyCustomers)
}

func (s *Storage) SetCustomers(ctx context.Context, customers []domain.Customer) error {
	return saveCollection(ctx, s, KeyCustomers, customers)
}

func (s *Storage) Packages(ctx context.Context) ([]domain.Package, error) {
	return loadCollection[domain.Package](ctx, s, KeyPackages)
}

func (s *Storage) SetPackages(ctx context.Context, packages []domain.Package) error {
	return saveCollection(ctx, s, KeyPackages, packages)
}

func (s *Storage) Initialize(ctx context.Context, defaults ports.Snapshot) error {
	if defaults.Customers != nil {
		if err := initializeCollection(ctx, s, KeyCustomers, defaults.Customers); err != nil {
			return err
		}
	}
	if defaults.Packages != nil {
		if err := initializeCollection(ctx, s, KeyPackages, defaults.Packages); err != nil {
			return err
		}
	}
	if defaults.Orders != nil {
		if err := initializeCollection(ctx, s, KeyOrders, defaults.Orders); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) Close() error {
	return s.store.Close()
}

func loadCollection[T any](ctx context.Context, s *Storage, key string) ([]T, error) {
	raw, ok, err := s.store.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return []T{}, nil
	}

	tree, err := Unmarshal([]byte(raw))
	if err != nil {
		s.logger.Warn("storage_decode_failed", "collection", key, "error", err)
		return []T{}, nil
	}
	items := []T{}
	if err := Decode(tree, &items); err != nil {
		s.logger.Warn("storage_decode_failed", "collection", key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveCollection[T any](ctx context.Context, s *Storage, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	body, err := Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.SetItem(ctx, key, string(body)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func initializeCollection[T any](ctx context.Context, s *Storage, key string, items []T) error {
	raw, ok, err := s.store.GetItem(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if ok && raw != "" {
		return nil
	}
	s.logger.Info("storage_seeded", "collection", key, "count", len(items))
	return saveCollection(ctx, s, key, items)
}
