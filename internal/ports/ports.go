package ports

import (
	"context"

	"orderdesk/backend/internal/domain"
)

// KeyValueStore is a textual key-value persistence layer. GetItem reports
// ok=false when nothing has been stored under key.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	Close() error
}

type Snapshot struct {
	Orders    []domain.Order    `json:"orders"`
	Customers []domain.Customer `json:"customers"`
	Packages  []domain.Package  `json:"packages"`
}

func (s Snapshot) Counts() domain.Dashboard {
	return domain.Dashboard{
		Orders:    len(s.Orders),
		Customers: len(s.Customers),
		Packages:  len(s.Packages),
	}
}

// Collections loads and stores each entity collection as a whole snapshot.
type Collections interface {
	Orders(ctx context.Context) ([]domain.Order, error)
	SetOrders(ctx context.Context, orders []domain.Order) error
	Customers(ctx context.Context) ([]domain.Customer, error)
	SetCustomers(ctx context.Context, customers []domain.Customer) error
	Packages(ctx context.Context) ([]domain.Package, error)
	SetPackages(ctx context.Context, packages []domain.Package) error
	// Initialize writes each non-nil collection of defaults only when no
	// value is stored for it yet.
	Initialize(ctx context.Context, defaults Snapshot) error
}

type Telemetry interface {
	Record(name string, attributes map[string]string)
}

type ImportExport interface {
	Import(ctx context.Context, raw []byte) error
	Export(ctx context.Context) ([]byte, error)
}
