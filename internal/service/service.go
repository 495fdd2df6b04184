package service

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/im7mortal/kmutex"
	"github.com/juju/clock"
	"github.com/rs/xid"

	"orderdesk/backend/internal/ports"
)

// DefaultLatency is the artificial delay applied before every operation.
const DefaultLatency = 300 * time.Millisecond

const (
	collectionCustomers = "customers"
	collectionPackages  = "packages"
	collectionOrders    = "orders"
)

// lockOrder is the only order in which collection locks are acquired.
var lockOrder = []string{collectionCustomers, collectionPackages, collectionOrders}

type Service struct {
	collections ports.Collections
	telemetry   ports.Telemetry
	importer    ports.ImportExport
	clock       clock.Clock
	latency     time.Duration
	logger      *slog.Logger
	locks       *kmutex.Kmutex
}

type Option func(*Service)

func WithClock(clk clock.Clock) Option {
	return func(s *Service) {
		if clk != nil {
			s.clock = clk
		}
	}
}

// WithLatency overrides DefaultLatency. Zero or negative disables the wait.
func WithLatency(latency time.Duration) Option {
	return func(s *Service) {
		s.latency = latency
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(collections ports.Collections, telemetry ports.Telemetry, importer ports.ImportExport, opts ...Option) (*Service, error) {
	if collections == nil {
		return nil, fmt.Errorf("new service: collections is nil")
	}
	if telemetry == nil {
		return nil, fmt.Errorf("new service: telemetry is nil")
	}
	if importer == nil {
		return nil, fmt.Errorf("new service: import/export is nil")
	}

	s := &Service{
		collections: collections,
		telemetry:   telemetry,
		importer:    importer,
		clock:       clock.WallClock,
		latency:     DefaultLatency,
		logger:      slog.Default(),
		locks:       kmutex.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// begin waits out the latency and then locks the named collections. The wait
// cannot be interrupted.
func (s *Service) begin(collections ...string) (end func()) {
	if s.latency > 0 {
		<-s.clock.After(s.latency)
	}

	held := make([]string, 0, len(collections))
	for _, name := range lockOrder {
		if slices.Contains(collections, name) {
			s.locks.Lock(name)
			held = append(held, name)
		}
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			s.locks.Unlock(held[i])
		}
	}
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Service) newID(now time.Time) string {
	return xid.NewWithTime(now).String()
}
