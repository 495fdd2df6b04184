package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orderdesk/backend/internal/adapters/impexp"
	"orderdesk/backend/internal/adapters/persistence"
	"orderdesk/backend/internal/adapters/telemetry"
	"orderdesk/backend/internal/ports"
	"orderdesk/backend/internal/seed"
	"orderdesk/backend/internal/service"
)

const (
	maxJSONBodyBytes int64 = 1 << 20
	headerRequestID        = "X-Request-ID"
)

// RequestObserver receives the outcome of every routed request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

type Dependencies struct {
	Service *service.Service
	Logger  *slog.Logger
	// Observer and Metrics are optional.
	Observer RequestObserver
	Metrics  http.Handler
	Cleanup  func() error
}

type API struct {
	service  *service.Service
	logger   *slog.Logger
	observer RequestObserver
	cors     corsPolicy
	router   *mux.Router

	cleanup   func() error
	closeOnce sync.Once
	closeErr  error
}

// NewRouter wires storage, seed data, telemetry, and the data service from
// config and returns the HTTP handler serving them.
func NewRouter(config RuntimeConfig, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := persistence.OpenStore(config.Storage, config.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", config.Storage, err)
	}
	storage, err := persistence.NewStorage(store, logger)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	if config.Seed {
		defaults, err := seed.Load(config.SeedFile)
		if err != nil {
			return nil, errors.Join(err, storage.Close())
		}
		if err := storage.Initialize(context.Background(), defaults); err != nil {
			return nil, errors.Join(fmt.Errorf("initialize storage: %w", err), storage.Close())
		}
	}

	importer, err := impexp.NewSnapshotImportExport(storage)
	if err != nil {
		return nil, errors.Join(err, storage.Close())
	}

	var (
		recorder ports.Telemetry = telemetry.NewNoopTelemetry()
		observer RequestObserver
		metrics  http.Handler
	)
	if config.Telemetry == TelemetryPrometheus {
		collector := telemetry.NewPrometheusTelemetry()
		registry := prometheus.NewRegistry()
		if err := registry.Register(collector); err != nil {
			return nil, errors.Join(fmt.Errorf("register metrics: %w", err), storage.Close())
		}
		recorder, observer = collector, collector
		metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	svc, err := service.New(storage, recorder, importer,
		service.WithLatency(config.Latency),
		service.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.Join(err, storage.Close())
	}

	return NewRouterWithDependencies(config, Dependencies{
		Service:  svc,
		Logger:   logger,
		Observer: observer,
		Metrics:  metrics,
		Cleanup:  storage.Close,
	}), nil
}

func NewRouterWithDependencies(config RuntimeConfig, deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	api := &API{
		service:  deps.Service,
		logger:   logger,
		observer: deps.Observer,
		cors:     newCORSPolicy(config),
		cleanup:  deps.Cleanup,
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(routeNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	router.Use(api.observe)

	router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/dashboard", api.handleDashboard).Methods(http.MethodGet)
	apiRouter.HandleFunc("/export", api.handleExport).Methods(http.MethodGet)
	apiRouter.HandleFunc("/import", api.handleImport).Methods(http.MethodPost)

	apiRouter.HandleFunc("/orders", api.handleListOrders).Methods(http.MethodGet)
	apiRouter.HandleFunc("/orders", api.handleCreateOrder).Methods(http.MethodPost)
	apiRouter.HandleFunc("/orders/{id}", api.handleGetOrder).Methods(http.MethodGet)
	apiRouter.HandleFunc("/orders/{id}", api.handleUpdateOrder).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/orders/{id}", api.handleDeleteOrder).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/customers", api.handleListCustomers).Methods(http.MethodGet)
	apiRouter.HandleFunc("/customers", api.handleCreateCustomer).Methods(http.MethodPost)
	apiRouter.HandleFunc("/customers/{id}", api.handleGetCustomer).Methods(http.MethodGet)
	apiRouter.HandleFunc("/customers/{id}", api.handleUpdateCustomer).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/customers/{id}", api.handleDeleteCustomer).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/packages", api.handleListPackages).Methods(http.MethodGet)
	apiRouter.HandleFunc("/packages", api.handleCreatePackage).Methods(http.MethodPost)
	apiRouter.HandleFunc("/packages/{id}", api.handleGetPackage).Methods(http.MethodGet)
	apiRouter.HandleFunc("/packages/{id}", api.handleUpdatePackage).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/packages/{id}", api.handleDeletePackage).Methods(http.MethodDelete)

	api.router = router
	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(headerRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		r.Header.Set(headerRequestID, requestID)
	}
	w.Header().Set(headerRequestID, requestID)

	setCORS(w, r, a.cors)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	a.router.ServeHTTP(w, r)
}

// Close releases the storage backend. Only the first call does any work.
func (a *API) Close() error {
	a.closeOnce.Do(func() {
		if a.cleanup != nil {
			a.closeErr = a.cleanup()
		}
	})
	return a.closeErr
}

func (a *API) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(started)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		if a.observer != nil {
			a.observer.ObserveRequest(r.Method, route, recorder.status, elapsed)
		}
		a.logger.Debug("http_request",
			"request_id", r.Header.Get(headerRequestID),
			"method", r.Method,
			"route", route,
			"status", recorder.status,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
