package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdesk/backend/internal/adapters/persistence"
	"orderdesk/backend/internal/httpapi"
)

var (
	runServer          = run
	makeRouter         = httpapi.NewRouter
	loadRuntimeConfig  = httpapi.LoadRuntimeConfigFromEnv
	newLogger          = jsonLogger
	exitProcess        = os.Exit
	signalNotify       = signal.Notify
	signalStop         = signal.Stop
	newShutdownContext = context.WithTimeout
)

const shutdownTimeout = 30 * time.Second

func main() {
	runtimeConfig, err := loadRuntimeConfig()
	if err != nil {
		newLogger(slog.LevelInfo).Error("runtime_config_failed", "error", err)
		exitProcess(1)
		return
	}

	logger := newLogger(runtimeConfig.LogLevel)
	logStartupWarnings(runtimeConfig, logger)

	router, err := makeRouter(runtimeConfig, logger)
	if err != nil {
		logger.Error("router_init_failed", "error", err)
		exitProcess(1)
		return
	}

	err = runServer(runtimeConfig.Addr, router, func(server *http.Server, listener net.Listener) error {
		return server.Serve(listener)
	}, logger)
	if err != nil {
		logger.Error("server_failed", "error", err)
		exitProcess(1)
		return
	}
}

func jsonLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func logStartupWarnings(runtimeConfig httpapi.RuntimeConfig, logger *slog.Logger) {
	if logger == nil || !runtimeConfig.Mode.IsDevelopment() {
		return
	}

	logger.Warn("development_mode_enabled",
		"cors_any_origin", runtimeConfig.AllowAnyCORSOrigin,
		"hint", "do not expose development mode to untrusted networks",
	)
	if runtimeConfig.Storage == persistence.BackendMemory {
		logger.Warn("volatile_storage", "hint", "records are lost when the process exits")
	}
}

func run(addr string, handler http.Handler, start func(*http.Server, net.Listener) error, logger *slog.Logger) error {
	if start == nil {
		return fmt.Errorf("start function is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Leaves room for the simulated backend latency on top of slow clients.
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer func() {
		_ = listener.Close()
	}()

	logger.Info("server_listening", "addr", listener.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		if startErr := start(server, listener); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			serveErr <- startErr
			return
		}
		serveErr <- nil
	}()

	quit := make(chan os.Signal, 1)
	signalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signalStop(quit)

	select {
	case err = <-serveErr:
		return err
	case shutdownSignal := <-quit:
		logger.Info("shutdown_signal_received", "signal", shutdownSignal.String())
	}

	ctx, cancel := newShutdownContext(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("server_forced_shutdown", "error", err)
	} else {
		logger.Info("server_exited")
	}

	if err := closeResources(handler); err != nil {
		logger.Error("resource_cleanup_failed", "error", err)
	} else {
		logger.Info("resource_cleanup_completed")
	}

	select {
	case err = <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Warn("server_goroutine_timeout", "error", ctx.Err())
	}

	return nil
}

type closer interface {
	Close() error
}

func closeResources(handler http.Handler) error {
	if handler == nil {
		return nil
	}

	resourceCloser, ok := handler.(closer)
	if !ok {
		return nil
	}

	return resourceCloser.Close()
}
