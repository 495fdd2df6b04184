package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/backend/internal/httpapi"
)

// captureHandler forwards each record's message to a channel.
type captureHandler struct {
	messages chan string
}

func newCapture() (*slog.Logger, chan string) {
	messages := make(chan string, 64)
	return slog.New(&captureHandler{messages: messages}), messages
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, record slog.Record) error {
	select {
	case h.messages <- record.Message:
	default:
	}
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func drain(messages <-chan string) []string {
	entries := []string{}
	for {
		select {
		case entry := <-messages:
			entries = append(entries, entry)
		default:
			return entries
		}
	}
}

func waitForMessage(t *testing.T, messages <-chan string, want string) {
	t.Helper()
	timeout := time.NewTimer(2 * time.Second)
	defer timeout.Stop()
	for {
		select {
		case entry := <-messages:
			if entry == want {
				return
			}
		case <-timeout.C:
			t.Fatalf("did not observe log message %q", want)
		}
	}
}

// stubSignals replaces signal registration and returns the channel run
// registers.
func stubSignals(t *testing.T) <-chan chan<- os.Signal {
	t.Helper()
	previousNotify, previousStop := signalNotify, signalStop
	t.Cleanup(func() {
		signalNotify, signalStop = previousNotify, previousStop
	})

	registered := make(chan chan<- os.Signal, 1)
	signalNotify = func(c chan<- os.Signal, _ ...os.Signal) {
		registered <- c
	}
	signalStop = func(chan<- os.Signal) {}
	return registered
}

type testClosableHandler struct {
	http.Handler
	closeErr error
	closed   bool
}

func (h *testClosableHandler) Close() error {
	h.closed = true
	return h.closeErr
}

func TestRun(t *testing.T) {
	handler := http.NewServeMux()
	logger, messages := newCapture()
	addr := "127.0.0.1:0"

	err := run(addr, handler, func(server *http.Server, _ net.Listener) error {
		assert.Equal(t, addr, server.Addr)
		assert.Equal(t, http.Handler(handler), server.Handler)
		assert.Equal(t, 10*time.Second, server.ReadHeaderTimeout)
		assert.Equal(t, 15*time.Second, server.ReadTimeout)
		assert.Equal(t, 15*time.Second, server.WriteTimeout)
		assert.Equal(t, 60*time.Second, server.IdleTimeout)
		return nil
	}, logger)
	require.NoError(t, err)
	assert.Contains(t, drain(messages), "server_listening")

	assert.NoError(t, run(addr, handler, func(*http.Server, net.Listener) error {
		return http.ErrServerClosed
	}, nil))

	expected := errors.New("boom")
	assert.ErrorIs(t, run(addr, handler, func(*http.Server, net.Listener) error {
		return expected
	}, nil), expected)

	assert.Error(t, run(addr, handler, nil, nil))
}

func TestRunGracefulShutdownCallsCleanup(t *testing.T) {
	registered := stubSignals(t)
	startRelease := make(chan struct{})
	handler := &testClosableHandler{Handler: http.NewServeMux()}
	logger, messages := newCapture()

	runErrors := make(chan error, 1)
	go func() {
		runErrors <- run("127.0.0.1:0", handler, func(*http.Server, net.Listener) error {
			<-startRelease
			return http.ErrServerClosed
		}, logger)
	}()

	(<-registered) <- syscall.SIGTERM
	close(startRelease)

	require.NoError(t, <-runErrors)
	assert.True(t, handler.closed)
	entries := drain(messages)
	assert.Contains(t, entries, "shutdown_signal_received")
	assert.Contains(t, entries, "resource_cleanup_completed")
}

func TestRunLogsCleanupFailure(t *testing.T) {
	registered := stubSignals(t)
	startRelease := make(chan struct{})
	handler := &testClosableHandler{Handler: http.NewServeMux(), closeErr: errors.New("cleanup failed")}
	logger, messages := newCapture()

	runErrors := make(chan error, 1)
	go func() {
		runErrors <- run("127.0.0.1:0", handler, func(*http.Server, net.Listener) error {
			<-startRelease
			return nil
		}, logger)
	}()

	(<-registered) <- syscall.SIGTERM
	close(startRelease)

	require.NoError(t, <-runErrors)
	assert.Contains(t, drain(messages), "resource_cleanup_failed")
}

func TestRunLogsTimeoutWaitingForServerGoroutine(t *testing.T) {
	registered := stubSignals(t)
	previousNewShutdownContext := newShutdownContext
	t.Cleanup(func() { newShutdownContext = previousNewShutdownContext })
	newShutdownContext = func(parent context.Context, _ time.Duration) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(parent)
		cancel()
		return ctx, func() {}
	}

	startRelease := make(chan struct{})
	logger, messages := newCapture()
	runErrors := make(chan error, 1)
	go func() {
		runErrors <- run("127.0.0.1:0", http.NewServeMux(), func(*http.Server, net.Listener) error {
			<-startRelease
			return nil
		}, logger)
	}()

	(<-registered) <- syscall.SIGTERM

	require.NoError(t, <-runErrors)
	close(startRelease)
	assert.Contains(t, drain(messages), "server_goroutine_timeout")
}

func TestRunReturnsServeErrorAfterShutdownSignal(t *testing.T) {
	registered := stubSignals(t)
	startRelease := make(chan struct{})
	expected := errors.New("serve failure")
	runErrors := make(chan error, 1)
	go func() {
		runErrors <- run("127.0.0.1:0", http.NewServeMux(), func(*http.Server, net.Listener) error {
			<-startRelease
			return expected
		}, nil)
	}()

	(<-registered) <- syscall.SIGINT
	close(startRelease)

	assert.ErrorIs(t, <-runErrors, expected)
}

func TestRunDrainsInFlightRequestOnShutdown(t *testing.T) {
	registered := stubSignals(t)

	slowRequestStarted := make(chan struct{})
	releaseSlowRequest := make(chan struct{})
	router := http.NewServeMux()
	router.HandleFunc("/slow", func(w http.ResponseWriter, _ *http.Request) {
		close(slowRequestStarted)
		<-releaseSlowRequest
		_, _ = w.Write([]byte("ok"))
	})

	logger, messages := newCapture()
	runErrors := make(chan error, 1)
	listenAddr := make(chan string, 1)
	go func() {
		runErrors <- run("127.0.0.1:0", router, func(server *http.Server, listener net.Listener) error {
			listenAddr <- listener.Addr().String()
			return server.Serve(listener)
		}, logger)
	}()

	signalChannel := <-registered
	url := "http://" + <-listenAddr + "/slow"

	responses := make(chan string, 1)
	go func() {
		client := &http.Client{Timeout: 2 * time.Second}
		resp, err := client.Get(url)
		if err != nil {
			responses <- err.Error()
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		responses <- fmt.Sprintf("%d %s", resp.StatusCode, body)
	}()

	<-slowRequestStarted
	signalChannel <- syscall.SIGINT
	waitForMessage(t, messages, "shutdown_signal_received")
	close(releaseSlowRequest)

	assert.Equal(t, "200 ok", <-responses)
	require.NoError(t, <-runErrors)
}

func TestCloseResources(t *testing.T) {
	assert.NoError(t, closeResources(nil))
	assert.NoError(t, closeResources(http.NewServeMux()))

	expected := errors.New("close failed")
	handler := &testClosableHandler{Handler: http.NewServeMux(), closeErr: expected}
	assert.ErrorIs(t, closeResources(handler), expected)
	assert.True(t, handler.closed)
}

func stubMain(t *testing.T) (*int, chan string) {
	t.Helper()
	previousRunServer := runServer
	previousMakeRouter := makeRouter
	previousLoadRuntimeConfig := loadRuntimeConfig
	previousNewLogger := newLogger
	previousExitProcess := exitProcess
	t.Cleanup(func() {
		runServer = previousRunServer
		makeRouter = previousMakeRouter
		loadRuntimeConfig = previousLoadRuntimeConfig
		newLogger = previousNewLogger
		exitProcess = previousExitProcess
	})

	logger, messages := newCapture()
	newLogger = func(slog.Level) *slog.Logger { return logger }
	exitCode := -1
	exitProcess = func(code int) { exitCode = code }
	makeRouter = func(httpapi.RuntimeConfig, *slog.Logger) (http.Handler, error) {
		return http.NewServeMux(), nil
	}
	return &exitCode, messages
}

func TestMainServesOnConfiguredAddr(t *testing.T) {
	exitCode, messages := stubMain(t)
	loadRuntimeConfig = func() (httpapi.RuntimeConfig, error) {
		return httpapi.RuntimeConfig{Mode: httpapi.RuntimeModeProduction, Addr: ":8123"}, nil
	}

	runCalled := false
	runServer = func(addr string, handler http.Handler, start func(*http.Server, net.Listener) error, logger *slog.Logger) error {
		runCalled = true
		assert.Equal(t, ":8123", addr)
		assert.NotNil(t, handler)
		assert.NotNil(t, logger)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		startErr := make(chan error, 1)
		go func() {
			startErr <- start(&http.Server{}, listener)
		}()
		_ = listener.Close()
		assert.Error(t, <-startErr)
		return nil
	}

	main()
	assert.True(t, runCalled)
	assert.Equal(t, -1, *exitCode)
	assert.NotContains(t, drain(messages), "development_mode_enabled")

	runServer = func(string, http.Handler, func(*http.Server, net.Listener) error, *slog.Logger) error {
		return errors.New("boom")
	}
	main()
	assert.Equal(t, 1, *exitCode)
	assert.Contains(t, drain(messages), "server_failed")
}

func TestMainHandlesBootstrapErrors(t *testing.T) {
	exitCode, messages := stubMain(t)
	runServer = func(string, http.Handler, func(*http.Server, net.Listener) error, *slog.Logger) error {
		return nil
	}

	loadRuntimeConfig = func() (httpapi.RuntimeConfig, error) {
		return httpapi.RuntimeConfig{}, errors.New("config failed")
	}
	main()
	assert.Equal(t, 1, *exitCode)
	assert.Contains(t, drain(messages), "runtime_config_failed")

	*exitCode = -1
	loadRuntimeConfig = func() (httpapi.RuntimeConfig, error) {
		return httpapi.RuntimeConfig{Mode: httpapi.RuntimeModeProduction}, nil
	}
	makeRouter = func(httpapi.RuntimeConfig, *slog.Logger) (http.Handler, error) {
		return nil, errors.New("router failed")
	}
	main()
	assert.Equal(t, 1, *exitCode)
	assert.Contains(t, drain(messages), "router_init_failed")
}

func TestLogStartupWarnings(t *testing.T) {
	logger, messages := newCapture()

	logStartupWarnings(httpapi.RuntimeConfig{Mode: httpapi.RuntimeModeProduction, Storage: "memory"}, logger)
	assert.Empty(t, drain(messages))

	logStartupWarnings(httpapi.RuntimeConfig{Mode: httpapi.RuntimeModeDevelopment, Storage: "file"}, logger)
	assert.Equal(t, []string{"development_mode_enabled"}, drain(messages))

	logStartupWarnings(httpapi.RuntimeConfig{Mode: httpapi.RuntimeModeDevelopment, Storage: "memory"}, logger)
	assert.Equal(t, []string{"development_mode_enabled", "volatile_storage"}, drain(messages))

	logStartupWarnings(httpapi.RuntimeConfig{Mode: httpapi.RuntimeModeDevelopment}, nil)
}
