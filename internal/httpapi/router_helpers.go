package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"orderdesk/backend/internal/domain"
	"orderdesk/backend/internal/service"
)

type corsPolicy struct {
	allowAnyOrigin bool
	allowedOrigins map[string]struct{}
	allowHeaders   string
	allowMethods   string
}

func newCORSPolicy(config RuntimeConfig) corsPolicy {
	policy := corsPolicy{
		allowAnyOrigin: config.AllowAnyCORSOrigin,
		allowedOrigins: make(map[string]struct{}, len(config.CORSAllowedOrigins)),
		allowHeaders:   "Content-Type, X-Request-ID",
		allowMethods:   "GET, POST, PATCH, DELETE, OPTIONS",
	}
	for _, origin := range config.CORSAllowedOrigins {
		policy.allowedOrigins[origin] = struct{}{}
	}
	return policy
}

func setCORS(w http.ResponseWriter, r *http.Request, policy corsPolicy) {
	if policy.allowAnyOrigin {
		w.Header().Set("Access-Control-Allow-Headers", policy.allowHeaders)
		w.Header().Set("Access-Control-Allow-Methods", policy.allowMethods)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		return
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return
	}
	if _, allowed := policy.allowedOrigins[origin]; !allowed {
		return
	}

	w.Header().Set("Access-Control-Allow-Headers", policy.allowHeaders)
	w.Header().Set("Access-Control-Allow-Methods", policy.allowMethods)
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Vary", "Origin")
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

// listParams reads page, limit, and search from the query string.
func listParams(r *http.Request) (service.ListParams, []domain.FieldError) {
	query := r.URL.Query()
	params := service.ListParams{Search: query.Get("search")}

	var errs []domain.FieldError
	for _, field := range []struct {
		name   string
		target *int
	}{{"page", &params.Page}, {"limit", &params.Limit}} {
		raw := strings.TrimSpace(query.Get(field.name))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			errs = append(errs, domain.FieldError{Field: field.name, Message: fmt.Sprintf("%s must be a non-negative integer", field.name)})
			continue
		}
		*field.target = value
	}
	return params, errs
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	return io.ReadAll(r.Body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write_json_failed", "status", status, "body_type", fmt.Sprintf("%T", body), "error", err)
	}
}

// writeResult answers with successStatus or the status matching the
// result's error type.
func writeResult[T any](w http.ResponseWriter, successStatus int, result service.Result[T]) {
	if result.Success {
		writeJSON(w, successStatus, result)
		return
	}
	writeJSON(w, statusForError(result.Error), result)
}

func writeFailure(w http.ResponseWriter, apiErr *domain.APIError) {
	writeResult(w, http.StatusOK, service.Result[struct{}]{Error: apiErr})
}

func statusForError(apiErr *domain.APIError) int {
	switch {
	case errors.Is(apiErr, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(apiErr, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(apiErr, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeDecodeError(w http.ResponseWriter, err error) {
	message := "Invalid JSON body"
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		message = fmt.Sprintf("Request body too large (max %d bytes)", maxJSONBodyBytes)
	}
	writeFailure(w, domain.NewValidationError(domain.FieldError{Field: "body", Message: message}))
}

func routeNotFound(w http.ResponseWriter, _ *http.Request) {
	writeFailure(w, domain.NewNotFoundError("Route not found"))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, service.Result[struct{}]{
		Error: domain.NewValidationError(domain.FieldError{Field: "method", Message: "Method not allowed"}),
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
