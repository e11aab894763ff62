package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-formbind/internal/store"
	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formkey"
	"github.com/goliatone/go-formbind/pkg/path"
)

// statusFor maps binding, navigation and storage errors to HTTP statuses.
func statusFor(err error) int {
	var decodeErr *field.DecodeError
	switch {
	case errors.Is(err, formkey.ErrSyntax),
		errors.Is(err, binding.ErrIndexLimit),
		errors.Is(err, binding.ErrConflict),
		errors.Is(err, binding.ErrNoElement),
		errors.Is(err, field.ErrMissing),
		errors.As(err, &decodeErr):
		return http.StatusBadRequest
	case errors.Is(err, path.ErrIndexOutOfRange), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrStale):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.LogAttrs(r.Context(), slog.LevelError, "request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		message = "something went wrong"
	}
	s.errorPage(w, r, status, message)
}

func (s *Server) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.page(w, r, status, "error", map[string]any{
		"title":   http.StatusText(status),
		"status":  status,
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
