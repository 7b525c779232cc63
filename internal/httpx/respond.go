// Package httpx holds the JSON helpers shared by every handler.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"rideconnect/internal/domain"
)

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k domain.Kind) int {
	switch k {
	case domain.KindUnauthenticated, domain.KindInvalidCredentials:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindInvalidOperation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders a classified error; anything else is logged and
// answered with a generic 500.
func WriteError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		WriteJSON(w, StatusOf(de.Kind), ErrorBody{Error: string(de.Kind), Detail: de.Detail})
		return
	}
	log.Errorw("request failed", "err", err)
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal", Detail: "internal error"})
}

// DecodeJSON decodes the request body into v. An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return domain.InvalidOperation("invalid body")
	}
	return nil
}

// QueryInt reads a positive integer query parameter, falling back to def.
func QueryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func Message(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": msg})
}
