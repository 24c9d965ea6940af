package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
)

func query(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func badParam(key, message string, extra map[string]any) *pkgerrors.Error {
	details := map[string]any{"field": key}
	for k, v := range extra {
		details[k] = v
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}

// ParseQueryInt reads an integer in [min, max], returning def when absent.
func ParseQueryInt(r *http.Request, key string, def, min, max int) (int, error) {
	raw := query(r, key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badParam(key, key+" must be a whole number", nil)
	}
	if n < min || n > max {
		return 0, badParam(key, key+" is out of range", map[string]any{"min": min, "max": max})
	}
	return n, nil
}

func RequiredQuery(r *http.Request, key string) (string, error) {
	if value := query(r, key); value != "" {
		return value, nil
	}
	return "", badParam(key, key+" is required", nil)
}

// ParseQueryUUID and ParseQueryTime return nil for an absent key.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := query(r, key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, badParam(key, "invalid "+key, nil)
	}
	return &id, nil
}

func ParseQueryTime(r *http.Request, key string) (*time.Time, error) {
	raw := query(r, key)
	if raw == "" {
		return nil, nil
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, badParam(key, "invalid "+key, map[string]any{"format": "RFC3339"})
	}
	return &at, nil
}

// URLParamUUID parses a chi path parameter such as {id}.
func URLParamUUID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil {
		return uuid.Nil, badParam(key, "invalid "+key, nil)
	}
	return id, nil
}
