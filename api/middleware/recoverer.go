package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/officesnack/snackcycle/api/responses"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
)

// Recoverer converts a panic into the standard INTERNAL_ERROR envelope. An
// http.ErrAbortHandler panic is re-raised so net/http can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer recoverInto(w, r, logg)
			next.ServeHTTP(w, r)
		})
	}
}

func recoverInto(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	value := recover()
	if value == nil {
		return
	}
	if err, ok := value.(error); ok && errors.Is(err, http.ErrAbortHandler) {
		panic(value)
	}

	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"panic": fmt.Sprint(value), "route": r.URL.Path})
	}
	cause := fmt.Errorf("recovered panic: %v", value)
	responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "handler panicked"))
}
