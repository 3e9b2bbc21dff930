package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ariefcatur/go-marketplace/internal/cart"
	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/ariefcatur/go-marketplace/internal/identity"
	"github.com/ariefcatur/go-marketplace/internal/orders"
	"github.com/ariefcatur/go-marketplace/internal/validate"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.ValidationError
	var aerr *identity.AuthError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Please fix the highlighted fields", "fields": verr.Fields})
	case errors.As(err, &aerr):
		code := http.StatusUnauthorized
		if errors.Is(err, identity.ErrEmailTaken) {
			code = http.StatusConflict
		}
		writeJSON(w, code, map[string]string{"error": aerr.Message})
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, orders.ErrNotFound), errors.Is(err, identity.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, cart.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Your cart is empty"})
	case errors.Is(err, cart.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "cart was modified, please retry"})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func traceID(r *http.Request) string { return middleware.GetReqID(r.Context()) }
