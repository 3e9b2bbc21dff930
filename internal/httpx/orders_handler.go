package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-marketplace/internal/orders"
	"github.com/go-chi/chi/v5"
)

type OrderReader interface {
	Get(ctx context.Context, id string) (orders.Order, error)
}

// OrdersHandler serves recorded orders. An order appears once the indexer
// has consumed its OrderPlaced event.
type OrdersHandler struct {
	Orders OrderReader
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders/{id}", h.getOrder)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
