package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-marketplace/internal/cart"
	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/go-chi/chi/v5"
)

// ProductLookup finds a product in whichever source the storefront is showing.
type ProductLookup interface {
	Product(ctx context.Context, id string) (catalog.Product, []catalog.Product, string, error)
}

type CartHandler struct {
	Carts    cart.Sessions
	Products ProductLookup
	Pricing  cart.Pricing
	Checkout *cart.Checkout
}

type cartResp struct {
	Items   []cart.Item  `json:"items"`
	Summary cart.Summary `json:"summary"`
}

type addItemReq struct {
	ProductID string `json:"productId"`
}

type setQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.get)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{id}", h.setQuantity)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Delete("/cart", h.clear)
	r.Post("/checkout", h.checkout)
}

func (h *CartHandler) respond(w http.ResponseWriter, c cart.Cart) {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	writeJSON(w, http.StatusOK, cartResp{Items: items, Summary: h.Pricing.Summarize(c)})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Load(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, c)
}

func (h *CartHandler) update(w http.ResponseWriter, r *http.Request, fn func(*cart.Cart)) {
	c, err := h.Carts.Update(r.Context(), sessionID(r), func(c *cart.Cart) error {
		fn(c)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, c)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing productId"})
		return
	}
	p, _, _, err := h.Products.Product(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.update(w, r, func(c *cart.Cart) { c.AddItem(p) })
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityReq
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	h.update(w, r, func(c *cart.Cart) { c.SetQuantity(id, req.Quantity) })
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.update(w, r, func(c *cart.Cart) { c.RemoveItem(id) })
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(c *cart.Cart) { c.Clear() })
}

func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var d cart.Details
	if !decodeJSON(w, r, &d) {
		return
	}
	rec, err := h.Checkout.PlaceOrder(r.Context(), sessionID(r), traceID(r), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
