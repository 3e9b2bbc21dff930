package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	Catalog *catalog.Service
}

type productsResp struct {
	Items  []catalog.View `json:"items"`
	Count  int            `json:"count"`
	Source string         `json:"source"`
	Notice string         `json:"notice,omitempty"`
}

type productResp struct {
	Product catalog.View   `json:"product"`
	Related []catalog.View `json:"related"`
	Notice  string         `json:"notice,omitempty"`
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/categories", h.categories)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := h.Catalog.Browse(r.Context(), catalog.Query{
		Category:  catalog.ParseCategory(q.Get("category")),
		Condition: catalog.ParseCondition(q.Get("condition")),
		Sort:      catalog.ParseSortKey(q.Get("sort")),
	})
	writeJSON(w, http.StatusOK, productsResp{
		Items:  catalog.Views(res.Items),
		Count:  len(res.Items),
		Source: res.Source,
		Notice: res.Notice,
	})
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, related, notice, err := h.Catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productResp{Product: catalog.NewView(p), Related: catalog.Views(related), Notice: notice})
}

func (h *CatalogHandler) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]catalog.Option{
		"categories": catalog.CategoryOptions,
		"conditions": catalog.ConditionOptions,
		"sorts":      catalog.SortOptions,
	})
}
