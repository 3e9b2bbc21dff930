package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-marketplace/internal/blob"
	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/ariefcatur/go-marketplace/internal/identity"
	"github.com/go-chi/chi/v5"
)

type SellerHandler struct {
	Listings *catalog.Manager
	Guard    *Guard
}

type sellerListingsResp struct {
	Listings []catalog.Listing   `json:"listings"`
	Stats    catalog.SellerStats `json:"stats"`
}

type listingResp struct {
	Listing catalog.Listing `json:"listing"`
	Notice  string          `json:"notice,omitempty"`
}

type setActiveReq struct {
	Active *bool `json:"active"`
}

func (h *SellerHandler) Register(r chi.Router) {
	r.Route("/seller/listings", func(r chi.Router) {
		r.Use(h.Guard.Require(identity.RoleSeller, identity.RoleAdmin))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Patch("/{id}/active", h.setActive)
	})
}

func (h *SellerHandler) list(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)
	ls, err := h.Listings.SellerListings(r.Context(), p.Identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ls == nil {
		ls = []catalog.Listing{}
	}
	writeJSON(w, http.StatusOK, sellerListingsResp{Listings: ls, Stats: catalog.Stats(ls)})
}

func (h *SellerHandler) create(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)
	in, img, ok := readListing(w, r)
	if !ok {
		return
	}
	defer closeImage(r, img)

	l, notice, err := h.Listings.Create(r.Context(), p.Identity.ID, traceID(r), in, img)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, listingResp{Listing: l, Notice: notice})
}

func (h *SellerHandler) update(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)
	in, img, ok := readListing(w, r)
	if !ok {
		return
	}
	defer closeImage(r, img)

	l, notice, err := h.Listings.Update(r.Context(), chi.URLParam(r, "id"), traceID(r), p.Scope(), in, img)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingResp{Listing: l, Notice: notice})
}

func (h *SellerHandler) setActive(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)
	var req setActiveReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Active == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing active"})
		return
	}
	l, err := h.Listings.SetActive(r.Context(), chi.URLParam(r, "id"), traceID(r), p.Scope(), *req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingResp{Listing: l})
}

func (h *SellerHandler) delete(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)
	if err := h.Listings.Delete(r.Context(), chi.URLParam(r, "id"), traceID(r), p.Scope()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readListing accepts either a JSON body or a multipart form with the JSON
// in a "data" field and an optional "image" file.
func readListing(w http.ResponseWriter, r *http.Request) (catalog.ListingInput, *catalog.Image, bool) {
	var in catalog.ListingInput
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return in, nil, decodeJSON(w, r, &in)
	}

	r.Body = http.MaxBytesReader(w, r.Body, blob.MaxImageBytes+maxJSONBody)
	if err := r.ParseMultipartForm(maxJSONBody); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form"})
		return in, nil, false
	}
	if err := json.Unmarshal([]byte(r.FormValue("data")), &in); err != nil {
		_ = r.MultipartForm.RemoveAll()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return in, nil, false
	}
	f, fh, err := r.FormFile("image")
	if err != nil {
		return in, nil, true
	}
	return in, &catalog.Image{Filename: fh.Filename, Body: f}, true
}

func closeImage(r *http.Request, img *catalog.Image) {
	if img != nil {
		if c, ok := img.Body.(io.Closer); ok {
			_ = c.Close()
		}
	}
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
