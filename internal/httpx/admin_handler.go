package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/ariefcatur/go-marketplace/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
	CountRole(ctx context.Context, role identity.Role) (int, error)
}

type ListingCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type AdminHandler struct {
	Listings *catalog.Manager
	Users    UserCounter
	Products ListingCounter
	Sellers  catalog.SellerDirectory
	Guard    *Guard
}

type analyticsResp struct {
	TotalUsers     int `json:"totalUsers"`
	TotalSellers   int `json:"totalSellers"`
	TotalBuyers    int `json:"totalBuyers"`
	ActiveListings int `json:"activeListings"`
}

type adminListing struct {
	catalog.Listing
	SellerName string `json:"sellerName"`
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.Guard.Require(identity.RoleAdmin))
		r.Get("/analytics", h.analytics)
		r.Get("/listings", h.listings)
		r.Delete("/listings/{id}", h.deleteListing)
	})
}

func (h *AdminHandler) analytics(w http.ResponseWriter, r *http.Request) {
	var out analyticsResp
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		out.TotalUsers, err = h.Users.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalSellers, err = h.Users.CountRole(ctx, identity.RoleSeller)
		return err
	})
	g.Go(func() (err error) {
		out.TotalBuyers, err = h.Users.CountRole(ctx, identity.RoleBuyer)
		return err
	})
	g.Go(func() (err error) {
		out.ActiveListings, err = h.Products.CountActive(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) listings(w http.ResponseWriter, r *http.Request) {
	ls, err := h.Listings.AllListings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids := make([]string, 0, len(ls))
	for _, l := range ls {
		ids = append(ids, l.SellerID)
	}
	names, err := h.Sellers.DisplayNames(r.Context(), ids)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("seller names unavailable")
	}

	out := make([]adminListing, 0, len(ls))
	for _, l := range ls {
		name := names[l.SellerID]
		if name == "" {
			name = catalog.UnknownSeller
		}
		out = append(out, adminListing{Listing: l, SellerName: name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": out, "count": len(out)})
}

func (h *AdminHandler) deleteListing(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)
	if err := h.Listings.Delete(r.Context(), chi.URLParam(r, "id"), traceID(r), p.Scope()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
