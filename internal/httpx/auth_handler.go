package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-marketplace/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Authenticator is the account side of the identity service.
type Authenticator interface {
	IdentityResolver
	SignUp(ctx context.Context, d identity.SignUpDetails) (identity.Session, error)
	SignIn(ctx context.Context, c identity.Credentials) (identity.Session, error)
	SignOut(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID string, u identity.ProfileUpdate) (identity.Identity, error)
}

type AuthHandler struct {
	Auth  Authenticator
	Roles identity.RoleStore
}

type meResp struct {
	Identity identity.Identity `json:"identity"`
	Roles    identity.RoleSet  `json:"roles"`
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/signup", h.signUp)
	r.Post("/auth/signin", h.signIn)
	r.Post("/auth/signout", h.signOut)
	r.Get("/me", h.me)
	r.Put("/me", h.updateMe)
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var d identity.SignUpDetails
	if !decodeJSON(w, r, &d) {
		return
	}
	s, err := h.Auth.SignUp(r.Context(), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var c identity.Credentials
	if !decodeJSON(w, r, &c) {
		return
	}
	s, err := h.Auth.SignIn(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.SignOut(r.Context(), bearerToken(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// caller resolves the bearer token, writing a response when there is no
// signed-in identity.
func (h *AuthHandler) caller(w http.ResponseWriter, r *http.Request) *identity.Identity {
	id, err := h.Auth.Current(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, r, err)
		return nil
	}
	if id == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Sign in required"})
	}
	return id
}

// me reports the caller and their roles. A failed role read yields no roles.
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	id := h.caller(w, r)
	if id == nil {
		return
	}
	h.writeMe(w, r, *id)
}

func (h *AuthHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	id := h.caller(w, r)
	if id == nil {
		return
	}
	var u identity.ProfileUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	updated, err := h.Auth.UpdateProfile(r.Context(), id.ID, u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeMe(w, r, updated)
}

func (h *AuthHandler) writeMe(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	roles, err := h.Roles.Roles(r.Context(), id.ID)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("user_id", id.ID).Msg("role lookup")
		roles = nil
	}
	if roles == nil {
		roles = identity.RoleSet{}
	}
	writeJSON(w, http.StatusOK, meResp{Identity: id, Roles: roles})
}
