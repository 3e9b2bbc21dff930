package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-marketplace/internal/access"
	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/ariefcatur/go-marketplace/internal/identity"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	sidKey ctxKey = iota
	principalKey
)

// RequestLogger logs every request once on completion. The request-scoped
// logger is put on the context so handlers and later middleware can enrich it.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := l.WithContext(r.Context())
			next.ServeHTTP(ww, r.WithContext(ctx))
			l = *zerolog.Ctx(ctx)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			ev := l.Info()
			if status >= 500 {
				ev = l.Error()
			} else if status >= 400 {
				ev = l.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

const sidCookie = "sid"

// SessionCookie gives every browser a cart session id, issuing one on first use.
func SessionCookie(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(sidCookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					sid = c.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sidCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sidKey, sid)))
		})
	}
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(sidKey).(string)
	return sid
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// IdentityResolver resolves a bearer token; (nil, nil) means not signed in.
type IdentityResolver interface {
	Current(ctx context.Context, token string) (*identity.Identity, error)
}

// Principal is the admitted caller of a guarded route.
type Principal struct {
	Identity identity.Identity
	Roles    identity.RoleSet
}

// Scope limits listing mutations to the caller's own listings unless they are an admin.
func (p Principal) Scope() catalog.Scope {
	return catalog.Scope{SellerID: p.Identity.ID, Admin: p.Roles.Has(identity.RoleAdmin)}
}

func principal(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok
}

// Guard runs the role gate for each request to a protected route.
type Guard struct {
	Identities IdentityResolver
	Roles      identity.RoleStore
}

// Require admits callers holding any of allowed. Denied callers get 401
// (not signed in) or 403 with the redirect the client should follow.
func (g *Guard) Require(allowed ...identity.Role) func(http.Handler) http.Handler {
	set := identity.RoleSet(allowed)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			gate := access.NewGate(set, r.URL.RequestURI())
			ids := access.IdentityFunc(func(ctx context.Context) (*identity.Identity, error) {
				id, err := g.Identities.Current(ctx, token)
				if err != nil {
					zerolog.Ctx(ctx).Warn().Err(err).Msg("identity lookup")
				}
				return id, err
			})
			d := gate.Resolve(r.Context(), ids, roleLogger{g.Roles})

			switch d.State {
			case access.Admitted:
				id := gate.Identity()
				zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
					return c.Str("user_id", id.ID)
				})
				p := Principal{Identity: *id, Roles: gate.Roles()}
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
			case access.Denied:
				code, msg := http.StatusForbidden, "You do not have access to this page"
				if d.Reason == "unauthenticated" {
					code, msg = http.StatusUnauthorized, "Sign in required"
				}
				writeJSON(w, code, map[string]string{"error": msg, "redirect": d.Redirect})
			default:
				// both reads have returned, so Pending cannot happen here
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "access unresolved"})
			}
		})
	}
}

// roleLogger records failed role reads before the gate folds them into "no roles".
type roleLogger struct{ identity.RoleStore }

func (l roleLogger) Roles(ctx context.Context, userID string) (identity.RoleSet, error) {
	rs, err := l.RoleStore.Roles(ctx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("role lookup")
	}
	return rs, err
}
