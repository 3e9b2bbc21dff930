package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-marketplace/internal/cart"
	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/ariefcatur/go-marketplace/internal/identity"
	"github.com/ariefcatur/go-marketplace/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	products []catalog.Product
	err      error
}

func (f *fakeFetcher) FetchActiveProducts(context.Context) ([]catalog.Product, error) {
	return f.products, f.err
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]cart.Cart
}

func (m *memCarts) Load(_ context.Context, sid string) (cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[sid], nil
}

func (m *memCarts) Update(_ context.Context, sid string, fn func(*cart.Cart) error) (cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.carts[sid]
	c.Items = append([]cart.Item(nil), c.Items...)
	if err := fn(&c); err != nil {
		return cart.Cart{}, err
	}
	m.carts[sid] = c
	return c, nil
}

type fakeAuth struct {
	tokens map[string]identity.Identity
	err    error
}

func (f *fakeAuth) Current(_ context.Context, token string) (*identity.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (f *fakeAuth) SignUp(_ context.Context, d identity.SignUpDetails) (identity.Session, error) {
	for _, id := range f.tokens {
		if id.Email == d.Email {
			return identity.Session{}, &identity.AuthError{Message: identity.MsgEmailTaken, Err: identity.ErrEmailTaken}
		}
	}
	id := identity.Identity{ID: "new-user", Email: d.Email, DisplayName: d.DisplayName}
	f.tokens["tok-new"] = id
	return identity.Session{Token: "tok-new", Identity: id}, nil
}

func (f *fakeAuth) SignIn(_ context.Context, c identity.Credentials) (identity.Session, error) {
	for tok, id := range f.tokens {
		if id.Email == c.Email && c.Password == "correct-horse" {
			return identity.Session{Token: tok, Identity: id}, nil
		}
	}
	return identity.Session{}, &identity.AuthError{Message: identity.MsgInvalidCredentials}
}

func (f *fakeAuth) SignOut(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, uid string, u identity.ProfileUpdate) (identity.Identity, error) {
	name := strings.TrimSpace(u.DisplayName)
	if name == "" {
		return identity.Identity{}, &validate.ValidationError{Fields: map[string]string{"displayName": "Display name is required"}}
	}
	var out identity.Identity
	found := false
	for tok, id := range f.tokens {
		if id.ID == uid {
			id.DisplayName = name
			f.tokens[tok] = id
			out, found = id, true
		}
	}
	if !found {
		return identity.Identity{}, identity.ErrNotFound
	}
	return out, nil
}

type fakeRoles struct {
	roles map[string]identity.RoleSet
	err   error
}

func (f *fakeRoles) Roles(_ context.Context, uid string) (identity.RoleSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[uid], nil
}

type memListings struct {
	mu   sync.Mutex
	rows map[string]catalog.Listing
	seq  int
}

func (m *memListings) ListAll(context.Context) ([]catalog.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]catalog.Listing, 0, len(m.rows))
	for _, l := range m.rows {
		out = append(out, l)
	}
	return out, nil
}

func (m *memListings) ListBySeller(_ context.Context, sellerID string) ([]catalog.Listing, error) {
	all, _ := m.ListAll(context.Background())
	var out []catalog.Listing
	for _, l := range all {
		if l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memListings) Get(_ context.Context, id string) (catalog.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return catalog.Listing{}, catalog.ErrNotFound
	}
	return l, nil
}

func (m *memListings) Create(_ context.Context, l catalog.Listing) (catalog.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.ID = "l" + string(rune('0'+m.seq))
	l.Active = true
	l.CreatedAt = time.Date(2026, 1, m.seq, 0, 0, 0, 0, time.UTC)
	m.rows[l.ID] = l
	return l, nil
}

func (m *memListings) inScope(id string, sc catalog.Scope) (catalog.Listing, error) {
	l, ok := m.rows[id]
	if !ok || (!sc.Admin && l.SellerID != sc.SellerID) {
		return catalog.Listing{}, catalog.ErrNotFound
	}
	return l, nil
}

func (m *memListings) Update(_ context.Context, l catalog.Listing, sc catalog.Scope) (catalog.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.inScope(l.ID, sc); err != nil {
		return catalog.Listing{}, err
	}
	m.rows[l.ID] = l
	return l, nil
}

func (m *memListings) SetActive(_ context.Context, id string, active bool, sc catalog.Scope) (catalog.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, err := m.inScope(id, sc)
	if err != nil {
		return catalog.Listing{}, err
	}
	l.Active = active
	m.rows[id] = l
	return l, nil
}

func (m *memListings) Delete(_ context.Context, id string, sc catalog.Scope) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, err := m.inScope(id, sc)
	if err != nil {
		return "", err
	}
	delete(m.rows, id)
	return l.SellerID, nil
}

func (m *memListings) CountActive(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.rows {
		if l.Active {
			n++
		}
	}
	return n, nil
}

type staticNames map[string]string

func (s staticNames) DisplayNames(context.Context, []string) (map[string]string, error) {
	return s, nil
}

type fakeCounts struct {
	users int
	roles map[identity.Role]int
	err   error
}

func (f *fakeCounts) CountUsers(context.Context) (int, error) { return f.users, f.err }

func (f *fakeCounts) CountRole(_ context.Context, r identity.Role) (int, error) {
	return f.roles[r], f.err
}

type recorder struct {
	mu   sync.Mutex
	msgs int
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msgs
}

func (r *recorder) Publish(_, _ []byte, _ ...kafka.Header) {
	r.mu.Lock()
	r.msgs++
	r.mu.Unlock()
}

var errStore = errors.New("store unavailable")

// env wires every handler against in-memory fakes.
type env struct {
	router   *chi.Mux
	fetcher  *fakeFetcher
	carts    *memCarts
	auth     *fakeAuth
	roles    *fakeRoles
	listings *memListings
	counts   *fakeCounts
	events   *recorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		fetcher: &fakeFetcher{},
		carts:   &memCarts{carts: map[string]cart.Cart{}},
		auth: &fakeAuth{tokens: map[string]identity.Identity{
			"tok-seller": {ID: "seller-1", Email: "seller@example.com", DisplayName: "Sam Seller"},
			"tok-buyer":  {ID: "buyer-1", Email: "buyer@example.com", DisplayName: "Bea Buyer"},
			"tok-admin":  {ID: "admin-1", Email: "admin@example.com", DisplayName: "Ada Admin"},
		}},
		roles: &fakeRoles{roles: map[string]identity.RoleSet{
			"seller-1": {identity.RoleSeller, identity.RoleBuyer},
			"buyer-1":  {identity.RoleBuyer},
			"admin-1":  {identity.RoleAdmin},
		}},
		listings: &memListings{rows: map[string]catalog.Listing{}},
		counts:   &fakeCounts{users: 3, roles: map[identity.Role]int{identity.RoleSeller: 1, identity.RoleBuyer: 2}},
		events:   &recorder{},
	}

	log := zerolog.Nop()
	svc := &catalog.Service{Remote: e.fetcher, Fallback: catalog.FallbackProducts(), Log: log}
	manager := &catalog.Manager{Store: e.listings, Events: e.events, Producer: "test", Log: log}
	guard := &Guard{Identities: e.auth, Roles: e.roles}

	r := NewRouter(log)
	(&CatalogHandler{Catalog: svc}).Register(r)
	(&AuthHandler{Auth: e.auth, Roles: e.roles}).Register(r)
	r.Group(func(r chi.Router) {
		r.Use(SessionCookie(time.Hour))
		(&CartHandler{
			Carts:    e.carts,
			Products: svc,
			Pricing:  cart.DefaultPricing(),
			Checkout: &cart.Checkout{Carts: e.carts, Pricing: cart.DefaultPricing(), Events: e.events, Producer: "test", Log: log},
		}).Register(r)
	})
	(&SellerHandler{Listings: manager, Guard: guard}).Register(r)
	(&AdminHandler{Listings: manager, Users: e.counts, Products: e.listings, Sellers: staticNames{"seller-1": "Sam Seller"}, Guard: guard}).Register(r)
	e.router = r
	return e
}

type call struct {
	method, path, token string
	body                any
	cookies             []*http.Cookie
}

func (e *env) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
