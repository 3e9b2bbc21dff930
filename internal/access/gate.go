// Package access decides whether a caller may enter a role-guarded route.
//
// A Gate starts Pending and reaches a decision only after both the identity
// read and, for a signed-in identity, the roles read have completed. Role
// reads are tagged with the generation of the identity they were issued for;
// results arriving after the identity changed are discarded.
package access

import (
	"context"
	"net/url"
	"sync"

	"github.com/ariefcatur/go-marketplace/internal/identity"
)

type State int

const (
	Pending State = iota
	Denied
	Admitted
)

func (s State) String() string {
	switch s {
	case Denied:
		return "denied"
	case Admitted:
		return "admitted"
	default:
		return "pending"
	}
}

const (
	SignInPath = "/login"
	HomePath   = "/"
)

type Decision struct {
	State    State  `json:"state"`
	Redirect string `json:"redirect,omitempty"`
	// Reason is "unauthenticated" or "forbidden" for Denied decisions.
	Reason string `json:"reason,omitempty"`
}

// IdentitySource performs the identity read. A nil identity means the read
// completed and nobody is signed in.
type IdentitySource interface {
	CurrentIdentity(ctx context.Context) (*identity.Identity, error)
}

type IdentityFunc func(ctx context.Context) (*identity.Identity, error)

func (f IdentityFunc) CurrentIdentity(ctx context.Context) (*identity.Identity, error) { return f(ctx) }

// Ticket ties a roles read to the identity generation it was issued for.
type Ticket struct {
	gen    uint64
	UserID string
}

type Gate struct {
	allowed identity.RoleSet
	from    string

	mu               sync.Mutex
	gen              uint64
	identityResolved bool
	ident            *identity.Identity
	rolesResolved    bool
	roles            identity.RoleSet
}

// NewGate guards a route admitting any of allowed; from is the requested
// destination carried on the sign-in redirect.
func NewGate(allowed identity.RoleSet, from string) *Gate {
	return &Gate{allowed: allowed, from: from}
}

// IdentityResolved records a completed identity read (nil when signed out).
// It supersedes every earlier ticket and returns the one to use for the
// roles read of this identity.
func (g *Gate) IdentityResolved(id *identity.Identity) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.identityResolved = true
	g.ident = id
	g.rolesResolved = false
	g.roles = nil
	t := Ticket{gen: g.gen}
	if id != nil {
		t.UserID = id.ID
	}
	return t
}

// IdentityChanged returns the gate to Pending while a new identity is read.
func (g *Gate) IdentityChanged() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.identityResolved = false
	g.ident = nil
	g.rolesResolved = false
	g.roles = nil
}

// RolesResolved applies a roles read. A failed read counts as no roles.
// It reports false, leaving the gate untouched, when t is stale.
func (g *Gate) RolesResolved(t Ticket, roles identity.RoleSet, err error) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.gen != g.gen || !g.identityResolved {
		return false
	}
	if err != nil {
		roles = nil
	}
	g.rolesResolved = true
	g.roles = roles
	return true
}

func (g *Gate) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case !g.identityResolved:
		return Decision{State: Pending}
	case g.ident == nil:
		return Decision{State: Denied, Redirect: SignInRedirect(g.from), Reason: "unauthenticated"}
	case !g.rolesResolved:
		return Decision{State: Pending}
	case g.roles.Intersects(g.allowed):
		return Decision{State: Admitted}
	default:
		return Decision{State: Denied, Redirect: HomePath, Reason: "forbidden"}
	}
}

// Identity returns the resolved identity, if any.
func (g *Gate) Identity() *identity.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ident
}

// Roles returns the applied role set.
func (g *Gate) Roles() identity.RoleSet {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roles
}

// Resolve performs both reads in order and returns the final decision. A
// failed identity read is treated as signed out.
func (g *Gate) Resolve(ctx context.Context, ids IdentitySource, roles identity.RoleStore) Decision {
	id, err := ids.CurrentIdentity(ctx)
	if err != nil {
		id = nil
	}
	t := g.IdentityResolved(id)
	if id != nil {
		rs, err := roles.Roles(ctx, t.UserID)
		g.RolesResolved(t, rs, err)
	}
	return g.Decision()
}

// Follow re-resolves roles for every identity received on changes until the
// channel closes or ctx ends. Each roles read runs concurrently; only the one
// for the latest identity is applied. notify, if set, receives each decision
// change. notify calls are serialised and each one reports the decision
// current at the time of the call, so a late call never shows an older state.
func (g *Gate) Follow(ctx context.Context, changes <-chan *identity.Identity, roles identity.RoleStore, notify func(Decision)) {
	var wg sync.WaitGroup
	defer wg.Wait()

	var notifyMu sync.Mutex
	emit := func() {
		if notify == nil {
			return
		}
		notifyMu.Lock()
		defer notifyMu.Unlock()
		notify(g.Decision())
	}
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-changes:
			if !ok {
				return
			}
			g.IdentityChanged()
			t := g.IdentityResolved(id)
			emit()
			if id == nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				rs, err := roles.Roles(ctx, t.UserID)
				if g.RolesResolved(t, rs, err) {
					emit()
				}
			}()
		}
	}
}

func SignInRedirect(from string) string {
	if from == "" {
		return SignInPath
	}
	return SignInPath + "?from=" + url.QueryEscape(from)
}
