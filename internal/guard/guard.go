// Package guard decides whether a protected view may render for the current
// session, and redirects viewers who may not see it.
package guard

import (
	"sync"

	"github.com/orderdesk/orderdesk/internal/session"
)

// Default navigation targets
const (
	LoginPath   = "/login"
	LandingPath = "/user/dashboard"
)

// State is the outcome of evaluating a guard against a session
type State int

const (
	// Resolving: the session has not finished its startup check.
	Resolving State = iota
	// DeniedUnauthenticated: nobody is signed in.
	DeniedUnauthenticated
	// DeniedRole: signed in, but the view requires an admin.
	DeniedRole
	// Permitted: the view may render.
	Permitted
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case DeniedUnauthenticated:
		return "denied_unauthenticated"
	case DeniedRole:
		return "denied_role"
	case Permitted:
		return "permitted"
	default:
		return "unknown"
	}
}

// Denied reports whether s keeps the content hidden behind a redirect
func (s State) Denied() bool {
	return s == DeniedUnauthenticated || s == DeniedRole
}

// Decide maps a session and the view's admin requirement to a State.
// Admins are never turned away from views that don't require admin.
func Decide(s session.Session, requireAdmin bool) State {
	switch {
	case s.LoadingInitialState:
		return Resolving
	case !s.Authenticated:
		return DeniedUnauthenticated
	case requireAdmin && !s.IsAdmin():
		return DeniedRole
	default:
		return Permitted
	}
}

// Navigator performs a client-side redirect
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) { f(path) }

// Option configures a Guard
type Option func(*Guard)

// WithLoginPath overrides where unauthenticated viewers are sent
func WithLoginPath(path string) Option {
	return func(g *Guard) { g.loginPath = path }
}

// WithLandingPath overrides where non-admins are sent from admin views
func WithLandingPath(path string) Option {
	return func(g *Guard) { g.landingPath = path }
}

// Guard wraps one protected view. Every Evaluate recomputes the decision
// from the session it is given; a redirect is issued only when the outcome
// changes into a denied state, so repeated evaluations with the same
// outcome never navigate twice.
type Guard struct {
	nav         Navigator
	loginPath   string
	landingPath string

	mu           sync.Mutex
	requireAdmin bool
	last         State
	evaluated    bool
}

// New creates a guard for a view
func New(requireAdmin bool, nav Navigator, opts ...Option) *Guard {
	g := &Guard{
		nav:          nav,
		loginPath:    LoginPath,
		landingPath:  LandingPath,
		requireAdmin: requireAdmin,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetRequireAdmin changes the view's admin requirement.
// The next Evaluate decides with the new value.
func (g *Guard) SetRequireAdmin(requireAdmin bool) {
	g.mu.Lock()
	g.requireAdmin = requireAdmin
	g.mu.Unlock()
}

// Evaluate decides the state for s and issues a redirect on a transition
// into a denied state.
func (g *Guard) Evaluate(s session.Session) State {
	g.mu.Lock()
	state := Decide(s, g.requireAdmin)
	changed := !g.evaluated || g.last != state
	g.last = state
	g.evaluated = true
	g.mu.Unlock()

	if !changed {
		return state
	}

	switch state {
	case DeniedUnauthenticated:
		g.nav.NavigateTo(g.loginPath)
	case DeniedRole:
		g.nav.NavigateTo(g.landingPath)
	}
	return state
}
