package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/orderdesk/orderdesk/internal/client"
	"github.com/orderdesk/orderdesk/internal/credential"
)

// CredentialExpiryDays is how long a persisted token stays valid
const CredentialExpiryDays = 7

// ErrSuperseded is returned by Login and Register when a newer login,
// registration or logout is still in flight or has already been applied
// by the time this call's response arrives. Newer calls that failed do not
// count. The stale response is discarded without touching state or the
// credential.
var ErrSuperseded = errors.New("session: superseded by a newer request")

// AuthAPI is the subset of the backend client the store depends on
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
}

// Store is the single authoritative holder of the Session
type Store struct {
	api         AuthAPI
	credentials credential.Store
	logger      zerolog.Logger

	mu                sync.RWMutex
	session           Session
	initOnce          sync.Once
	credentialPresent bool
	// seq numbers every login, registration and logout in call order.
	// pending holds the calls not yet applied or failed; applied is the
	// newest call whose result took effect.
	seq     uint64
	pending map[uint64]struct{}
	applied uint64

	// credMu serializes credential writes with the state change that
	// follows them. Readers never take it.
	credMu sync.Mutex

	listenersMu sync.Mutex
	listeners   map[int]func(Session)
	nextID      int
}

// NewStore creates a store in the resolving state
func NewStore(api AuthAPI, credentials credential.Store, logger zerolog.Logger) *Store {
	return &Store{
		api:         api,
		credentials: credentials,
		logger:      logger.With().Str("component", "session").Logger(),
		session:     Session{LoadingInitialState: true},
		pending:     make(map[uint64]struct{}),
		listeners:   make(map[int]func(Session)),
	}
}

// Initialize resolves the startup state by checking for a persisted
// credential. It runs at most once; later calls do nothing.
// A missing or unreadable credential is not an error.
func (s *Store) Initialize() {
	s.initOnce.Do(func() {
		_, found, err := s.credentials.Get()
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to read stored credential, treating as absent")
			found = false
		}

		s.mu.Lock()
		s.credentialPresent = found
		s.session.LoadingInitialState = false
		snapshot := s.session.clone()
		s.mu.Unlock()

		// The identity behind a stored credential is not restored here.
		s.logger.Debug().Bool("credential_present", found).Msg("Session initialized")
		s.notify(snapshot)
	})
}

// Login authenticates against the backend. Backend errors are returned
// unchanged and leave the session and the stored credential untouched.
func (s *Store) Login(ctx context.Context, email, password string) error {
	seq := s.begin()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.finish(seq)
		return err
	}

	return s.apply(seq, resp)
}

// Register creates an account on the backend and signs in as it.
// Failure handling matches Login.
func (s *Store) Register(ctx context.Context, req client.RegisterRequest) error {
	seq := s.begin()

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		s.finish(seq)
		return err
	}

	return s.apply(seq, resp)
}

// Logout removes the stored credential and returns to the signed-out state.
// It never fails; a credential that cannot be removed is logged. A logout
// overtaken by a newer login or registration that already took effect
// changes nothing.
func (s *Store) Logout() {
	seq := s.begin()

	s.credMu.Lock()
	defer s.credMu.Unlock()

	s.mu.RLock()
	overtaken := s.applied > seq
	s.mu.RUnlock()
	if overtaken {
		s.finish(seq)
		s.logger.Debug().Msg("Discarding logout overtaken by a newer sign-in")
		return
	}

	if err := s.credentials.Remove(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to remove stored credential")
	}

	s.mu.Lock()
	delete(s.pending, seq)
	s.applied = seq
	s.credentialPresent = false
	s.session.Authenticated = false
	s.session.Identity = nil
	snapshot := s.session.clone()
	s.mu.Unlock()

	s.logger.Info().Msg("Logged out")
	s.notify(snapshot)
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.clone()
}

// IsAdmin reports whether the current session is an authenticated admin
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAdmin()
}

// CredentialPresent reports whether a credential is stored, as last observed
// by Initialize, Login, Register or Logout.
func (s *Store) CredentialPresent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentialPresent
}

// Token returns the stored bearer credential for calls to the backend
func (s *Store) Token() (string, bool, error) {
	return s.credentials.Get()
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that made the change and must not block.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.pending[s.seq] = struct{}{}
	return s.seq
}

// finish drops seq from the in-flight calls without applying anything
func (s *Store) finish(seq uint64) {
	s.mu.Lock()
	delete(s.pending, seq)
	s.mu.Unlock()
}

// stale reports whether a newer call is in flight or already applied.
// The caller holds s.mu.
func (s *Store) stale(seq uint64) bool {
	if s.applied > seq {
		return true
	}
	for other := range s.pending {
		if other > seq {
			return true
		}
	}
	return false
}

// apply persists the token and authenticates, unless seq is stale.
// The credential write runs without s.mu so readers never wait on storage.
func (s *Store) apply(seq uint64, resp *client.AuthResponse) error {
	identity := mapIdentity(resp.User)

	s.credMu.Lock()
	defer s.credMu.Unlock()

	s.mu.RLock()
	superseded := s.stale(seq)
	s.mu.RUnlock()
	if superseded {
		s.finish(seq)
		s.logger.Debug().Str("email", identity.Email).Msg("Discarding superseded auth response")
		return ErrSuperseded
	}

	if err := s.credentials.Set(resp.Token, CredentialExpiryDays); err != nil {
		s.finish(seq)
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	// Newer calls may have started during the write; they commit after
	// this one, since every commit happens under credMu.
	s.mu.Lock()
	delete(s.pending, seq)
	s.applied = seq
	s.credentialPresent = true
	s.session.Authenticated = true
	s.session.Identity = &identity
	snapshot := s.session.clone()
	s.mu.Unlock()

	s.logger.Info().
		Str("user_id", identity.ID).
		Str("email", identity.Email).
		Str("role", string(identity.Role)).
		Msg("Authenticated")
	s.notify(snapshot)
	return nil
}

func (s *Store) notify(snapshot Session) {
	s.listenersMu.Lock()
	fns := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snapshot.clone())
	}
}

func mapIdentity(user client.RemoteUser) Identity {
	return Identity{
		ID:    user.ID,
		Email: user.Email,
		Role:  ParseRole(user.Role),
	}
}
