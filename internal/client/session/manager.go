// Package session owns the client's authentication state.
//
// A Manager starts Unauthenticated, is restored from the token store on boot
// and moves between Unauthenticated and Authenticated on login, registration,
// logout and forced logout (a 401 from any backend call). Every transition is
// persisted before listeners are notified.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/logging"
)

// Store persists the credential and identity between runs.
type Store interface {
	Save(ctx context.Context, credential string, identity models.Identity) error
	Load(ctx context.Context) (string, *models.Identity, error)
	Clear(ctx context.Context) error
}

// AuthAPI is the part of the backend the manager talks to.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (models.LoginResponse, error)
	Register(ctx context.Context, req models.UserCreate) (models.User, error)
}

type Listener func(State)

type Manager struct {
	store Store
	api   AuthAPI
	log   logging.Logger

	onForcedLogout func()

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithForcedLogoutHook runs fn each time a 401 ends an active session.
func WithForcedLogoutHook(fn func()) Option {
	return func(m *Manager) { m.onForcedLogout = fn }
}

func NewManager(store Store, authAPI AuthAPI, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		api:       authAPI,
		log:       logging.Discard(),
		state:     Unauthenticated{},
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) Identity() (models.Identity, bool) {
	return IdentityOf(m.State())
}

// Subscribe registers fn for every subsequent transition and returns a
// function that removes it.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Restore loads a previous session. A credential without a usable identity
// (or the reverse) is treated as no session and wiped.
func (m *Manager) Restore(ctx context.Context) error {
	token, identity, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if token == "" || identity == nil {
		if token != "" {
			m.log.Warn(ctx, "stored credential has no usable identity, discarding")
			if err := m.store.Clear(ctx); err != nil {
				return fmt.Errorf("restore session: %w", err)
			}
		}
		m.transition(Unauthenticated{})
		return nil
	}

	m.log.Info(ctx, "session restored", "username", identity.Username, "role", identity.Role)
	m.transition(Authenticated{Identity: *identity})
	return nil
}

// Login authenticates and persists the session. Failures are *AuthError
// and leave the state unchanged.
func (m *Manager) Login(ctx context.Context, username, password string) (models.Identity, error) {
	if _, ok := m.Identity(); ok {
		return models.Identity{}, ErrAlreadyAuthenticated
	}

	identity, err := m.login(ctx, username, password)
	if err != nil {
		m.log.Info(ctx, "login failed", "username", username, "error", err)
		return models.Identity{}, loginFailure(err)
	}
	return identity, nil
}

// Register creates the account and then logs in with the same credentials.
// A failure in either step is reported with the registration messages.
func (m *Manager) Register(ctx context.Context, req models.UserCreate) (models.Identity, error) {
	if _, ok := m.Identity(); ok {
		return models.Identity{}, ErrAlreadyAuthenticated
	}
	if req.Role == "" {
		req.Role = models.RoleRegular
	}

	if _, err := m.api.Register(ctx, req); err != nil {
		m.log.Info(ctx, "registration failed", "username", req.Username, "error", err)
		return models.Identity{}, registrationFailure(err)
	}

	identity, err := m.login(ctx, req.Username, req.Password)
	if err != nil {
		m.log.Info(ctx, "login after registration failed", "username", req.Username, "error", err)
		return models.Identity{}, registrationFailure(err)
	}
	return identity, nil
}

func (m *Manager) login(ctx context.Context, username, password string) (models.Identity, error) {
	resp, err := m.api.Login(ctx, models.Credentials{Username: username, Password: password})
	if err != nil {
		return models.Identity{}, err
	}

	identity := models.IdentityFromUser(resp.User)
	if resp.AccessToken == "" || !identity.Valid() {
		return models.Identity{}, errMalformedLogin
	}

	if err := m.store.Save(ctx, resp.AccessToken, identity); err != nil {
		return models.Identity{}, fmt.Errorf("save session: %w", err)
	}

	m.log.Info(ctx, "logged in", "username", identity.Username, "role", identity.Role)
	m.transition(Authenticated{Identity: identity})
	return identity, nil
}

// Logout ends the session and clears the store. It is a no-op when nobody
// is logged in.
func (m *Manager) Logout(ctx context.Context) error {
	listeners, ok := m.end()
	if !ok {
		return nil
	}
	defer notify(listeners, Unauthenticated{})

	m.log.Info(ctx, "logged out")
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ForceLogout is the 401 transition. It has the gateway's
// UnauthorizedHandler signature.
func (m *Manager) ForceLogout(ctx context.Context) {
	listeners, ok := m.end()
	if !ok {
		return
	}
	defer notify(listeners, Unauthenticated{})

	m.log.Warn(ctx, "session rejected by server, logging out")
	if m.onForcedLogout != nil {
		m.onForcedLogout()
	}
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "clear token store", "error", err)
	}
}

// end moves Authenticated to Unauthenticated. ok is false when there was no
// session to end.
func (m *Manager) end() (listeners []Listener, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.(Authenticated); !ok {
		return nil, false
	}
	m.state = Unauthenticated{}
	return m.snapshotListeners(), true
}

func (m *Manager) transition(s State) {
	m.mu.Lock()
	m.state = s
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	notify(listeners, s)
}

func (m *Manager) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, s State) {
	for _, l := range listeners {
		l(s)
	}
}
