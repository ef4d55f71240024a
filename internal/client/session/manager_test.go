package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/voicedesk/internal/client/api"
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeStore struct {
	mu       sync.Mutex
	token    string
	identity *models.Identity

	LoadErr  error
	SaveErr  error
	ClearErr error

	saves  int
	clears int
}

func (s *fakeStore) Save(_ context.Context, credential string, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.token = credential
	s.identity = &identity
	return nil
}

func (s *fakeStore) Load(context.Context) (string, *models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.identity, s.LoadErr
}

func (s *fakeStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.token = ""
	s.identity = nil
	return nil
}

type fakeAPI struct {
	LoginRet    models.LoginResponse
	LoginErr    error
	RegisterErr error

	LastLogin    models.Credentials
	LastRegister models.UserCreate
	loginCalls   int
}

func (f *fakeAPI) Login(_ context.Context, creds models.Credentials) (models.LoginResponse, error) {
	f.loginCalls++
	f.LastLogin = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Register(_ context.Context, req models.UserCreate) (models.User, error) {
	f.LastRegister = req
	if f.RegisterErr != nil {
		return models.User{}, f.RegisterErr
	}
	return models.User{ID: 1, Username: req.Username, Role: req.Role}, nil
}

// ---- helpers ----

func aliceUser(role models.Role) models.User {
	return models.User{ID: 7, Username: "alice", Email: "alice@example.com", Role: role, IsActive: true}
}

func okLogin(role models.Role) models.LoginResponse {
	return models.LoginResponse{AccessToken: "tok-alice", TokenType: "bearer", User: aliceUser(role)}
}

func newManager(store *fakeStore, a *fakeAPI, opts ...Option) *Manager {
	return NewManager(store, a, opts...)
}

// ---- tests ----

func TestNewManager_StartsUnauthenticated(t *testing.T) {
	m := newManager(&fakeStore{}, &fakeAPI{})
	assert.Equal(t, Unauthenticated{}, m.State())
	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	alice := models.IdentityFromUser(aliceUser(models.RoleAdmin))

	tests := []struct {
		name       string
		store      *fakeStore
		wantAuth   bool
		wantClears int
	}{
		{"empty store", &fakeStore{}, false, 0},
		{"credential and identity", &fakeStore{token: "tok", identity: &alice}, true, 0},
		{"credential without identity", &fakeStore{token: "tok"}, false, 1},
		{"identity without credential", &fakeStore{identity: &alice}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(tt.store, &fakeAPI{})
			require.NoError(t, m.Restore(context.Background()))

			id, ok := m.Identity()
			assert.Equal(t, tt.wantAuth, ok)
			if tt.wantAuth {
				assert.Equal(t, alice, id)
			}
			assert.Equal(t, tt.wantClears, tt.store.clears)
		})
	}
}

func TestRestore_LoadError(t *testing.T) {
	m := newManager(&fakeStore{LoadErr: errors.New("disk")}, &fakeAPI{})
	err := m.Restore(context.Background())
	require.Error(t, err)
	assert.Equal(t, Unauthenticated{}, m.State())
}

func TestLogin_Success_PersistsSession(t *testing.T) {
	store := &fakeStore{}
	a := &fakeAPI{LoginRet: okLogin(models.RoleRegular)}
	m := newManager(store, a)

	id, err := m.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, models.Credentials{Username: "alice", Password: "secret"}, a.LastLogin)
	assert.Equal(t, Authenticated{Identity: id}, m.State())

	token, stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-alice", token)
	require.NotNil(t, stored)
	assert.Equal(t, id, *stored)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		api     *fakeAPI
		store   *fakeStore
		wantMsg string
	}{
		{
			name:    "server detail is shown",
			api:     &fakeAPI{LoginErr: &api.ServerError{Status: http.StatusUnauthorized, Detail: "Incorrect username or password"}},
			wantMsg: "Incorrect username or password",
		},
		{
			name:    "no detail",
			api:     &fakeAPI{LoginErr: &api.ServerError{Status: http.StatusUnauthorized}},
			wantMsg: MsgLoginFailed,
		},
		{
			name:    "400 without detail on login is generic",
			api:     &fakeAPI{LoginErr: &api.ServerError{Status: http.StatusBadRequest}},
			wantMsg: MsgLoginFailed,
		},
		{
			name:    "network",
			api:     &fakeAPI{LoginErr: &api.NetworkError{Err: errors.New("refused")}},
			wantMsg: MsgLoginFailed,
		},
		{
			name:    "empty token",
			api:     &fakeAPI{LoginRet: models.LoginResponse{User: aliceUser(models.RoleRegular)}},
			wantMsg: MsgLoginFailed,
		},
		{
			name:    "unknown role",
			api:     &fakeAPI{LoginRet: okLogin("SUPERUSER")},
			wantMsg: MsgLoginFailed,
		},
		{
			name:    "store failure",
			api:     &fakeAPI{LoginRet: okLogin(models.RoleRegular)},
			store:   &fakeStore{SaveErr: errors.New("readonly")},
			wantMsg: MsgLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store
			if store == nil {
				store = &fakeStore{}
			}
			m := newManager(store, tt.api)

			_, err := m.Login(context.Background(), "alice", "wrong")

			var ae *AuthError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantMsg, ae.Message)
			assert.Equal(t, Unauthenticated{}, m.State())
			assert.Empty(t, store.token)
		})
	}
}

func TestLogin_WhenAuthenticated(t *testing.T) {
	m := newManager(&fakeStore{}, &fakeAPI{LoginRet: okLogin(models.RoleRegular)})
	_, err := m.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	_, err = m.Login(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, ErrAlreadyAuthenticated)
}

func TestRegister_LogsInWithSameCredentials(t *testing.T) {
	store := &fakeStore{}
	a := &fakeAPI{LoginRet: okLogin(models.RoleRegular)}
	m := newManager(store, a)

	id, err := m.Register(context.Background(), models.UserCreate{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleRegular, a.LastRegister.Role)
	assert.Equal(t, models.Credentials{Username: "alice", Password: "pw"}, a.LastLogin)
	assert.Equal(t, models.RoleRegular, id.Role)
	assert.Equal(t, "tok-alice", store.token)
	assert.Equal(t, Authenticated{Identity: id}, m.State())
}

func TestRegister_Failures(t *testing.T) {
	tests := []struct {
		name      string
		api       *fakeAPI
		wantMsg   string
		wantLogin int
	}{
		{
			name:    "400 without detail",
			api:     &fakeAPI{RegisterErr: &api.ServerError{Status: http.StatusBadRequest}},
			wantMsg: MsgUsernameTaken,
		},
		{
			name:    "400 with detail",
			api:     &fakeAPI{RegisterErr: &api.ServerError{Status: http.StatusBadRequest, Detail: "Email already registered"}},
			wantMsg: "Email already registered",
		},
		{
			name:    "server error",
			api:     &fakeAPI{RegisterErr: &api.ServerError{Status: http.StatusInternalServerError}},
			wantMsg: MsgRegistrationFailed,
		},
		{
			name:      "implicit login fails",
			api:       &fakeAPI{LoginErr: &api.ServerError{Status: http.StatusUnauthorized}},
			wantMsg:   MsgRegistrationFailed,
			wantLogin: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(&fakeStore{}, tt.api)

			_, err := m.Register(context.Background(), models.UserCreate{Username: "alice", Password: "pw"})

			var ae *AuthError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantMsg, ae.Message)
			assert.Equal(t, tt.wantLogin, tt.api.loginCalls)
			assert.Equal(t, Unauthenticated{}, m.State())
		})
	}
}

func TestLogout_IsIdempotent(t *testing.T) {
	store := &fakeStore{}
	m := newManager(store, &fakeAPI{LoginRet: okLogin(models.RoleAdmin)})
	_, err := m.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background()))
	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, Unauthenticated{}, m.State())
	assert.Equal(t, 1, store.clears)
	token, id, _ := store.Load(context.Background())
	assert.Empty(t, token)
	assert.Nil(t, id)
}

func TestLogout_StoreFailureStillEndsSession(t *testing.T) {
	store := &fakeStore{}
	m := newManager(store, &fakeAPI{LoginRet: okLogin(models.RoleAdmin)})
	_, err := m.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	store.ClearErr = errors.New("locked")
	require.Error(t, m.Logout(context.Background()))
	assert.Equal(t, Unauthenticated{}, m.State())
}

func TestForceLogout(t *testing.T) {
	store := &fakeStore{}
	forced := 0
	m := newManager(store, &fakeAPI{LoginRet: okLogin(models.RoleRegular)}, WithForcedLogoutHook(func() { forced++ }))

	m.ForceLogout(context.Background())
	assert.Zero(t, forced, "no session, nothing to force")

	_, err := m.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	m.ForceLogout(context.Background())
	assert.Equal(t, 1, forced)
	assert.Equal(t, Unauthenticated{}, m.State())
	assert.Empty(t, store.token)
}

func TestSubscribe_SeesEveryTransitionAfterPersistence(t *testing.T) {
	store := &fakeStore{}
	m := newManager(store, &fakeAPI{LoginRet: okLogin(models.RoleRegular)})

	var seen []State
	var storedAtNotify []string
	unsubscribe := m.Subscribe(func(s State) {
		seen = append(seen, s)
		storedAtNotify = append(storedAtNotify, store.token)
	})

	_, err := m.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	m.ForceLogout(context.Background())

	require.Len(t, seen, 2)
	_, isAuth := seen[0].(Authenticated)
	assert.True(t, isAuth)
	assert.Equal(t, Unauthenticated{}, seen[1])
	assert.Equal(t, []string{"tok-alice", ""}, storedAtNotify)

	unsubscribe()
	_, err = m.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestAuthError_Unwrap(t *testing.T) {
	cause := &api.ServerError{Status: http.StatusUnauthorized}
	err := loginFailure(cause)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Contains(t, err.Error(), MsgLoginFailed)
}
