// Package apitest is an in-memory implementation of the user-management
// backend's HTTP API, for tests and local development.
//
// It follows the production contract closely enough to drive the client end
// to end: bearer tokens are HS256 JWTs, passwords are bcrypt hashes and
// errors carry a JSON "detail". RevokeTokens invalidates every issued token
// so that the next authenticated call answers 401.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/logging"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// Prefix is the versioned API root the routes are mounted under.
const Prefix = "/api/v1"

const (
	defaultTokenTTL = time.Hour
	defaultGuestTTL = 24 * time.Hour
	defaultPageSize = 100
)

type userRow struct {
	user models.User
	hash []byte
}

type Backend struct {
	secret     []byte
	tokenTTL   time.Duration
	guestTTL   time.Duration
	omitDetail bool
	bcryptCost int
	now        func() time.Time
	log        logging.Logger

	mu         sync.Mutex
	generation int
	users      map[int64]*userRow
	profiles   map[int64]models.Profile
	entries    map[int64]models.TextEntry
	voices     map[int64]models.Voice
	audios     map[int64]models.Audio
	guests     map[int64]models.Guest
	ids        map[string]int64
	hits       map[string]int

	router chi.Router
}

type Option func(*Backend)

// WithoutDetail makes every error response an empty JSON object.
func WithoutDetail() Option {
	return func(b *Backend) { b.omitDetail = true }
}

func WithSecret(secret []byte) Option {
	return func(b *Backend) { b.secret = secret }
}

func WithTokenTTL(d time.Duration) Option {
	return func(b *Backend) { b.tokenTTL = d }
}

func WithGuestTTL(d time.Duration) Option {
	return func(b *Backend) { b.guestTTL = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(b *Backend) { b.log = l }
}

func New(opts ...Option) *Backend {
	b := &Backend{
		secret:     []byte("apitest-secret"),
		tokenTTL:   defaultTokenTTL,
		guestTTL:   defaultGuestTTL,
		bcryptCost: bcrypt.MinCost,
		now:        func() time.Time { return time.Now().UTC() },
		log:        logging.Discard(),
		users:      map[int64]*userRow{},
		profiles:   map[int64]models.Profile{},
		entries:    map[int64]models.TextEntry{},
		voices:     map[int64]models.Voice{},
		audios:     map[int64]models.Audio{},
		guests:     map[int64]models.Guest{},
		ids:        map[string]int64{},
		hits:       map[string]int{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.router = b.routes()
	return b
}

// NewServer starts b on an httptest server and returns the API root URL.
func NewServer(t testing.TB, opts ...Option) (*Backend, string) {
	t.Helper()
	b := New(opts...)
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv.URL + Prefix
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// RevokeTokens invalidates every token issued so far.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
}

// Hits returns how many requests matched method and route pattern, e.g.
// Hits("GET", "/users/{id}").
func (b *Backend) Hits(method, pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[hitKey(method, Prefix+pattern)]
}

// SeedUser creates an account directly, bypassing the API.
func (b *Backend) SeedUser(username, email, password string, role models.Role) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.bcryptCost)
	if err != nil {
		panic(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertUser(username, email, role, hash)
}

// SeedGuest creates a guest that expires after ttl (negative for one that
// has already expired).
func (b *Backend) SeedGuest(ttl time.Duration) models.Guest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertGuest(ttl)
}

func (b *Backend) nextID(kind string) int64 {
	b.ids[kind]++
	return b.ids[kind]
}

func (b *Backend) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(b.countHits)

	r.Route(Prefix, func(r chi.Router) {
		r.Post("/users/", b.register)
		r.Post("/login", b.login)

		r.Post("/guests", b.createGuest)
		r.Get("/guests", b.listGuests)
		r.Delete("/guests/cleanup/", b.cleanupGuests)
		r.Get("/guests/{id}", b.getGuest)
		r.Put("/guests/{id}", b.touchGuest)
		r.Delete("/guests/{id}", b.deleteGuest)

		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)

			r.Get("/users/", b.listUsers)
			r.Get("/users/{id}", b.getUser)
			r.Put("/users/{id}", b.updateUser)
			r.Delete("/users/{id}", b.deleteUser)
			r.Post("/users/{id}/verify_password", b.verifyPassword)

			r.Post("/users/{id}/profile/", b.createProfile)
			r.Get("/users/{id}/profile/", b.getProfile)
			r.Put("/users/{id}/profile/", b.updateProfile)

			r.Post("/text_entries/", b.createTextEntry)
			r.Get("/users/{id}/text_entries/", b.listUserTextEntries)
			r.Delete("/text_entries/{id}", b.deleteTextEntry)

			r.Post("/voices/create_defaults/", b.createDefaultVoices)
			r.Get("/voices/", b.listVoices)
			r.Get("/voices/{id}", b.getVoice)
			r.Post("/users/{id}/voices/", b.createUserVoice)
			r.Get("/users/{id}/voices/", b.listUserVoices)
			r.Put("/users/{id}/voices/{voiceID}", b.updateUserVoice)

			r.Post("/audios/", b.createAudio)
			r.Get("/audios/", b.listAudios)
			r.Get("/audios/{id}", b.getAudio)
			r.Get("/all-audios/", b.listAllAudios)
		})
	})

	return r
}

func (b *Backend) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		b.mu.Lock()
		b.hits[hitKey(r.Method, pattern)]++
		b.mu.Unlock()
	})
}

// hitKey ignores a trailing slash, which chi drops from route patterns.
func hitKey(method, pattern string) string {
	return method + " " + strings.TrimSuffix(pattern, "/")
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			b.writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		c, err := parseToken(raw, b.secret, b.now)
		if err != nil {
			b.writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		b.mu.Lock()
		_, exists := b.users[c.UserID]
		current := c.Generation == b.generation
		b.mu.Unlock()

		if !exists || !current {
			b.writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.log.Error(context.Background(), "encode response", "error", err)
	}
}

func (b *Backend) writeError(w http.ResponseWriter, status int, detail string) {
	if b.omitDetail {
		b.writeJSON(w, status, struct{}{})
		return
	}
	b.writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidation mimics a 422 with a list of field errors.
func (b *Backend) writeValidation(w http.ResponseWriter, msgs ...string) {
	if b.omitDetail {
		b.writeJSON(w, http.StatusUnprocessableEntity, struct{}{})
		return
	}
	items := make([]map[string]string, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, map[string]string{"msg": m})
	}
	b.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
}

func (b *Backend) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		b.writeValidation(w, "invalid JSON body")
		return false
	}
	return true
}

func (b *Backend) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		b.writeValidation(w, name+" must be an integer")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := min(skip+limit, len(items))
	return items[skip:end]
}
