package apitest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/client/api"
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenHolder struct{ token string }

func (h *tokenHolder) Token(context.Context) (string, error) { return h.token, nil }

func newClient(t *testing.T, opts ...Option) (*Backend, *api.Client, *tokenHolder) {
	t.Helper()
	b, url := NewServer(t, opts...)
	holder := &tokenHolder{}
	gw, err := api.NewGateway(url, api.WithCredentials(holder))
	require.NoError(t, err)
	return b, api.NewClient(gw), holder
}

func TestToken_RoundTrip(t *testing.T) {
	secret := []byte("s")
	now := time.Now()

	tok, err := issueToken(42, 3, secret, time.Hour, now)
	require.NoError(t, err)

	c, err := parseToken(tok, secret, time.Now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.UserID)
	assert.Equal(t, 3, c.Generation)

	_, err = parseToken(tok, []byte("other"), time.Now)
	assert.Error(t, err)

	expired, err := issueToken(42, 3, secret, -time.Minute, now)
	require.NoError(t, err)
	_, err = parseToken(expired, secret, time.Now)
	assert.Error(t, err)
}

func TestRegisterLogin(t *testing.T) {
	ctx := context.Background()
	b, c, holder := newClient(t)

	u, err := c.Register(ctx, models.UserCreate{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleRegular, u.Role)

	_, err = c.Register(ctx, models.UserCreate{Username: "alice", Email: "other@example.com", Password: "pw"})
	var se *api.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "Username already exists", se.Detail)

	_, err = c.Login(ctx, models.Credentials{Username: "alice", Password: "nope"})
	require.ErrorIs(t, err, api.ErrUnauthorized)

	resp, err := c.Login(ctx, models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.False(t, resp.User.LastLogin.IsZero())

	_, err = c.ListUsers(ctx, 0, 10)
	require.ErrorIs(t, err, api.ErrUnauthorized, "no bearer yet")

	holder.token = resp.AccessToken
	users, err := c.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)

	assert.Equal(t, 2, b.Hits(http.MethodPost, "/users/"))
	assert.Equal(t, 2, b.Hits(http.MethodPost, "/login"))
	assert.Equal(t, 2, b.Hits(http.MethodGet, "/users/"))
}

func TestRevokeTokens(t *testing.T) {
	ctx := context.Background()
	b, c, holder := newClient(t)
	b.SeedUser("admin", "admin@example.com", "pw", models.RoleAdmin)

	resp, err := c.Login(ctx, models.Credentials{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	holder.token = resp.AccessToken

	_, err = c.GetUser(ctx, resp.User.ID)
	require.NoError(t, err)

	b.RevokeTokens()
	_, err = c.GetUser(ctx, resp.User.ID)
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestWithoutDetail(t *testing.T) {
	ctx := context.Background()
	b, c, _ := newClient(t, WithoutDetail())
	b.SeedUser("alice", "alice@example.com", "pw", models.RoleRegular)

	_, err := c.Register(ctx, models.UserCreate{Username: "alice", Email: "x@example.com", Password: "pw"})
	var se *api.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.False(t, se.HasDetail())
}

func TestGuests(t *testing.T) {
	ctx := context.Background()
	b, c, _ := newClient(t)
	expired := b.SeedGuest(-time.Minute)

	g, err := c.CreateGuest(ctx)
	require.NoError(t, err)

	_, err = c.GetGuest(ctx, expired.ID)
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))

	touched, err := c.TouchGuest(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, touched.ExpirationDate.Before(g.ExpirationDate.Time))

	msg, err := c.CleanupGuests(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 expired guests", msg)

	guests, err := c.ListGuests(ctx)
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, g.ID, guests[0].ID)

	require.NoError(t, c.DeleteGuest(ctx, g.ID))
	assert.Equal(t, http.StatusNotFound, api.StatusOf(c.DeleteGuest(ctx, g.ID)))
}

func TestContentFlow(t *testing.T) {
	ctx := context.Background()
	b, c, holder := newClient(t)
	u := b.SeedUser("alice", "alice@example.com", "pw", models.RoleRegular)
	resp, err := c.Login(ctx, models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	holder.token = resp.AccessToken

	_, err = c.GetProfile(ctx, u.ID)
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))
	_, err = c.CreateProfile(ctx, u.ID, models.Profile{FirstName: "Alice"})
	require.NoError(t, err)
	_, err = c.CreateProfile(ctx, u.ID, models.Profile{FirstName: "Alice"})
	assert.Equal(t, http.StatusBadRequest, api.StatusOf(err))

	entry, err := c.CreateTextEntry(ctx, models.TextEntryCreate{Content: "hello", Language: "en", UserID: u.ID})
	require.NoError(t, err)

	require.NoError(t, c.CreateDefaultVoices(ctx))
	require.NoError(t, c.CreateDefaultVoices(ctx))
	voices, err := c.ListVoices(ctx)
	require.NoError(t, err)
	assert.Len(t, voices, len(defaultVoices))

	mine, err := c.CreateUserVoice(ctx, u.ID, models.VoiceCreate{VoiceName: "mine", Language: "en"})
	require.NoError(t, err)
	name := "renamed"
	updated, err := c.UpdateUserVoice(ctx, u.ID, mine.ID, models.VoiceUpdate{VoiceName: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.VoiceName)

	audio, err := c.CreateAudio(ctx, models.AudioCreate{TextEntryID: entry.ID, VoiceID: &mine.ID})
	require.NoError(t, err)
	assert.Equal(t, models.AudioReady, audio.Status)

	byUser, err := c.ListUserAudios(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
	byEntry, err := c.ListTextEntryAudios(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, byEntry, 1)
	all, err := c.ListAllAudios(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, c.VerifyPassword(ctx, u.ID, "pw"))
	assert.Equal(t, http.StatusBadRequest, api.StatusOf(c.VerifyPassword(ctx, u.ID, "bad")))

	require.NoError(t, c.DeleteTextEntry(ctx, entry.ID))
	entries, err := c.ListUserTextEntries(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
