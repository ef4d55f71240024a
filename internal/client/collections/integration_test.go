package collections_test

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/client/api"
	"github.com/dmitrijs2005/voicedesk/internal/client/apitest"
	"github.com/dmitrijs2005/voicedesk/internal/client/collections"
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bearer struct{ token string }

func (b *bearer) Token(context.Context) (string, error) { return b.token, nil }

func loggedIn(t *testing.T, role models.Role) (*apitest.Backend, *api.Client, models.User) {
	t.Helper()
	backend, url := apitest.NewServer(t)
	u := backend.SeedUser("admin", "admin@example.com", "pw", role)

	creds := &bearer{}
	gw, err := api.NewGateway(url, api.WithCredentials(creds))
	require.NoError(t, err)
	c := api.NewClient(gw)

	resp, err := c.Login(context.Background(), models.Credentials{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	creds.token = resp.AccessToken
	return backend, c, u
}

func TestTextEntries_CreatedRecordIsListed(t *testing.T) {
	ctx := context.Background()
	_, c, u := loggedIn(t, models.RoleRegular)
	entries := collections.NewTextEntries(c, u.ID, nil)

	created, err := entries.Create(ctx, models.TextEntryCreate{Content: "hello world", Language: "en"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	listed, err := entries.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, listed, created)
}

func TestGuests_TouchLeavesOthersAlone(t *testing.T) {
	ctx := context.Background()
	backend, c, _ := loggedIn(t, models.RoleAdmin)
	guests := collections.NewGuests(c, nil)

	for i := 0; i < 3; i++ {
		_, err := guests.Create(ctx, collections.None{})
		require.NoError(t, err)
	}
	before := guests.Snapshot()

	_, err := guests.Touch(ctx, before[1].ID)
	require.NoError(t, err)

	after := guests.Snapshot()
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
	assert.Equal(t, 0, backend.Hits("GET", "/guests"))

	backend.SeedGuest(-time.Hour)
	msg, err := guests.Cleanup(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "1")
	assert.Len(t, guests.Snapshot(), 3)
	assert.Equal(t, 1, backend.Hits("GET", "/guests"))
}

func TestUsers_SelectionGoneAfterDelete(t *testing.T) {
	ctx := context.Background()
	backend, c, _ := loggedIn(t, models.RoleAdmin)
	bob := backend.SeedUser("bob", "bob@example.com", "pw", models.RoleRegular)

	users := collections.NewUsers(c, nil)
	_, err := users.List(ctx)
	require.NoError(t, err)

	var sel collections.Selection[models.User]
	sel.Select(bob.ID)
	_, ok := sel.Reselect(users.Snapshot())
	require.True(t, ok)

	require.NoError(t, users.Delete(ctx, bob.ID))

	_, ok = sel.Reselect(users.Snapshot())
	assert.False(t, ok)
	assert.Len(t, users.Snapshot(), 1)
}
