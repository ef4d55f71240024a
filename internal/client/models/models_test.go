package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleRegular.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("admin").Valid())
}

func TestUser_DecodesBackendPayload(t *testing.T) {
	payload := `{
		"id": 7,
		"username": "alice",
		"email": "a@x.com",
		"two_factor_enabled": false,
		"is_active": true,
		"role": "ADMIN",
		"created_at": "2024-05-01T10:00:00.123456",
		"updated_at": "2024-05-01T10:00:00",
		"last_login": null,
		"last_active_date": null
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(payload), &u))

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, 2024, u.CreatedAt.Year())
	assert.True(t, u.LastLogin.IsZero())
}

func TestIdentityFromUser(t *testing.T) {
	u := User{ID: 3, Username: "bob", Email: "b@x.com", Role: RoleRegular, IsActive: true}
	u.CreatedAt.Time = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	id := IdentityFromUser(u)

	assert.Equal(t, int64(3), id.ID)
	assert.Equal(t, "bob", id.Username)
	assert.Equal(t, RoleRegular, id.Role)
	assert.True(t, id.CreatedAt.Equal(u.CreatedAt.Time))
	assert.True(t, id.Valid())
}

func TestIdentity_Valid(t *testing.T) {
	assert.False(t, Identity{}.Valid())
	assert.False(t, Identity{ID: 1, Username: "x", Role: "ROOT"}.Valid())
	assert.False(t, Identity{ID: 1, Role: RoleAdmin}.Valid())
}

func TestUserUpdate_OmitsUnsetFields(t *testing.T) {
	active := false
	b, err := json.Marshal(UserUpdate{IsActive: &active})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_active": false}`, string(b))
}

func TestVoice_GlobalDefaultHasNoOwner(t *testing.T) {
	var v Voice
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"user_id":null,"voice_name":"Default","is_default":true,"status":"READY","language":"en"}`), &v))
	assert.Nil(t, v.UserID)
	assert.True(t, v.IsDefault)
}
