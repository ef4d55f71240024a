package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/voicedesk/internal/client/api"
	"github.com/dmitrijs2005/voicedesk/internal/client/collections"
	"github.com/dmitrijs2005/voicedesk/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"usage", usageError("Missing user id."), "Missing user id."},
		{"auth message wins", &session.AuthError{Message: session.MsgLoginFailed, Err: &api.ServerError{Status: 401}}, session.MsgLoginFailed},
		{"unauthorized", fmt.Errorf("list: %w", &api.ServerError{Status: 401, Detail: "Not authenticated"}), msgSessionExpired},
		{"refresh failed", fmt.Errorf("%w: %w", collections.ErrRefreshFailed, &api.ServerError{Status: 500}), "Saved, but the list could not be refreshed. Run the list command again."},
		{"unsupported", collections.ErrUnsupported, "This operation is not available here."},
		{"already logged in", session.ErrAlreadyAuthenticated, "You are already logged in."},
		{"detail", &api.ServerError{Status: 404, Detail: "Guest not found or expired"}, "Error: Guest not found or expired"},
		{"no detail", &api.ServerError{Status: 500}, "Error: server responded with status 500"},
		{"network", &api.NetworkError{Err: errors.New("connection refused")}, msgUnreachable},
		{"other", errors.New("boom"), "Error: boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, describeError(tc.err))
		})
	}
}

func TestArgID(t *testing.T) {
	got, err := argID([]string{"42"}, 0, "user id")
	require.NoError(t, err)
	require.Equal(t, int64(42), got)

	_, err = argID(nil, 0, "user id")
	require.EqualError(t, err, "Missing user id.")

	for _, bad := range []string{"x", "0", "-3"} {
		_, err = argID([]string{bad}, 0, "user id")
		var ue usageError
		require.ErrorAs(t, err, &ue, bad)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "one two", truncate("one\n  two", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestTable_AlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	table(&buf, []string{"ID", "NAME"}, [][]string{{"1", "alice"}, {"22", "bob"}})

	assert.Equal(t, "ID  NAME\n1   alice\n22  bob\n", buf.String())
}
