// Package api is the single choke point for calls to the voicedesk backend.
//
// # Gateway
//
// Gateway turns {method, path, query, body} into an HTTP request against the
// configured API root, attaches "Authorization: Bearer <token>" whenever the
// CredentialSource holds a token, always sends JSON, and decodes JSON replies.
//
// # Errors
//
// Every failure is one of three types, matched with errors.As:
//
//   - *ServerError        a response with a non-2xx status (Status, Detail)
//   - *NetworkError       the request went out but no response came back
//   - *RequestSetupError  the request could not be built or its reply decoded
//
// errors.Is(err, ErrUnauthorized) matches 401 responses. Before a 401 is
// returned, the gateway runs its unauthorized hook so the session can drop
// the stale credential. The gateway never retries.
//
// # Client
//
// Client wraps the gateway with one method per backend route: users, login,
// profiles, text entries, voices, audios and guests.
package api
