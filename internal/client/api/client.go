package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
)

// Client exposes the backend routes as typed methods.
type Client struct {
	gw *Gateway
}

func NewClient(gw *Gateway) *Client {
	return &Client{gw: gw}
}

func (c *Client) Gateway() *Gateway {
	return c.gw
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.gw.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.gw.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.gw.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.gw.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func page(skip, limit int) url.Values {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req models.UserCreate) (models.User, error) {
	var u models.User
	err := c.post(ctx, "/users/", req, &u)
	return u, err
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.post(ctx, "/login", creds, &resp)
	return resp, err
}

func (c *Client) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	var users []models.User
	err := c.get(ctx, "/users/", page(skip, limit), &users)
	return users, err
}

func (c *Client) GetUser(ctx context.Context, userID int64) (models.User, error) {
	var u models.User
	err := c.get(ctx, "/users/"+id(userID), nil, &u)
	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, upd models.UserUpdate) (models.User, error) {
	var u models.User
	err := c.put(ctx, "/users/"+id(userID), upd, &u)
	return u, err
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.delete(ctx, "/users/"+id(userID), nil)
}

func (c *Client) VerifyPassword(ctx context.Context, userID int64, password string) error {
	return c.post(ctx, "/users/"+id(userID)+"/verify_password", models.PasswordCheck{Password: password}, nil)
}

func (c *Client) CreateProfile(ctx context.Context, userID int64, p models.Profile) (models.Profile, error) {
	var out models.Profile
	err := c.post(ctx, "/users/"+id(userID)+"/profile/", p, &out)
	return out, err
}

func (c *Client) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	var out models.Profile
	err := c.get(ctx, "/users/"+id(userID)+"/profile/", nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, userID int64, p models.Profile) (models.Profile, error) {
	var out models.Profile
	err := c.put(ctx, "/users/"+id(userID)+"/profile/", p, &out)
	return out, err
}

func (c *Client) CreateTextEntry(ctx context.Context, req models.TextEntryCreate) (models.TextEntry, error) {
	var out models.TextEntry
	err := c.post(ctx, "/text_entries/", req, &out)
	return out, err
}

func (c *Client) ListUserTextEntries(ctx context.Context, userID int64) ([]models.TextEntry, error) {
	var out []models.TextEntry
	err := c.get(ctx, "/users/"+id(userID)+"/text_entries/", nil, &out)
	return out, err
}

func (c *Client) DeleteTextEntry(ctx context.Context, entryID int64) error {
	return c.delete(ctx, "/text_entries/"+id(entryID), nil)
}

func (c *Client) CreateDefaultVoices(ctx context.Context) error {
	return c.post(ctx, "/voices/create_defaults/", nil, nil)
}

func (c *Client) ListVoices(ctx context.Context) ([]models.Voice, error) {
	var out []models.Voice
	err := c.get(ctx, "/voices/", nil, &out)
	return out, err
}

func (c *Client) GetVoice(ctx context.Context, voiceID int64) (models.Voice, error) {
	var out models.Voice
	err := c.get(ctx, "/voices/"+id(voiceID), nil, &out)
	return out, err
}

func (c *Client) CreateUserVoice(ctx context.Context, userID int64, req models.VoiceCreate) (models.Voice, error) {
	var out models.Voice
	err := c.post(ctx, "/users/"+id(userID)+"/voices/", req, &out)
	return out, err
}

func (c *Client) ListUserVoices(ctx context.Context, userID int64) ([]models.Voice, error) {
	var out []models.Voice
	err := c.get(ctx, "/users/"+id(userID)+"/voices/", nil, &out)
	return out, err
}

func (c *Client) UpdateUserVoice(ctx context.Context, userID, voiceID int64, upd models.VoiceUpdate) (models.Voice, error) {
	var out models.Voice
	err := c.put(ctx, "/users/"+id(userID)+"/voices/"+id(voiceID), upd, &out)
	return out, err
}

func (c *Client) CreateAudio(ctx context.Context, req models.AudioCreate) (models.Audio, error) {
	var out models.Audio
	err := c.post(ctx, "/audios/", req, &out)
	return out, err
}

func (c *Client) GetAudio(ctx context.Context, audioID int64) (models.Audio, error) {
	var out models.Audio
	err := c.get(ctx, "/audios/"+id(audioID), nil, &out)
	return out, err
}

func (c *Client) ListUserAudios(ctx context.Context, userID int64) ([]models.Audio, error) {
	var out []models.Audio
	err := c.get(ctx, "/audios/", url.Values{"user_id": {id(userID)}}, &out)
	return out, err
}

func (c *Client) ListTextEntryAudios(ctx context.Context, entryID int64) ([]models.Audio, error) {
	var out []models.Audio
	err := c.get(ctx, "/audios/", url.Values{"text_entry_id": {id(entryID)}}, &out)
	return out, err
}

func (c *Client) ListAllAudios(ctx context.Context, skip, limit int) ([]models.Audio, error) {
	var out []models.Audio
	err := c.get(ctx, "/all-audios/", page(skip, limit), &out)
	return out, err
}

func (c *Client) CreateGuest(ctx context.Context) (models.Guest, error) {
	var out models.Guest
	err := c.post(ctx, "/guests", nil, &out)
	return out, err
}

func (c *Client) ListGuests(ctx context.Context) ([]models.Guest, error) {
	var out []models.Guest
	err := c.get(ctx, "/guests", nil, &out)
	return out, err
}

func (c *Client) GetGuest(ctx context.Context, guestID int64) (models.Guest, error) {
	var out models.Guest
	err := c.get(ctx, "/guests/"+id(guestID), nil, &out)
	return out, err
}

// TouchGuest refreshes the guest's activity and expiration.
func (c *Client) TouchGuest(ctx context.Context, guestID int64) (models.Guest, error) {
	var out models.Guest
	err := c.put(ctx, "/guests/"+id(guestID), nil, &out)
	return out, err
}

func (c *Client) DeleteGuest(ctx context.Context, guestID int64) error {
	return c.delete(ctx, "/guests/"+id(guestID), nil)
}

// CleanupGuests removes expired guests and returns the backend's message.
func (c *Client) CleanupGuests(ctx context.Context) (string, error) {
	var out models.CleanupResult
	err := c.delete(ctx, "/guests/cleanup/", &out)
	return out.Message, err
}
