package apitest

import (
	"net/http"
	"sort"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/timex"
	"golang.org/x/crypto/bcrypt"
)

// insertUser expects b.mu to be held.
func (b *Backend) insertUser(username, email string, role models.Role, hash []byte) models.User {
	now := timex.NewTime(b.now())
	u := models.User{
		ID:             b.nextID("user"),
		Username:       username,
		Email:          email,
		Role:           role,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActiveDate: now,
	}
	b.users[u.ID] = &userRow{user: u, hash: hash}
	return u
}

// conflict expects b.mu to be held.
func (b *Backend) conflict(selfID int64, username, email string) string {
	for id, row := range b.users {
		if id == selfID {
			continue
		}
		if username != "" && row.user.Username == username {
			return "Username already exists"
		}
		if email != "" && row.user.Email == email {
			return "Email already registered"
		}
	}
	return ""
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreate
	if !b.decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		b.writeValidation(w, "username, email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleRegular
	}
	if !req.Role.Valid() {
		b.writeValidation(w, "role must be REGULAR or ADMIN")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), b.bcryptCost)
	if err != nil {
		b.writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	b.mu.Lock()
	if msg := b.conflict(0, req.Username, req.Email); msg != "" {
		b.mu.Unlock()
		b.writeError(w, http.StatusBadRequest, msg)
		return
	}
	u := b.insertUser(req.Username, req.Email, req.Role, hash)
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, u)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !b.decode(w, r, &creds) {
		return
	}

	b.mu.Lock()
	var (
		userID int64
		hash   []byte
	)
	for id, candidate := range b.users {
		if candidate.user.Username == creds.Username {
			userID, hash = id, candidate.hash
			break
		}
	}
	b.mu.Unlock()

	if hash == nil || bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		b.writeError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	b.mu.Lock()
	row, found := b.users[userID]
	if !found {
		b.mu.Unlock()
		b.writeError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	now := b.now()
	row.user.LastLogin = timex.NewTime(now)
	row.user.LastActiveDate = timex.NewTime(now)
	u := row.user
	token, err := issueToken(u.ID, b.generation, b.secret, b.tokenTTL, now)
	b.mu.Unlock()

	if err != nil {
		b.writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	b.writeJSON(w, http.StatusOK, models.LoginResponse{AccessToken: token, TokenType: "bearer", User: u})
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	users := make([]models.User, 0, len(b.users))
	for _, row := range b.users {
		users = append(users, row.user)
	}
	b.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	b.writeJSON(w, http.StatusOK, paginate(users, queryInt(r, "skip", 0), queryInt(r, "limit", defaultPageSize)))
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	row, found := b.users[id]
	b.mu.Unlock()

	if !found {
		b.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	b.writeJSON(w, http.StatusOK, row.user)
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}
	var upd models.UserUpdate
	if !b.decode(w, r, &upd) {
		return
	}
	if upd.Role != nil && !upd.Role.Valid() {
		b.writeValidation(w, "role must be REGULAR or ADMIN")
		return
	}

	var hash []byte
	if upd.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), b.bcryptCost)
		if err != nil {
			b.writeError(w, http.StatusInternalServerError, "could not hash password")
			return
		}
		hash = h
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	row, found := b.users[id]
	if !found {
		b.writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var username, email string
	if upd.Username != nil {
		username = *upd.Username
	}
	if upd.Email != nil {
		email = *upd.Email
	}
	if msg := b.conflict(id, username, email); msg != "" {
		b.writeError(w, http.StatusBadRequest, msg)
		return
	}

	if upd.Username != nil {
		row.user.Username = *upd.Username
	}
	if upd.Email != nil {
		row.user.Email = *upd.Email
	}
	if upd.IsActive != nil {
		row.user.IsActive = *upd.IsActive
	}
	if upd.Role != nil {
		row.user.Role = *upd.Role
	}
	if hash != nil {
		row.hash = hash
	}
	row.user.UpdatedAt = timex.NewTime(b.now())

	b.writeJSON(w, http.StatusOK, row.user)
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.users[id]; !found {
		b.writeError(w, http.StatusNotFound, "User not found")
		return
	}

	delete(b.users, id)
	delete(b.profiles, id)
	for eid, e := range b.entries {
		if e.UserID == id {
			delete(b.entries, eid)
		}
	}

	b.writeJSON(w, http.StatusOK, map[string]any{"message": "User deleted successfully", "deleted_id": id})
}

func (b *Backend) verifyPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.PasswordCheck
	if !b.decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	row, found := b.users[id]
	b.mu.Unlock()

	if !found {
		b.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword(row.hash, []byte(req.Password)) != nil {
		b.writeError(w, http.StatusBadRequest, "Incorrect password")
		return
	}
	b.writeJSON(w, http.StatusOK, map[string]string{"message": "Password is correct"})
}
