package apitest

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/timex"
)

var defaultVoices = []struct{ name, language string }{
	{"default_en", "en"},
	{"default_fr", "fr"},
}

func sortedByID[T any](m map[int64]T, keep func(T) bool) []T {
	out := make([]T, 0, len(m))
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if keep == nil || keep(m[id]) {
			out = append(out, m[id])
		}
	}
	return out
}

// ---- profiles ----

func (b *Backend) createProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}
	var p models.Profile
	if !b.decode(w, r, &p) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.users[id]; !found {
		b.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if _, exists := b.profiles[id]; exists {
		b.writeError(w, http.StatusBadRequest, "User already has a profile")
		return
	}
	b.profiles[id] = p
	b.writeJSON(w, http.StatusOK, p)
}

func (b *Backend) getProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	p, found := b.profiles[id]
	b.mu.Unlock()

	if !found {
		b.writeError(w, http.StatusNotFound, "User profile not found")
		return
	}
	b.writeJSON(w, http.StatusOK, p)
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}
	var p models.Profile
	if !b.decode(w, r, &p) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.profiles[id]; !found {
		b.writeError(w, http.StatusNotFound, "User profile not found")
		return
	}
	b.profiles[id] = p
	b.writeJSON(w, http.StatusOK, p)
}

// ---- text entries ----

func (b *Backend) createTextEntry(w http.ResponseWriter, r *http.Request) {
	var req models.TextEntryCreate
	if !b.decode(w, r, &req) {
		return
	}
	if req.UserID == 0 {
		b.writeError(w, http.StatusBadRequest, "Either user_id or guest_id must be provided")
		return
	}
	if req.Content == "" {
		b.writeValidation(w, "content must not be empty")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.users[req.UserID]; !found {
		b.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	e := models.TextEntry{
		ID:        b.nextID("entry"),
		UserID:    req.UserID,
		Content:   req.Content,
		Language:  req.Language,
		CreatedAt: timex.NewTime(b.now()),
	}
	b.entries[e.ID] = e
	b.writeJSON(w, http.StatusOK, e)
}

func (b *Backend) listUserTextEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	out := sortedByID(b.entries, func(e models.TextEntry) bool { return e.UserID == id })
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, out)
}

func (b *Backend) deleteTextEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.entries[id]; !found {
		b.writeError(w, http.StatusNotFound, "Text entry not found")
		return
	}
	delete(b.entries, id)
	w.WriteHeader(http.StatusNoContent)
}

// ---- voices ----

func (b *Backend) createDefaultVoices(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing := map[string]bool{}
	for _, v := range b.voices {
		if v.IsDefault {
			existing[v.VoiceName] = true
		}
	}

	now := timex.NewTime(b.now())
	for _, d := range defaultVoices {
		if existing[d.name] {
			continue
		}
		v := models.Voice{
			ID:               b.nextID("voice"),
			VoiceName:        d.name,
			OriginalFilePath: "default/" + d.name + ".wav",
			Status:           "READY",
			IsDefault:        true,
			Language:         d.language,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		b.voices[v.ID] = v
	}

	b.writeJSON(w, http.StatusOK, sortedByID(b.voices, func(v models.Voice) bool { return v.IsDefault }))
}

func (b *Backend) listVoices(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := sortedByID(b.voices, nil)
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getVoice(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	v, found := b.voices[id]
	b.mu.Unlock()

	if !found {
		b.writeError(w, http.StatusNotFound, "Voice not found")
		return
	}
	b.writeJSON(w, http.StatusOK, v)
}

func (b *Backend) createUserVoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.VoiceCreate
	if !b.decode(w, r, &req) {
		return
	}
	if req.VoiceName == "" {
		b.writeValidation(w, "voice_name must not be empty")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.users[userID]; !found {
		b.writeError(w, http.StatusNotFound, "User not found")
		return
	}

	now := timex.NewTime(b.now())
	owner := userID
	v := models.Voice{
		ID:               b.nextID("voice"),
		UserID:           &owner,
		VoiceName:        req.VoiceName,
		OriginalFilePath: req.OriginalFilePath,
		Status:           "READY",
		Language:         req.Language,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Description != "" {
		d := req.Description
		v.Description = &d
	}
	b.voices[v.ID] = v
	b.writeJSON(w, http.StatusOK, v)
}

func (b *Backend) listUserVoices(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	out := sortedByID(b.voices, func(v models.Voice) bool { return v.UserID != nil && *v.UserID == userID })
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, out)
}

func (b *Backend) updateUserVoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}
	voiceID, ok := b.pathID(w, r, "voiceID")
	if !ok {
		return
	}
	var upd models.VoiceUpdate
	if !b.decode(w, r, &upd) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	v, found := b.voices[voiceID]
	if !found || v.UserID == nil || *v.UserID != userID {
		b.writeError(w, http.StatusNotFound, "Voice not found")
		return
	}
	if upd.VoiceName != nil {
		v.VoiceName = *upd.VoiceName
	}
	if upd.Language != nil {
		v.Language = *upd.Language
	}
	if upd.Description != nil {
		d := *upd.Description
		v.Description = &d
	}
	if upd.OriginalFilePath != nil {
		v.OriginalFilePath = *upd.OriginalFilePath
	}
	v.UpdatedAt = timex.NewTime(b.now())
	b.voices[voiceID] = v
	b.writeJSON(w, http.StatusOK, v)
}

// ---- audios ----

func (b *Backend) createAudio(w http.ResponseWriter, r *http.Request) {
	var req models.AudioCreate
	if !b.decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entry, found := b.entries[req.TextEntryID]
	if !found {
		b.writeError(w, http.StatusNotFound, "Text entry not found")
		return
	}

	a := models.Audio{
		ID:          b.nextID("audio"),
		TextEntryID: entry.ID,
		Status:      models.AudioReady,
	}
	if req.VoiceID != nil {
		v, found := b.voices[*req.VoiceID]
		if !found {
			b.writeError(w, http.StatusNotFound, "Voice not found")
			return
		}
		voiceID, name := v.ID, v.VoiceName
		a.VoiceID, a.VoiceName = &voiceID, &name
	}

	now := timex.NewTime(b.now())
	name := "audio_" + strconv.FormatInt(a.ID, 10) + ".wav"
	path := "audios/" + name
	lang := entry.Language
	a.AudioName, a.AudioPath, a.Language = &name, &path, &lang
	a.CreatedAt, a.UpdatedAt = now, now

	b.audios[a.ID] = a
	b.writeJSON(w, http.StatusOK, a)
}

func (b *Backend) getAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	a, found := b.audios[id]
	b.mu.Unlock()

	if !found {
		b.writeError(w, http.StatusNotFound, "Audio not found")
		return
	}
	b.writeJSON(w, http.StatusOK, a)
}

// listAudios filters by user_id or text_entry_id.
func (b *Backend) listAudios(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, _ := strconv.ParseInt(q.Get("user_id"), 10, 64)
	entryID, _ := strconv.ParseInt(q.Get("text_entry_id"), 10, 64)

	b.mu.Lock()
	out := sortedByID(b.audios, func(a models.Audio) bool {
		if entryID != 0 && a.TextEntryID != entryID {
			return false
		}
		if userID != 0 && b.entries[a.TextEntryID].UserID != userID {
			return false
		}
		return true
	})
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, out)
}

func (b *Backend) listAllAudios(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := sortedByID(b.audios, nil)
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, paginate(out, queryInt(r, "skip", 0), queryInt(r, "limit", defaultPageSize)))
}
