package apitest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/timex"
)

// insertGuest expects b.mu to be held.
func (b *Backend) insertGuest(ttl time.Duration) models.Guest {
	now := b.now()
	g := models.Guest{
		ID:             b.nextID("guest"),
		CreatedAt:      timex.NewTime(now),
		LastActiveDate: timex.NewTime(now),
		ExpirationDate: timex.NewTime(now.Add(ttl)),
	}
	b.guests[g.ID] = g
	return g
}

func (b *Backend) createGuest(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	g := b.insertGuest(b.guestTTL)
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, g)
}

func (b *Backend) listGuests(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := sortedByID(b.guests, nil)
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	g, found := b.guests[id]
	expired := found && g.ExpirationDate.Before(b.now())
	b.mu.Unlock()

	if !found || expired {
		b.writeError(w, http.StatusNotFound, "Guest not found or expired")
		return
	}
	b.writeJSON(w, http.StatusOK, g)
}

func (b *Backend) touchGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	g, found := b.guests[id]
	if !found {
		b.writeError(w, http.StatusNotFound, "Guest not found")
		return
	}
	now := b.now()
	g.LastActiveDate = timex.NewTime(now)
	g.ExpirationDate = timex.NewTime(now.Add(b.guestTTL))
	b.guests[id] = g
	b.writeJSON(w, http.StatusOK, g)
}

func (b *Backend) deleteGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r, "id")
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.guests[id]; !found {
		b.writeError(w, http.StatusNotFound, "Guest not found")
		return
	}
	delete(b.guests, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) cleanupGuests(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	now := b.now()
	removed := 0
	for id, g := range b.guests {
		if g.ExpirationDate.Before(now) {
			delete(b.guests, id)
			removed++
		}
	}
	b.mu.Unlock()

	b.writeJSON(w, http.StatusOK, models.CleanupResult{Message: fmt.Sprintf("Removed %d expired guests", removed)})
}
