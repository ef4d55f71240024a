package collections

import (
	"context"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/logging"
)

type GuestsAPI interface {
	CreateGuest(ctx context.Context) (models.Guest, error)
	ListGuests(ctx context.Context) ([]models.Guest, error)
	GetGuest(ctx context.Context, guestID int64) (models.Guest, error)
	TouchGuest(ctx context.Context, guestID int64) (models.Guest, error)
	DeleteGuest(ctx context.Context, guestID int64) error
	CleanupGuests(ctx context.Context) (string, error)
}

// Guests applies create, touch and delete to its snapshot directly instead
// of re-listing. Cleanup removes an unknown set of records and re-lists.
type Guests struct {
	*Collection[models.Guest, None, None]
	api GuestsAPI
}

func NewGuests(a GuestsAPI, log logging.Logger) *Guests {
	return &Guests{
		Collection: New("guests", Backend[models.Guest, None, None]{
			List: a.ListGuests,
			Create: func(ctx context.Context, _ None) (models.Guest, error) {
				return a.CreateGuest(ctx)
			},
			Update: func(ctx context.Context, id int64, _ None) (models.Guest, error) {
				return a.TouchGuest(ctx, id)
			},
			Delete: a.DeleteGuest,
		}, PolicyLocal, log),
		api: a,
	}
}

// Get fetches one guest without touching the snapshot.
func (g *Guests) Get(ctx context.Context, id int64) (models.Guest, error) {
	return g.api.GetGuest(ctx, id)
}

// Touch extends a guest's expiration.
func (g *Guests) Touch(ctx context.Context, id int64) (models.Guest, error) {
	return g.Update(ctx, id, None{})
}

// Cleanup deletes expired guests and returns the backend's summary.
func (g *Guests) Cleanup(ctx context.Context) (string, error) {
	var msg string
	err := g.Run(ctx, func(ctx context.Context) error {
		m, err := g.api.CleanupGuests(ctx)
		msg = m
		return err
	})
	return msg, err
}
