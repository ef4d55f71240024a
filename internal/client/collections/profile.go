package collections

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/voicedesk/internal/client/api"
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
)

type ProfileAPI interface {
	CreateProfile(ctx context.Context, userID int64, p models.Profile) (models.Profile, error)
	GetProfile(ctx context.Context, userID int64) (models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, p models.Profile) (models.Profile, error)
}

// Profile tracks the single profile of one user.
type Profile struct {
	api    ProfileAPI
	userID int64

	mu      sync.RWMutex
	current *models.Profile
	closed  bool
}

func NewProfile(a ProfileAPI, userID int64) *Profile {
	return &Profile{api: a, userID: userID}
}

// Fetch loads the profile. A user without one yields (nil, nil).
func (p *Profile) Fetch(ctx context.Context) (*models.Profile, error) {
	prof, err := p.api.GetProfile(ctx, p.userID)
	var out *models.Profile
	switch {
	case err == nil:
		out = &prof
	case api.StatusOf(err) == http.StatusNotFound:
	default:
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.current = out
	}
	return out, nil
}

// Save creates the profile when the user has none yet and updates it
// otherwise, then fetches it again.
func (p *Profile) Save(ctx context.Context, in models.Profile) (*models.Profile, error) {
	var err error
	if p.Current() != nil {
		_, err = p.api.UpdateProfile(ctx, p.userID, in)
	} else {
		_, err = p.api.CreateProfile(ctx, p.userID, in)
	}
	if err != nil {
		return nil, err
	}

	out, err := p.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return out, nil
}

func (p *Profile) Current() *models.Profile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	cp := *p.current
	return &cp
}

func (p *Profile) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.current = nil
}
