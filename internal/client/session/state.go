package session

import "github.com/dmitrijs2005/voicedesk/internal/client/models"

// State is either Unauthenticated or Authenticated.
type State interface {
	isState()
}

type Unauthenticated struct{}

type Authenticated struct {
	Identity models.Identity
}

func (Unauthenticated) isState() {}
func (Authenticated) isState()   {}

// IdentityOf returns the identity of an Authenticated state.
func IdentityOf(s State) (models.Identity, bool) {
	if a, ok := s.(Authenticated); ok {
		return a.Identity, true
	}
	return models.Identity{}, false
}
