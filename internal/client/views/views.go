// Package views maps session state to the view the client presents.
package views

import (
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/client/session"
)

type View int

const (
	AuthView View = iota
	RegularView
	AdminView
)

func (v View) String() string {
	switch v {
	case RegularView:
		return "user"
	case AdminView:
		return "admin"
	default:
		return "auth"
	}
}

// Dispatch picks the view for s. Anything it does not recognise, including
// an unknown role, lands on AuthView.
func Dispatch(s session.State) View {
	a, ok := s.(session.Authenticated)
	if !ok {
		return AuthView
	}
	switch a.Identity.Role {
	case models.RoleAdmin:
		return AdminView
	case models.RoleRegular:
		return RegularView
	default:
		return AuthView
	}
}
