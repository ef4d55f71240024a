package cli

import (
	"fmt"

	"github.com/dmitrijs2005/voicedesk/internal/client/views"
)

// prompt shows who is logged in and which view is active.
func (a *App) prompt() string {
	v := a.current()
	if v.view == views.AuthView {
		return fmt.Sprintf("vd> %s > ", v.view)
	}
	return fmt.Sprintf("vd> %s@%s > ", v.identity.Username, v.view)
}

// commands returns the verbs of the view the session currently dispatches
// to.
func (a *App) commands() []command {
	switch a.current().view {
	case views.RegularView:
		return a.regularCommands()
	case views.AdminView:
		return a.adminCommands()
	default:
		return a.authCommands()
	}
}

func (a *App) authCommands() []command {
	return []command{
		{"register", "create an account and log in", a.Register},
		{"login", "log in", a.Login},
	}
}

func (a *App) regularCommands() []command {
	return []command{
		{"whoami", "show the logged-in account", a.WhoAmI},
		{"verify-password", "check your password", a.VerifyPassword},
		{"profile", "show your profile", a.ShowProfile},
		{"profile-edit", "create or edit your profile", a.EditProfile},
		{"entries", "list your text entries", a.ListEntries},
		{"entry-add", "add a text entry", a.AddEntry},
		{"entry-del", "<id> delete a text entry", a.DeleteEntry},
		{"voices", "list your voices", a.ListVoices},
		{"voice-add", "add a voice", a.AddVoice},
		{"voice-edit", "<id> edit a voice", a.EditVoice},
		{"audios", "[entry id] list your audios, or those of one entry", a.ListAudios},
		{"audio-add", "<entry id> [voice id] render a text entry", a.AddAudio},
		{"logout", "log out", a.Logout},
	}
}

func (a *App) adminCommands() []command {
	return []command{
		{"whoami", "show the logged-in account", a.WhoAmI},
		{"verify-password", "check your password", a.VerifyPassword},
		{"users", "list users (* marks the selection)", a.ListUsers},
		{"user-select", "<id> select a user", a.SelectUser},
		{"user-update", "edit the selected user", a.UpdateUser},
		{"user-del", "[id] delete a user, the selected one by default", a.DeleteUser},
		{"profile", "show the selected user's profile", a.ShowProfile},
		{"entries", "list the selected user's text entries", a.ListEntries},
		{"guests", "list guest sessions", a.ListGuests},
		{"guest-add", "create a guest session", a.AddGuest},
		{"guest-show", "<id> show a guest session", a.ShowGuest},
		{"guest-touch", "<id> extend a guest session", a.TouchGuest},
		{"guest-del", "<id> delete a guest session", a.DeleteGuest},
		{"guest-cleanup", "remove expired guest sessions", a.CleanupGuests},
		{"voices-all", "list every voice", a.ListAllVoices},
		{"voices-defaults", "create the default voices", a.CreateDefaultVoices},
		{"audios-all", "list every audio", a.ListAllAudios},
		{"logout", "log out", a.Logout},
	}
}
