package cli

import (
	"sync"

	"github.com/dmitrijs2005/voicedesk/internal/client/collections"
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/client/session"
	"github.com/dmitrijs2005/voicedesk/internal/client/views"
)

// viewState holds the collections of the view currently shown. It is
// rebuilt whenever the view or the logged-in user changes, so nothing is
// carried over between sessions.
type viewState struct {
	view     views.View
	identity models.Identity

	profile *collections.Profile
	entries *collections.TextEntries
	voices  *collections.UserVoices
	audios  *collections.UserAudios

	users     *collections.Users
	selected  collections.Selection[models.User]
	guests    *collections.Guests
	allVoices *collections.AllVoices
	allAudios *collections.AllAudios

	mu      sync.Mutex
	closers []func()
	closed  bool
}

type closer interface{ Close() }

// track registers c to be closed with the view. A view that is already
// closed closes c right away.
func (v *viewState) track(c closer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		c.Close()
		return
	}
	v.closers = append(v.closers, c.Close)
}

func (v *viewState) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, c := range v.closers {
		c()
	}
	v.closers = nil
	v.closed = true
}

// onSessionChange drops the current view on every transition.
func (a *App) onSessionChange(session.State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active.close()
	a.active = &viewState{}
}

// current returns the state for the view the session dispatches to,
// building it on first use.
func (a *App) current() *viewState {
	st := a.session.State()
	view := views.Dispatch(st)
	id, _ := session.IdentityOf(st)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active.view == view && a.active.identity.ID == id.ID && a.active.built() {
		return a.active
	}
	a.active.close()
	a.active = a.buildView(view, id)
	return a.active
}

func (v *viewState) built() bool {
	switch v.view {
	case views.RegularView:
		return v.entries != nil
	case views.AdminView:
		return v.users != nil
	default:
		return true
	}
}

func (a *App) buildView(view views.View, id models.Identity) *viewState {
	v := &viewState{view: view, identity: id}

	switch view {
	case views.RegularView:
		v.profile = collections.NewProfile(a.client, id.ID)
		v.entries = collections.NewTextEntries(a.client, id.ID, a.log)
		v.voices = collections.NewUserVoices(a.client, id.ID, a.log)
		v.audios = collections.NewUserAudios(a.client, id.ID, a.log)
		v.track(v.profile)
		v.track(v.entries)
		v.track(v.voices)
		v.track(v.audios)

	case views.AdminView:
		v.users = collections.NewUsers(a.client, a.log)
		v.guests = collections.NewGuests(a.client, a.log)
		v.allVoices = collections.NewAllVoices(a.client, a.log)
		v.allAudios = collections.NewAllAudios(a.client, a.log)
		v.track(v.users)
		v.track(v.guests)
		v.track(v.allVoices)
		v.track(v.allAudios)
	}

	return v
}

// errSessionEnded is returned by commands that outlive the session they were
// started in, for example after a forced logout while answering prompts.
const errSessionEnded = usageError("Your session has ended. Please log in again.")

const errWrongView = usageError("That command is not available in this view. Type help for the list.")

// activeView returns the state of the logged-in view a command runs against.
func (a *App) activeView() (*viewState, error) {
	v := a.current()
	if v.view == views.AuthView {
		return nil, errSessionEnded
	}
	return v, nil
}

// stillActive reports errSessionEnded once v has been torn down by a
// session transition.
func (v *viewState) stillActive() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errSessionEnded
	}
	return nil
}

// selectUser points the admin's per-user collections at userID.
func (a *App) selectUser(v *viewState, userID int64) {
	v.selected.Select(userID)
	a.scopeToUser(v, userID)
}

func (a *App) scopeToUser(v *viewState, userID int64) {
	if v.profile != nil {
		v.profile.Close()
	}
	if v.entries != nil {
		v.entries.Close()
	}
	v.profile = collections.NewProfile(a.client, userID)
	v.entries = collections.NewTextEntries(a.client, userID, a.log)
	v.track(v.profile)
	v.track(v.entries)
}

// clearSelection forgets the admin's selected user and everything scoped to
// it.
func (v *viewState) clearSelection() {
	v.selected.Clear()
	if v.profile != nil {
		v.profile.Close()
		v.profile = nil
	}
	if v.entries != nil {
		v.entries.Close()
		v.entries = nil
	}
}
