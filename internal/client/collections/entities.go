package collections

import (
	"context"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/logging"
)

// DefaultPageSize is used for paginated admin listings.
const DefaultPageSize = 100

type (
	Users           = Collection[models.User, None, models.UserUpdate]
	TextEntries     = Collection[models.TextEntry, models.TextEntryCreate, None]
	UserVoices      = Collection[models.Voice, models.VoiceCreate, models.VoiceUpdate]
	UserAudios      = Collection[models.Audio, models.AudioCreate, None]
	TextEntryAudios = Collection[models.Audio, models.AudioCreate, None]
	AllAudios       = Collection[models.Audio, None, None]
)

type UsersAPI interface {
	ListUsers(ctx context.Context, skip, limit int) ([]models.User, error)
	UpdateUser(ctx context.Context, userID int64, upd models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// NewUsers is the admin user list. Accounts are created by registration
// only.
func NewUsers(a UsersAPI, log logging.Logger) *Users {
	return New("users", Backend[models.User, None, models.UserUpdate]{
		List: func(ctx context.Context) ([]models.User, error) {
			return a.ListUsers(ctx, 0, DefaultPageSize)
		},
		Update: a.UpdateUser,
		Delete: a.DeleteUser,
	}, PolicyRelist, log)
}

type TextEntriesAPI interface {
	CreateTextEntry(ctx context.Context, req models.TextEntryCreate) (models.TextEntry, error)
	ListUserTextEntries(ctx context.Context, userID int64) ([]models.TextEntry, error)
	DeleteTextEntry(ctx context.Context, entryID int64) error
}

// NewTextEntries is scoped to one user; created entries are always owned
// by that user.
func NewTextEntries(a TextEntriesAPI, userID int64, log logging.Logger) *TextEntries {
	return New("text_entries", Backend[models.TextEntry, models.TextEntryCreate, None]{
		List: func(ctx context.Context) ([]models.TextEntry, error) {
			return a.ListUserTextEntries(ctx, userID)
		},
		Create: func(ctx context.Context, in models.TextEntryCreate) (models.TextEntry, error) {
			in.UserID = userID
			return a.CreateTextEntry(ctx, in)
		},
		Delete: a.DeleteTextEntry,
	}, PolicyRelist, log)
}

type UserVoicesAPI interface {
	CreateUserVoice(ctx context.Context, userID int64, req models.VoiceCreate) (models.Voice, error)
	ListUserVoices(ctx context.Context, userID int64) ([]models.Voice, error)
	UpdateUserVoice(ctx context.Context, userID, voiceID int64, upd models.VoiceUpdate) (models.Voice, error)
}

func NewUserVoices(a UserVoicesAPI, userID int64, log logging.Logger) *UserVoices {
	return New("user_voices", Backend[models.Voice, models.VoiceCreate, models.VoiceUpdate]{
		List: func(ctx context.Context) ([]models.Voice, error) {
			return a.ListUserVoices(ctx, userID)
		},
		Create: func(ctx context.Context, in models.VoiceCreate) (models.Voice, error) {
			return a.CreateUserVoice(ctx, userID, in)
		},
		Update: func(ctx context.Context, id int64, in models.VoiceUpdate) (models.Voice, error) {
			return a.UpdateUserVoice(ctx, userID, id, in)
		},
	}, PolicyRelist, log)
}

type AllVoicesAPI interface {
	ListVoices(ctx context.Context) ([]models.Voice, error)
	CreateDefaultVoices(ctx context.Context) error
}

// AllVoices is the admin view of every voice, defaults included.
type AllVoices struct {
	*Collection[models.Voice, None, None]
	api AllVoicesAPI
}

func NewAllVoices(a AllVoicesAPI, log logging.Logger) *AllVoices {
	return &AllVoices{
		Collection: New("voices", Backend[models.Voice, None, None]{List: a.ListVoices}, PolicyRelist, log),
		api:        a,
	}
}

// CreateDefaults asks the backend to seed the default voices and re-lists.
func (v *AllVoices) CreateDefaults(ctx context.Context) error {
	return v.Run(ctx, v.api.CreateDefaultVoices)
}

type UserAudiosAPI interface {
	CreateAudio(ctx context.Context, req models.AudioCreate) (models.Audio, error)
	ListUserAudios(ctx context.Context, userID int64) ([]models.Audio, error)
}

func NewUserAudios(a UserAudiosAPI, userID int64, log logging.Logger) *UserAudios {
	return New("user_audios", Backend[models.Audio, models.AudioCreate, None]{
		List: func(ctx context.Context) ([]models.Audio, error) {
			return a.ListUserAudios(ctx, userID)
		},
		Create: a.CreateAudio,
	}, PolicyRelist, log)
}

type TextEntryAudiosAPI interface {
	CreateAudio(ctx context.Context, req models.AudioCreate) (models.Audio, error)
	ListTextEntryAudios(ctx context.Context, entryID int64) ([]models.Audio, error)
}

// NewTextEntryAudios lists the audios rendered from one text entry.
func NewTextEntryAudios(a TextEntryAudiosAPI, entryID int64, log logging.Logger) *TextEntryAudios {
	return New("text_entry_audios", Backend[models.Audio, models.AudioCreate, None]{
		List: func(ctx context.Context) ([]models.Audio, error) {
			return a.ListTextEntryAudios(ctx, entryID)
		},
		Create: func(ctx context.Context, in models.AudioCreate) (models.Audio, error) {
			in.TextEntryID = entryID
			return a.CreateAudio(ctx, in)
		},
	}, PolicyRelist, log)
}

type AllAudiosAPI interface {
	ListAllAudios(ctx context.Context, skip, limit int) ([]models.Audio, error)
}

func NewAllAudios(a AllAudiosAPI, log logging.Logger) *AllAudios {
	return New("all_audios", Backend[models.Audio, None, None]{
		List: func(ctx context.Context) ([]models.Audio, error) {
			return a.ListAllAudios(ctx, 0, DefaultPageSize)
		},
	}, PolicyRelist, log)
}
