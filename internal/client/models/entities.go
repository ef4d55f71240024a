package models

import "github.com/dmitrijs2005/voicedesk/internal/timex"

// Profile is one-to-one with User.
type Profile struct {
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	DateOfBirth       timex.Time `json:"date_of_birth"`
	PreferredLanguage string     `json:"preferred_language"`
}

// Guest is an anonymous, expiring session tracked by the backend.
type Guest struct {
	ID             int64      `json:"id"`
	CreatedAt      timex.Time `json:"created_at"`
	LastActiveDate timex.Time `json:"last_active_date"`
	ExpirationDate timex.Time `json:"expiration_date"`
}

func (g Guest) RecordID() int64 { return g.ID }

// CleanupResult is the reply of DELETE /guests/cleanup/.
type CleanupResult struct {
	Message string `json:"message"`
}

type TextEntry struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id,omitempty"`
	Content   string     `json:"content"`
	Language  string     `json:"language"`
	CreatedAt timex.Time `json:"created_at"`
}

func (e TextEntry) RecordID() int64 { return e.ID }

type TextEntryCreate struct {
	Content  string `json:"content"`
	Language string `json:"language"`
	UserID   int64  `json:"user_id"`
}

// Voice belongs to a user or, when UserID is nil, is a global default.
type Voice struct {
	ID                int64      `json:"id"`
	UserID            *int64     `json:"user_id"`
	VoiceName         string     `json:"voice_name"`
	OriginalFilePath  string     `json:"original_file_path"`
	ProcessedFilePath *string    `json:"processed_file_path"`
	Status            string     `json:"status"`
	IsDefault         bool       `json:"is_default"`
	Language          string     `json:"language"`
	Description       *string    `json:"description"`
	CreatedAt         timex.Time `json:"created_at"`
	UpdatedAt         timex.Time `json:"updated_at"`
}

func (v Voice) RecordID() int64 { return v.ID }

type VoiceCreate struct {
	VoiceName        string `json:"voice_name"`
	OriginalFilePath string `json:"original_file_path"`
	Language         string `json:"language"`
	Description      string `json:"description,omitempty"`
}

type VoiceUpdate struct {
	VoiceName        *string `json:"voice_name,omitempty"`
	Language         *string `json:"language,omitempty"`
	Description      *string `json:"description,omitempty"`
	OriginalFilePath *string `json:"original_file_path,omitempty"`
}

// AudioStatus is the generation state of an audio record.
type AudioStatus string

const (
	AudioCreated AudioStatus = "CREATED"
	AudioReady   AudioStatus = "READY"
	AudioFailed  AudioStatus = "FAILED"
)

type Audio struct {
	ID            int64       `json:"id"`
	TextEntryID   int64       `json:"text_entry_id"`
	VoiceID       *int64      `json:"voice_id"`
	VoiceName     *string     `json:"voice_name,omitempty"`
	AudioName     *string     `json:"audio_name,omitempty"`
	AudioPath     *string     `json:"audio_path,omitempty"`
	AudioDuration *float64    `json:"audio_duration,omitempty"`
	AudioSize     *int64      `json:"audio_size,omitempty"`
	DownloadURL   *string     `json:"download_url,omitempty"`
	Language      *string     `json:"language,omitempty"`
	Status        AudioStatus `json:"status"`
	CreatedAt     timex.Time  `json:"created_at"`
	UpdatedAt     timex.Time  `json:"updated_at"`
}

func (a Audio) RecordID() int64 { return a.ID }

type AudioCreate struct {
	TextEntryID int64  `json:"text_entry_id"`
	VoiceID     *int64 `json:"voice_id,omitempty"`
}
