package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/client/collections"
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/timex"
)

const contentWidth = 48

// ShowProfile prints the profile of the user the view is scoped to.
func (a *App) ShowProfile(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	profile := v.profile
	if profile == nil {
		return errNoSelection
	}

	p, err := profile.Fetch(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintln(a.out, "No profile yet. Use profile-edit to create one.")
		return nil
	}

	table(a.out, []string{"FIRST NAME", "LAST NAME", "BORN", "LANGUAGE"}, [][]string{{
		p.FirstName, p.LastName, formatDate(p.DateOfBirth), p.PreferredLanguage,
	}})
	return nil
}

// EditProfile prompts for each field, offering the stored value as the
// default, and saves the result.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	profile := v.profile
	if profile == nil {
		return errNoSelection
	}

	cur, err := profile.Fetch(ctx)
	if err != nil {
		return err
	}
	var in models.Profile
	if cur != nil {
		in = *cur
	}

	if in.FirstName, err = a.askDefault("First name", in.FirstName); err != nil {
		return err
	}
	if in.LastName, err = a.askDefault("Last name", in.LastName); err != nil {
		return err
	}

	born := ""
	if !in.DateOfBirth.IsZero() {
		born = in.DateOfBirth.Format(dateLayout)
	}
	if born, err = a.askDefault("Date of birth (YYYY-MM-DD)", born); err != nil {
		return err
	}
	if born != "" {
		t, err := time.Parse(dateLayout, born)
		if err != nil {
			return usageError(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", born))
		}
		in.DateOfBirth = timex.NewTime(t)
	}

	if in.PreferredLanguage, err = a.askDefault("Preferred language", in.PreferredLanguage); err != nil {
		return err
	}

	switch {
	case in.FirstName == "":
		return usageError("Please enter your first name.")
	case in.LastName == "":
		return usageError("Please enter your last name.")
	case in.DateOfBirth.IsZero():
		return usageError("Please enter your date of birth.")
	case in.PreferredLanguage == "":
		return usageError("Please select your preferred language.")
	}

	if err := v.stillActive(); err != nil {
		return err
	}
	if _, err := profile.Save(ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile saved.")
	return nil
}

func (a *App) ListEntries(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	entries := v.entries
	if entries == nil {
		return errNoSelection
	}

	items, err := entries.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No text entries.")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, []string{idStr(e.ID), e.Language, formatTime(e.CreatedAt), truncate(e.Content, contentWidth)})
	}
	table(a.out, []string{"ID", "LANG", "CREATED", "CONTENT"}, rows)
	return nil
}

func (a *App) AddEntry(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	entries := v.entries
	if entries == nil {
		return errNoSelection
	}

	content, err := GetMultiline(a.reader, "Text", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		return usageError("Text must not be empty.")
	}
	lang, err := a.askDefault("Language", "en")
	if err != nil {
		return err
	}

	if err := v.stillActive(); err != nil {
		return err
	}
	e, err := entries.Create(ctx, models.TextEntryCreate{Content: content, Language: lang})
	if e.ID != 0 {
		fmt.Fprintf(a.out, "Text entry %d created.\n", e.ID)
	}
	return err
}

func (a *App) DeleteEntry(ctx context.Context, args []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	entries := v.entries
	if entries == nil {
		return errNoSelection
	}

	entryID, err := argID(args, 0, "text entry id")
	if err != nil {
		return err
	}
	if err := entries.Delete(ctx, entryID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Text entry %d deleted.\n", entryID)
	return nil
}

func (a *App) ListVoices(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.voices == nil {
		return errWrongView
	}

	items, err := v.voices.List(ctx)
	if err != nil {
		return err
	}
	a.printVoices(items)
	return nil
}

func (a *App) printVoices(items []models.Voice) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No voices.")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, vc := range items {
		rows = append(rows, []string{
			idStr(vc.ID), vc.VoiceName, vc.Language, vc.Status, yesNo(vc.IsDefault), orDash(vc.Description),
		})
	}
	table(a.out, []string{"ID", "NAME", "LANG", "STATUS", "DEFAULT", "DESCRIPTION"}, rows)
}

func (a *App) AddVoice(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.voices == nil {
		return errWrongView
	}

	var in models.VoiceCreate
	if in.VoiceName, err = a.ask("Voice name"); err != nil {
		return err
	}
	if in.OriginalFilePath, err = a.ask("Sample file path"); err != nil {
		return err
	}
	if in.Language, err = a.askDefault("Language", "en"); err != nil {
		return err
	}
	if in.Description, err = a.ask("Description (optional)"); err != nil {
		return err
	}
	if in.VoiceName == "" || in.OriginalFilePath == "" {
		return usageError("Voice name and sample file path are required.")
	}

	if err := v.stillActive(); err != nil {
		return err
	}
	vc, err := v.voices.Create(ctx, in)
	if vc.ID != 0 {
		fmt.Fprintf(a.out, "Voice %d created.\n", vc.ID)
	}
	return err
}

// EditVoice updates the fields the user answers; empty answers keep the
// stored value.
func (a *App) EditVoice(ctx context.Context, args []string) error {
	voiceID, err := argID(args, 0, "voice id")
	if err != nil {
		return err
	}

	v, err := a.activeView()
	if err != nil {
		return err
	}
	voices := v.voices
	if voices == nil {
		return errWrongView
	}

	cur, ok := voices.Find(voiceID)
	if !ok {
		if _, err := voices.List(ctx); err != nil {
			return err
		}
		if cur, ok = voices.Find(voiceID); !ok {
			return usageError(fmt.Sprintf("No voice with id %d.", voiceID))
		}
	}

	var upd models.VoiceUpdate
	for _, f := range []struct {
		prompt string
		cur    string
		dst    **string
	}{
		{"Voice name", cur.VoiceName, &upd.VoiceName},
		{"Language", cur.Language, &upd.Language},
		{"Description", orEmpty(cur.Description), &upd.Description},
	} {
		s, err := a.askDefault(f.prompt, f.cur)
		if err != nil {
			return err
		}
		if s != f.cur {
			*f.dst = &s
		}
	}

	if err := v.stillActive(); err != nil {
		return err
	}
	if _, err := voices.Update(ctx, voiceID, upd); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Voice %d updated.\n", voiceID)
	return nil
}

// ListAudios prints the user's audios, or those of one text entry when an
// id is given.
func (a *App) ListAudios(ctx context.Context, args []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.audios == nil {
		return errWrongView
	}

	var items []models.Audio
	if len(args) > 0 {
		entryID, err := argID(args, 0, "text entry id")
		if err != nil {
			return err
		}
		c := collections.NewTextEntryAudios(a.client, entryID, a.log)
		v.track(c)
		items, err = c.List(ctx)
		if err != nil {
			return err
		}
	} else if items, err = v.audios.List(ctx); err != nil {
		return err
	}

	a.printAudios(items)
	return nil
}

func (a *App) printAudios(items []models.Audio) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No audios.")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, au := range items {
		rows = append(rows, []string{
			idStr(au.ID), idStr(au.TextEntryID), orDash(au.VoiceName), string(au.Status),
			orDash(au.AudioDuration), formatTime(au.CreatedAt), orDash(au.DownloadURL),
		})
	}
	table(a.out, []string{"ID", "ENTRY", "VOICE", "STATUS", "SECONDS", "CREATED", "URL"}, rows)
}

// AddAudio requests an audio rendering of a text entry, optionally with a
// specific voice.
func (a *App) AddAudio(ctx context.Context, args []string) error {
	entryID, err := argID(args, 0, "text entry id")
	if err != nil {
		return err
	}
	in := models.AudioCreate{TextEntryID: entryID}
	if len(args) > 1 {
		voiceID, err := argID(args, 1, "voice id")
		if err != nil {
			return err
		}
		in.VoiceID = &voiceID
	}

	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.audios == nil {
		return errWrongView
	}
	au, err := v.audios.Create(ctx, in)
	if au.ID != 0 {
		fmt.Fprintf(a.out, "Audio %d requested (%s).\n", au.ID, strings.ToLower(string(au.Status)))
	}
	return err
}

func orEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
