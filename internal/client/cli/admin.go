package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/voicedesk/internal/client/collections"
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
)

const errNoSelection = usageError("No user selected. Use user-select <id> first.")

func (a *App) ListUsers(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.users == nil {
		return errWrongView
	}

	items, err := v.users.List(ctx)
	if err != nil {
		return err
	}
	sel, _ := v.selected.Reselect(items)
	if sel.ID == 0 {
		v.clearSelection()
	}

	rows := make([][]string, 0, len(items))
	for _, u := range items {
		mark := ""
		if u.ID == sel.ID {
			mark = "*"
		}
		rows = append(rows, []string{
			mark, idStr(u.ID), u.Username, u.Email, string(u.Role), yesNo(u.IsActive), formatTime(u.LastLogin),
		})
	}
	table(a.out, []string{"", "ID", "USERNAME", "EMAIL", "ROLE", "ACTIVE", "LAST LOGIN"}, rows)
	return nil
}

// SelectUser makes a listed user the target of the per-user commands.
func (a *App) SelectUser(ctx context.Context, args []string) error {
	userID, err := argID(args, 0, "user id")
	if err != nil {
		return err
	}

	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.users == nil {
		return errWrongView
	}

	u, ok := v.users.Find(userID)
	if !ok {
		if _, err := v.users.List(ctx); err != nil {
			return err
		}
		if u, ok = v.users.Find(userID); !ok {
			return usageError(fmt.Sprintf("No user with id %d.", userID))
		}
	}

	a.selectUser(v, u.ID)
	fmt.Fprintf(a.out, "Selected %s (%d).\n", u.Username, u.ID)
	return nil
}

// selectedUser resolves the selection against the current snapshot.
func (a *App) selectedUser(v *viewState) (models.User, error) {
	u, ok := v.selected.Reselect(v.users.Snapshot())
	if !ok {
		v.clearSelection()
		return models.User{}, errNoSelection
	}
	return u, nil
}

// UpdateUser edits the selected user. Empty answers keep the stored value.
func (a *App) UpdateUser(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.users == nil {
		return errWrongView
	}

	u, err := a.selectedUser(v)
	if err != nil {
		return err
	}

	var upd models.UserUpdate

	email, err := a.askDefault("Email", u.Email)
	if err != nil {
		return err
	}
	if email != u.Email {
		upd.Email = &email
	}

	role, err := a.askDefault("Role (REGULAR or ADMIN)", string(u.Role))
	if err != nil {
		return err
	}
	r := models.Role(strings.ToUpper(role))
	if !r.Valid() {
		return usageError(fmt.Sprintf("Unknown role %q.", role))
	}
	if r != u.Role {
		upd.Role = &r
	}

	active, err := a.askDefault("Active (yes or no)", yesNo(u.IsActive))
	if err != nil {
		return err
	}
	switch strings.ToLower(active) {
	case "yes", "y":
		if !u.IsActive {
			t := true
			upd.IsActive = &t
		}
	case "no", "n":
		if u.IsActive {
			f := false
			upd.IsActive = &f
		}
	default:
		return usageError(fmt.Sprintf("Expected yes or no, got %q.", active))
	}

	if err := v.stillActive(); err != nil {
		return err
	}
	if _, err := v.users.Update(ctx, u.ID, upd); err != nil {
		return err
	}

	// The selection follows the fresh snapshot, not the update response.
	fresh, ok := v.selected.Reselect(v.users.Snapshot())
	if !ok {
		v.clearSelection()
		fmt.Fprintln(a.out, "User updated; it is no longer listed.")
		return nil
	}
	fmt.Fprintf(a.out, "User %s updated.\n", fresh.Username)
	return nil
}

// DeleteUser deletes the user given by id, or the selected one.
func (a *App) DeleteUser(ctx context.Context, args []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.users == nil {
		return errWrongView
	}

	var userID int64
	if len(args) > 0 {
		if userID, err = argID(args, 0, "user id"); err != nil {
			return err
		}
	} else {
		u, err := a.selectedUser(v)
		if err != nil {
			return err
		}
		userID = u.ID
	}

	if err := v.users.Delete(ctx, userID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %d deleted.\n", userID)

	if selID, ok := v.selected.ID(); ok {
		if _, still := v.selected.Reselect(v.users.Snapshot()); !still {
			v.clearSelection()
			fmt.Fprintf(a.out, "Selection of user %d cleared.\n", selID)
		}
	}
	return nil
}

func (a *App) ListGuests(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.guests == nil {
		return errWrongView
	}

	items, err := v.guests.List(ctx)
	if err != nil {
		return err
	}
	a.printGuests(items)
	return nil
}

func (a *App) printGuests(items []models.Guest) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No guests.")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, g := range items {
		rows = append(rows, []string{
			idStr(g.ID), formatTime(g.CreatedAt), formatTime(g.LastActiveDate), formatTime(g.ExpirationDate),
		})
	}
	table(a.out, []string{"ID", "CREATED", "LAST ACTIVE", "EXPIRES"}, rows)
}

func (a *App) AddGuest(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.guests == nil {
		return errWrongView
	}

	g, err := v.guests.Create(ctx, collections.None{})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Guest %d created, expires %s.\n", g.ID, formatTime(g.ExpirationDate))
	return nil
}

func (a *App) ShowGuest(ctx context.Context, args []string) error {
	guestID, err := argID(args, 0, "guest id")
	if err != nil {
		return err
	}
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.guests == nil {
		return errWrongView
	}
	g, err := v.guests.Get(ctx, guestID)
	if err != nil {
		return err
	}
	a.printGuests([]models.Guest{g})
	return nil
}

func (a *App) TouchGuest(ctx context.Context, args []string) error {
	guestID, err := argID(args, 0, "guest id")
	if err != nil {
		return err
	}
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.guests == nil {
		return errWrongView
	}
	g, err := v.guests.Touch(ctx, guestID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Guest %d now expires %s.\n", g.ID, formatTime(g.ExpirationDate))
	return nil
}

func (a *App) DeleteGuest(ctx context.Context, args []string) error {
	guestID, err := argID(args, 0, "guest id")
	if err != nil {
		return err
	}
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.guests == nil {
		return errWrongView
	}
	if err := v.guests.Delete(ctx, guestID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Guest %d deleted.\n", guestID)
	return nil
}

func (a *App) CleanupGuests(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.guests == nil {
		return errWrongView
	}

	msg, err := v.guests.Cleanup(ctx)
	if msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	return err
}

func (a *App) ListAllVoices(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.allVoices == nil {
		return errWrongView
	}

	items, err := v.allVoices.List(ctx)
	if err != nil {
		return err
	}
	a.printVoices(items)
	return nil
}

func (a *App) CreateDefaultVoices(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.allVoices == nil {
		return errWrongView
	}

	if err := v.allVoices.CreateDefaults(ctx); err != nil {
		return err
	}
	n := 0
	for _, vc := range v.allVoices.Snapshot() {
		if vc.IsDefault {
			n++
		}
	}
	fmt.Fprintf(a.out, "%d default voices available.\n", n)
	return nil
}

func (a *App) ListAllAudios(ctx context.Context, _ []string) error {
	v, err := a.activeView()
	if err != nil {
		return err
	}
	if v.allAudios == nil {
		return errWrongView
	}

	items, err := v.allAudios.List(ctx)
	if err != nil {
		return err
	}
	a.printAudios(items)
	return nil
}
