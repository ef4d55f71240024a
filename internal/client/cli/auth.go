package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askDefault shows def next to the prompt and returns it for an empty answer.
func (a *App) askDefault(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	s, err := a.ask(prompt)
	if err != nil || s == "" {
		return def, err
	}
	return s, nil
}

// askPassword reads without echo on a terminal and falls back to a plain
// line when input is piped.
func (a *App) askPassword(prompt string) ([]byte, error) {
	if !isTerminal(int(os.Stdin.Fd())) {
		s, err := a.ask(prompt)
		return []byte(s), err
	}
	return getPassword(prompt, a.out)
}

// Register prompts for the new account, creates it and logs in with the
// same credentials. The password is wiped before returning.
func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	email, err := a.ask("Email")
	if err != nil {
		return err
	}

	password, err := a.askPassword("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := a.askPassword("Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		return usageError("Passwords do not match.")
	}

	role, err := a.askDefault("Role (REGULAR or ADMIN)", string(models.RoleRegular))
	if err != nil {
		return err
	}
	r := models.Role(strings.ToUpper(role))
	if !r.Valid() {
		return usageError(fmt.Sprintf("Unknown role %q.", role))
	}

	id, err := a.session.Register(ctx, models.UserCreate{
		Username: username,
		Email:    email,
		Password: string(password),
		Role:     r,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", id.Username)
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context, _ []string) error {
	username, err := a.ask("Username")
	if err != nil {
		return err
	}

	password, err := a.askPassword("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.session.Login(ctx, username, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s.\n", id.Username)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the cached identity without calling the backend.
func (a *App) WhoAmI(_ context.Context, _ []string) error {
	id, ok := a.session.Identity()
	if !ok {
		return usageError("Not logged in.")
	}
	table(a.out, []string{"ID", "USERNAME", "EMAIL", "ROLE", "ACTIVE", "CREATED", "LAST LOGIN"}, [][]string{{
		idStr(id.ID), id.Username, id.Email, string(id.Role), yesNo(id.IsActive),
		formatTime(id.CreatedAt), formatTime(id.LastLogin),
	}})
	return nil
}

// VerifyPassword checks a password against the logged-in account.
func (a *App) VerifyPassword(ctx context.Context, _ []string) error {
	id, ok := a.session.Identity()
	if !ok {
		return usageError("Not logged in.")
	}

	password, err := a.askPassword("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.VerifyPassword(ctx, id.ID, string(password)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password is correct.")
	return nil
}
