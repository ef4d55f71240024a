package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dmitrijs2005/voicedesk/internal/client/api"
	"github.com/dmitrijs2005/voicedesk/internal/client/collections"
	"github.com/dmitrijs2005/voicedesk/internal/client/session"
	"github.com/dmitrijs2005/voicedesk/internal/timex"
)

const (
	msgSessionExpired = "Your session has expired. Please log in again."
	msgUnreachable    = "The server is unreachable. Please try again later."
	dateLayout        = "2006-01-02"
	timeLayout        = "2006-01-02 15:04"
)

// usageError is a malformed command line. Its text is shown as is.
type usageError string

func (e usageError) Error() string { return string(e) }

// describeError turns a command failure into the line shown to the user.
func describeError(err error) string {
	var (
		authErr  *session.AuthError
		srvErr   *api.ServerError
		netErr   *api.NetworkError
		usageErr usageError
	)

	switch {
	case errors.As(err, &usageErr):
		return usageErr.Error()
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.Is(err, api.ErrUnauthorized):
		return msgSessionExpired
	case errors.Is(err, collections.ErrRefreshFailed):
		return "Saved, but the list could not be refreshed. Run the list command again."
	case errors.Is(err, collections.ErrUnsupported):
		return "This operation is not available here."
	case errors.Is(err, session.ErrAlreadyAuthenticated):
		return "You are already logged in."
	case errors.As(err, &srvErr):
		if srvErr.HasDetail() {
			return "Error: " + srvErr.Detail
		}
		return fmt.Sprintf("Error: server responded with status %d", srvErr.Status)
	case errors.As(err, &netErr):
		return msgUnreachable
	default:
		return "Error: " + err.Error()
	}
}

// argID parses args[i] as a record id. name is used in the usage message.
func argID(args []string, i int, name string) (int64, error) {
	if i >= len(args) {
		return 0, usageError(fmt.Sprintf("Missing %s.", name))
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError(fmt.Sprintf("Invalid %s: %q", name, args[i]))
	}
	return id, nil
}

// table writes aligned columns to w.
func table(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

func formatTime(t timex.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func formatDate(t timex.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func orDash[T any](p *T) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncate shortens s to at most n runes on one line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func idStr(v int64) string {
	return strconv.FormatInt(v, 10)
}
