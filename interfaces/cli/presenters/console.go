package presenters

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"diskowner/application"
	"diskowner/domain/disk"
)

// Menu answers offered when a saved credential is found.
const (
	MenuReuse   = "1"
	MenuReplace = "2"
	MenuExit    = "3"
)

// Console renders the interactive session to a writer.
type Console struct {
	out      io.Writer
	profiles *ProfilePresenter

	title   *color.Color
	label   *color.Color
	success *color.Color
	failure *color.Color
	warning *color.Color
	notice  *color.Color
	muted   *color.Color
}

var _ application.ProgressReporter = (*Console)(nil)

// NewConsole creates a console. Colors are used only when out is a terminal.
func NewConsole(out io.Writer) *Console {
	c := &Console{
		out:      out,
		profiles: NewProfilePresenter(),
		title:    color.New(color.FgCyan, color.Bold),
		label:    color.New(color.FgCyan),
		success:  color.New(color.FgGreen),
		failure:  color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow),
		notice:   color.New(color.FgBlue),
		muted:    color.New(color.Faint),
	}

	enabled := !color.NoColor && isTerminal(out)
	for _, col := range []*color.Color{c.title, c.label, c.success, c.failure, c.warning, c.notice, c.muted} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Welcome prints the banner.
func (c *Console) Welcome() {
	fmt.Fprintln(c.out)
	c.title.Fprintln(c.out, "Y360 Disk URL Owner")
	c.muted.Fprintln(c.out, "Find the owner of a file shared from Yandex Disk")
	fmt.Fprintln(c.out)
}

// ConfigInfo shows the saved credential.
func (c *Console) ConfigInfo(maskedToken, orgID string) {
	fmt.Fprintln(c.out, "Current settings:")
	c.label.Fprint(c.out, "  Token: ")
	fmt.Fprintln(c.out, maskedToken)
	c.label.Fprint(c.out, "  Organization ID: ")
	fmt.Fprintln(c.out, orgID)
	fmt.Fprintln(c.out)
}

// ConfigMenu lists the actions available for a saved credential.
func (c *Console) ConfigMenu() {
	fmt.Fprintln(c.out, "Choose an action:")
	fmt.Fprintf(c.out, "  [%s] Continue with current settings\n", MenuReuse)
	fmt.Fprintf(c.out, "  [%s] Change settings\n", MenuReplace)
	fmt.Fprintf(c.out, "  [%s] Exit\n", MenuExit)
	fmt.Fprintln(c.out)
}

// TokenRequest introduces the token prompt.
func (c *Console) TokenRequest() {
	fmt.Fprintln(c.out)
	c.warning.Fprintln(c.out, "Enter an OAuth token for the Yandex 360 API")
}

// TokenValidation summarizes a token the identity endpoint accepted.
func (c *Console) TokenValidation(identity disk.Identity) {
	login := identity.Login
	if login == "" {
		login = "unknown"
	}
	c.success.Fprint(c.out, "✓ ")
	fmt.Fprintf(c.out, "Token accepted for %s\n", login)
	if len(identity.OrgIDs) > 0 {
		fmt.Fprintf(c.out, "  Organizations: %s\n", joinIDs(identity.OrgIDs))
	}
}

// ScopeValidation lists missing scopes. It prints nothing for a valid check.
func (c *Console) ScopeValidation(check disk.ScopeCheck) {
	if check.Valid {
		return
	}
	fmt.Fprintln(c.out)
	c.failure.Fprintln(c.out, "✗ Insufficient access rights")
	c.warning.Fprintln(c.out, "Missing scopes:")
	for _, scope := range check.Missing {
		fmt.Fprintf(c.out, "  • %s\n", scope)
	}
	c.muted.Fprintln(c.out, "Issue a token that carries these scopes")
}

// OrgRequest introduces the organization prompt and lists the token's organizations.
func (c *Console) OrgRequest(orgIDs []int64) {
	fmt.Fprintln(c.out)
	c.warning.Fprintln(c.out, "Enter the organization ID (org_id)")
	if len(orgIDs) > 0 {
		fmt.Fprintf(c.out, "  Available: %s\n", joinIDs(orgIDs))
	}
}

// ConfigSaved confirms the credential was written.
func (c *Console) ConfigSaved(path string) {
	c.success.Fprint(c.out, "✓ ")
	fmt.Fprintf(c.out, "Settings saved to %s\n", path)
}

// Instructions explains the accepted link forms.
func (c *Console) Instructions() {
	fmt.Fprintln(c.out)
	c.title.Fprintln(c.out, "Paste a link to a file on Yandex Disk")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Supported formats:")
	fmt.Fprintln(c.out, "  • Short: https://disk.yandex.ru/d/...")
	fmt.Fprintln(c.out, "  • Full: https://disk.yandex.ru/public/?hash=...")
	fmt.Fprintln(c.out, "  • Hash: dAEMkc1Q...")
	fmt.Fprintln(c.out)
	c.muted.Fprintln(c.out, "Enter 'q' or 'quit' to exit")
	fmt.Fprintln(c.out)
}

// StageStarted prints a progress line for a lookup stage.
func (c *Console) StageStarted(stage application.LookupStage) {
	c.warning.Fprint(c.out, "⟳ ")
	fmt.Fprintf(c.out, "%s...\n", stage)
}

// Profile prints the owner table.
func (c *Console) Profile(profile *disk.UserProfile) {
	vm := c.profiles.ToProfileViewModel(profile)

	fmt.Fprintln(c.out)
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, row := range vm.Rows {
		fmt.Fprintf(tw, "  %s\t%s\n", c.label.Sprint(row.Label), row.Value)
	}
	tw.Flush()
	fmt.Fprintln(c.out)
}

// LookupResult prints the profile of a successful lookup or the reason it failed.
func (c *Console) LookupResult(result *application.LookupResult) {
	if result.Succeeded() {
		c.Profile(result.Profile)
		return
	}
	c.Error(FormatLookupError(result.Err))
}

// Error prints a failure message.
func (c *Console) Error(message string) {
	fmt.Fprintln(c.out)
	c.failure.Fprint(c.out, "✗ Error: ")
	fmt.Fprintln(c.out, message)
	fmt.Fprintln(c.out)
}

// Warning prints a warning.
func (c *Console) Warning(message string) {
	c.warning.Fprint(c.out, "⚠ ")
	fmt.Fprintln(c.out, message)
}

// Info prints a neutral notice.
func (c *Console) Info(message string) {
	c.notice.Fprint(c.out, "ℹ ")
	fmt.Fprintln(c.out, message)
}

// Interrupted reports that input ended before the session finished.
func (c *Console) Interrupted() {
	fmt.Fprintln(c.out)
	c.Info("Interrupted by user")
}

// Goodbye prints the farewell line.
func (c *Console) Goodbye() {
	fmt.Fprintln(c.out)
	c.title.Fprintln(c.out, "Goodbye!")
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
