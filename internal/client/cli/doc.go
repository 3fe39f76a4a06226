// Package cli is the gatepass terminal client.
//
// NewRootCommand builds the cobra command tree. Run without a subcommand it
// starts an interactive shell: a login prompt, then a sub-shell per screen
// (dashboard, item-in, item-out, edit, search, add-user, projects). Every
// screen is opened through the guard, so a missing, rejected or wrong-role
// session sends the operator back to login. The scriptable subcommands
// (login, logout, status, search, download, show) share the same session
// store and guard.
//
// Output is styled with lipgloss; all prompts and the shell read from one
// bufio.Reader so piped input works the same as a terminal.
package cli
