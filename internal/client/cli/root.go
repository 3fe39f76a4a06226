package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/config"
	"github.com/dmitrijs2005/gatepass/internal/client/guard"
	"github.com/dmitrijs2005/gatepass/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "N/A"

// NewRootCommand builds the gatepass command tree. Without a subcommand it
// starts the interactive shell.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "gatepass",
		Short:         "Gate pass inventory client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive shell
  gatepass

  # Scriptable commands
  gatepass login
  gatepass search ProjectName "North Yard"
  gatepass search DateRange 2024-01-01 2024-01-31
  gatepass download PassNo PN-1001
  gatepass show PN-1001
`),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logging.New(errOut, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			app, err = NewApp(cmd.Context(), cfg, log, in, out)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer app.Close()
			return app.Run(cmd.Context())
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.CompletionOptions.DisableDefaultCmd = true
	config.RegisterFlags(root.PersistentFlags())

	// script wraps a scripted command: a rejected token ends the local
	// session, as it does in the shell.
	script := func(run func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			defer app.Close()
			ctx := cmd.Context()
			err := run(ctx, args)
			if errors.Is(err, client.ErrUnauthorized) {
				app.auth.Invalidate(ctx)
			}
			return err
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "login",
			Short: "Log in and keep the session for later commands",
			Args:  cobra.NoArgs,
			RunE: script(func(ctx context.Context, _ []string) error {
				return app.authenticate(ctx)
			}),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "End the session",
			Args:  cobra.NoArgs,
			RunE: script(func(ctx context.Context, _ []string) error {
				return app.Logout(ctx)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show who is logged in",
			Args:  cobra.NoArgs,
			RunE: script(func(ctx context.Context, _ []string) error {
				return app.Status(ctx)
			}),
		},
		&cobra.Command{
			Use:   "show <passNo>",
			Short: "Print one pass",
			Args:  cobra.ExactArgs(1),
			RunE: script(func(ctx context.Context, args []string) error {
				return app.showPass(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "search <type> [value | from to]",
			Short: "Search passes by PassNo, ItemPartNo, ProjectName or DateRange",
			Args:  cobra.MinimumNArgs(1),
			RunE: script(func(ctx context.Context, args []string) error {
				if err := app.authorize(ctx, guard.ScreenSearch); err != nil {
					return err
				}
				q, err := parseQuery(strings.Join(args, " "))
				if err != nil {
					return err
				}
				return app.runSearch(ctx, q)
			}),
		},
		&cobra.Command{
			Use:   "download <type> [value | from to]",
			Short: "Save search results to the download directory",
			Args:  cobra.MinimumNArgs(1),
			RunE: script(func(ctx context.Context, args []string) error {
				if err := app.authorize(ctx, guard.ScreenSearch); err != nil {
					return err
				}
				q, err := parseQuery(strings.Join(args, " "))
				if err != nil {
					return err
				}
				return app.download(ctx, q)
			}),
		},
	)
	return root
}

// Run starts the session watcher and the shell and blocks until the
// operator exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.StartSessionWatcher(ctx)

	a.println(titleStyle.Render(appTitle) + mutedStyle.Render(" (type 'help' for commands)"))
	if a.isLoggedIn() {
		a.println(fmt.Sprintf("Welcome back, %s.", a.auth.Session().Name()))
		if err := a.Open(ctx, landing(a.auth.Session().Role)); errors.Is(err, io.EOF) {
			return nil
		}
	}
	runREPL(ctx, a, a.statusLine, a.reader)
	return nil
}

// Execute runs the command line against the process's standard streams.
func Execute(ctx context.Context) error {
	err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
	}
	return err
}
