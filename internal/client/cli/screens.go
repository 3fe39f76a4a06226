package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/guard"
)

// command is one line of a screen's sub-shell.
type command struct {
	name  string
	usage string
	help  string
	run   func(ctx context.Context, args string) error
}

// Open asks the guard for screen and runs its sub-shell. A refused screen
// replaces the current history entry with login.
func (a *App) Open(ctx context.Context, screen guard.Screen) error {
	if screen == guard.ScreenLogin {
		if a.isLoggedIn() {
			a.println("Already logged in as " + a.auth.Session().Username + ".")
			return nil
		}
		return a.Login(ctx)
	}

	if err := a.authorize(ctx, screen); err != nil {
		return a.handleErr(ctx, err)
	}

	run, ok := a.screens()[screen]
	if !ok {
		return a.handleErr(ctx, fmt.Errorf("%w: %q", guard.ErrUnknownScreen, screen))
	}

	a.nav.Push(screen)
	err := run(ctx)
	if errors.Is(err, errRedirected) {
		return err
	}
	a.nav.Back()
	return err
}

func (a *App) screens() map[guard.Screen]func(context.Context) error {
	return map[guard.Screen]func(context.Context) error{
		guard.ScreenDashboard: a.dashboardScreen,
		guard.ScreenItemIn:    a.itemInScreen,
		guard.ScreenItemOut:   a.itemOutScreen,
		guard.ScreenEdit:      a.editScreen,
		guard.ScreenSearch:    a.searchScreen,
		guard.ScreenAddUser:   a.addUserScreen,
		guard.ScreenProjects:  a.projectsScreen,
	}
}

// runScreen is the loop shared by every sub-shell. It returns nil on back,
// errRedirected when the session went away and io.EOF when input ends.
func (a *App) runScreen(ctx context.Context, screen guard.Screen, cmds []command) error {
	a.println(renderChrome(a.auth.Session(), screen, a.now()))
	a.printCommands(cmds)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !a.isLoggedIn() {
			return errRedirected
		}

		a.printf("%s> ", screen)
		line, err := ReadLine(a.reader)
		if err != nil {
			return err
		}
		name, args := splitCommand(line)

		switch name {
		case "":
			continue
		case "help", "?":
			a.printCommands(cmds)
			continue
		case "back", "close":
			return nil
		case "status":
			_ = a.Status(ctx)
			continue
		case "logout":
			_ = a.Logout(ctx)
			return errRedirected
		case "open":
			if err := a.openFrom(ctx, screen, guard.Screen(strings.ToLower(args))); err != nil {
				return err
			}
			continue
		}

		if c, ok := findCommand(cmds, name); ok {
			if err := a.handleErr(ctx, c.run(ctx, args)); err != nil {
				return err
			}
			continue
		}
		if _, err := guard.Required(guard.Screen(name)); err == nil {
			if err := a.openFrom(ctx, screen, guard.Screen(name)); err != nil {
				return err
			}
			continue
		}
		a.println("Unknown command:", name, "(type help)")
	}
}

// openFrom opens target on top of the current screen and repaints the
// chrome when the operator comes back.
func (a *App) openFrom(ctx context.Context, current, target guard.Screen) error {
	err := a.Open(ctx, target)
	if errors.Is(err, errRedirected) || errors.Is(err, io.EOF) {
		return err
	}
	a.println(renderChrome(a.auth.Session(), current, a.now()))
	return nil
}

func findCommand(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *App) printCommands(cmds []command) {
	rows := make([][]string, 0, len(cmds)+3)
	for _, c := range cmds {
		usage := c.usage
		if usage == "" {
			usage = c.name
		}
		rows = append(rows, []string{usage, c.help})
	}
	rows = append(rows,
		[]string{"<screen>", "open " + screenNames(a.menu())},
		[]string{"back", "leave this screen"},
		[]string{"logout", "end the session"},
	)
	a.println(newTable("Command", "Description").Rows(rows...).String())
}

func screenStrings(screens []guard.Screen) []string {
	names := make([]string, len(screens))
	for i, s := range screens {
		names[i] = string(s)
	}
	return names
}

func screenNames(screens []guard.Screen) string {
	return strings.Join(screenStrings(screens), ", ")
}

// dashboardScreen is the landing screen of the user role: it lists what the
// role can open and nothing else.
func (a *App) dashboardScreen(ctx context.Context) error {
	return a.runScreen(ctx, guard.ScreenDashboard, []command{
		{
			name: "menu",
			help: "list the screens you can open",
			run: func(ctx context.Context, _ string) error {
				a.println(renderList("Screen", screenStrings(a.menu())))
				return nil
			},
		},
		{
			name:  "show",
			usage: "show <passNo>",
			help:  "print one pass",
			run: func(ctx context.Context, args string) error {
				rec, err := a.passes.Fetch(ctx, args)
				if err != nil {
					return err
				}
				a.println(renderRecord(*rec))
				return nil
			},
		},
	})
}
