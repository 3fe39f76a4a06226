package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/guard"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	menu() []guard.Screen
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Show(ctx context.Context, passNo string) error
	Open(ctx context.Context, screen guard.Screen) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The prompt shows the current status (from statusFn). Logged out, only
// help, login, status and exit are offered. Logged in, help lists the screens
// the role may open; typing a screen name (or "open <screen>") goes through
// the guard. Handlers report their own errors, so the loop ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gp> %s > ", statusFn()))
		line, err := ReadLine(reader)
		if err != nil {
			return
		}
		cmd, rest := splitCommand(line)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help", "?":
			printlnFn(helpText(a))

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "show":
			_ = a.Show(ctx, rest)

		case "open":
			_ = a.Open(ctx, guard.Screen(strings.ToLower(rest)))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if _, err := guard.Required(guard.Screen(cmd)); err == nil {
				if err := a.Open(ctx, guard.Screen(cmd)); errors.Is(err, io.EOF) {
					return
				}
				continue
			}
			printlnFn("Unknown command:", cmd)
		}
	}
}

func helpText(a execIface) string {
	if !a.isLoggedIn() {
		return "Available commands: login, status, exit"
	}
	return "Screens: " + screenNames(a.menu()) + "\n" +
		"Available commands: open <screen>, show <passNo>, status, logout, exit"
}
