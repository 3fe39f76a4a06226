package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatepass/internal/client/guard"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// landing is the first screen after a successful login.
func landing(role models.Role) guard.Screen {
	if role == models.RoleAdmin {
		return guard.ScreenAddUser
	}
	return guard.ScreenDashboard
}

// Login prompts for credentials, starts a session and opens the landing
// screen of the role. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if err := a.authenticate(ctx); err != nil {
		a.println(describeError(err))
		return err
	}
	return a.Open(ctx, landing(a.auth.Session().Role))
}

// authenticate is Login without the landing screen, for scripted runs.
func (a *App) authenticate(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		return err
	}
	a.nav.Reset(guard.ScreenLogin)
	a.println(successStyle.Render(fmt.Sprintf("Welcome, %s.", s.Name())))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not logged in.")
		return nil
	}
	a.auth.Logout(ctx)
	a.println("Logged out.")
	return nil
}

// Status prints the chrome for the current screen.
func (a *App) Status(ctx context.Context) error {
	a.println(renderChrome(a.auth.Session(), a.nav.Current(), a.now()))
	return nil
}

// Show prints one pass read-only.
func (a *App) Show(ctx context.Context, passNo string) error {
	return a.handleErr(ctx, a.showPass(ctx, passNo))
}

// showPass reads passes under the same guard as the search screen; only the
// user role may read them.
func (a *App) showPass(ctx context.Context, passNo string) error {
	if err := a.authorize(ctx, guard.ScreenSearch); err != nil {
		return err
	}
	rec, err := a.passes.Fetch(ctx, passNo)
	if err != nil {
		return err
	}
	a.println(renderRecord(*rec))
	return nil
}

func (a *App) menu() []guard.Screen {
	return guard.ScreensFor(a.auth.Session().Role)
}

func (a *App) statusLine() string {
	s := a.auth.Session()
	if s.Anonymous() {
		return "not logged in"
	}
	return fmt.Sprintf("%s (%s) @ %s", s.Username, s.Role, a.nav.Current())
}
