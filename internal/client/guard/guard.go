// Package guard decides whether the current session may open a screen.
//
// Every check starts from Validating and ends in Authorized or Redirecting.
// Nothing is cached between checks: each navigation asks the server again.
package guard

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/logging"
)

type Screen string

const (
	ScreenLogin     Screen = "login"
	ScreenDashboard Screen = "dashboard"
	ScreenItemIn    Screen = "item-in"
	ScreenItemOut   Screen = "item-out"
	ScreenSearch    Screen = "search"
	ScreenEdit      Screen = "edit"
	ScreenAddUser   Screen = "add-user"
	ScreenProjects  Screen = "projects"
)

// requirements maps every screen to the role it needs. An empty role marks a
// public screen.
var requirements = map[Screen]models.Role{
	ScreenLogin:     "",
	ScreenDashboard: models.RoleUser,
	ScreenItemIn:    models.RoleUser,
	ScreenItemOut:   models.RoleUser,
	ScreenSearch:    models.RoleUser,
	ScreenEdit:      models.RoleUser,
	ScreenAddUser:   models.RoleAdmin,
	ScreenProjects:  models.RoleAdmin,
}

var ErrUnknownScreen = errors.New("unknown screen")

// Required returns the role a screen needs; public screens report "".
func Required(s Screen) (models.Role, error) {
	role, ok := requirements[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScreen, s)
	}
	return role, nil
}

// ScreensFor lists the screens a role may open, sorted by name.
func ScreensFor(role models.Role) []Screen {
	var out []Screen
	for s, r := range requirements {
		if r != "" && r == role {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type State int

const (
	Validating State = iota
	Authorized
	Redirecting
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Authorized:
		return "authorized"
	case Redirecting:
		return "redirecting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Reason explains a redirect.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNoSession    Reason = "not logged in"
	ReasonInvalidToken Reason = "session is no longer valid"
	ReasonWrongRole    Reason = "not allowed for this role"
)

type Decision struct {
	Screen   Screen
	State    State
	Reason   Reason
	Redirect Screen
}

func (d Decision) Allowed() bool { return d.State == Authorized }

// Authenticator is the slice of the auth service the guard needs.
type Authenticator interface {
	Session() models.Session
	ValidateToken(ctx context.Context) bool
	Invalidate(ctx context.Context)
}

type Guard struct {
	auth Authenticator
	log  logging.Logger

	// observe, when set, sees every state the check passes through.
	observe func(Screen, State)
}

func New(auth Authenticator, log logging.Logger) *Guard {
	return &Guard{auth: auth, log: log}
}

// Observe registers a callback for state transitions, e.g. to show a
// "checking session" line while the server is asked.
func (g *Guard) Observe(fn func(Screen, State)) {
	g.observe = fn
}

func (g *Guard) enter(s Screen, st State) {
	if g.observe != nil {
		g.observe(s, st)
	}
}

// Check runs one authorization pass for screen.
func (g *Guard) Check(ctx context.Context, screen Screen) (Decision, error) {
	required, err := Required(screen)
	if err != nil {
		return Decision{}, err
	}

	g.enter(screen, Validating)

	if required == "" {
		return g.allow(screen), nil
	}

	sess := g.auth.Session()
	if sess.Token == "" {
		return g.redirect(ctx, screen, ReasonNoSession), nil
	}

	if !g.auth.ValidateToken(ctx) {
		g.auth.Invalidate(ctx)
		return g.redirect(ctx, screen, ReasonInvalidToken), nil
	}

	if sess.Role != required {
		return g.redirect(ctx, screen, ReasonWrongRole), nil
	}

	return g.allow(screen), nil
}

func (g *Guard) allow(screen Screen) Decision {
	g.enter(screen, Authorized)
	return Decision{Screen: screen, State: Authorized}
}

func (g *Guard) redirect(ctx context.Context, screen Screen, reason Reason) Decision {
	g.enter(screen, Redirecting)
	g.log.Info(ctx, "screen refused", "screen", screen, "reason", string(reason))
	return Decision{Screen: screen, State: Redirecting, Reason: reason, Redirect: ScreenLogin}
}
