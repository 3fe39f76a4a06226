// Package logging is the structured logger shared by the gatepass client.
//
// The shell owns stdout for prompts, screens and reports, so log records
// only ever go to stderr (see cli.NewRootCommand). At the default info level
// that is a handful of lines per session: logins, submitted passes, refused
// screens. Run with --log-level debug to also see guard transitions and
// failed token checks.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	log.Info(ctx, "pass created", "pass_no", passNo, "items", n)
//
// The context is passed through to the handler; nothing is read from it yet.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record. The shell gives
	// each service its own, tagged with "component".
	With(args ...any) Logger
}
