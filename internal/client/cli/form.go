package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/editor"
)

// form holds the editor of a pass screen. ed is nil until a record is
// fetched on the edit and item-out screens.
type form struct {
	ed *editor.Editor
}

func (f *form) editor() (*editor.Editor, error) {
	if f.ed == nil {
		return nil, fmt.Errorf("%w: fetch a pass first", editor.ErrNoRecord)
	}
	return f.ed, nil
}

// parseIndex turns a 1-based item number into an index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("item number must be 1 or more, got %q", s)
	}
	return n - 1, nil
}

// cut splits "a b c" into "a" and "b c".
func cut(args string) (string, string) {
	head, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	return head, strings.TrimSpace(rest)
}

func (a *App) showForm(f *form) error {
	ed, err := f.editor()
	if err != nil {
		return err
	}
	a.println(renderRecord(ed.Record()))
	mode := "mode: " + ed.Mode().String()
	if ed.Dirty() {
		mode += ", unsaved changes"
	}
	a.println(mutedStyle.Render(mode))
	return nil
}

// headerCommands edit the pass header and the item list.
func (a *App) headerCommands(f *form) []command {
	return []command{
		{
			name:  "set",
			usage: "set <field> <value>",
			help:  "set a header field: " + joinFields(editor.HeaderFields),
			run: func(ctx context.Context, args string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				name, value := cut(args)
				field, err := editor.ParseHeaderField(name)
				if err != nil {
					return err
				}
				return ed.SetHeader(field, value)
			},
		},
		{
			name: "add",
			help: "append a line item",
			run: func(ctx context.Context, _ string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				i, err := ed.AddLineItem()
				if err != nil {
					return err
				}
				a.println(fmt.Sprintf("Added item #%d.", i+1))
				return nil
			},
		},
		{
			name:  "rm",
			usage: "rm <n>",
			help:  "remove line item n",
			run: func(ctx context.Context, args string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				i, err := parseIndex(args)
				if err != nil {
					return err
				}
				return ed.RemoveLineItem(i)
			},
		},
	}
}

// itemCommands change line items; they are the only edits allowed on the
// item-out screen.
func (a *App) itemCommands(f *form) []command {
	return []command{
		{
			name:  "item",
			usage: "item <n> <field> <value>",
			help:  "set a field of line item n: " + joinFields(editor.ItemFields),
			run: func(ctx context.Context, args string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				num, rest := cut(args)
				i, err := parseIndex(num)
				if err != nil {
					return err
				}
				name, value := cut(rest)
				field, err := editor.ParseItemField(name)
				if err != nil {
					return err
				}
				return ed.UpdateLineItem(i, field, value)
			},
		},
		{
			name:  "out",
			usage: "out <n> [yes|no]",
			help:  "mark line item n as out (dateOut defaults to today)",
			run: func(ctx context.Context, args string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				num, value := cut(args)
				i, err := parseIndex(num)
				if err != nil {
					return err
				}
				out := true
				if value != "" {
					if out, err = editor.ParseFlag(value); err != nil {
						return err
					}
				}
				return ed.SetItemOut(i, out)
			},
		},
		{
			name: "show",
			help: "print the form",
			run: func(ctx context.Context, _ string) error {
				return a.showForm(f)
			},
		},
	}
}

func joinFields[T ~string](fields []T) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func (a *App) checkCommand(f *form, validate func(*editor.Editor) error) command {
	return command{
		name: "check",
		help: "validate without saving",
		run: func(ctx context.Context, _ string) error {
			ed, err := f.editor()
			if err != nil {
				return err
			}
			if err := validate(ed); err != nil {
				return err
			}
			a.println(successStyle.Render("No problems found."))
			return nil
		},
	}
}
