package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatepass/internal/client/editor"
	"github.com/dmitrijs2005/gatepass/internal/client/guard"
)

// editScreen views, edits and deletes an existing pass. A fetched pass is
// read-only until "edit".
func (a *App) editScreen(ctx context.Context) error {
	f := &form{}

	cmds := []command{
		{
			name:  "fetch",
			usage: "fetch <passNo>",
			help:  "load a pass read-only",
			run: func(ctx context.Context, args string) error {
				rec, err := a.passes.Fetch(ctx, args)
				if err != nil {
					return err
				}
				f.ed = editor.NewEdit(*rec, a.now)
				return a.showForm(f)
			},
		},
		{
			name: "edit",
			help: "unlock the loaded pass",
			run: func(ctx context.Context, _ string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				return ed.BeginEdit()
			},
		},
		{
			name: "cancel",
			help: "drop unsaved changes",
			run: func(ctx context.Context, _ string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				ed.Cancel()
				return a.showForm(f)
			},
		},
	}
	cmds = append(cmds, a.headerCommands(f)...)
	cmds = append(cmds, a.itemCommands(f)...)
	cmds = append(cmds,
		a.checkCommand(f, (*editor.Editor).Validate),
		command{
			name: "save",
			help: "send the changes",
			run: func(ctx context.Context, _ string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				if err := a.passes.Update(ctx, ed); err != nil {
					return err
				}
				a.println(successStyle.Render(fmt.Sprintf("Pass %s saved.", ed.Record().PassNo)))
				return nil
			},
		},
		command{
			name: "delete",
			help: "delete the loaded pass",
			run: func(ctx context.Context, _ string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				passNo := ed.Record().PassNo
				if err := a.passes.Delete(ctx, passNo); err != nil {
					return err
				}
				f.ed = nil
				a.println(successStyle.Render(fmt.Sprintf("Pass %s deleted.", passNo)))
				return nil
			},
		},
	)
	return a.runScreen(ctx, guard.ScreenEdit, cmds)
}
