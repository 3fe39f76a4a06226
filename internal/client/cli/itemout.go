package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatepass/internal/client/editor"
	"github.com/dmitrijs2005/gatepass/internal/client/guard"
)

// itemOutScreen records which items of a pass went back out.
func (a *App) itemOutScreen(ctx context.Context) error {
	f := &form{}

	cmds := []command{
		{
			name:  "fetch",
			usage: "fetch <passNo>",
			help:  "load a pass",
			run: func(ctx context.Context, args string) error {
				rec, err := a.passes.Fetch(ctx, args)
				if err != nil {
					return err
				}
				f.ed = editor.NewItemOut(*rec, a.now)
				return a.showForm(f)
			},
		},
	}
	cmds = append(cmds, a.itemCommands(f)...)
	cmds = append(cmds,
		a.checkCommand(f, (*editor.Editor).ValidateItemOut),
		command{
			name: "submit",
			help: "save the out items",
			run: func(ctx context.Context, _ string) error {
				ed, err := f.editor()
				if err != nil {
					return err
				}
				if err := a.passes.SubmitItemOut(ctx, ed); err != nil {
					return err
				}
				a.println(successStyle.Render(fmt.Sprintf("Pass %s updated.", ed.Record().PassNo)))
				return nil
			},
		},
	)
	return a.runScreen(ctx, guard.ScreenItemOut, cmds)
}
