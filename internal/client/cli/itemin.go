package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/editor"
	"github.com/dmitrijs2005/gatepass/internal/client/guard"
)

// itemInScreen registers a new pass.
func (a *App) itemInScreen(ctx context.Context) error {
	f := &form{ed: editor.NewCreate(a.now)}

	cmds := a.headerCommands(f)
	cmds = append(cmds, a.itemCommands(f)...)
	cmds = append(cmds,
		a.checkCommand(f, (*editor.Editor).Validate),
		command{
			name:  "catalog",
			usage: "catalog [type[/name]]",
			help:  "look up known item types, names or part numbers for the project",
			run: func(ctx context.Context, args string) error {
				return a.lookupCatalog(ctx, f.ed.Record().ProjectName, args)
			},
		},
		command{
			name: "reset",
			help: "discard the form",
			run: func(ctx context.Context, _ string) error {
				f.ed.Cancel()
				a.println("Form cleared.")
				return nil
			},
		},
		command{
			name: "submit",
			help: "create the pass",
			run: func(ctx context.Context, _ string) error {
				passNo := f.ed.Record().PassNo
				if err := a.passes.Create(ctx, f.ed); err != nil {
					return err
				}
				a.println(successStyle.Render(fmt.Sprintf("Pass %s created.", passNo)))
				return nil
			},
		},
	)
	return a.runScreen(ctx, guard.ScreenItemIn, cmds)
}

// lookupCatalog answers the cascading type, name and part number lookups.
func (a *App) lookupCatalog(ctx context.Context, project, args string) error {
	c, err := a.catalog.Catalog(ctx, project)
	if err != nil {
		return err
	}
	itemType, itemName, hasName := strings.Cut(strings.TrimSpace(args), "/")
	itemType, itemName = strings.TrimSpace(itemType), strings.TrimSpace(itemName)

	switch {
	case itemType == "":
		a.println(renderList("Item Type", c.Types()))
	case !hasName || itemName == "":
		a.println(renderList("Item Name", c.Names(itemType)))
	default:
		a.println(renderList("Part No", c.PartNumbers(itemType, itemName)))
	}
	return nil
}
