package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/guard"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/common"
)

// addUserScreen provisions accounts. The form starts over after every
// successful create.
func (a *App) addUserScreen(ctx context.Context) error {
	return a.runScreen(ctx, guard.ScreenAddUser, []command{
		{
			name: "new",
			help: "create a user (prompts for name, username, password and role)",
			run:  a.createUser,
		},
	})
}

func (a *App) createUser(ctx context.Context, _ string) error {
	name, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	roleText, err := getSimpleText(a.reader, "Role (admin or user)", a.out)
	if err != nil {
		return err
	}
	role, err := models.ParseRole(roleText)
	if err != nil {
		return err
	}

	u := models.NewUser{Name: name, Username: username, Password: string(password), Role: role}
	if err := a.users.Create(ctx, u); err != nil {
		return err
	}
	a.println(successStyle.Render(fmt.Sprintf("User %s created.", username)))
	return nil
}

// projectsScreen maintains projects and their catalog items. "use" selects
// the project the item commands work on.
func (a *App) projectsScreen(ctx context.Context) error {
	var project string

	return a.runScreen(ctx, guard.ScreenProjects, []command{
		{
			name: "list",
			help: "list projects",
			run: func(ctx context.Context, _ string) error {
				names, err := a.catalog.Projects(ctx)
				if err != nil {
					return err
				}
				a.println(renderList("Project", names))
				return nil
			},
		},
		{
			name:  "new",
			usage: "new <project>",
			help:  "add a project",
			run: func(ctx context.Context, args string) error {
				if err := a.catalog.AddProject(ctx, args); err != nil {
					return err
				}
				project = args
				a.println(successStyle.Render("Project " + args + " added."))
				return nil
			},
		},
		{
			name:  "use",
			usage: "use <project>",
			help:  "select a project and print its catalog",
			run: func(ctx context.Context, args string) error {
				c, err := a.catalog.Catalog(ctx, args)
				if err != nil {
					return err
				}
				project = c.Project
				a.println(renderCatalog(c))
				return nil
			},
		},
		{
			name:  "add",
			usage: "add <type>/<name>/<partNo>",
			help:  "add a catalog item to the selected project",
			run: func(ctx context.Context, args string) error {
				item, err := parseCatalogItem(args)
				if err != nil {
					return err
				}
				if err := a.catalog.AddItem(ctx, project, item); err != nil {
					return err
				}
				a.println(successStyle.Render("Item added."))
				return nil
			},
		},
		{
			name:  "edit",
			usage: "edit <type>/<name>/<partNo> -> <type>/<name>/<partNo>",
			help:  "replace a catalog item of the selected project",
			run: func(ctx context.Context, args string) error {
				oldText, newText, ok := strings.Cut(args, "->")
				if !ok {
					return fmt.Errorf("want <item> -> <item>, got %q", args)
				}
				from, err := parseCatalogItem(oldText)
				if err != nil {
					return err
				}
				to, err := parseCatalogItem(newText)
				if err != nil {
					return err
				}
				if err := a.catalog.EditItem(ctx, project, from, to); err != nil {
					return err
				}
				a.println(successStyle.Render("Item updated."))
				return nil
			},
		},
		{
			name:  "rm",
			usage: "rm <type>/<name>/<partNo>",
			help:  "delete a catalog item from the selected project",
			run: func(ctx context.Context, args string) error {
				item, err := parseCatalogItem(args)
				if err != nil {
					return err
				}
				if err := a.catalog.DeleteItem(ctx, project, item); err != nil {
					return err
				}
				a.println(successStyle.Render("Item deleted."))
				return nil
			},
		},
	})
}

// parseCatalogItem reads "type/name/partNo"; names may contain spaces.
func parseCatalogItem(args string) (models.CatalogItem, error) {
	parts := strings.Split(strings.TrimSpace(args), "/")
	if len(parts) != 3 {
		return models.CatalogItem{}, fmt.Errorf("want <type>/<name>/<partNo>, got %q", args)
	}
	return models.CatalogItem{
		ItemType: strings.TrimSpace(parts[0]),
		ItemName: strings.TrimSpace(parts[1]),
		PartNo:   strings.TrimSpace(parts[2]),
	}, nil
}
