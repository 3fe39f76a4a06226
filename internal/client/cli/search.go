package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/guard"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/client/services"
	"github.com/dustin/go-humanize"
)

// parseQuery reads "<type> [value]" or "DateRange <from> <to>".
func parseQuery(args string) (models.SearchQuery, error) {
	kind, rest := cut(args)
	t, err := models.ParseSearchType(kind)
	if err != nil {
		return models.SearchQuery{}, err
	}
	q := models.SearchQuery{Type: t}
	if t != models.SearchByDateRange {
		q.Value = rest
		return q, nil
	}

	from, to := cut(rest)
	if from != "" {
		if q.From, err = models.ParseDate(from); err != nil {
			return models.SearchQuery{}, fmt.Errorf("from: %w", err)
		}
	}
	if to != "" {
		if q.To, err = models.ParseDate(to); err != nil {
			return models.SearchQuery{}, fmt.Errorf("to: %w", err)
		}
	}
	return q, nil
}

func (a *App) runSearch(ctx context.Context, q models.SearchQuery) error {
	res, err := a.search.Run(ctx, q)
	if err != nil {
		return err
	}
	a.println(renderReport(res))
	return nil
}

func (a *App) download(ctx context.Context, q models.SearchQuery) error {
	path, size, err := a.search.Download(ctx, q)
	if err != nil {
		return err
	}
	a.println(successStyle.Render(fmt.Sprintf("Saved %s (%s).", path, humanize.Bytes(uint64(size)))))
	return nil
}

// searchScreen keeps the last query so "download" exports what was shown.
func (a *App) searchScreen(ctx context.Context) error {
	var last *models.SearchQuery
	types := make([]string, len(models.SearchTypes))
	for i, t := range models.SearchTypes {
		types[i] = string(t)
	}

	return a.runScreen(ctx, guard.ScreenSearch, []command{
		{
			name:  "find",
			usage: "find <type> [value | from to]",
			help:  "search by " + strings.Join(types, ", ") + "; dates are YYYY-MM-DD",
			run: func(ctx context.Context, args string) error {
				q, err := parseQuery(args)
				if err != nil {
					return err
				}
				last = &q
				return a.runSearch(ctx, q)
			},
		},
		{
			name: "download",
			help: "save the last search as " + services.DownloadFileName,
			run: func(ctx context.Context, _ string) error {
				if last == nil {
					return errors.New("nothing to download: run find first")
				}
				return a.download(ctx, *last)
			},
		},
	})
}
