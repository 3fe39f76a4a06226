package models

import (
	"fmt"
	"net/url"
	"strings"
)

type SearchType string

const (
	SearchByPassNo      SearchType = "PassNo"
	SearchByItemPartNo  SearchType = "ItemPartNo"
	SearchByProjectName SearchType = "ProjectName"
	SearchByDateRange   SearchType = "DateRange"
)

var SearchTypes = []SearchType{SearchByPassNo, SearchByItemPartNo, SearchByProjectName, SearchByDateRange}

func ParseSearchType(s string) (SearchType, error) {
	for _, t := range SearchTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown search type %q (want PassNo, ItemPartNo, ProjectName or DateRange)", s)
}

// SearchQuery is rebuilt for every search; it is never persisted.
type SearchQuery struct {
	Type  SearchType
	Value string
	From  Date
	To    Date
}

// Params encodes the query string shared by /search and /search/download.
// Value is dropped for date-range searches and when empty; the bounds are
// only sent when set.
func (q SearchQuery) Params() url.Values {
	p := url.Values{}
	p.Set("type", string(q.Type))
	if q.Type != SearchByDateRange && strings.TrimSpace(q.Value) != "" {
		p.Set("value", strings.TrimSpace(q.Value))
	}
	if !q.From.IsZero() {
		p.Set("from", q.From.String())
	}
	if !q.To.IsZero() {
		p.Set("to", q.To.String())
	}
	return p
}

type SearchResult struct {
	Count int          `json:"count"`
	Data  []PassRecord `json:"data"`
}
