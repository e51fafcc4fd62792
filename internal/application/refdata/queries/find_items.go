package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

const defaultFindLimit = 10

// FindItemsQuery looks items up by approximate name, e.g. "hly chse" for Holy Cheese
type FindItemsQuery struct {
	Term  string
	Limit int
}

// ItemMatch is one search hit
type ItemMatch struct {
	Hrid  string
	Name  string
	Score int
}

// FindItemsResponse lists matches, best first
type FindItemsResponse struct {
	Matches []ItemMatch
}

// itemSource implements fuzzy.Source over catalog items
type itemSource []*gamedata.Item

func (s itemSource) Len() int {
	return len(s)
}

func (s itemSource) String(i int) string {
	return s[i].Name
}

// FindItemsHandler resolves typed names to item hrids
type FindItemsHandler struct {
	workspace *workspace.Workspace
}

func NewFindItemsHandler(ws *workspace.Workspace) *FindItemsHandler {
	return &FindItemsHandler{workspace: ws}
}

// Handle executes the query. An exact hrid or case-insensitive name match ranks first.
func (h *FindItemsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*FindItemsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FindItemsQuery")
	}

	catalog := h.workspace.Catalog()
	if catalog == nil {
		return nil, workspace.ErrNotLoaded
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultFindLimit
	}
	term := strings.TrimSpace(query.Term)
	if term == "" {
		return &FindItemsResponse{}, nil
	}

	var matches []ItemMatch
	seen := make(map[string]bool)
	if item, ok := exactItem(catalog, term); ok {
		matches = append(matches, ItemMatch{Hrid: item.Hrid, Name: item.Name})
		seen[item.Hrid] = true
	}

	items := itemSource(catalog.Items())
	for _, match := range fuzzy.FindFrom(term, items) {
		if len(matches) >= limit {
			break
		}
		item := items[match.Index]
		if seen[item.Hrid] {
			continue
		}
		matches = append(matches, ItemMatch{Hrid: item.Hrid, Name: item.Name, Score: match.Score})
	}

	return &FindItemsResponse{Matches: matches}, nil
}

func exactItem(catalog *gamedata.Snapshot, term string) (*gamedata.Item, bool) {
	if item, ok := catalog.Item(term); ok {
		return item, true
	}
	if item, ok := catalog.Item(gamedata.ItemHrid(term)); ok {
		return item, true
	}
	for _, item := range catalog.Items() {
		if strings.EqualFold(item.Name, term) {
			return item, true
		}
	}
	return nil, false
}
