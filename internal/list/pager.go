// Package list implements the complaint listing pipeline: one page
// loader that executes a compiled filter spec, backfills denormalized
// names and applies the local text filter, and a stateful session that
// owns filter state, debouncing and pagination for interactive
// clients.
package list

import (
	"strings"

	"crms/backend/internal/models"
	"crms/backend/internal/query"
	"crms/backend/internal/resolver"
)

// Querier is the single storage read the pager needs.
type Querier interface {
	QueryComplaints(spec query.FilterSpec) ([]models.Complaint, error)
}

// Page is one loaded page after enrichment and text filtering.
type Page struct {
	Items []models.Complaint
	// NextCursor continues after the last fetched record. It is taken
	// before text filtering so continuation never re-reads records the
	// filter dropped.
	NextCursor *query.Cursor
	// HasMore is false when the fetched page was shorter than the
	// requested limit.
	HasMore bool
}

// Pager executes page reads.
type Pager struct {
	store    Querier
	resolver *resolver.Resolver
}

func NewPager(store Querier, res *resolver.Resolver) *Pager {
	return &Pager{store: store, resolver: res}
}

// LoadPage fetches one page for spec, backfills missing creator and
// assignee names, then applies the case-insensitive text filter to
// title and description. The filter runs after the fetch, so a page
// may carry fewer matches than exist server-side; extra pages are not
// fetched to compensate.
func (p *Pager) LoadPage(spec query.FilterSpec, text string) (Page, error) {
	items, err := p.store.QueryComplaints(spec)
	if err != nil {
		return Page{}, err
	}

	page := Page{HasMore: len(items) == spec.Limit}
	if n := len(items); n > 0 {
		last := items[n-1]
		page.NextCursor = &query.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	// Backfill for records written before name denormalization was
	// added; new records carry both id and name.
	for i := range items {
		c := &items[i]
		if c.CreatedByName == "" && c.CreatedBy != "" {
			c.CreatedByName = p.resolver.Resolve(c.CreatedBy)
		}
		if c.AssignedOfficerName == "" && c.AssignedOfficer != "" {
			c.AssignedOfficerName = p.resolver.Resolve(c.AssignedOfficer)
		}
	}

	if text == "" {
		page.Items = items
		return page, nil
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	filtered := items[:0]
	for _, c := range items {
		if strings.Contains(strings.ToLower(c.Title), needle) ||
			strings.Contains(strings.ToLower(c.Description), needle) {
			filtered = append(filtered, c)
		}
	}
	page.Items = filtered
	return page, nil
}
