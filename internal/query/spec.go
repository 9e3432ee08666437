// Package query turns filter state into a paginated complaint read.
// A FilterSpec is a small declarative description of the read (equality
// constraints, sort, limit, continuation cursor); Compile is the single
// place that translates it into a database query, so every filter
// combination can be exercised in isolation.
package query

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"crms/backend/internal/config"
)

// AssigneeAll and AssigneeMe are the symbolic assignee filter values
// accepted from clients alongside a concrete user ID.
const (
	AssigneeAll = "all"
	AssigneeMe  = "me"
	StatusAll   = "all"
)

// FilterSpec describes one paginated complaint read. Empty Assignee or
// Status means no constraint on that field. The sort is always by
// creation time descending; records with identical timestamps have no
// defined relative order beyond the ID tie-break the cursor needs.
type FilterSpec struct {
	Assignee string
	Status   string
	Limit    int
	Cursor   *Cursor
}

// Build derives the FilterSpec for a caller from the current filter
// state. An admin with no explicit assignee filter sees everything;
// any other caller with no explicit filter is constrained to
// complaints assigned to them.
func Build(role, callerID, statusFilter, assigneeFilter string) FilterSpec {
	spec := FilterSpec{Limit: config.PageSize}

	switch assigneeFilter {
	case "", AssigneeAll:
		if role != config.RoleAdmin {
			spec.Assignee = callerID
		}
	case AssigneeMe:
		spec.Assignee = callerID
	default:
		spec.Assignee = assigneeFilter
	}

	if statusFilter != "" && statusFilter != StatusAll {
		spec.Status = statusFilter
	}

	return spec
}

// Cursor is the opaque continuation token for keyset pagination. It is
// derived from the last record of the previous page and invalidated by
// the caller whenever filters change.
type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        string    `json:"id"`
}

// Encode serializes the cursor into the opaque token handed to clients.
func (c *Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by Encode. An empty token yields
// a nil cursor (first page).
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	return &c, nil
}
