package query_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crms/backend/internal/config"
	"crms/backend/internal/query"
)

// TestBuild_FilterCombinations exercises every role/filter combination
// the query builder supports.
func TestBuild_FilterCombinations(t *testing.T) {
	const caller = "uid-caller"
	const other = "uid-other"

	tests := []struct {
		name           string
		role           string
		statusFilter   string
		assigneeFilter string
		wantAssignee   string
		wantStatus     string
	}{
		{
			name: "Admin with no filters sees everything",
			role: config.RoleAdmin, statusFilter: "all", assigneeFilter: "all",
			wantAssignee: "", wantStatus: "",
		},
		{
			name: "Officer with no filters is constrained to own assignments",
			role: config.RoleOfficer, statusFilter: "all", assigneeFilter: "all",
			wantAssignee: caller, wantStatus: "",
		},
		{
			name: "Officer with empty filters is constrained to own assignments",
			role: config.RoleOfficer, statusFilter: "", assigneeFilter: "",
			wantAssignee: caller, wantStatus: "",
		},
		{
			name: "Explicit 'me' resolves to the caller",
			role: config.RoleAdmin, statusFilter: "all", assigneeFilter: "me",
			wantAssignee: caller, wantStatus: "",
		},
		{
			name: "Explicit officer filter wins for admin",
			role: config.RoleAdmin, statusFilter: "all", assigneeFilter: other,
			wantAssignee: other, wantStatus: "",
		},
		{
			name: "Explicit officer filter wins for officer too",
			role: config.RoleOfficer, statusFilter: "all", assigneeFilter: other,
			wantAssignee: other, wantStatus: "",
		},
		{
			name: "Status filter alone for admin",
			role: config.RoleAdmin, statusFilter: config.StatusOpen, assigneeFilter: "all",
			wantAssignee: "", wantStatus: config.StatusOpen,
		},
		{
			name: "Combined assignee and status for officer",
			role: config.RoleOfficer, statusFilter: config.StatusResolved, assigneeFilter: "all",
			wantAssignee: caller, wantStatus: config.StatusResolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := query.Build(tt.role, caller, tt.statusFilter, tt.assigneeFilter)

			assert.Equal(t, tt.wantAssignee, spec.Assignee)
			assert.Equal(t, tt.wantStatus, spec.Status)
			assert.Equal(t, config.PageSize, spec.Limit)
			assert.Nil(t, spec.Cursor, "Build never attaches a cursor itself")
		})
	}
}

// TestCursorRoundTrip verifies encode/decode and the empty-token case.
func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)
	c := &query.Cursor{CreatedAt: ts, ID: "complaint-42"}

	decoded, err := query.DecodeCursor(c.Encode())
	require.NoError(t, err)
	assert.True(t, decoded.CreatedAt.Equal(ts))
	assert.Equal(t, "complaint-42", decoded.ID)

	// Empty token means first page.
	first, err := query.DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, first)

	// Garbage is rejected, not silently treated as first page.
	_, err = query.DecodeCursor("!!not-base64!!")
	assert.Error(t, err)
}

// TestDetectIndexError distinguishes missing-index failures from
// generic ones and extracts the remediation link when present.
func TestDetectIndexError(t *testing.T) {
	t.Run("Generic error is not an index error", func(t *testing.T) {
		_, ok := query.DetectIndexError(errors.New("connection refused"))
		assert.False(t, ok)
	})

	t.Run("Nil error is not an index error", func(t *testing.T) {
		_, ok := query.DetectIndexError(nil)
		assert.False(t, ok)
	})

	t.Run("Message with remediation link", func(t *testing.T) {
		err := errors.New("The query requires an index. You can create it here: " +
			"https://console.example.com/project/_/database/indexes?create_composite=abc123")

		ie, ok := query.DetectIndexError(err)
		require.True(t, ok)
		assert.Contains(t, ie.RemediationURL, "create_composite=abc123")
		assert.Equal(t, err.Error(), ie.Msg)
	})

	t.Run("Message without link still classified", func(t *testing.T) {
		ie, ok := query.DetectIndexError(errors.New("composite index missing for (assigned_officer, created_at)"))
		require.True(t, ok)
		assert.Empty(t, ie.RemediationURL)
	})
}
