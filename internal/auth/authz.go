package auth

import (
	"crms/backend/internal/config"
	"crms/backend/internal/models"
)

// Action names a privileged operation. Role checks go through Allow so
// UI-level and query-level enforcement cannot drift apart.
type Action string

const (
	ActionComplaintCreate   Action = "complaint.create"
	ActionComplaintReassign Action = "complaint.reassign"
	ActionManageUsers       Action = "user.manage"
	ActionEvidenceDeleteAny Action = "evidence.delete_any"
	ActionOfficerViews      Action = "views.officer"
)

// Allow is the single role-based authorization decision.
func Allow(role string, action Action) bool {
	switch action {
	case ActionComplaintCreate:
		return role == config.RoleAdmin || role == config.RoleOfficer || role == config.RoleUser
	case ActionComplaintReassign, ActionManageUsers, ActionEvidenceDeleteAny:
		return role == config.RoleAdmin
	case ActionOfficerViews:
		return role == config.RoleAdmin || role == config.RoleOfficer
	}
	return false
}

// CanMutateComplaint reports whether the caller may change a
// complaint's status or append timeline entries: the assigned officer
// or an admin.
func CanMutateComplaint(userID, role string, c *models.Complaint) bool {
	if role == config.RoleAdmin {
		return true
	}
	return c.AssignedOfficer != "" && c.AssignedOfficer == userID
}

// CanDeleteEvidence reports whether the caller may remove an evidence
// item: an admin or the original uploader.
func CanDeleteEvidence(userID, role string, ev *models.Evidence) bool {
	if Allow(role, ActionEvidenceDeleteAny) {
		return true
	}
	return ev.UploadedBy == userID
}
