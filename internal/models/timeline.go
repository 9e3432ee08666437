package models

import "gorm.io/gorm"

// ComplaintUpdate is a free-form timeline entry on a complaint.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, DeletedAt.
type ComplaintUpdate struct {
	gorm.Model

	ComplaintID string `gorm:"index;not null" json:"complaintId"`
	AuthorID    string `gorm:"not null" json:"authorId"`
	AuthorName  string `json:"authorName"`
	// Text is the update body; may be empty when the entry only
	// records a status change.
	Text string `gorm:"type:text" json:"text"`
	// Status, when non-empty, is the status the complaint was moved
	// to as part of this update.
	Status string `json:"status,omitempty"`
}

// AuditEntry records a privileged mutation on a complaint, currently
// only reassignments. The append is the second phase of a two-phase
// mutation and may be missing if that phase failed; the complaint
// update itself is authoritative.
type AuditEntry struct {
	gorm.Model

	ComplaintID string `gorm:"index;not null" json:"complaintId"`
	// Type of the audited action, e.g. "reassign".
	Type     string `gorm:"not null" json:"type"`
	FromID   string `json:"fromId"`
	FromName string `json:"fromName"`
	ToID     string `json:"toId"`
	ToName   string `json:"toName"`
	Note     string `json:"note"`
}
