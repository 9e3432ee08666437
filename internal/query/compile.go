package query

import (
	"gorm.io/gorm"

	"crms/backend/internal/models"
)

// Compile translates a FilterSpec into a gorm query against the
// complaints table. Keyset pagination on (created_at, id) keeps page
// boundaries stable under concurrent inserts, which a plain offset
// would not.
func Compile(db *gorm.DB, spec FilterSpec) *gorm.DB {
	q := db.Model(&models.Complaint{})

	if spec.Assignee != "" {
		q = q.Where("assigned_officer = ?", spec.Assignee)
	}
	if spec.Status != "" {
		q = q.Where("status = ?", spec.Status)
	}
	if spec.Cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", spec.Cursor.CreatedAt, spec.Cursor.ID)
	}

	return q.Order("created_at DESC, id DESC").Limit(spec.Limit)
}
