package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint is the primary case record being tracked. Creator and
// assignee display names are denormalized at write time so list views
// do not need a follow-up lookup; records written before the
// denormalization was added may have the name fields empty and are
// backfilled at read time by the page loader.
type Complaint struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// Status is one of "open", "in-progress", "resolved".
	Status    string `gorm:"index;not null" json:"status"`
	CreatedBy string `gorm:"index" json:"createdBy"`
	// CreatedByName is denormalized from the creator's user record.
	CreatedByName   string `json:"createdByName"`
	AssignedOfficer string `gorm:"index" json:"assignedOfficer"`
	// AssignedOfficerName is denormalized from the assignee's user record.
	AssignedOfficerName string    `json:"assignedOfficerName"`
	CreatedAt           time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// BeforeCreate generates a UUID for the complaint if the ID is unset.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
