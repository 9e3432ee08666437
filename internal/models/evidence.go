package models

import "time"

// Evidence is a file attachment owned by exactly one complaint.
// The blob lives in the blob store under StoragePath; the row here is
// the metadata written after the transfer completes.
type Evidence struct {
	// ID is unique within the complaint: "{uuid}_{filename}".
	ID          string `gorm:"primaryKey" json:"id"`
	ComplaintID string `gorm:"index;not null" json:"complaintId"`
	// Name is the original filename as uploaded.
	Name        string `json:"name"`
	ContentType string `json:"type"`
	Size        int64  `json:"size"`
	StoragePath string `json:"storagePath"`
	// URL is the download location resolved from the blob store.
	URL            string    `json:"url"`
	UploadedBy     string    `json:"uploadedBy"`
	UploadedByName string    `json:"uploadedByName"`
	CreatedAt      time.Time `json:"uploadedAt"`
}
