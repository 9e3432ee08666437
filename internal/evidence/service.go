// Package evidence handles complaint file attachments: blob transfer
// with progress, the metadata rows describing each attachment, and the
// two-phase delete that keeps metadata from outliving its blob.
package evidence

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"

	"crms/backend/internal/auth"
	"crms/backend/internal/config"
	"crms/backend/internal/models"
	"crms/backend/internal/storage"
)

var ErrForbidden = errors.New("not allowed")

// Service owns the evidence lifecycle for complaints.
type Service struct {
	Storage storage.Storage
	Blobs   BlobStore
}

func NewService(s storage.Storage, blobs BlobStore) *Service {
	return &Service{Storage: s, Blobs: blobs}
}

// Upload stores the blob, then writes the metadata row. If the
// metadata write fails the blob is orphaned in storage; the caller
// sees the failure and may retry, which uploads a fresh blob under a
// new id. Orphans are tolerated, dangling metadata is not.
func (s *Service) Upload(actor *models.User, complaintID, filename, contentType string,
	r io.Reader, size int64, progress ProgressFunc) (*models.Evidence, error) {

	// Clients send whatever their filesystem calls the file; only the
	// final component may become part of the blob path.
	filename = path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if complaintID == "" || filename == "" || filename == "." || filename == ".." || filename == "/" {
		return nil, errors.New("missing complaint id or filename")
	}
	if size > config.MaxEvidenceSize {
		return nil, fmt.Errorf("file exceeds %d bytes", int64(config.MaxEvidenceSize))
	}
	if _, err := s.Storage.GetComplaintByID(complaintID); err != nil {
		return nil, err
	}

	// Unique within the complaint; also the blob's final path segment.
	id := fmt.Sprintf("%s_%s", uuid.NewString(), filename)
	blobPath := fmt.Sprintf("%s/%s/%s", config.EvidencePathPrefix, complaintID, id)

	if err := s.Blobs.Upload(blobPath, r, size, progress); err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ev := &models.Evidence{
		ID:             id,
		ComplaintID:    complaintID,
		Name:           filename,
		ContentType:    contentType,
		Size:           size,
		StoragePath:    blobPath,
		URL:            s.Blobs.URL(blobPath),
		UploadedBy:     actor.ID,
		UploadedByName: actor.DisplayName(),
	}
	if err := s.Storage.AddEvidence(ev); err != nil {
		log.Printf("ERROR: Evidence metadata write failed for complaint %s; blob %s is orphaned: %v",
			complaintID, blobPath, err)
		return nil, fmt.Errorf("evidence metadata write failed: %w", err)
	}
	return ev, nil
}

// Delete removes an evidence item. Only an admin or the uploader may
// do this. The metadata row goes first, the blob second: a failed blob
// delete leaves an orphan, never metadata pointing at a missing blob.
func (s *Service) Delete(actor *models.User, complaintID, evidenceID string) error {
	ev, err := s.Storage.GetEvidence(complaintID, evidenceID)
	if err != nil {
		return err
	}
	if !auth.CanDeleteEvidence(actor.ID, actor.Role, ev) {
		return ErrForbidden
	}

	if err := s.Storage.DeleteEvidence(complaintID, evidenceID); err != nil {
		return err
	}
	if err := s.Blobs.Delete(ev.StoragePath); err != nil {
		log.Printf("ERROR: Blob delete failed for %s; orphaned blob remains: %v", ev.StoragePath, err)
	}
	return nil
}
