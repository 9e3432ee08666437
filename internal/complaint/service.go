// Package complaint provides the core logic for managing complaint
// records: creation with denormalized names, status changes,
// reassignment with its audit trail, and timeline updates.
package complaint

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"crms/backend/internal/auth"
	"crms/backend/internal/config"
	"crms/backend/internal/models"
	"crms/backend/internal/storage"
)

var (
	ErrForbidden     = errors.New("not allowed")
	ErrEmptyTitle    = errors.New("title is required")
	ErrEmptyUpdate   = errors.New("write something or change status")
	ErrUnknownStatus = errors.New("unknown status")
)

// Notifier receives assignment notifications. Implementations must not
// block; failures are the notifier's problem.
type Notifier interface {
	NotifyAssigned(officer *models.User, c *models.Complaint)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	notifier Notifier
}

// NewService creates a new complaint service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// SetNotifier attaches an optional assignment notifier.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create records a new complaint for the creator. Both the identity
// key and the display name are written so readers never need a lookup.
func (s *Service) Create(creator *models.User, title, description string) (*models.Complaint, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	c := &models.Complaint{
		Title:         title,
		Description:   strings.TrimSpace(description),
		Status:        config.StatusOpen,
		CreatedBy:     creator.ID,
		CreatedByName: creator.DisplayName(),
	}
	if err := s.Storage.CreateComplaint(c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateStatus moves a complaint to a new status. Only the assigned
// officer or an admin may do this.
func (s *Service) UpdateStatus(actor *models.User, complaintID, status string) error {
	if !config.ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	c, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}
	if !auth.CanMutateComplaint(actor.ID, actor.Role, c) {
		return ErrForbidden
	}
	if err := s.Storage.UpdateComplaintStatus(complaintID, status); err != nil {
		return err
	}
	s.publish(models.TimelineEvent{ComplaintID: complaintID, Status: status})
	return nil
}

// Reassign hands a complaint to another officer. Two-phase: the
// assignee update is authoritative; the audit append may fail and is
// then only logged, leaving a complaint without that audit entry (an
// accepted partial outcome).
func (s *Service) Reassign(admin *models.User, complaintID string, officer *models.User) error {
	if !auth.Allow(admin.Role, auth.ActionComplaintReassign) {
		return ErrForbidden
	}

	c, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}

	if err := s.Storage.UpdateComplaintAssignee(complaintID, officer.ID, officer.DisplayName()); err != nil {
		return err
	}

	entry := &models.AuditEntry{
		ComplaintID: complaintID,
		Type:        "reassign",
		FromID:      admin.ID,
		FromName:    admin.DisplayName(),
		ToID:        officer.ID,
		ToName:      officer.DisplayName(),
		Note:        fmt.Sprintf("%s reassigned to %s", admin.DisplayName(), officer.DisplayName()),
	}
	if err := s.Storage.AppendAudit(entry); err != nil {
		log.Printf("ERROR: Audit append failed for complaint %s after reassign: %v", complaintID, err)
	}

	if s.notifier != nil {
		c.AssignedOfficer = officer.ID
		c.AssignedOfficerName = officer.DisplayName()
		s.notifier.NotifyAssigned(officer, c)
	}
	return nil
}

// AddUpdate appends a timeline entry, optionally moving the complaint
// to a new status in the same action, and publishes the event to live
// subscribers.
func (s *Service) AddUpdate(actor *models.User, complaintID, text, status string) (*models.ComplaintUpdate, error) {
	text = strings.TrimSpace(text)
	if text == "" && status == "" {
		return nil, ErrEmptyUpdate
	}
	if status != "" && !config.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	c, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return nil, err
	}
	if !auth.CanMutateComplaint(actor.ID, actor.Role, c) {
		return nil, ErrForbidden
	}

	update := &models.ComplaintUpdate{
		ComplaintID: complaintID,
		AuthorID:    actor.ID,
		AuthorName:  actor.DisplayName(),
		Text:        text,
		Status:      status,
	}
	if err := s.Storage.AppendUpdate(update); err != nil {
		return nil, err
	}

	if status != "" && status != c.Status {
		if err := s.Storage.UpdateComplaintStatus(complaintID, status); err != nil {
			// The timeline entry already exists; the status change is
			// retried manually by the user.
			log.Printf("ERROR: Status change to %q failed for complaint %s: %v", status, complaintID, err)
			return update, err
		}
	}

	s.publish(models.TimelineEvent{ComplaintID: complaintID, Update: update, Status: status})
	return update, nil
}

func (s *Service) publish(ev models.TimelineEvent) {
	if err := s.Storage.PublishTimelineEvent(ev); err != nil {
		log.Printf("ERROR: Failed to publish timeline event for complaint %s: %v", ev.ComplaintID, err)
	}
}
