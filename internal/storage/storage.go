package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"crms/backend/internal/config"
	"crms/backend/internal/models"
	"crms/backend/internal/query"
)

// ErrNotFound is returned for point reads that matched no record.
var ErrNotFound = errors.New("record not found")

// Storage is the persistence surface the services depend on. The
// concrete Service talks to PostgreSQL and Redis; tests substitute a
// mock.
type Storage interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
	ListOfficers() ([]models.User, error)
	CountAdmins(excludeID string) (int64, error)
	UpdateUserRole(id, role string) error
	UpdateUser(user *models.User) error
	DeleteUser(id string) error

	CreateComplaint(c *models.Complaint) error
	GetComplaintByID(id string) (*models.Complaint, error)
	UpdateComplaintStatus(id, status string) error
	UpdateComplaintAssignee(id, officerID, officerName string) error
	QueryComplaints(spec query.FilterSpec) ([]models.Complaint, error)

	AddEvidence(ev *models.Evidence) error
	GetEvidence(complaintID, evidenceID string) (*models.Evidence, error)
	ListEvidence(complaintID string) ([]models.Evidence, error)
	DeleteEvidence(complaintID, evidenceID string) error

	AppendUpdate(u *models.ComplaintUpdate) error
	ListUpdates(complaintID string) ([]models.ComplaintUpdate, error)
	AppendAudit(a *models.AuditEntry) error
	ListAudit(complaintID string) ([]models.AuditEntry, error)

	PublishTimelineEvent(ev models.TimelineEvent) error

	GetSidebarCollapsed(userID string) (bool, error)
	SetSidebarCollapsed(userID string, collapsed bool) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// ---- users ----

func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every identity record, admins first, then by name.
func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	err := s.DB.Order("role DESC").Order("name ASC").Find(&users).Error
	return users, err
}

// ListOfficers returns the users eligible for complaint assignment,
// sorted by display name for the filter dropdown.
func (s *Service) ListOfficers() ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("role = ?", config.RoleOfficer).
		Order("name ASC").Order("email ASC").Find(&users).Error
	return users, err
}

// CountAdmins counts users holding the admin role, excluding excludeID
// so that a role update on the current admin does not count itself.
func (s *Service) CountAdmins(excludeID string) (int64, error) {
	var n int64
	q := s.DB.Model(&models.User{}).Where("role = ?", config.RoleAdmin)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n, err
}

func (s *Service) UpdateUserRole(id, role string) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":            role,
			"role_updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) DeleteUser(id string) error {
	return s.DB.Where("id = ?", id).Delete(&models.User{}).Error
}

// ---- complaints ----

func (s *Service) CreateComplaint(c *models.Complaint) error {
	if c.Status == "" {
		c.Status = config.StatusOpen
	}
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to create complaint %q: %v", c.Title, err)
		return err
	}
	return nil
}

func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) UpdateComplaintStatus(id, status string) error {
	res := s.DB.Model(&models.Complaint{}).Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) UpdateComplaintAssignee(id, officerID, officerName string) error {
	res := s.DB.Model(&models.Complaint{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_officer":      officerID,
			"assigned_officer_name": officerName,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// QueryComplaints executes one compiled page read. Ordering, filters,
// limit and continuation all come from the spec.
func (s *Service) QueryComplaints(spec query.FilterSpec) ([]models.Complaint, error) {
	var out []models.Complaint
	if err := query.Compile(s.DB, spec).Find(&out).Error; err != nil {
		log.Printf("ERROR: Complaint query failed (assignee=%q status=%q): %v",
			spec.Assignee, spec.Status, err)
		return nil, err
	}
	return out, nil
}

// ---- evidence ----

func (s *Service) AddEvidence(ev *models.Evidence) error {
	return s.DB.Create(ev).Error
}

func (s *Service) GetEvidence(complaintID, evidenceID string) (*models.Evidence, error) {
	var ev models.Evidence
	err := s.DB.Where("complaint_id = ? AND id = ?", complaintID, evidenceID).
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Service) ListEvidence(complaintID string) ([]models.Evidence, error) {
	var evs []models.Evidence
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at ASC").Find(&evs).Error
	return evs, err
}

func (s *Service) DeleteEvidence(complaintID, evidenceID string) error {
	res := s.DB.Where("complaint_id = ? AND id = ?", complaintID, evidenceID).
		Delete(&models.Evidence{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- timeline & audit ----

func (s *Service) AppendUpdate(u *models.ComplaintUpdate) error {
	if err := s.DB.Create(u).Error; err != nil {
		log.Printf("ERROR: Failed to append update for complaint %s: %v", u.ComplaintID, err)
		return err
	}
	return nil
}

func (s *Service) ListUpdates(complaintID string) ([]models.ComplaintUpdate, error) {
	var ups []models.ComplaintUpdate
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at DESC").Find(&ups).Error
	return ups, err
}

func (s *Service) AppendAudit(a *models.AuditEntry) error {
	return s.DB.Create(a).Error
}

func (s *Service) ListAudit(complaintID string) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// ---- realtime ----

// timelineChannel names the Redis pub/sub channel for one complaint.
func timelineChannel(complaintID string) string {
	return "timeline:" + complaintID
}

// PublishTimelineEvent publishes a timeline event to Redis Pub/Sub so
// every server instance can fan it out to its websocket subscribers.
func (s *Service) PublishTimelineEvent(ev models.TimelineEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, timelineChannel(ev.ComplaintID), payload).Err()
}

// SubscribeTimelines subscribes to timeline events for all complaints.
// The hub filters by complaint ID when fanning out.
func (s *Service) SubscribeTimelines() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, timelineChannel("*"))
}

// ---- preferences ----

func sidebarKey(userID string) string {
	return fmt.Sprintf("%s:%s", config.SidebarPrefKey, userID)
}

// GetSidebarCollapsed reads the persisted sidebar preference. A missing
// key means the default (expanded).
func (s *Service) GetSidebarCollapsed(userID string) (bool, error) {
	val, err := s.Redis.Get(s.Ctx, sidebarKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "1", nil
}

func (s *Service) SetSidebarCollapsed(userID string, collapsed bool) error {
	val := "0"
	if collapsed {
		val = "1"
	}
	return s.Redis.Set(s.Ctx, sidebarKey(userID), val, 0).Err()
}
