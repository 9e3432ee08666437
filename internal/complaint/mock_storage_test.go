package complaint_test

import (
	"github.com/stretchr/testify/mock"

	"crms/backend/internal/models"
	"crms/backend/internal/query"
)

// MockStorage is a testify mock over the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) ListUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) ListOfficers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) CountAdmins(excludeID string) (int64, error) {
	args := m.Called(excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) UpdateUserRole(id, role string) error {
	args := m.Called(id, role)
	return args.Error(0)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) DeleteUser(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) CreateComplaint(c *models.Complaint) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(id, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockStorage) UpdateComplaintAssignee(id, officerID, officerName string) error {
	args := m.Called(id, officerID, officerName)
	return args.Error(0)
}

func (m *MockStorage) QueryComplaints(spec query.FilterSpec) ([]models.Complaint, error) {
	args := m.Called(spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) AddEvidence(ev *models.Evidence) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockStorage) GetEvidence(complaintID, evidenceID string) (*models.Evidence, error) {
	args := m.Called(complaintID, evidenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Evidence), args.Error(1)
}

func (m *MockStorage) ListEvidence(complaintID string) ([]models.Evidence, error) {
	args := m.Called(complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Evidence), args.Error(1)
}

func (m *MockStorage) DeleteEvidence(complaintID, evidenceID string) error {
	args := m.Called(complaintID, evidenceID)
	return args.Error(0)
}

func (m *MockStorage) AppendUpdate(u *models.ComplaintUpdate) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *MockStorage) ListUpdates(complaintID string) ([]models.ComplaintUpdate, error) {
	args := m.Called(complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ComplaintUpdate), args.Error(1)
}

func (m *MockStorage) AppendAudit(a *models.AuditEntry) error {
	args := m.Called(a)
	return args.Error(0)
}

func (m *MockStorage) ListAudit(complaintID string) ([]models.AuditEntry, error) {
	args := m.Called(complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

func (m *MockStorage) PublishTimelineEvent(ev models.TimelineEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockStorage) GetSidebarCollapsed(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetSidebarCollapsed(userID string, collapsed bool) error {
	args := m.Called(userID, collapsed)
	return args.Error(0)
}
