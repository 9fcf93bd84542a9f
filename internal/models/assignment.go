package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment is the durable record that a user was onboarded by a
// manager. Name, email and role are copied from the user at creation
// time as a read optimization; they are not refreshed afterwards.
type Assignment struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID        `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_admin_user" json:"user_id"`
	AdminID     uuid.UUID        `gorm:"type:uuid;column:admin_id;not null;uniqueIndex:idx_admin_user;index" json:"admin_id"`
	ProjectName *string          `gorm:"column:project_name" json:"project_name,omitempty"`
	UserName    string           `gorm:"column:user_name" json:"user_name"`
	UserEmail   string           `gorm:"column:user_email" json:"user_email"`
	UserRole    UserRole         `gorm:"type:user_role;column:user_role" json:"user_role"`
	Status      AssignmentStatus `gorm:"type:assignment_status;not null;default:'active'" json:"status"`
	AssignedAt  time.Time        `gorm:"column:assigned_at" json:"assigned_at"`
}

// TableName specifies the table name for the Assignment model
func (Assignment) TableName() string {
	return "user_assignments"
}

// BeforeCreate sets the assigned_at timestamp if not set
func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	return nil
}

// AssignmentManager provides ORM methods for Assignment
type AssignmentManager struct {
	db *gorm.DB
}

// NewAssignmentManager creates a new AssignmentManager instance
func NewAssignmentManager(db *gorm.DB) *AssignmentManager {
	return &AssignmentManager{db: db}
}

// Create records that user was onboarded under adminID, copying the
// user's display fields onto the row.
func (m *AssignmentManager) Create(adminID uuid.UUID, user *User, projectName *string) (*Assignment, error) {
	assignment := &Assignment{
		UserID:      user.ID,
		AdminID:     adminID,
		ProjectName: projectName,
		UserName:    user.Name,
		UserEmail:   user.Email,
		UserRole:    user.Role,
		Status:      AssignmentActive,
	}
	if err := m.db.Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return assignment, nil
}

// ListByAdmin retrieves all assignments under a manager, newest first
func (m *AssignmentManager) ListByAdmin(adminID uuid.UUID) ([]Assignment, error) {
	var assignments []Assignment
	err := m.db.Where("admin_id = ?", adminID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// TeamMemberIDs returns the IDs of every user assigned to adminID. This
// set is the authorization boundary for what a manager may review.
func (m *AssignmentManager) TeamMemberIDs(adminID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := m.db.Model(&Assignment{}).
		Where("admin_id = ?", adminID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// SetStatus toggles an assignment between active and inactive. Only the
// owning manager may do so.
func (m *AssignmentManager) SetStatus(id, adminID uuid.UUID, status AssignmentStatus) error {
	res := m.db.Model(&Assignment{}).
		Where("id = ? AND admin_id = ?", id, adminID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update assignment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
