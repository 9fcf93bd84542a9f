package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation is a single-use, expiring code that grants a role to
// whoever redeems it. Rows are never deleted; used, revoked and expired
// invitations stay for audit.
type Invitation struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string           `gorm:"column:invitation_code;uniqueIndex;not null" json:"invitation_code"`
	Role        UserRole         `gorm:"type:user_role;not null" json:"role"`
	Email       *string          `gorm:"column:email" json:"email,omitempty"`
	ProjectName *string          `gorm:"column:project_name" json:"project_name,omitempty"`
	AdminID     uuid.UUID        `gorm:"type:uuid;column:admin_id;not null;index" json:"admin_id"`
	Status      InvitationStatus `gorm:"type:invitation_status;not null;default:'pending'" json:"status"`
	ExpiresAt   time.Time        `gorm:"column:expires_at;not null" json:"expires_at"`
	UsedBy      *uuid.UUID       `gorm:"type:uuid;column:used_by" json:"used_by,omitempty"`
	UsedAt      *time.Time       `gorm:"column:used_at" json:"used_at,omitempty"`
	CreatedAt   time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for the Invitation model
func (Invitation) TableName() string {
	return "invitations"
}

// codeAlphabet deliberately omits 0/O and 1/I, codes get read over the
// phone and copied by hand on site.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// BeforeCreate generates the invitation code if not set
func (inv *Invitation) BeforeCreate(tx *gorm.DB) error {
	if inv.Code != "" {
		return nil
	}
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	code := make([]byte, 8)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	inv.Code = "INV-" + string(code)
	return nil
}

// EffectiveStatus computes the status shown to callers: a pending
// invitation past its expiry reads as expired even though no background
// job ever rewrites the stored row.
func (inv *Invitation) EffectiveStatus() InvitationStatus {
	if inv.Status == InvitationPending && time.Now().After(inv.ExpiresAt) {
		return InvitationExpired
	}
	return inv.Status
}

// IsValid reports whether the invitation can still be consumed.
func (inv *Invitation) IsValid() bool {
	return inv.Status == InvitationPending && time.Now().Before(inv.ExpiresAt)
}

// InviteURL generates the signup link carrying the code
func (inv *Invitation) InviteURL(baseURL string) string {
	return baseURL + "/signup?invitation=" + inv.Code
}

// InvitationManager provides ORM methods for Invitation
type InvitationManager struct {
	db *gorm.DB
}

// NewInvitationManager creates a new InvitationManager instance
func NewInvitationManager(db *gorm.DB) *InvitationManager {
	return &InvitationManager{db: db}
}

// Create issues a new invitation on behalf of adminID. expiresInDays
// must be positive and role must be a known role.
func (m *InvitationManager) Create(adminID uuid.UUID, role UserRole, email, projectName *string, expiresInDays int) (*Invitation, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: role is required", ErrValidation)
	}
	if expiresInDays <= 0 {
		return nil, fmt.Errorf("%w: expiry must be at least one day", ErrValidation)
	}

	inv := &Invitation{
		AdminID:     adminID,
		Role:        role,
		Email:       email,
		ProjectName: projectName,
		Status:      InvitationPending,
		ExpiresAt:   time.Now().Add(time.Duration(expiresInDays) * 24 * time.Hour),
	}
	if err := m.db.Create(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return inv, nil
}

// Get retrieves an invitation by ID
func (m *InvitationManager) Get(id uuid.UUID) (*Invitation, error) {
	var inv Invitation
	err := m.db.First(&inv, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByCode retrieves an invitation by its exact code
func (m *InvitationManager) GetByCode(code string) (*Invitation, error) {
	var inv Invitation
	err := m.db.Where("invitation_code = ?", code).First(&inv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByAdmin retrieves all invitations created by adminID, newest first
func (m *InvitationManager) ListByAdmin(adminID uuid.UUID) ([]Invitation, error) {
	var invitations []Invitation
	err := m.db.Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Consume redeems the invitation identified by code on behalf of
// consumerID. The mutation is a single conditional UPDATE so two
// concurrent attempts on the same code produce exactly one winner; a
// read-then-write pair would not. On failure the stored row (if any) is
// inspected only to pick the error, callers showing this to users must
// collapse all three errors into one generic message.
func (m *InvitationManager) Consume(code string, consumerID uuid.UUID) (*Invitation, error) {
	now := time.Now()

	res := m.db.Model(&Invitation{}).
		Where("invitation_code = ? AND status = ? AND expires_at > ?", code, InvitationPending, now).
		Updates(map[string]interface{}{
			"status":  InvitationUsed,
			"used_by": consumerID,
			"used_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to consume invitation: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var inv Invitation
		err := m.db.Where("invitation_code = ?", code).First(&inv).Error
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		switch inv.Status {
		case InvitationUsed:
			return nil, ErrAlreadyUsed
		case InvitationPending:
			return nil, ErrExpired
		default: // revoked
			return nil, ErrNotFound
		}
	}

	var inv Invitation
	if err := m.db.Where("invitation_code = ?", code).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// Revoke cancels a pending invitation owned by adminID. Anything other
// than pending is not revocable.
func (m *InvitationManager) Revoke(id, adminID uuid.UUID) error {
	res := m.db.Model(&Invitation{}).
		Where("id = ? AND admin_id = ? AND status = ?", id, adminID, InvitationPending).
		Update("status", InvitationRevoked)
	if res.Error != nil {
		return fmt.Errorf("failed to revoke invitation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var inv Invitation
		err := m.db.Where("id = ? AND admin_id = ?", id, adminID).First(&inv).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: invitation is %s", ErrInvalidState, inv.Status)
	}
	return nil
}
