package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account in the system. Managers sign in through
// OAuth; workers and suppliers are provisioned by consuming an
// invitation, in which case Provider is "invitation".
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Provider   string    `gorm:"column:provider;not null" json:"provider"`
	ProviderID string    `gorm:"column:provider_id;not null" json:"provider_id"`
	Email      string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Role       UserRole  `gorm:"type:user_role;not null;default:'manager'" json:"role"`
	AvatarURL  string    `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// UserManager provides ORM methods for User
type UserManager struct {
	db *gorm.DB
}

// NewUserManager creates a new UserManager instance
func NewUserManager(db *gorm.DB) *UserManager {
	return &UserManager{db: db}
}

// Create creates a new user
func (m *UserManager) Create(user *User) error {
	return m.db.Create(user).Error
}

// GetOrCreate gets an existing user or creates a new one
func (m *UserManager) GetOrCreate(provider, providerID string, defaults User) (*User, bool, error) {
	var user User
	created := false

	err := m.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = defaults
		user.Provider = provider
		user.ProviderID = providerID
		if err := m.db.Create(&user).Error; err != nil {
			return nil, false, err
		}
		created = true
	} else if err != nil {
		return nil, false, err
	}

	return &user, created, nil
}

// Get retrieves a user by ID
func (m *UserManager) Get(id uuid.UUID) (*User, error) {
	var user User
	err := m.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (m *UserManager) GetByEmail(email string) (*User, error) {
	var user User
	err := m.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (m *UserManager) Update(user *User) error {
	return m.db.Save(user).Error
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
