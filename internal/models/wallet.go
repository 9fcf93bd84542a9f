package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserWallet is a payout address registered by a worker or supplier.
// The primary wallet is the one stamped onto approved payments.
type UserWallet struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Address   string     `gorm:"column:wallet_address;not null" json:"wallet_address"`
	Type      WalletType `gorm:"type:wallet_type;column:wallet_type;not null;default:'ethereum'" json:"wallet_type"`
	IsPrimary bool       `gorm:"column:is_primary;default:false" json:"is_primary"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the UserWallet model
func (UserWallet) TableName() string {
	return "user_wallets"
}

// WalletManager provides ORM methods for UserWallet
type WalletManager struct {
	db *gorm.DB
}

// NewWalletManager creates a new WalletManager instance
func NewWalletManager(db *gorm.DB) *WalletManager {
	return &WalletManager{db: db}
}

// Add registers a wallet for the user. The user's first wallet becomes
// primary automatically.
func (m *WalletManager) Add(userID uuid.UUID, address string, walletType WalletType) (*UserWallet, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: wallet address is required", ErrValidation)
	}
	if !ValidWalletType(walletType) {
		return nil, fmt.Errorf("%w: unknown wallet type %q", ErrValidation, walletType)
	}

	wallet := &UserWallet{
		UserID:  userID,
		Address: address,
		Type:    walletType,
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&UserWallet{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		wallet.IsPrimary = count == 0
		return tx.Create(wallet).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add wallet: %w", err)
	}
	return wallet, nil
}

// ListByUser retrieves all wallets registered by a user
func (m *WalletManager) ListByUser(userID uuid.UUID) ([]UserWallet, error) {
	var wallets []UserWallet
	err := m.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&wallets).Error
	return wallets, err
}

// GetPrimary retrieves the user's primary wallet, if any
func (m *WalletManager) GetPrimary(userID uuid.UUID) (*UserWallet, error) {
	var wallet UserWallet
	err := m.db.Where("user_id = ? AND is_primary = ?", userID, true).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// SetPrimary makes the given wallet the user's primary one. The unset
// and set run in one transaction so there is never more or less than
// one primary wallet.
func (m *WalletManager) SetPrimary(id, userID uuid.UUID) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&UserWallet{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&UserWallet{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_primary", false).Error
	})
}
