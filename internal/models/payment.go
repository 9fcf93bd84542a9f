package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitepay/internal/ledger"
)

// PaymentRecord is a request for funds transfer. Its lifecycle is
// pending→{approved,rejected}, then approved→paid once the simulated
// settlement fires. Amount is immutable after creation.
type PaymentRecord struct {
	ID              uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Amount          float64            `gorm:"column:amount;not null" json:"amount"`
	Status          PaymentStatus      `gorm:"type:payment_status;not null;default:'pending'" json:"status"`
	Date            time.Time          `gorm:"column:date;type:date" json:"date"`
	Description     string             `gorm:"column:description" json:"description"`
	RecipientID     uuid.UUID          `gorm:"type:uuid;column:recipient_id;not null;index" json:"recipient_id"`
	ApproverID      *uuid.UUID         `gorm:"type:uuid;column:approver_id" json:"approver_id,omitempty"`
	TxHash          *string            `gorm:"column:transaction_hash" json:"transaction_hash,omitempty"`
	TxStatus        *TransactionStatus `gorm:"type:transaction_status;column:transaction_status" json:"transaction_status,omitempty"`
	RecipientWallet *string            `gorm:"column:recipient_wallet" json:"recipient_wallet,omitempty"`
	ContractAddress *string            `gorm:"column:contract_address" json:"contract_address,omitempty"`
	GasFee          *float64           `gorm:"column:gas_fee" json:"gas_fee,omitempty"`
	CreatedAt       time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for the PaymentRecord model
func (PaymentRecord) TableName() string {
	return "payment_records"
}

// PaymentManager provides ORM methods for PaymentRecord and owns the
// approval/settlement state machine.
type PaymentManager struct {
	db      *gorm.DB
	settler *ledger.Settler
}

// NewPaymentManager creates a new PaymentManager instance
func NewPaymentManager(db *gorm.DB) *PaymentManager {
	return &PaymentManager{db: db}
}

// Create inserts a pending payment request.
func (m *PaymentManager) Create(recipientID uuid.UUID, amount float64, description string, date time.Time) (*PaymentRecord, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}

	record := &PaymentRecord{
		RecipientID: recipientID,
		Amount:      amount,
		Description: description,
		Date:        date,
		Status:      PaymentPending,
	}
	if err := m.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return record, nil
}

// Get retrieves a payment by ID
func (m *PaymentManager) Get(id uuid.UUID) (*PaymentRecord, error) {
	var record PaymentRecord
	err := m.db.First(&record, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByRecipient retrieves a user's own payments, newest first
func (m *PaymentManager) ListByRecipient(recipientID uuid.UUID) ([]PaymentRecord, error) {
	var records []PaymentRecord
	err := m.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// ListForTeam retrieves payments whose recipient is assigned to the
// given manager. The join is the same authorization boundary the upload
// listings use.
func (m *PaymentManager) ListForTeam(adminID uuid.UUID) ([]PaymentRecord, error) {
	var records []PaymentRecord
	err := m.db.
		Joins("JOIN user_assignments ON user_assignments.user_id = payment_records.recipient_id").
		Where("user_assignments.admin_id = ?", adminID).
		Order("payment_records.created_at DESC").
		Find(&records).Error
	return records, err
}

// Approve moves a pending payment to approved. It stamps the approver,
// a placeholder transaction hash and contract address (simulating
// submission to the ledger), and the recipient's primary wallet if one
// is registered, then schedules the delayed transition to paid. The
// status flip is a conditional UPDATE; a record that is no longer
// pending is left untouched and ErrInvalidState is returned.
func (m *PaymentManager) Approve(id, approverID uuid.UUID) (*PaymentRecord, error) {
	record, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":             PaymentApproved,
		"approver_id":        approverID,
		"transaction_hash":   ledger.NewTxHash(),
		"contract_address":   ledger.NewContractAddress(),
		"transaction_status": TxProcessing,
	}

	var wallet UserWallet
	walletErr := m.db.Where("user_id = ? AND is_primary = ?", record.RecipientID, true).First(&wallet).Error
	if walletErr == nil {
		updates["recipient_wallet"] = wallet.Address
	} else if walletErr != gorm.ErrRecordNotFound {
		return nil, walletErr
	}

	res := m.db.Model(&PaymentRecord{}).
		Where("id = ? AND status = ?", id, PaymentPending).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to approve payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: payment is not pending", ErrInvalidState)
	}

	if m.settler != nil {
		m.settler.Schedule(id)
	}

	return m.Get(id)
}

// Reject moves a pending payment to rejected. Terminal.
func (m *PaymentManager) Reject(id, approverID uuid.UUID) (*PaymentRecord, error) {
	res := m.db.Model(&PaymentRecord{}).
		Where("id = ? AND status = ?", id, PaymentPending).
		Updates(map[string]interface{}{
			"status":      PaymentRejected,
			"approver_id": approverID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to reject payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := m.Get(id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: payment is not pending", ErrInvalidState)
	}
	return m.Get(id)
}

// Settle finalizes an approved payment as paid and stamps the simulated
// gas fee. Invoked by the settlement timer; a record that was rejected
// or already settled in the meantime is left alone.
func (m *PaymentManager) Settle(id uuid.UUID) error {
	record, err := m.Get(id)
	if err != nil {
		return err
	}

	res := m.db.Model(&PaymentRecord{}).
		Where("id = ? AND status = ?", id, PaymentApproved).
		Updates(map[string]interface{}{
			"status":             PaymentPaid,
			"transaction_status": TxCompleted,
			"gas_fee":            ledger.GasFee(record.Amount),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to settle payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: payment is not approved", ErrInvalidState)
	}
	return nil
}
