package models

import (
	"time"
)

// Custom types to match PostgreSQL enums
type UserRole string
type InvitationStatus string
type AssignmentStatus string
type PaymentStatus string
type TransactionStatus string
type UploadStatus string
type UploadKind string
type WalletType string

const (
	// User Roles
	RoleWorker   UserRole = "worker"
	RoleSupplier UserRole = "supplier"
	RoleManager  UserRole = "manager"

	// Invitation Status
	InvitationPending InvitationStatus = "pending"
	InvitationUsed    InvitationStatus = "used"
	InvitationExpired InvitationStatus = "expired"
	InvitationRevoked InvitationStatus = "revoked"

	// Assignment Status
	AssignmentActive   AssignmentStatus = "active"
	AssignmentInactive AssignmentStatus = "inactive"

	// Payment Status
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRejected PaymentStatus = "rejected"

	// Simulated on-chain transaction status
	TxPending    TransactionStatus = "pending"
	TxProcessing TransactionStatus = "processing"
	TxCompleted  TransactionStatus = "completed"
	TxFailed     TransactionStatus = "failed"

	// Upload Status
	UploadPending  UploadStatus = "pending"
	UploadVerified UploadStatus = "verified"
	UploadRejected UploadStatus = "rejected"

	// Upload Kinds
	KindWork     UploadKind = "work"
	KindMaterial UploadKind = "material"

	// Wallet Types
	WalletEthereum WalletType = "ethereum"
	WalletPolygon  WalletType = "polygon"
	WalletBSC      WalletType = "bsc"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleWorker, RoleSupplier, RoleManager:
		return true
	}
	return false
}

// ValidWalletType reports whether t is a supported wallet type.
func ValidWalletType(t WalletType) bool {
	switch t {
	case WalletEthereum, WalletPolygon, WalletBSC:
		return true
	}
	return false
}

// CanTransition reports whether a payment may move to the given status.
// The machine is linear: pending→{approved,rejected}, approved→paid;
// rejected and paid are terminal.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return to == PaymentApproved || to == PaymentRejected
	case PaymentApproved:
		return to == PaymentPaid
	}
	return false
}

// CanTransition reports whether an upload may move to the given status.
// Only pending records can be reviewed; both outcomes are terminal.
func (s UploadStatus) CanTransition(to UploadStatus) bool {
	return s == UploadPending && (to == UploadVerified || to == UploadRejected)
}

// BaseModel contains common fields for all models
type BaseModel struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}
