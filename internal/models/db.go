package models

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sitepay/internal/ledger"
)

// DB holds the database connection and all model managers
type DB struct {
	*gorm.DB
	Users           *UserManager
	Invitations     *InvitationManager
	Assignments     *AssignmentManager
	Payments        *PaymentManager
	WorkUploads     *WorkUploadManager
	MaterialUploads *MaterialUploadManager
	Wallets         *WalletManager
}

// NewDB opens the database and initializes all managers. settleDelay is
// how long an approved payment waits before the simulated settlement
// flips it to paid.
func NewDB(dsn string, settleDelay time.Duration, log *zap.Logger) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := newDB(gormDB)

	// The settler calls back into the payment manager; wiring happens
	// after construction so both sides see the same connection.
	db.Payments.settler = ledger.NewSettler(settleDelay, db.Payments.Settle, log)

	return db, nil
}

func newDB(gormDB *gorm.DB) *DB {
	return &DB{
		DB:              gormDB,
		Users:           NewUserManager(gormDB),
		Invitations:     NewInvitationManager(gormDB),
		Assignments:     NewAssignmentManager(gormDB),
		Payments:        NewPaymentManager(gormDB),
		WorkUploads:     NewWorkUploadManager(gormDB),
		MaterialUploads: NewMaterialUploadManager(gormDB),
		Wallets:         NewWalletManager(gormDB),
	}
}

// AutoMigrate runs GORM auto-migration for all models
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&User{},
		&Invitation{},
		&Assignment{},
		&PaymentRecord{},
		&WorkUpload{},
		&MaterialUpload{},
		&UserWallet{},
	)
}

// Transaction runs a function within a database transaction
func (db *DB) Transaction(fn func(*DB) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		txDB := newDB(tx)
		// Settlement timers fire against the live connection, never a
		// transaction that may have rolled back by then.
		txDB.Payments.settler = db.Payments.settler
		return fn(txDB)
	})
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
