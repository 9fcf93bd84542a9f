package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkUpload is a worker's submitted evidence of a day's work, awaiting
// manager review. Submitter name and role are denormalized at write time.
type WorkUpload struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkerID       uuid.UUID    `gorm:"type:uuid;column:worker_id;not null;index" json:"worker_id"`
	HoursWorked    float64      `gorm:"column:hours_worked;not null" json:"hours_worked"`
	WorkDate       time.Time    `gorm:"column:work_date;type:date;not null" json:"work_date"`
	HourlyRate     *float64     `gorm:"column:hourly_rate" json:"hourly_rate,omitempty"`
	Description    string       `gorm:"column:description" json:"description"`
	PhotoURL       *string      `gorm:"column:photo_url" json:"photo_url,omitempty"`
	GPSCoordinates *string      `gorm:"column:gps_coordinates" json:"gps_coordinates,omitempty"`
	Status         UploadStatus `gorm:"type:upload_status;not null;default:'pending'" json:"status"`
	UserName       string       `gorm:"column:user_name" json:"user_name"`
	UserRole       UserRole     `gorm:"type:user_role;column:user_role" json:"user_role"`
	CreatedAt      time.Time    `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the WorkUpload model
func (WorkUpload) TableName() string {
	return "work_uploads"
}

// MaterialUpload is a supplier's submitted evidence of a delivery.
// Structurally parallel to WorkUpload; only the domain fields differ.
type MaterialUpload struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierID     uuid.UUID    `gorm:"type:uuid;column:supplier_id;not null;index" json:"supplier_id"`
	MaterialType   string       `gorm:"column:material_type;not null" json:"material_type"`
	Quantity       float64      `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice      *float64     `gorm:"column:unit_price" json:"unit_price,omitempty"`
	DeliveryDate   time.Time    `gorm:"column:delivery_date;type:date;not null" json:"delivery_date"`
	Description    *string      `gorm:"column:description" json:"description,omitempty"`
	PhotoURL       *string      `gorm:"column:photo_url" json:"photo_url,omitempty"`
	GPSCoordinates *string      `gorm:"column:gps_coordinates" json:"gps_coordinates,omitempty"`
	Status         UploadStatus `gorm:"type:upload_status;not null;default:'pending'" json:"status"`
	UserName       string       `gorm:"column:user_name" json:"user_name"`
	UserRole       UserRole     `gorm:"type:user_role;column:user_role" json:"user_role"`
	CreatedAt      time.Time    `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the MaterialUpload model
func (MaterialUpload) TableName() string {
	return "material_uploads"
}

// WorkUploadManager provides ORM methods for WorkUpload
type WorkUploadManager struct {
	db *gorm.DB
}

// NewWorkUploadManager creates a new WorkUploadManager instance
func NewWorkUploadManager(db *gorm.DB) *WorkUploadManager {
	return &WorkUploadManager{db: db}
}

// Submit inserts a pending work upload. When an hourly rate is given, a
// pending payment request for hours×rate is derived in the same
// transaction, mirroring how logging hours raises a payment request.
func (m *WorkUploadManager) Submit(upload *WorkUpload) error {
	if upload.HoursWorked <= 0 {
		return fmt.Errorf("%w: hours worked must be greater than zero", ErrValidation)
	}
	if upload.WorkDate.IsZero() {
		return fmt.Errorf("%w: work date is required", ErrValidation)
	}
	upload.Status = UploadPending

	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(upload).Error; err != nil {
			return fmt.Errorf("failed to create work upload: %w", err)
		}
		if upload.HourlyRate != nil && *upload.HourlyRate > 0 {
			payment := &PaymentRecord{
				RecipientID: upload.WorkerID,
				Amount:      upload.HoursWorked * *upload.HourlyRate,
				Description: "Work hours: " + upload.Description,
				Date:        upload.WorkDate,
				Status:      PaymentPending,
			}
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("failed to create derived payment: %w", err)
			}
		}
		return nil
	})
}

// Get retrieves a work upload by ID
func (m *WorkUploadManager) Get(id uuid.UUID) (*WorkUpload, error) {
	var upload WorkUpload
	err := m.db.First(&upload, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// ListBySubmitter retrieves a worker's own uploads, newest first
func (m *WorkUploadManager) ListBySubmitter(workerID uuid.UUID) ([]WorkUpload, error) {
	var uploads []WorkUpload
	err := m.db.Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&uploads).Error
	return uploads, err
}

// ListForManager retrieves uploads whose submitter is assigned to the
// given manager. The filter is a join in the query itself, not a
// post-hoc trim in the handler: uploads from outside the manager's
// assignment set never leave the database.
func (m *WorkUploadManager) ListForManager(adminID uuid.UUID) ([]WorkUpload, error) {
	var uploads []WorkUpload
	err := m.db.
		Joins("JOIN user_assignments ON user_assignments.user_id = work_uploads.worker_id").
		Where("user_assignments.admin_id = ?", adminID).
		Order("work_uploads.created_at DESC").
		Find(&uploads).Error
	return uploads, err
}

// Review moves a pending upload to verified or rejected. Both outcomes
// are terminal; the flip is a conditional UPDATE.
func (m *WorkUploadManager) Review(id uuid.UUID, decision UploadStatus) error {
	if !UploadPending.CanTransition(decision) {
		return fmt.Errorf("%w: decision must be verified or rejected", ErrValidation)
	}
	res := m.db.Model(&WorkUpload{}).
		Where("id = ? AND status = ?", id, UploadPending).
		Update("status", decision)
	if res.Error != nil {
		return fmt.Errorf("failed to review work upload: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := m.Get(id); err != nil {
			return err
		}
		return fmt.Errorf("%w: upload is not pending", ErrInvalidState)
	}
	return nil
}

// MaterialUploadManager provides ORM methods for MaterialUpload
type MaterialUploadManager struct {
	db *gorm.DB
}

// NewMaterialUploadManager creates a new MaterialUploadManager instance
func NewMaterialUploadManager(db *gorm.DB) *MaterialUploadManager {
	return &MaterialUploadManager{db: db}
}

// Submit inserts a pending material upload. When a unit price is given,
// a pending payment request for quantity×price is derived in the same
// transaction.
func (m *MaterialUploadManager) Submit(upload *MaterialUpload) error {
	if upload.MaterialType == "" {
		return fmt.Errorf("%w: material type is required", ErrValidation)
	}
	if upload.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	if upload.DeliveryDate.IsZero() {
		return fmt.Errorf("%w: delivery date is required", ErrValidation)
	}
	upload.Status = UploadPending

	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(upload).Error; err != nil {
			return fmt.Errorf("failed to create material upload: %w", err)
		}
		if upload.UnitPrice != nil && *upload.UnitPrice > 0 {
			payment := &PaymentRecord{
				RecipientID: upload.SupplierID,
				Amount:      upload.Quantity * *upload.UnitPrice,
				Description: fmt.Sprintf("%s delivery - %g units", upload.MaterialType, upload.Quantity),
				Date:        upload.DeliveryDate,
				Status:      PaymentPending,
			}
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("failed to create derived payment: %w", err)
			}
		}
		return nil
	})
}

// Get retrieves a material upload by ID
func (m *MaterialUploadManager) Get(id uuid.UUID) (*MaterialUpload, error) {
	var upload MaterialUpload
	err := m.db.First(&upload, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// ListBySubmitter retrieves a supplier's own uploads, newest first
func (m *MaterialUploadManager) ListBySubmitter(supplierID uuid.UUID) ([]MaterialUpload, error) {
	var uploads []MaterialUpload
	err := m.db.Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&uploads).Error
	return uploads, err
}

// ListForManager retrieves uploads whose submitter is assigned to the
// given manager. Same authorization boundary as work uploads.
func (m *MaterialUploadManager) ListForManager(adminID uuid.UUID) ([]MaterialUpload, error) {
	var uploads []MaterialUpload
	err := m.db.
		Joins("JOIN user_assignments ON user_assignments.user_id = material_uploads.supplier_id").
		Where("user_assignments.admin_id = ?", adminID).
		Order("material_uploads.created_at DESC").
		Find(&uploads).Error
	return uploads, err
}

// Review moves a pending upload to verified or rejected. Terminal both
// ways.
func (m *MaterialUploadManager) Review(id uuid.UUID, decision UploadStatus) error {
	if !UploadPending.CanTransition(decision) {
		return fmt.Errorf("%w: decision must be verified or rejected", ErrValidation)
	}
	res := m.db.Model(&MaterialUpload{}).
		Where("id = ? AND status = ?", id, UploadPending).
		Update("status", decision)
	if res.Error != nil {
		return fmt.Errorf("failed to review material upload: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := m.Get(id); err != nil {
			return err
		}
		return fmt.Errorf("%w: upload is not pending", ErrInvalidState)
	}
	return nil
}
