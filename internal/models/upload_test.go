package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkUploadSubmitDerivesPayment(t *testing.T) {
	_, worker := createTestTeam(t)

	rate := 2500.0
	upload := &WorkUpload{
		WorkerID:    worker.ID,
		HoursWorked: 8,
		WorkDate:    time.Now(),
		HourlyRate:  &rate,
		Description: "Foundation pour",
		UserName:    worker.Name,
		UserRole:    worker.Role,
	}
	require.NoError(t, testDB.WorkUploads.Submit(upload))
	assert.Equal(t, UploadPending, upload.Status)

	payments, err := testDB.Payments.ListByRecipient(worker.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 8*rate, payments[0].Amount)
	assert.Equal(t, PaymentPending, payments[0].Status)
	assert.Equal(t, "Work hours: Foundation pour", payments[0].Description)
}

func TestWorkUploadSubmitWithoutRate(t *testing.T) {
	_, worker := createTestTeam(t)

	upload := &WorkUpload{
		WorkerID:    worker.ID,
		HoursWorked: 6,
		WorkDate:    time.Now(),
		Description: "Unpriced work",
	}
	require.NoError(t, testDB.WorkUploads.Submit(upload))

	payments, err := testDB.Payments.ListByRecipient(worker.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestWorkUploadValidation(t *testing.T) {
	worker := createTestUser(t, RoleWorker)

	err := testDB.WorkUploads.Submit(&WorkUpload{WorkerID: worker.ID, HoursWorked: 0, WorkDate: time.Now()})
	assert.ErrorIs(t, err, ErrValidation)

	err = testDB.WorkUploads.Submit(&WorkUpload{WorkerID: worker.ID, HoursWorked: 4})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMaterialUploadSubmitDerivesPayment(t *testing.T) {
	manager := createTestUser(t, RoleManager)
	supplier := createTestUser(t, RoleSupplier)
	_, err := testDB.Assignments.Create(manager.ID, supplier, nil)
	require.NoError(t, err)

	price := 4500.0
	upload := &MaterialUpload{
		SupplierID:   supplier.ID,
		MaterialType: "Cement",
		Quantity:     20,
		UnitPrice:    &price,
		DeliveryDate: time.Now(),
		UserName:     supplier.Name,
		UserRole:     supplier.Role,
	}
	require.NoError(t, testDB.MaterialUploads.Submit(upload))

	payments, err := testDB.Payments.ListByRecipient(supplier.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 20*price, payments[0].Amount)
	assert.Equal(t, "Cement delivery - 20 units", payments[0].Description)
}

func TestMaterialUploadValidation(t *testing.T) {
	supplier := createTestUser(t, RoleSupplier)

	err := testDB.MaterialUploads.Submit(&MaterialUpload{SupplierID: supplier.ID, Quantity: 5, DeliveryDate: time.Now()})
	assert.ErrorIs(t, err, ErrValidation)

	err = testDB.MaterialUploads.Submit(&MaterialUpload{SupplierID: supplier.ID, MaterialType: "Sand", Quantity: 0, DeliveryDate: time.Now()})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWorkUploadReviewTerminal(t *testing.T) {
	_, worker := createTestTeam(t)

	upload := &WorkUpload{WorkerID: worker.ID, HoursWorked: 8, WorkDate: time.Now()}
	require.NoError(t, testDB.WorkUploads.Submit(upload))

	require.NoError(t, testDB.WorkUploads.Review(upload.ID, UploadVerified))

	err := testDB.WorkUploads.Review(upload.ID, UploadRejected)
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := testDB.WorkUploads.Get(upload.ID)
	require.NoError(t, err)
	assert.Equal(t, UploadVerified, stored.Status)
}

func TestWorkUploadRejectStaysRejected(t *testing.T) {
	_, worker := createTestTeam(t)

	upload := &WorkUpload{WorkerID: worker.ID, HoursWorked: 3, WorkDate: time.Now()}
	require.NoError(t, testDB.WorkUploads.Submit(upload))

	require.NoError(t, testDB.WorkUploads.Review(upload.ID, UploadRejected))

	err := testDB.WorkUploads.Review(upload.ID, UploadVerified)
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := testDB.WorkUploads.Get(upload.ID)
	require.NoError(t, err)
	assert.Equal(t, UploadRejected, stored.Status)
}

func TestWorkUploadReviewDecisionValidation(t *testing.T) {
	_, worker := createTestTeam(t)

	upload := &WorkUpload{WorkerID: worker.ID, HoursWorked: 2, WorkDate: time.Now()}
	require.NoError(t, testDB.WorkUploads.Submit(upload))

	err := testDB.WorkUploads.Review(upload.ID, UploadPending)
	assert.ErrorIs(t, err, ErrValidation)
}

// A manager's review queue only ever contains their own team's uploads.
func TestListForManagerBoundary(t *testing.T) {
	manager, worker := createTestTeam(t)
	otherManager, otherWorker := createTestTeam(t)

	mine := &WorkUpload{WorkerID: worker.ID, HoursWorked: 8, WorkDate: time.Now()}
	require.NoError(t, testDB.WorkUploads.Submit(mine))
	theirs := &WorkUpload{WorkerID: otherWorker.ID, HoursWorked: 8, WorkDate: time.Now()}
	require.NoError(t, testDB.WorkUploads.Submit(theirs))

	uploads, err := testDB.WorkUploads.ListForManager(manager.ID)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, mine.ID, uploads[0].ID)

	uploads, err = testDB.WorkUploads.ListForManager(otherManager.ID)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, theirs.ID, uploads[0].ID)
}

func TestMaterialListForManagerBoundary(t *testing.T) {
	manager := createTestUser(t, RoleManager)
	supplier := createTestUser(t, RoleSupplier)
	_, err := testDB.Assignments.Create(manager.ID, supplier, nil)
	require.NoError(t, err)

	outsider := createTestUser(t, RoleSupplier)

	mine := &MaterialUpload{SupplierID: supplier.ID, MaterialType: "Gravel", Quantity: 10, DeliveryDate: time.Now()}
	require.NoError(t, testDB.MaterialUploads.Submit(mine))
	theirs := &MaterialUpload{SupplierID: outsider.ID, MaterialType: "Gravel", Quantity: 10, DeliveryDate: time.Now()}
	require.NoError(t, testDB.MaterialUploads.Submit(theirs))

	uploads, err := testDB.MaterialUploads.ListForManager(manager.ID)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, mine.ID, uploads[0].ID)
}
