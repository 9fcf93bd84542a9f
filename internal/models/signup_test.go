package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupWithInvitation(t *testing.T) {
	admin := createTestUser(t, RoleManager)

	project := "Abuja Bridge"
	inv, err := testDB.Invitations.Create(admin.ID, RoleSupplier, nil, &project, 7)
	require.NoError(t, err)

	email := fmt.Sprintf("supplier-%s@example.com", uuid.NewString())
	user, assignment, err := testDB.SignupWithInvitation(inv.Code, "Ada Obi", email)
	require.NoError(t, err)

	assert.Equal(t, RoleSupplier, user.Role)
	assert.Equal(t, ProviderInvitation, user.Provider)
	assert.Equal(t, inv.Code, user.ProviderID)

	assert.Equal(t, admin.ID, assignment.AdminID)
	assert.Equal(t, user.ID, assignment.UserID)
	assert.Equal(t, AssignmentActive, assignment.Status)
	require.NotNil(t, assignment.ProjectName)
	assert.Equal(t, project, *assignment.ProjectName)
	assert.Equal(t, "Ada Obi", assignment.UserName)
	assert.Equal(t, RoleSupplier, assignment.UserRole)

	stored, err := testDB.Invitations.Get(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvitationUsed, stored.Status)
	require.NotNil(t, stored.UsedBy)
	assert.Equal(t, user.ID, *stored.UsedBy)
}

func TestSignupWithInvitationBadCode(t *testing.T) {
	_, _, err := testDB.SignupWithInvitation("INV-WRONGCDE", "Someone", "someone@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSignupValidation(t *testing.T) {
	_, _, err := testDB.SignupWithInvitation("", "Someone", "someone@example.com")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = testDB.SignupWithInvitation("INV-ABCD2345", "  ", "someone@example.com")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = testDB.SignupWithInvitation("INV-ABCD2345", "Someone", "")
	assert.ErrorIs(t, err, ErrValidation)
}

// A signup that fails partway through must not burn the invitation.
func TestSignupRollsBackOnDuplicateEmail(t *testing.T) {
	admin := createTestUser(t, RoleManager)
	existing := createTestUser(t, RoleWorker)

	inv, err := testDB.Invitations.Create(admin.ID, RoleWorker, nil, nil, 7)
	require.NoError(t, err)

	_, _, err = testDB.SignupWithInvitation(inv.Code, "Dup", existing.Email)
	require.Error(t, err)

	stored, err := testDB.Invitations.Get(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvitationPending, stored.Status)
	assert.Nil(t, stored.UsedBy)

	// And the code still works for someone else.
	email := fmt.Sprintf("retry-%s@example.com", uuid.NewString())
	_, _, err = testDB.SignupWithInvitation(inv.Code, "Retry", email)
	assert.NoError(t, err)
}
