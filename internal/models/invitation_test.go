package models

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitationCreate(t *testing.T) {
	admin := createTestUser(t, RoleManager)

	project := "Lekki Site A"
	inv, err := testDB.Invitations.Create(admin.ID, RoleWorker, nil, &project, 7)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.Code, "INV-"))
	assert.Len(t, inv.Code, 12)
	assert.Equal(t, InvitationPending, inv.Status)
	assert.Equal(t, RoleWorker, inv.Role)

	// Expiry lands seven days out, give or take clock skew.
	expected := time.Now().Add(7 * 24 * time.Hour)
	assert.WithinDuration(t, expected, inv.ExpiresAt, time.Minute)
}

func TestInvitationCreateValidation(t *testing.T) {
	admin := createTestUser(t, RoleManager)

	_, err := testDB.Invitations.Create(admin.ID, UserRole("foreman"), nil, nil, 7)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = testDB.Invitations.Create(admin.ID, RoleWorker, nil, nil, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInvitationConsumeSingleUse(t *testing.T) {
	admin := createTestUser(t, RoleManager)
	first := createTestUser(t, RoleWorker)
	second := createTestUser(t, RoleWorker)

	inv, err := testDB.Invitations.Create(admin.ID, RoleWorker, nil, nil, 7)
	require.NoError(t, err)

	consumed, err := testDB.Invitations.Consume(inv.Code, first.ID)
	require.NoError(t, err)
	assert.Equal(t, InvitationUsed, consumed.Status)
	require.NotNil(t, consumed.UsedBy)
	assert.Equal(t, first.ID, *consumed.UsedBy)
	assert.NotNil(t, consumed.UsedAt)

	_, err = testDB.Invitations.Consume(inv.Code, second.ID)
	assert.ErrorIs(t, err, ErrAlreadyUsed)

	// The original consumer stays recorded.
	stored, err := testDB.Invitations.Get(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *stored.UsedBy)
}

func TestInvitationConsumeConcurrent(t *testing.T) {
	admin := createTestUser(t, RoleManager)

	inv, err := testDB.Invitations.Create(admin.ID, RoleWorker, nil, nil, 7)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = testDB.Invitations.Consume(inv.Code, uuid.New())
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyUsed)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent consume may win")
}

func TestInvitationConsumeUnknownCode(t *testing.T) {
	_, err := testDB.Invitations.Consume("INV-NOSUCHCD", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvitationConsumeExpired(t *testing.T) {
	admin := createTestUser(t, RoleManager)

	inv, err := testDB.Invitations.Create(admin.ID, RoleSupplier, nil, nil, 1)
	require.NoError(t, err)

	// Age the row past its expiry. The stored status stays pending;
	// only reads and consumption treat it as expired.
	err = testDB.Model(&Invitation{}).
		Where("id = ?", inv.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error
	require.NoError(t, err)

	_, err = testDB.Invitations.Consume(inv.Code, uuid.New())
	assert.ErrorIs(t, err, ErrExpired)

	stored, err := testDB.Invitations.Get(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvitationPending, stored.Status)
	assert.Equal(t, InvitationExpired, stored.EffectiveStatus())
	assert.False(t, stored.IsValid())
}

func TestInvitationRevoke(t *testing.T) {
	admin := createTestUser(t, RoleManager)
	other := createTestUser(t, RoleManager)

	inv, err := testDB.Invitations.Create(admin.ID, RoleWorker, nil, nil, 7)
	require.NoError(t, err)

	// Another manager cannot revoke it.
	err = testDB.Invitations.Revoke(inv.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, testDB.Invitations.Revoke(inv.ID, admin.ID))

	// A revoked code is indistinguishable from a missing one.
	_, err = testDB.Invitations.Consume(inv.Code, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	// Revoking twice fails, the invitation is no longer pending.
	err = testDB.Invitations.Revoke(inv.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestInvitationInviteURL(t *testing.T) {
	inv := &Invitation{Code: "INV-ABCD2345"}
	assert.Equal(t, "https://app.example.com/signup?invitation=INV-ABCD2345", inv.InviteURL("https://app.example.com"))
}
