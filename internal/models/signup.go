package models

import (
	"fmt"
	"strings"
)

// ProviderInvitation marks accounts provisioned by redeeming an
// invitation code rather than through OAuth.
const ProviderInvitation = "invitation"

// SignupWithInvitation provisions a new account from an invitation
// code: the user row, the single-use consumption of the invitation, and
// the assignment binding the user to the inviting manager all commit in
// one transaction. A crash can no longer leave an invitation marked
// used with no matching assignment.
//
// Consumption failures come back as ErrNotFound, ErrExpired or
// ErrAlreadyUsed; callers presenting them to users must collapse all
// three into one generic message.
func (db *DB) SignupWithInvitation(code, name, email string) (*User, *Assignment, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if code == "" || name == "" || email == "" {
		return nil, nil, fmt.Errorf("%w: invitation code, name and email are required", ErrValidation)
	}

	var user *User
	var assignment *Assignment

	err := db.Transaction(func(tx *DB) error {
		inv, err := tx.Invitations.GetByCode(code)
		if err != nil {
			return err
		}

		user = &User{
			Provider:   ProviderInvitation,
			ProviderID: inv.Code,
			Email:      email,
			Name:       name,
			Role:       inv.Role,
		}
		if err := tx.Users.Create(user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		consumed, err := tx.Invitations.Consume(code, user.ID)
		if err != nil {
			return err
		}

		assignment, err = tx.Assignments.Create(consumed.AdminID, user, consumed.ProjectName)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return user, assignment, nil
}
