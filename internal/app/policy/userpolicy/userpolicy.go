// Package userpolicy holds the guards that protect user management.
//
// Rules:
//   - An admin cannot delete their own account
//   - The last admin account can be neither deleted nor demoted
//   - An admin cannot disable their own account
package userpolicy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/contacthub/internal/domain/models"
)

// ErrDenied is wrapped by every DeniedError.
var ErrDenied = errors.New("action denied")

// Reason identifies which guard refused an action.
type Reason int

const (
	SelfDelete Reason = iota + 1
	LastAdminDelete
	LastAdminDemote
	SelfDisable
)

// DeniedError is returned when a guard refuses an action. Message is safe
// to show to the user.
type DeniedError struct {
	Reason  Reason
	Message string
}

func (e *DeniedError) Error() string { return e.Message }

func (e *DeniedError) Unwrap() error { return ErrDenied }

func deny(reason Reason, msg string) error {
	return &DeniedError{Reason: reason, Message: msg}
}

// RoleCounter counts users holding a role.
type RoleCounter interface {
	CountByRole(ctx context.Context, role string) (int64, error)
}

// CheckDelete reports whether actor may delete target.
func CheckDelete(ctx context.Context, users RoleCounter, actor string, target models.User) error {
	if sameUser(actor, target.Username) {
		return deny(SelfDelete, "You can not delete your own account.")
	}
	if target.Role != models.RoleAdmin {
		return nil
	}
	last, err := lastAdmin(ctx, users)
	if err != nil {
		return err
	}
	if last {
		return deny(LastAdminDelete, "You can not delete the last administrator account.")
	}
	return nil
}

// CheckRoleChange reports whether target may be moved to newRole.
func CheckRoleChange(ctx context.Context, users RoleCounter, target models.User, newRole string) error {
	if target.Role != models.RoleAdmin || newRole == models.RoleAdmin {
		return nil
	}
	last, err := lastAdmin(ctx, users)
	if err != nil {
		return err
	}
	if last {
		return deny(LastAdminDemote, "You can not remove the administrator role from the last administrator account.")
	}
	return nil
}

// CheckToggle reports whether actor may set target's enabled flag to enable.
func CheckToggle(actor string, target models.User, enable bool) error {
	if !enable && sameUser(actor, target.Username) {
		return deny(SelfDisable, "You can not disable your own account.")
	}
	return nil
}

func lastAdmin(ctx context.Context, users RoleCounter) (bool, error) {
	n, err := users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return n <= 1, nil
}

func sameUser(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
