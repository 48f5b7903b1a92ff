// internal/app/features/users/types.go
package users

import (
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/contacthub/internal/domain/models"
)

// listData is the view model for the user list.
type listData struct {
	viewdata.BaseVM

	Users []models.User
	Roles []string
	Self  string // signed-in username; its row hides self-destructive actions
}

// formData is the view model for the new/edit user form.
type formData struct {
	viewdata.BaseVM

	ID       string
	Username string
	Role     string
	Enabled  bool
	IsNew    bool

	Roles         []string
	PasswordRules string
	Error         string
}
