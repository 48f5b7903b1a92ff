// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/contacthub/internal/app/store/audit"
	"github.com/dalemusser/contacthub/internal/app/system/paging"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
)

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []audit.Event

	// Filters
	Category  string
	EventType string
	Actor     string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	// Pagination
	Total      int64
	TotalPages int
	PageNumber int // 1-based, for display
	Range      paging.Range
	PrevURL    string
	NextURL    string
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

// allCategories returns the available categories for filtering.
func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
	}
	adminEvents := []string{
		audit.EventUserCreated,
		audit.EventUserRoleChanged,
		audit.EventUserDisabled,
		audit.EventUserEnabled,
		audit.EventUserDeleted,
		audit.EventContactCreated,
		audit.EventContactUpdated,
		audit.EventContactDeleted,
		audit.EventContactsImport,
		audit.EventContactsExport,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		return append(append([]string{}, authEvents...), adminEvents...)
	default:
		return nil
	}
}
