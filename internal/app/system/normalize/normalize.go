// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a person or institution name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username trims and lowercases a login name.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role value ("ADMIN" -> "admin").
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query parameter value. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
