package navigation

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name string
		ret  string
		form bool
		opts BackURLOptions
		want string
	}{
		{"no return", "", false, ContactsBackURL, "/contacts"},
		{"search result kept", "/contacts/search?lastName=smith&page=2", false, ContactsBackURL, "/contacts/search?lastName=smith&page=2"},
		{"from form value", "/contacts?page=3", true, ContactsBackURL, "/contacts?page=3"},
		{"external rejected", "https://evil.example/contacts", false, ContactsBackURL, "/contacts"},
		{"protocol relative rejected", "//evil.example/contacts", false, ContactsBackURL, "/contacts"},
		{"wrong prefix", "/users", false, ContactsBackURL, "/contacts"},
		{"edit page excluded", "/contacts/4/edit", false, ContactsBackURL, "/contacts"},
		{"users list", "/users", false, UsersBackURL, "/users"},
		{"no prefix rule", "/anything", false, BackURLOptions{Fallback: "/"}, "/anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/x"
			var body string
			if tt.ret != "" {
				v := url.Values{"return": {tt.ret}}
				if tt.form {
					body = v.Encode()
				} else {
					target += "?" + v.Encode()
				}
			}
			method := "GET"
			if tt.form {
				method = "POST"
			}
			r := httptest.NewRequest(method, target, strings.NewReader(body))
			if tt.form {
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			if got := SafeBackURL(r, tt.opts); got != tt.want {
				t.Errorf("SafeBackURL = %q, want %q", got, tt.want)
			}
		})
	}
}
