// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration, which covers ports, TLS,
// logging and request limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: contacthub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// CSRF protection; blank derives the key from SessionKey.
	CSRFKey string

	// Contact directory
	SiteName       string
	PageSize       int   // default rows per listing page
	ImportMaxBytes int64 // largest accepted CSV upload

	// Default accounts, created only when the users collection is empty.
	SeedAdminUsername string
	SeedAdminPassword string
	SeedUserUsername  string
	SeedUserPassword  string

	// Login rate limiting; blank keeps counters in process.
	RateLimitRedisAddr string

	// Audit logging: "all", "db", "log" or "off" per category.
	AuditLogAuth  string
	AuditLogAdmin string

	// Prometheus /metrics endpoint.
	MetricsEnabled bool
}
