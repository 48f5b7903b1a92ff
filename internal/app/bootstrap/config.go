// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/contacthub/internal/app/system/contactcsv"
	"github.com/dalemusser/contacthub/internal/app/system/paging"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is enforced outside dev.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for ContactHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CONTACTHUB_MONGO_URI, CONTACTHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "contacthub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "contacthub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 8h, 24h)"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (blank derives it from session_key)"},

	// Contact directory
	{Name: "site_name", Default: "ContactHub", Desc: "Site name shown in the page header"},
	{Name: "page_size", Default: paging.PageSize, Desc: "Default rows per listing page"},
	{Name: "import_max_bytes", Default: contactcsv.MaxUploadSize, Desc: "Largest accepted CSV upload in bytes"},

	// Default accounts
	{Name: "seed_admin_username", Default: "admin", Desc: "Username of the seeded administrator"},
	{Name: "seed_admin_password", Default: "admin123", Desc: "Password of the seeded administrator"},
	{Name: "seed_user_username", Default: "user", Desc: "Username of the seeded regular user"},
	{Name: "seed_user_password", Default: "user123", Desc: "Password of the seeded regular user"},

	// Login rate limiting
	{Name: "ratelimit_redis_addr", Default: "", Desc: "Redis address for shared login rate limits (blank = in-process)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics on /metrics"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CONTACTHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CONTACTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		SiteName:       appValues.String("site_name"),
		PageSize:       appValues.Int("page_size"),
		ImportMaxBytes: int64(appValues.Int("import_max_bytes")),

		SeedAdminUsername: appValues.String("seed_admin_username"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
		SeedUserUsername:  appValues.String("seed_user_username"),
		SeedUserPassword:  appValues.String("seed_user_password"),

		RateLimitRedisAddr: appValues.String("ratelimit_redis_addr"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		MetricsEnabled: appValues.Bool("metrics_enabled"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}

	if len(appCfg.SessionKey) < minSessionKeyLen {
		if coreCfg == nil || coreCfg.Env != "dev" {
			return fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen)
		}
		logger.Warn("session_key is short; acceptable only in dev", zap.Int("length", len(appCfg.SessionKey)))
	}
	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}

	if appCfg.PageSize < 1 || appCfg.PageSize > paging.MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", paging.MaxPageSize, appCfg.PageSize)
	}
	if appCfg.ImportMaxBytes <= 0 {
		return fmt.Errorf("import_max_bytes must be positive, got %d", appCfg.ImportMaxBytes)
	}

	return nil
}
