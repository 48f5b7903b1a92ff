// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	auditlogfeature "github.com/dalemusser/contacthub/internal/app/features/auditlog"
	contactsfeature "github.com/dalemusser/contacthub/internal/app/features/contacts"
	errorsfeature "github.com/dalemusser/contacthub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/contacthub/internal/app/features/health"
	homefeature "github.com/dalemusser/contacthub/internal/app/features/home"
	loginfeature "github.com/dalemusser/contacthub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/contacthub/internal/app/features/logout"
	usersfeature "github.com/dalemusser/contacthub/internal/app/features/users"
	"github.com/dalemusser/contacthub/internal/app/store/audit"
	contactstore "github.com/dalemusser/contacthub/internal/app/store/contacts"
	userstore "github.com/dalemusser/contacthub/internal/app/store/users"
	"github.com/dalemusser/contacthub/internal/app/system/auditlog"
	"github.com/dalemusser/contacthub/internal/app/system/auth"
	"github.com/dalemusser/contacthub/internal/app/system/flash"
	"github.com/dalemusser/contacthub/internal/app/system/metrics"
	"github.com/dalemusser/contacthub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ContactHub boots the template engine,
// applies session, CSRF and flash middleware, and mounts the feature
// routers: contacts, users, audit, login and logout.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser re-reads the user on each request, so role changes and
	// disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	flashes := flash.New(sessionMgr.Store(), logger)
	audits := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	limiter := ratelimit.NewLoginLimiter(logger)
	if deps.Redis != nil {
		limiter = ratelimit.NewRedisLoginLimiter(deps.Redis, logger)
	}

	users := userstore.New(deps.MongoDatabase)
	contacts := contactstore.New(deps.MongoDatabase)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if appCfg.MetricsEnabled {
		r.Use(metrics.Middleware)
		r.Handle("/metrics", metrics.Handler())
	}

	// Health check and static assets sit outside sessions and CSRF.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(app chi.Router) {
		if !secure {
			app.Use(markPlaintext)
		}
		app.Use(csrf.Protect(csrfKey(appCfg),
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(csrfFailure(errLog))),
		))
		app.Use(sessionMgr.LoadSessionUser)
		app.Use(flashes.Middleware)

		errorsHandler := errorsfeature.NewHandler()
		app.NotFound(errorsHandler.NotFound)

		homeHandler := homefeature.NewHandler(logger)
		app.Get("/", homeHandler.ServeRoot)

		// Authentication
		loginHandler := loginfeature.NewHandler(users, sessionMgr, limiter, audits, errLog, logger)
		app.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, audits, logger)
		app.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Error pages
		app.Mount("/forbidden", errorsfeature.Routes(errorsHandler))

		// Contact directory
		contactsHandler := contactsfeature.NewHandler(contacts, flashes, audits, errLog, logger)
		contactsHandler.PageSize = appCfg.PageSize
		contactsHandler.Importer.MaxBytes = appCfg.ImportMaxBytes
		app.Mount("/contacts", contactsfeature.Routes(contactsHandler, sessionMgr))

		// User administration
		usersHandler := usersfeature.NewHandler(users, flashes, audits, errLog, logger)
		app.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

		auditHandler := auditlogfeature.NewHandler(audit.New(deps.MongoDatabase), errLog, logger)
		app.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))
	})

	return r, nil
}

// csrfKey returns the configured 32-byte key, or one derived from the
// session key.
func csrfKey(appCfg AppConfig) []byte {
	if appCfg.CSRFKey != "" {
		return []byte(appCfg.CSRFKey)
	}
	sum := sha256.Sum256([]byte("csrf:" + appCfg.SessionKey))
	return sum[:]
}

// markPlaintext tells gorilla/csrf the request arrived over plain HTTP so
// its origin checks do not demand https in local development.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(errLog *errorsfeature.ErrorLogger) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		errLog.LogForbidden(w, r, "csrf check failed", csrf.FailureReason(r),
			"Your form expired. Please go back, reload the page and try again.", "/")
	}
}
