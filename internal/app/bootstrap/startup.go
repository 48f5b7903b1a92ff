// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/contacthub/internal/app/resources"
	userstore "github.com/dalemusser/contacthub/internal/app/store/users"
	"github.com/dalemusser/contacthub/internal/app/system/authutil"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}
	viewdata.Init(appCfg.SiteName)
	resources.LoadSharedTemplates()

	sctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	return seedUsers(sctx, userstore.New(deps.MongoDatabase), appCfg, logger)
}

// userSeeder is the slice of the user store seeding needs.
type userSeeder interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u models.User) (models.User, error)
}

// seedUsers creates the configured admin and regular user when no users
// exist yet. A populated collection is left alone.
func seedUsers(ctx context.Context, users userSeeder, appCfg AppConfig, logger *zap.Logger) error {
	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	seeds := []struct {
		username, password, role string
	}{
		{appCfg.SeedAdminUsername, appCfg.SeedAdminPassword, models.RoleAdmin},
		{appCfg.SeedUserUsername, appCfg.SeedUserPassword, models.RoleUser},
	}
	for _, s := range seeds {
		if s.username == "" || s.password == "" {
			continue
		}
		hash, err := authutil.HashPassword(s.password)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", s.username, err)
		}
		u, err := users.Create(ctx, models.User{
			Username:     s.username,
			PasswordHash: hash,
			Role:         s.role,
			Enabled:      true,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", s.username, err)
		}
		logger.Info("seeded default user",
			zap.String("username", u.Username),
			zap.String("role", u.Role))
	}
	return nil
}
