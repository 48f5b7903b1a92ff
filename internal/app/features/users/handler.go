// internal/app/features/users/handler.go
package users

import (
	"context"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	"github.com/dalemusser/contacthub/internal/app/system/auditlog"
	"github.com/dalemusser/contacthub/internal/app/system/flash"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the user persistence the handlers need. userstore.Store and
// testutil.MemUsers satisfy it.
type Store interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) error
	SetEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler is the feature-level entry point for user management.
type Handler struct {
	Users  Store
	Flash  *flash.Store
	Audit  *auditlog.Logger
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a users Handler. flashes and audit may be nil.
func NewHandler(store Store, flashes *flash.Store, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	return &Handler{
		Users:  store,
		Flash:  flashes,
		Audit:  audit,
		ErrLog: errLog,
		Log:    logger,
	}
}
