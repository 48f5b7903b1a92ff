// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	"github.com/dalemusser/contacthub/internal/app/store/audit"
	"go.uber.org/zap"
)

// EventStore reads audit events. *audit.Store satisfies it.
type EventStore interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	Events EventStore
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an Audit Log feature handler.
func NewHandler(events EventStore, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	return &Handler{
		Events: events,
		Log:    logger,
		ErrLog: errLog,
	}
}
