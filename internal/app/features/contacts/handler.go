// internal/app/features/contacts/handler.go
package contacts

import (
	"context"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	"github.com/dalemusser/contacthub/internal/app/system/auditlog"
	"github.com/dalemusser/contacthub/internal/app/system/contactcsv"
	"github.com/dalemusser/contacthub/internal/app/system/contactsearch"
	"github.com/dalemusser/contacthub/internal/app/system/flash"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"go.uber.org/zap"
)

// Store is the contact persistence the handlers need. Both
// contactstore.Store and testutil.MemContacts satisfy it.
type Store interface {
	GetByID(ctx context.Context, id int64) (models.Contact, error)
	GetByEmail(ctx context.Context, email string) (models.Contact, error)
	Create(ctx context.Context, c models.Contact, actor string) (models.Contact, error)
	Update(ctx context.Context, id int64, c models.Contact, actor string) (models.Contact, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, c contactsearch.Criteria, sort contactsearch.Sort) ([]models.Contact, error)
	SearchPage(ctx context.Context, c contactsearch.Criteria, req contactsearch.PageRequest) (contactsearch.Page, error)
}

// Handler is the feature-level entry point for Contacts.
type Handler struct {
	Contacts Store
	Importer *contactcsv.Importer
	Flash    *flash.Store
	Audit    *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	// PageSize is the default list page size when the request has none.
	PageSize int
}

// NewHandler constructs a Contacts handler. flashes and audit may be nil.
func NewHandler(store Store, flashes *flash.Store, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	return &Handler{
		Contacts: store,
		Importer: contactcsv.NewImporter(store, logger),
		Flash:    flashes,
		Audit:    audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// parseID reads a positive numeric contact id.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
