// internal/app/system/contactcsv/importer.go
package contactcsv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	contactstore "github.com/dalemusser/contacthub/internal/app/store/contacts"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize is the default cap on an import file.
const MaxUploadSize = 5 << 20 // 5 MB

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Repo is the slice of the contact store the importer needs. GetByEmail
// must return contactstore.ErrNotFound when no contact has the email.
type Repo interface {
	GetByEmail(ctx context.Context, email string) (models.Contact, error)
	Create(ctx context.Context, c models.Contact, actor string) (models.Contact, error)
	Update(ctx context.Context, id int64, c models.Contact, actor string) (models.Contact, error)
}

// Result summarizes one import run.
type Result struct {
	BatchID  string
	Imported int // rows created or updated
	Created  int
	Updated  int
	Skipped  int // rows without an email
	Failed   int // rows whose lookup or save failed, including invalid contacts
}

// Importer upserts contacts from a CSV upload, keyed by email.
type Importer struct {
	Repo     Repo
	Log      *zap.Logger
	MaxBytes int64
}

// NewImporter returns an Importer with the default size cap.
func NewImporter(repo Repo, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{Repo: repo, Log: logger, MaxBytes: MaxUploadSize}
}

// Import reads a CSV stream and creates or updates one contact per row.
//
// The first line must be a header containing an email column; otherwise
// nothing is imported and an *ImportError is returned. Rows without an
// email are skipped. A row that fails to persist is logged and skipped.
// Columns absent from the header leave the matching contact fields as they
// are on update and zero on create.
func (im *Importer) Import(ctx context.Context, r io.Reader, actor string) (Result, error) {
	res := Result{BatchID: uuid.NewString()}
	log := im.Log.With(zap.String("import_batch", res.BatchID), zap.String("actor", actor))

	data, err := im.read(r)
	if err != nil {
		return res, err
	}

	lines := splitLines(string(data))
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return res, &ImportError{Kind: MissingHeader}
	}

	h := newHeader(ParseRecord(lines[0]))
	emailIdx, ok := h.index(emailAliases)
	if !ok {
		return res, &ImportError{Kind: MissingEmailColumn}
	}
	cols := h.bind()

	for n, line := range lines[1:] {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("csv import interrupted after %d rows: %w", res.Imported, err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := n + 2

		rec := ParseRecord(line)
		email := cell(rec, emailIdx)
		if email == "" {
			res.Skipped++
			continue
		}

		created, err := im.upsert(ctx, rec, email, cols, actor)
		if err != nil {
			res.Failed++
			log.Warn("csv import row skipped",
				zap.Int("line", lineNo),
				zap.String("email", email),
				zap.Error(err))
			continue
		}
		res.Imported++
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	log.Info("csv import finished",
		zap.Int("imported", res.Imported),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed))
	return res, nil
}

// read loads the whole upload, enforcing MaxBytes, and strips a UTF-8 BOM.
func (im *Importer) read(r io.Reader) ([]byte, error) {
	limit := im.MaxBytes
	if limit <= 0 {
		limit = MaxUploadSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &ImportError{Kind: Unreadable, Err: err}
	}
	if int64(len(data)) > limit {
		return nil, &ImportError{Kind: Unreadable, Err: fmt.Errorf("file exceeds %d bytes", limit)}
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

func (im *Importer) upsert(ctx context.Context, rec []string, email string, cols []boundColumn, actor string) (created bool, err error) {
	existing, err := im.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, contactstore.ErrNotFound):
		existing = models.Contact{}
	default:
		return false, fmt.Errorf("lookup by email: %w", err)
	}

	c := existing
	c.Email = email
	for _, col := range cols {
		col.apply(&c, cell(rec, col.index))
	}

	if existing.IsNew() {
		if _, err := im.Repo.Create(ctx, c, actor); err != nil {
			return false, fmt.Errorf("create: %w", err)
		}
		return true, nil
	}
	if _, err := im.Repo.Update(ctx, existing.ID, c, actor); err != nil {
		return false, fmt.Errorf("update %d: %w", existing.ID, err)
	}
	return false, nil
}
