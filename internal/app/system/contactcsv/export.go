// internal/app/system/contactcsv/export.go
package contactcsv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/contacthub/internal/domain/models"
)

// ExportHeader is the column order of an export.
var ExportHeader = []string{
	"id", "title", "firstName", "lastName", "gender", "email",
	"phone1", "phone2", "institution", "faculty", "studyDomain",
	"persGroup", "function", "country", "coilExp", "mobilityFin",
	"createdAt", "updatedAt",
}

// TimestampLayout formats audit timestamps in exports (UTC).
const TimestampLayout = "2006-01-02 15:04"

// ExportFilename returns contacts-<timestamp>.csv for now.
func ExportFilename(now time.Time) string {
	return "contacts-" + now.UTC().Format("20060102-150405") + ".csv"
}

// Export writes contacts as CSV. Every field is double-quoted, including
// the id, and embedded quotes are doubled.
func Export(w io.Writer, contacts []models.Contact) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, ExportHeader); err != nil {
		return err
	}
	for _, c := range contacts {
		if err := writeRow(bw, exportRow(c)); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv export: %w", err)
	}
	return nil
}

func exportRow(c models.Contact) []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		c.Title,
		c.FirstName,
		c.LastName,
		c.Gender,
		c.Email,
		c.Phone1,
		c.Phone2,
		c.Institution,
		c.Faculty,
		c.StudyDomain,
		c.PersGroup,
		c.Function,
		c.Country,
		strconv.FormatBool(c.CoilExp),
		strconv.FormatBool(c.MobilityFin),
		formatTimestamp(c.CreatedAt),
		formatTimestamp(c.UpdatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

// quote wraps v in double quotes. Line breaks become spaces because the
// importer reads one record per line.
func quote(v string) string {
	v = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(v)
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
