// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/contacthub/internal/app/store/audit"
	"github.com/dalemusser/contacthub/internal/app/system/paging"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

const pageSize = 50

// ServeList handles GET /audit - displays the audit log with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	filter, data := parseFilter(r)
	page := paging.ParsePage(r)
	filter.Limit = pageSize
	filter.Offset = int64(page * pageSize)

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "A database error occurred.", "/contacts")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "A database error occurred.", "/contacts")
		return
	}

	data.BaseVM = viewdata.NewBaseVM(r, "Audit Log", "/contacts")
	data.Items = events
	data.Categories = allCategories()
	data.EventTypes = eventTypesForCategory(data.Category)
	data.Total = total
	data.TotalPages = paging.TotalPages(total, pageSize)
	data.PageNumber = page + 1
	data.Range = paging.ComputeRange(page, pageSize, len(events), total)
	data.PrevURL = pageURL(r, data.Range.PrevPage)
	data.NextURL = pageURL(r, data.Range.NextPage)

	templates.Render(w, r, "audit_list", data)
}

// parseFilter reads the filter form. Unparseable dates are ignored; the end
// date is inclusive of the whole day.
func parseFilter(r *http.Request) (audit.QueryFilter, listData) {
	q := r.URL.Query()
	data := listData{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Actor:     strings.TrimSpace(q.Get("actor")),
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
	}
	filter := audit.QueryFilter{
		Category:  data.Category,
		EventType: data.EventType,
		Actor:     data.Actor,
	}
	if t, err := time.Parse("2006-01-02", data.StartDate); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.Parse("2006-01-02", data.EndDate); err == nil {
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}
	return filter, data
}

func pageURL(r *http.Request, page int) string {
	q := url.Values{}
	for k, v := range r.URL.Query() {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return "/audit?" + q.Encode()
}
