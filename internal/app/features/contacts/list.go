// internal/app/features/contacts/list.go
package contacts

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/contacthub/internal/app/system/contactsearch"
	"github.com/dalemusser/contacthub/internal/app/system/paging"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var fieldLabels = map[contactsearch.Field]string{
	contactsearch.Title:         "Title",
	contactsearch.FirstName:     "First name",
	contactsearch.LastName:      "Last name",
	contactsearch.Gender:        "Gender",
	contactsearch.Email:         "Email",
	contactsearch.Phone1:        "Phone",
	contactsearch.Phone2:        "Mobile",
	contactsearch.Institution:   "Institution",
	contactsearch.Faculty:       "Faculty",
	contactsearch.StudyDomain:   "Study domain",
	contactsearch.PersGroup:     "Group",
	contactsearch.Function:      "Function",
	contactsearch.PostAddress:   "Postal address",
	contactsearch.Country:       "Country",
	contactsearch.Interest:      "Interest",
	contactsearch.FundUse:       "Fund use",
	contactsearch.PastEvent:     "Past event",
	contactsearch.ContactPerson: "Contact person",
	contactsearch.Comments:      "Comments",
}

/*─── GET /contacts – paged list ───*/

// ServeList renders every contact, one page at a time.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	h.serveResults(w, r, false)
}

/*─── GET /contacts/search – criteria search ───*/

// ServeSearch renders the search form and the matching contacts. With no
// criteria it behaves like the list.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	h.serveResults(w, r, true)
}

func (h *Handler) serveResults(w http.ResponseWriter, r *http.Request, isSearch bool) {
	q := r.URL.Query()
	var crit contactsearch.Criteria
	if isSearch {
		crit = contactsearch.FromQuery(q)
	}
	req := h.pageRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Contacts.SearchPage(ctx, crit, req)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "contact search failed", err, "A database error occurred.", "/")
		return
	}

	title := "Contacts"
	if isSearch {
		title = "Search contacts"
	}
	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, title, "/"),
		IsSearch:   isSearch,
		Sort:       req.Sort.Params(),
		Page:       page,
		Range:      paging.ComputeRange(page.Number, page.Size, len(page.Items), page.Total),
		PageNumber: page.Number + 1,
	}
	data.PrevURL = pageURL(r, data.Range.PrevPage)
	data.NextURL = pageURL(r, data.Range.NextPage)

	exportQ := crit.Query()
	for _, s := range data.Sort {
		exportQ.Add("sort", s)
	}
	data.ExportURL = "/contacts/export"
	if enc := exportQ.Encode(); enc != "" {
		data.ExportURL += "?" + enc
	}

	if isSearch {
		for _, f := range contactsearch.Fields() {
			data.Fields = append(data.Fields, searchField{
				Name:  string(f),
				Label: fieldLabels[f],
				Value: crit.Value(f),
			})
		}
		data.CoilExp = contactsearch.FlagValue(crit.CoilExp())
		data.MobFin = contactsearch.FlagValue(crit.MobilityFin())
		data.Created = [2]boundInput{newBoundInput(crit.CreatedAfter(), false), newBoundInput(crit.CreatedBefore(), true)}
		data.Updated = [2]boundInput{newBoundInput(crit.UpdatedAfter(), false), newBoundInput(crit.UpdatedBefore(), true)}
	}

	h.Log.Debug("contacts listed",
		zap.Bool("search", isSearch),
		zap.Int("page", page.Number),
		zap.Int64("total", page.Total))

	templates.Render(w, r, "contacts_list", data)
}

// pageRequest reads page, size and sort from the query string.
func (h *Handler) pageRequest(r *http.Request) contactsearch.PageRequest {
	size := h.PageSize
	if r.URL.Query().Has("size") || size <= 0 {
		size = paging.ParseSize(r)
	}
	return contactsearch.PageRequest{
		Page: paging.ParsePage(r),
		Size: size,
		Sort: contactsearch.ParseSort(r.URL.Query()["sort"]),
	}.Normalized()
}

// pageURL is the current URL with the page parameter replaced.
func pageURL(r *http.Request, page int) string {
	q := url.Values{}
	for k, vs := range r.URL.Query() {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("page", strconv.Itoa(page))
	return r.URL.Path + "?" + q.Encode()
}
