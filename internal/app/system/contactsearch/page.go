package contactsearch

import (
	"github.com/dalemusser/contacthub/internal/app/system/paging"
	"github.com/dalemusser/contacthub/internal/domain/models"
)

// PageRequest asks for one zero-based page of results.
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// Normalized clamps Page and Size to valid values.
func (p PageRequest) Normalized() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = paging.PageSize
	}
	if p.Size > paging.MaxPageSize {
		p.Size = paging.MaxPageSize
	}
	return p
}

// Skip is the number of rows before the requested page.
func (p PageRequest) Skip() int64 {
	n := p.Normalized()
	return int64(n.Page) * int64(n.Size)
}

// Page is one page of search results plus the totals needed to render
// pagination.
type Page struct {
	Items      []models.Contact
	Number     int
	Size       int
	Total      int64
	TotalPages int
}

// NewPage assembles a Page for req from the fetched items and the total
// match count.
func NewPage(items []models.Contact, req PageRequest, total int64) Page {
	req = req.Normalized()
	return Page{
		Items:      items,
		Number:     req.Page,
		Size:       req.Size,
		Total:      total,
		TotalPages: paging.TotalPages(total, req.Size),
	}
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 0 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number+1 < p.TotalPages }
