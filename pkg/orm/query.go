// Package orm holds query helpers shared by the repositories.
package orm

import "gorm.io/gorm"

// DefaultPerPage is used when a caller asks for a non-positive page size.
const DefaultPerPage = 10

// Pagination describes one page of a result set.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// Normalize clamps page to ≥ 1 and replaces a non-positive perPage with
// DefaultPerPage.
func Normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return page, perPage
}

// NewPagination computes LastPage for total rows; an empty set has one page.
func NewPagination(page, perPage int, total int64) Pagination {
	page, perPage = Normalize(page, perPage)
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, LastPage: last}
}

// Offset is the number of rows before page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.LastPage }

// Paginate is a gorm scope applying LIMIT/OFFSET for p.
func Paginate(p Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.PerPage)
	}
}
