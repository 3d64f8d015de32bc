// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the number of posts returned per feed page when the
// client does not ask for a specific limit.
const DefaultLimit = 12

// MaxLimit caps the per-page limit so a single request cannot drag an
// unbounded result set out of the database.
const MaxLimit = 100

// Params holds the sanitized pagination inputs for a listing query.
type Params struct {
	Page  int
	Limit int
}

// Skip returns the number of documents to skip for Mongo Find().SetSkip().
func (p Params) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// Parse extracts "page" and "limit" from the request query string.
// Missing or malformed values fall back to page 1 and DefaultLimit;
// limits above MaxLimit are clamped.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if s := query.Get(r, "page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Meta describes the position of a returned page inside the full result
// set. HasMore is computed from the skip that produced the page, so a
// short final page reports false even when it is exactly full.
type Meta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// BuildMeta assembles the Meta block for a page of `shown` items out of
// `total` matching documents.
func BuildMeta(p Params, shown int, total int64) Meta {
	return Meta{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		HasMore: p.Skip()+int64(shown) < total,
	}
}
