package shared

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePage reads page (from 1) and limit (1..MaxPageLimit). Out-of-range or
// malformed values are validation issues, not silently clamped.
func ParsePage(r *http.Request, v *Validator) Pagination {
	p := Pagination{Page: 1, Limit: DefaultPageLimit}
	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			v.Add("page", "must be a positive integer")
		} else {
			p.Page = n
		}
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPageLimit {
			v.Add("limit", "must be between 1 and "+strconv.Itoa(MaxPageLimit))
		} else {
			p.Limit = n
		}
	}
	p.Offset = (p.Page - 1) * p.Limit
	return p
}

type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPageMeta(p Pagination, total int) PageMeta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageMeta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}
