// Package listquery turns untrusted list parameters into a bounded, normalized
// query plan. It never rejects input: unknown values fall back and numbers are
// clamped.
package listquery

import (
	"net/url"
	"strings"

	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// DefaultSort applies when no sort is requested. An unknown sort falls back
	// to FallbackSort instead.
	DefaultSort  = domain.SortByCreatedAt
	FallbackSort = domain.SortByUpdatedAt
)

// Params holds raw list parameters exactly as received
type Params struct {
	Search   string
	Status   string
	Page     string
	PageSize string
	Sort     string
	Order    string
}

// ParamsFromValues reads list parameters from a URL query
func ParamsFromValues(v url.Values) Params {
	return Params{
		Search:   v.Get("search"),
		Status:   v.Get("status"),
		Page:     v.Get("page"),
		PageSize: v.Get("pageSize"),
		Sort:     v.Get("sort"),
		Order:    v.Get("order"),
	}
}

// Values encodes the parameters back into a URL query, skipping empty ones
func (p Params) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", p.Search)
	set("status", p.Status)
	set("page", p.Page)
	set("pageSize", p.PageSize)
	set("sort", p.Sort)
	set("order", p.Order)
	return v
}

// Plan is the normalized list query
type Plan struct {
	Filter   domain.ItemFilter
	Sort     domain.Sort
	Page     int
	PageSize int
	Offset   int
	Limit    int
}

// Build normalizes raw parameters into a Plan
func Build(p Params) Plan {
	page := max(DefaultPage, parseIntOr(p.Page, DefaultPage))
	pageSize := min(MaxPageSize, max(1, parseIntOr(p.PageSize, DefaultPageSize)))

	return Plan{
		Filter: domain.ItemFilter{
			Search: p.Search,
			Status: planStatus(p.Status),
		},
		Sort: domain.Sort{
			Field: planSortField(p.Sort),
			Order: planSortOrder(p.Order),
		},
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}
}

func planStatus(raw string) domain.Status {
	s := domain.Status(raw)
	if s.Valid() {
		return s
	}
	return ""
}

func planSortField(raw string) domain.SortField {
	if raw == "" {
		return DefaultSort
	}
	for _, f := range domain.SortFields {
		if string(f) == raw {
			return f
		}
	}
	return FallbackSort
}

func planSortOrder(raw string) domain.SortOrder {
	if strings.EqualFold(raw, "asc") {
		return domain.SortOrderAsc
	}
	return domain.SortOrderDesc
}

// parseIntOr reads a leading base-10 integer, ignoring anything after it, so
// "3abc" is 3 and "2.9" is 2. Text without leading digits yields def.
func parseIntOr(raw string, def int) int {
	s := strings.TrimSpace(raw)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		digits++
		if n > (1<<31)/10 {
			// saturate; the value is clamped by the caller anyway
			continue
		}
		n = n*10 + int(c-'0')
	}
	if digits == 0 {
		return def
	}
	if neg {
		return -n
	}
	return n
}
