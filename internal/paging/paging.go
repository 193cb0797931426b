package paging

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*MaxLimit inside int.
	MaxPage = math.MaxInt / MaxLimit
)

// Request is an offset/limit page request, 1-indexed.
type Request struct {
	Page  int
	Limit int
}

// Offset returns the number of records to skip.
func (r Request) Offset() int {
	if r.Page < 1 || r.Limit < 1 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Limit {
		return math.MaxInt
	}
	return (r.Page - 1) * r.Limit
}

// Result is one page of items plus the totals the UIs render.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NewResult wraps items with totals computed from the request.
func NewResult[T any](items []T, req Request, total int64) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:      items,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// TotalPages is ceil(total/limit), 0 for empty sets.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// Window returns the [start, end) slice bounds of a page over n items.
func Window(n int, req Request) (int, int) {
	start := req.Offset()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := n
	if req.Limit >= 0 && req.Limit < n-start {
		end = start + req.Limit
	}
	return start, end
}

// Parse reads page and limit from query values, applying defaults.
func Parse(values url.Values) (Request, error) {
	req := Request{Page: 1, Limit: DefaultLimit}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Request{}, fmt.Errorf("page must be a positive integer, got %q", raw)
		}
		if page > MaxPage {
			return Request{}, fmt.Errorf("page must be at most %d, got %q", MaxPage, raw)
		}
		req.Page = page
	}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return Request{}, fmt.Errorf("limit must be a positive integer, got %q", raw)
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		req.Limit = limit
	}
	return req, nil
}
