package paging

import (
	"math"
	"net/url"
	"strconv"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	req, err := Parse(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Page != 1 || req.Limit != DefaultLimit {
		t.Fatalf("defaults mismatch: %+v", req)
	}
}

func TestParseCapsLimit(t *testing.T) {
	req, err := Parse(url.Values{"page": {"3"}, "limit": {"1000"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Page != 3 || req.Limit != MaxLimit {
		t.Fatalf("parse mismatch: %+v", req)
	}
	if req.Offset() != 2*MaxLimit {
		t.Fatalf("offset = %d", req.Offset())
	}
}

func TestParseInvalid(t *testing.T) {
	for _, values := range []url.Values{
		{"page": {"0"}},
		{"page": {"abc"}},
		{"limit": {"-5"}},
	} {
		if _, err := Parse(values); err == nil {
			t.Fatalf("expected error for %v", values)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.limit); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestWindowConsistentWithTotals(t *testing.T) {
	const n = 23
	limit := 5
	pages := TotalPages(n, limit)
	seen := 0
	for page := 1; page <= int(pages)+1; page++ {
		start, end := Window(n, Request{Page: page, Limit: limit})
		size := end - start
		if size > limit {
			t.Fatalf("page %d has %d items, limit %d", page, size, limit)
		}
		if page <= int(pages) && size == 0 {
			t.Fatalf("page %d within totalPages is empty", page)
		}
		if page > int(pages) && size != 0 {
			t.Fatalf("page %d beyond totalPages has %d items", page, size)
		}
		seen += size
	}
	if seen != n {
		t.Fatalf("pages cover %d items, want %d", seen, n)
	}
}

func TestNewResultNonNilItems(t *testing.T) {
	res := NewResult[int](nil, Request{Page: 1, Limit: 10}, 0)
	if res.Items == nil {
		t.Fatalf("items should be empty slice, not nil")
	}
	if res.TotalPages != 0 {
		t.Fatalf("total pages = %d", res.TotalPages)
	}
}

func TestParseRejectsOverflowingPage(t *testing.T) {
	if _, err := Parse(url.Values{"page": {strconv.Itoa(MaxPage)}, "limit": {"100"}}); err != nil {
		t.Fatalf("max page should parse: %v", err)
	}
	for _, raw := range []string{strconv.Itoa(MaxPage + 1), "9223372036854775807", "99999999999999999999"} {
		if _, err := Parse(url.Values{"page": {raw}}); err == nil {
			t.Fatalf("expected error for page %s", raw)
		}
	}
}

func TestOffsetAndWindowNeverNegative(t *testing.T) {
	req := Request{Page: math.MaxInt, Limit: 10}
	if got := req.Offset(); got < 0 {
		t.Fatalf("offset overflowed to %d", got)
	}
	start, end := Window(5, req)
	if start != 5 || end != 5 {
		t.Fatalf("window = [%d, %d), want empty tail", start, end)
	}

	start, end = Window(5, Request{Page: MaxPage, Limit: MaxLimit})
	if start != 5 || end != 5 {
		t.Fatalf("window = [%d, %d)", start, end)
	}
}
