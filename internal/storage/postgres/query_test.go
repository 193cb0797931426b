package postgres

import (
	"reflect"
	"testing"

	"yieldDesk/internal/paging"
)

func TestWhereBuilder(t *testing.T) {
	var w where
	if w.String() != "" {
		t.Fatalf("empty where should render nothing")
	}
	w.eq("status", "active")
	w.search("50%_off", "name", "lower(address)")
	w.search("   ", "name")

	want := ` WHERE status = $1 AND (name ILIKE $2 OR lower(address) ILIKE $2)`
	if got := w.String(); got != want {
		t.Fatalf("where = %q, want %q", got, want)
	}

	suffix, args := w.page(paging.Request{Page: 3, Limit: 20})
	if suffix != " LIMIT $3 OFFSET $4" {
		t.Fatalf("suffix = %q", suffix)
	}
	wantArgs := []interface{}{"active", `%50\%\_off%`, 20, 40}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("args = %#v", args)
	}
	if len(w.args) != 2 {
		t.Fatalf("page must not mutate count args, got %d", len(w.args))
	}
}
