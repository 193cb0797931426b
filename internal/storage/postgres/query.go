package postgres

import (
	"fmt"
	"strings"

	"yieldDesk/internal/paging"
)

// where accumulates positional filter clauses.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) next(arg interface{}) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// eq adds "expr = $n".
func (w *where) eq(expr string, arg interface{}) {
	w.clauses = append(w.clauses, fmt.Sprintf("%s = %s", expr, w.next(arg)))
}

// search adds a case-insensitive substring match across columns.
func (w *where) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	ph := w.next("%" + escapeLike(term) + "%")
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE %s", col, ph))
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page returns the LIMIT/OFFSET suffix and extends args.
func (w *where) page(req paging.Request) (string, []interface{}) {
	args := append([]interface{}{}, w.args...)
	args = append(args, req.Limit, req.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
