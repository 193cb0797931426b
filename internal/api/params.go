package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
)

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func parsePage(values url.Values) (paging.Request, error) {
	req, err := paging.Parse(values)
	if err != nil {
		return paging.Request{}, badRequest("%v", err)
	}
	return req, nil
}

func statusFilter(values url.Values) (model.Status, error) {
	raw := strings.TrimSpace(values.Get("status"))
	if raw == "" {
		return "", nil
	}
	return model.ParseStatus(raw)
}

func chainIDFilter(values url.Values) (uint64, error) {
	raw := strings.TrimSpace(values.Get("chainId"))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, badRequest("chainId must be an unsigned integer, got %q", raw)
	}
	return id, nil
}

// cachedFlag reports whether ?cached asks for stored TVL snapshots.
func cachedFlag(values url.Values) (bool, error) {
	raw := strings.TrimSpace(values.Get("cached"))
	if raw == "" {
		return false, nil
	}
	cached, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest("cached must be a boolean, got %q", raw)
	}
	return cached, nil
}

// nextStatus reads {"status": "..."} from the body, or toggles current when
// the body is empty or carries no status.
func nextStatus(r *http.Request, current model.Status) (model.Status, error) {
	var payload struct {
		Status *string `json:"status"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		if errors.Is(err, errEmptyBody) {
			return current.Toggle(), nil
		}
		return "", err
	}
	if payload.Status == nil {
		return current.Toggle(), nil
	}
	return model.ParseStatus(*payload.Status)
}
