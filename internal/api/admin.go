package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/roles"
	"yieldDesk/internal/storage"
)

// adminView is an admin with its role resolved against the role table.
type adminView struct {
	model.Admin
	RoleName    string   `json:"roleName"`
	Permissions []string `json:"permissions"`
}

func viewAdmin(a model.Admin) adminView {
	v := adminView{Admin: a, Permissions: []string{}}
	if role, ok := roles.Lookup(a.Role); ok {
		v.RoleName = role.Name
		v.Permissions = role.Permissions
	}
	return v
}

func resolveRole(input string) (roles.Role, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return roles.Role{}, &model.ValidationError{Field: "role", Reason: "required"}
	}
	role, ok := roles.Resolve(input)
	if !ok {
		return roles.Role{}, &model.ValidationError{Field: "role", Reason: "unknown role " + input}
	}
	return role, nil
}

func (s *Server) listAdmins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := parsePage(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status, err := statusFilter(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	admins, total, err := s.store.ListAdmins(r.Context(), storage.AdminFilter{Search: q.Get("search"), Status: status}, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views := make([]adminView, 0, len(admins))
	for _, a := range admins {
		views = append(views, viewAdmin(a))
	}
	writeJSON(w, http.StatusOK, paging.NewResult(views, req, total))
}

func (s *Server) createAdmin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Role    string `json:"role"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		s.fail(w, r, err)
		return
	}
	role, err := resolveRole(payload.Role)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	admin := model.Admin{Address: payload.Address, Name: payload.Name, Role: role.Hash}
	if err := admin.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.CreateAdmin(r.Context(), &admin); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("admin created", zap.String("address", admin.Address), zap.String("role", role.Name))
	writeData(w, http.StatusCreated, viewAdmin(admin))
}

func (s *Server) listRoles(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, roles.All())
}

func (s *Server) getAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := s.store.GetAdmin(r.Context(), pathVar(r, "address"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, viewAdmin(admin))
}

func (s *Server) updateAdminRole(w http.ResponseWriter, r *http.Request) {
	address := pathVar(r, "address")
	var payload struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		s.fail(w, r, err)
		return
	}
	role, err := resolveRole(payload.Role)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdateAdminRole(r.Context(), address, role.Hash); err != nil {
		s.fail(w, r, err)
		return
	}
	admin, err := s.store.GetAdmin(r.Context(), address)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("admin role changed", zap.String("address", admin.Address), zap.String("role", role.Name))
	writeData(w, http.StatusOK, viewAdmin(admin))
}

func (s *Server) setAdminStatus(w http.ResponseWriter, r *http.Request) {
	admin, err := s.store.GetAdmin(r.Context(), pathVar(r, "address"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status, err := nextStatus(r, admin.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.SetAdminStatus(r.Context(), admin.Address, status); err != nil {
		s.fail(w, r, err)
		return
	}
	admin.Status = status
	writeData(w, http.StatusOK, viewAdmin(admin))
}
