package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

const adminColumns = `id, address, name, role, status, created_at, updated_at`

func scanAdmin(row pgx.Row) (model.Admin, error) {
	var a model.Admin
	var status string
	if err := row.Scan(&a.ID, &a.Address, &a.Name, &a.Role, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return model.Admin{}, err
	}
	a.Status = model.Status(status)
	return a, nil
}

func (s *Store) ListAdmins(ctx context.Context, filter storage.AdminFilter, req paging.Request) ([]model.Admin, int64, error) {
	var w where
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	w.search(filter.Search, "address", "name")

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM admins`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}

	suffix, args := w.page(req)
	rows, err := s.pool.Query(ctx, `SELECT `+adminColumns+` FROM admins`+w.String()+` ORDER BY created_at DESC, id ASC`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	admins := make([]model.Admin, 0, req.Limit)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, total, rows.Err()
}

func (s *Store) GetAdmin(ctx context.Context, address string) (model.Admin, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE lower(address) = lower($1)`, address)
	a, err := scanAdmin(row)
	if err != nil {
		return model.Admin{}, mapError(err, "admin "+address)
	}
	return a, nil
}

func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO admins (id, address, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING created_at, updated_at
	`, admin.ID, admin.Address, admin.Name, admin.Role, string(admin.Status))
	if err := row.Scan(&admin.CreatedAt, &admin.UpdatedAt); err != nil {
		return mapError(err, "admin "+admin.Address)
	}
	return nil
}

func (s *Store) UpdateAdminRole(ctx context.Context, address, role string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE admins SET role = $2, updated_at = now() WHERE lower(address) = lower($1)`, address, role)
	if err != nil {
		return mapError(err, "admin "+address)
	}
	return requireAffected(tag, "admin "+address)
}

func (s *Store) SetAdminStatus(ctx context.Context, address string, status model.Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE admins SET status = $2, updated_at = now() WHERE lower(address) = lower($1)`, address, string(status))
	if err != nil {
		return mapError(err, "admin "+address)
	}
	return requireAffected(tag, "admin "+address)
}
