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

const userColumns = `id, address, referral_code, referred_by, total_deposit::text, status, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var status string
	if err := row.Scan(&u.ID, &u.Address, &u.ReferralCode, &u.ReferredBy, &u.TotalDeposit, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return model.User{}, err
	}
	u.Status = model.Status(status)
	return u, nil
}

func (s *Store) queryUsers(ctx context.Context, w *where, order string, req paging.Request) ([]model.User, int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	suffix, args := w.page(req)
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY `+order+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, req.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (s *Store) ListUsers(ctx context.Context, filter storage.UserFilter, req paging.Request) ([]model.User, int64, error) {
	var w where
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	w.search(filter.Search, "address", "referral_code")
	return s.queryUsers(ctx, &w, "created_at DESC, id ASC", req)
}

func (s *Store) RankUsers(ctx context.Context, req paging.Request) ([]model.User, int64, error) {
	var w where
	w.eq("status", string(model.StatusActive))
	return s.queryUsers(ctx, &w, "total_deposit DESC, created_at ASC, id ASC", req)
}

func (s *Store) ListReferrals(ctx context.Context, referrer string, req paging.Request) ([]model.User, int64, error) {
	var w where
	w.eq("lower(referred_by)", lowerAddr(referrer))
	return s.queryUsers(ctx, &w, "created_at DESC, id ASC", req)
}

func (s *Store) GetUser(ctx context.Context, address string) (model.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(address) = lower($1)`, address))
	if err != nil {
		return model.User{}, mapError(err, "user "+address)
	}
	return u, nil
}

func (s *Store) GetUserByReferralCode(ctx context.Context, code string) (model.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE upper(referral_code) = upper($1)`, code))
	if err != nil {
		return model.User{}, mapError(err, "referral code "+code)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, address, referral_code, referred_by, total_deposit, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, now(), now())
		RETURNING created_at, updated_at
	`, user.ID, user.Address, user.ReferralCode, user.ReferredBy, user.TotalDeposit, string(user.Status))
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return mapError(err, "user "+user.Address)
	}
	return nil
}

func (s *Store) SetUserStatus(ctx context.Context, address string, status model.Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET status = $2, updated_at = now() WHERE lower(address) = lower($1)`, address, string(status))
	if err != nil {
		return mapError(err, "user "+address)
	}
	return requireAffected(tag, "user "+address)
}

func (s *Store) UpdateUserDeposit(ctx context.Context, address, total string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET total_deposit = $2::numeric, updated_at = now() WHERE lower(address) = lower($1)`, address, total)
	if err != nil {
		return mapError(err, "user "+address)
	}
	return requireAffected(tag, "user "+address)
}
