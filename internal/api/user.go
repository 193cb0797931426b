package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

// rankedUser is a leaderboard row.
type rankedUser struct {
	Rank int `json:"rank"`
	model.User
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
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
	users, total, err := s.store.ListUsers(r.Context(), storage.UserFilter{Search: q.Get("search"), Status: status}, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paging.NewResult(users, req, total))
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Address      string `json:"address"`
		ReferralCode string `json:"referralCode"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		s.fail(w, r, err)
		return
	}

	user := model.User{Address: payload.Address}
	if code := strings.TrimSpace(payload.ReferralCode); code != "" {
		referrer, err := s.store.GetUserByReferralCode(r.Context(), code)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				err = &model.ValidationError{Field: "referralCode", Reason: "unknown referral code " + code}
			}
			s.fail(w, r, err)
			return
		}
		user.ReferredBy = referrer.Address
	}
	if err := user.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.registerUser(r.Context(), &user); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("user registered",
		zap.String("address", user.Address),
		zap.String("referral_code", user.ReferralCode),
		zap.String("referred_by", user.ReferredBy),
	)
	writeData(w, http.StatusCreated, user)
}

// referralAttempts bounds how many salted codes registerUser tries.
const referralAttempts = 8

// registerUser stores a validated user. When the derived referral code is
// already taken by another address, it retries with a salted code.
func (s *Server) registerUser(ctx context.Context, user *model.User) error {
	for attempt := 0; ; attempt++ {
		user.ReferralCode = model.DeriveReferralCode(user.Address, attempt)
		err := s.store.CreateUser(ctx, user)
		if !errors.Is(err, storage.ErrConflict) || attempt+1 >= referralAttempts {
			return err
		}
		if _, getErr := s.store.GetUser(ctx, user.Address); !errors.Is(getErr, storage.ErrNotFound) {
			return err
		}
		s.logger.Warn("referral code collision",
			zap.String("address", user.Address),
			zap.String("referral_code", user.ReferralCode),
			zap.Int("attempt", attempt),
		)
	}
}

func (s *Server) rankUsers(w http.ResponseWriter, r *http.Request) {
	req, err := parsePage(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	users, total, err := s.store.RankUsers(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows := make([]rankedUser, 0, len(users))
	for i, u := range users {
		rows = append(rows, rankedUser{Rank: req.Offset() + i + 1, User: u})
	}
	writeJSON(w, http.StatusOK, paging.NewResult(rows, req, total))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), pathVar(r, "address"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) setUserStatus(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), pathVar(r, "address"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status, err := nextStatus(r, user.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.SetUserStatus(r.Context(), user.Address, status); err != nil {
		s.fail(w, r, err)
		return
	}
	user.Status = status
	writeData(w, http.StatusOK, user)
}

func (s *Server) getReferral(w http.ResponseWriter, r *http.Request) {
	req, err := parsePage(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.store.GetUser(r.Context(), pathVar(r, "address"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	referees, total, err := s.store.ListReferrals(r.Context(), user.Address, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, struct {
		model.Referral
		Referees paging.Result[model.User] `json:"referees"`
	}{
		Referral: model.Referral{
			Address:      user.Address,
			ReferralCode: user.ReferralCode,
			ReferredBy:   user.ReferredBy,
			RefereeCount: total,
		},
		Referees: paging.NewResult(referees, req, total),
	})
}
