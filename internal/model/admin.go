package model

import (
	"strings"
	"time"
)

// Admin is a dashboard operator mirrored from the on-chain role registry.
type Admin struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate normalizes the address and fills the default status.
// Role resolution is done by the caller against the role table.
func (a *Admin) Validate() error {
	addr, err := NormalizeAddress("address", a.Address)
	if err != nil {
		return err
	}
	a.Address = addr
	a.Name = strings.TrimSpace(a.Name)
	if a.Role == "" {
		return &ValidationError{Field: "role", Reason: "required"}
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if !a.Status.Valid() {
		return &ValidationError{Field: "status", Reason: string(a.Status)}
	}
	return nil
}
