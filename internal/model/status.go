package model

import (
	"fmt"
	"strings"
)

// Status is the lifecycle flag shared by admins, pools and users.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus accepts "active" or "inactive" in any case.
func ParseStatus(input string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(input))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("must be active or inactive, got %q", input)}
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Toggle flips active and inactive.
func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}
