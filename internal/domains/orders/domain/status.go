package domain

import (
	"errors"
	"strings"
)

// Status enumerates ticket progression. Any status may follow any other.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPreparing Status = "PREPARING"
	StatusServed    Status = "SERVED"
	StatusBilled    Status = "BILLED"
)

var ErrInvalidStatus = errors.New("order status is invalid")

// Statuses lists the known statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusPreparing, StatusServed, StatusBilled}
}

// ParseStatus accepts a status name in any case.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// StatusFromIndex maps the 1-based operator menu choice to a status.
func StatusFromIndex(choice int) (Status, error) {
	all := Statuses()
	if choice < 1 || choice > len(all) {
		return "", ErrInvalidStatus
	}
	return all[choice-1], nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusServed, StatusBilled:
		return true
	default:
		return false
	}
}
