package model

import (
	"fmt"

	"roost/shared/constant"
)

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusConfirmed       Status = "confirmed"
	StatusCheckedIn       Status = "checked_in"
	StatusCheckedOut      Status = "checked_out"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Action string

const (
	// ActionCreate is not a transition; it labels the status event emitted
	// when a booking record comes into existence.
	ActionCreate Action = "create"

	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionConfirm  Action = "confirm"
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// BlockingStatuses are the statuses that occupy a property's calendar.
// A booking in any other status does not count toward date conflicts.
var BlockingStatuses = []Status{
	StatusPendingApproval,
	StatusApproved,
	StatusConfirmed,
	StatusCheckedIn,
}

type transitionRule struct {
	from  []Status
	to    Status
	roles []string
}

var transitionRules = map[Action]transitionRule{
	ActionApprove: {
		from:  []Status{StatusPendingApproval},
		to:    StatusApproved,
		roles: []string{constant.RoleHost, constant.RoleAdmin},
	},
	ActionReject: {
		from:  []Status{StatusPendingApproval},
		to:    StatusCancelled,
		roles: []string{constant.RoleHost, constant.RoleAdmin},
	},
	ActionConfirm: {
		from:  []Status{StatusApproved},
		to:    StatusConfirmed,
		roles: []string{constant.RoleHost, constant.RoleAdmin},
	},
	ActionCheckIn: {
		from:  []Status{StatusConfirmed},
		to:    StatusCheckedIn,
		roles: []string{constant.RoleHost, constant.RoleAdmin},
	},
	ActionCheckOut: {
		from:  []Status{StatusCheckedIn},
		to:    StatusCheckedOut,
		roles: []string{constant.RoleHost, constant.RoleAdmin},
	},
	ActionComplete: {
		from:  []Status{StatusCheckedOut},
		to:    StatusCompleted,
		roles: []string{constant.RoleSystem, constant.RoleAdmin},
	},
	ActionCancel: {
		from:  []Status{StatusPendingApproval, StatusApproved, StatusConfirmed, StatusCheckedIn, StatusCheckedOut},
		to:    StatusCancelled,
		roles: []string{constant.RoleCustomer, constant.RoleHost, constant.RoleAdmin},
	},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCompleted, StatusCancelled:
		return true
	}

	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) IsBlocking() bool {
	for _, blocking := range BlockingStatuses {
		if s == blocking {
			return true
		}
	}

	return false
}

// NextStatus reports the status the action leads to from the current one,
// or false when the transition is not legal.
func (a Action) NextStatus(current Status) (Status, bool) {
	rule, ok := transitionRules[a]
	if !ok {
		return current, false
	}

	for _, from := range rule.from {
		if current == from {
			return rule.to, true
		}
	}

	return current, false
}

// AllowedForRole reports whether the role may trigger the action at all.
// Ownership checks on top of the role are the caller's concern.
func (a Action) AllowedForRole(role string) bool {
	rule, ok := transitionRules[a]
	if !ok {
		return false
	}

	for _, allowed := range rule.roles {
		if role == allowed {
			return true
		}
	}

	return false
}

func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.IsValid() {
		return status, fmt.Errorf("unknown booking status %q", raw)
	}

	return status, nil
}

func ParseAction(raw string) (Action, error) {
	action := Action(raw)
	if _, ok := transitionRules[action]; !ok {
		return action, fmt.Errorf("unknown booking action %q", raw)
	}

	return action, nil
}
