package models

import "time"

// RangeKind selects a dashboard stat window.
type RangeKind string

const (
	RangeDay   RangeKind = "day"
	RangeWeek  RangeKind = "week"
	RangeMonth RangeKind = "month"
)

// Valid reports whether the range is one of the supported kinds.
func (r RangeKind) Valid() bool {
	switch r {
	case RangeDay, RangeWeek, RangeMonth:
		return true
	}
	return false
}

// ActivityType names a back-office request queue for pending counters.
type ActivityType string

const (
	ActivityRecharge      ActivityType = "recharge"
	ActivityRedeem        ActivityType = "redeem"
	ActivityTransfer      ActivityType = "transfer"
	ActivityResetPassword ActivityType = "reset_password"
	ActivityNewAccount    ActivityType = "new_account"
)

// Valid reports whether the activity is a known queue.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityRecharge, ActivityRedeem, ActivityTransfer, ActivityResetPassword, ActivityNewAccount:
		return true
	}
	return false
}

// Pending status sets per activity, as defined by the external transaction
// system. These are its state-machine values verbatim; this service only tests
// membership.
var (
	RechargePendingStatuses      = []int{0, 1, 2, 3, 5}
	RedeemPendingStatuses        = []int{0, 1, 2, 4}
	TransferPendingStatuses      = []int{1}
	ResetPasswordPendingStatuses = []int{0}
	NewAccountPendingStatuses    = []int{0}
)

// PendingStatusesFor returns the pending set for an activity queue.
func PendingStatusesFor(activity ActivityType) []int {
	switch activity {
	case ActivityRecharge:
		return RechargePendingStatuses
	case ActivityRedeem:
		return RedeemPendingStatuses
	case ActivityTransfer:
		return TransferPendingStatuses
	case ActivityResetPassword:
		return ResetPasswordPendingStatuses
	case ActivityNewAccount:
		return NewAccountPendingStatuses
	}
	return nil
}

// StatTotal is the response of the windowed total endpoints.
type StatTotal struct {
	Range     RangeKind `json:"range"`
	Ent       string    `json:"ent"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Total     float64   `json:"total"`
}

// StatCount is the response of the counting endpoints (unique users, pending).
type StatCount struct {
	Range     RangeKind    `json:"range,omitempty"`
	Activity  ActivityType `json:"activity,omitempty"`
	Ent       string       `json:"ent"`
	StartDate *time.Time   `json:"start_date,omitempty"`
	EndDate   *time.Time   `json:"end_date,omitempty"`
	Count     int64        `json:"count"`
}
