package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Team identifies an organizational unit transactions are attributed to.
type Team struct {
	ID   string `json:"id"`
	Code string `json:"team_code"`
}

// RechargeRecord is a read-only snapshot of one funds-loading request. TeamCode
// comes from the joined teams relation and may be blank when the relation is
// missing; resolution falls back to a side-loaded id-to-code map.
type RechargeRecord struct {
	ID            string
	Amount        decimal.Decimal
	BonusAmount   decimal.Decimal
	CreatedAt     time.Time
	ProcessStatus string
	TeamID        string
	TeamCode      string
}

// RedeemRecord is a read-only snapshot of one funds-withdrawal request.
type RedeemRecord struct {
	ID            string
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
	ProcessStatus string
	TeamID        string
	TeamCode      string
}
