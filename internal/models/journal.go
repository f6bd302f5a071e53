package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry records the outcome of one commit attempt.
type JournalEntry struct {
	TransactionID  string          `json:"transaction_id"`
	TeamCode       string          `json:"team_code"`
	SeasonYear     int             `json:"season_year"`
	Action         ActionKind      `json:"action"`
	PlayerID       string          `json:"player_id"`
	PlayerName     string          `json:"player_name"`
	Status         ActionStatus    `json:"status"`
	Reason         string          `json:"reason,omitempty"`
	CapSavings     decimal.Decimal `json:"cap_savings"`
	DeadMoneyDelta decimal.Decimal `json:"dead_money_delta"`
	SpaceAfter     decimal.Decimal `json:"space_after"`
	CapViolation   bool            `json:"cap_violation"`
	RequestedBy    string          `json:"requested_by,omitempty"`
	RecordedAt     time.Time       `json:"recorded_at"`
}

// NewJournalEntry fills the figures from an impact report.
func NewJournalEntry(id, team string, season int, impact Impact, status ActionStatus, reason, user string, at time.Time) JournalEntry {
	return JournalEntry{
		TransactionID:  id,
		TeamCode:       team,
		SeasonYear:     season,
		Action:         impact.Action,
		PlayerID:       impact.PlayerID,
		PlayerName:     impact.PlayerName,
		Status:         status,
		Reason:         reason,
		CapSavings:     impact.CapSavings,
		DeadMoneyDelta: impact.DeadMoneyDelta,
		SpaceAfter:     impact.SpaceAfter,
		CapViolation:   impact.CapViolation,
		RequestedBy:    user,
		RecordedAt:     at,
	}
}
