package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ActionKind names a roster transaction.
type ActionKind string

const (
	ActionCut           ActionKind = "Cut"
	ActionRestructure   ActionKind = "Restructure"
	ActionSign          ActionKind = "Sign"
	ActionResign        ActionKind = "Resign"
	ActionTagFranchise  ActionKind = "TagFranchise"
	ActionTagTransition ActionKind = "TagTransition"
)

// ParseActionKind is case-insensitive and accepts "re-sign" and "franchise"/"transition".
func ParseActionKind(s string) (ActionKind, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "cut", "release":
		return ActionCut, true
	case "restructure":
		return ActionRestructure, true
	case "sign":
		return ActionSign, true
	case "resign", "extend":
		return ActionResign, true
	case "tagfranchise", "franchise":
		return ActionTagFranchise, true
	case "tagtransition", "transition":
		return ActionTagTransition, true
	}
	return "", false
}

func (k ActionKind) IsTag() bool {
	return k == ActionTagFranchise || k == ActionTagTransition
}

// FreeAgentOffer describes the deal offered to a free agent.
type FreeAgentOffer struct {
	PlayerName   string `json:"player_name,omitempty"`
	Position     string `json:"position,omitempty"`
	Age          int    `json:"age,omitempty"`
	OverallScore int    `json:"overall_score,omitempty"`
	Terms
}

// ActionParams carries the optional inputs some actions need.
type ActionParams struct {
	ConvertFraction *decimal.Decimal `json:"convert_fraction,omitempty"`
	TagCost         *decimal.Decimal `json:"tag_cost,omitempty"`
	Terms           *Terms           `json:"terms,omitempty"`
	Offer           *FreeAgentOffer  `json:"offer,omitempty"`
}

// ActionRequest is what the UI layer asks for.
type ActionRequest struct {
	Action   ActionKind    `json:"action"`
	PlayerID string        `json:"player_id"`
	Params   *ActionParams `json:"params,omitempty"`
}

// Impact is the before/after effect of one action on a ledger.
type Impact struct {
	Action     ActionKind `json:"action"`
	PlayerID   string     `json:"player_id"`
	PlayerName string     `json:"player_name"`
	Position   string     `json:"position"`

	CapSavings     decimal.Decimal `json:"cap_savings"`
	CommittedDelta decimal.Decimal `json:"committed_delta"`
	DeadMoneyDelta decimal.Decimal `json:"dead_money_delta"`
	DeadCapDelta   decimal.Decimal `json:"dead_cap_delta"`
	SpaceBefore    decimal.Decimal `json:"space_before"`
	SpaceAfter     decimal.Decimal `json:"space_after"`

	CapViolation bool   `json:"cap_violation"`
	Note         string `json:"qualitative_position_group_note"`
}

// Equal compares every figure exactly.
func (i Impact) Equal(o Impact) bool {
	return i.Action == o.Action &&
		i.PlayerID == o.PlayerID &&
		i.PlayerName == o.PlayerName &&
		i.Position == o.Position &&
		i.CapSavings.Equal(o.CapSavings) &&
		i.CommittedDelta.Equal(o.CommittedDelta) &&
		i.DeadMoneyDelta.Equal(o.DeadMoneyDelta) &&
		i.DeadCapDelta.Equal(o.DeadCapDelta) &&
		i.SpaceBefore.Equal(o.SpaceBefore) &&
		i.SpaceAfter.Equal(o.SpaceAfter) &&
		i.CapViolation == o.CapViolation &&
		i.Note == o.Note
}

// ActionStatus is the outcome of a commit.
type ActionStatus string

const (
	StatusCommitted ActionStatus = "Committed"
	StatusConflict  ActionStatus = "Conflict"
	StatusRejected  ActionStatus = "Rejected"
)

// ActionResponse is returned to the UI layer after a commit attempt.
type ActionResponse struct {
	TransactionID string          `json:"transaction_id,omitempty"`
	Snapshot      *LedgerSnapshot `json:"new_ledger_snapshot"`
	Impact        *Impact         `json:"impact_report,omitempty"`
	Status        ActionStatus    `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	ErrorKind     ErrorKind       `json:"error_kind,omitempty"`
}

// Submission is what gets sent to the backend for confirmation.
type Submission struct {
	TransactionID string          `json:"transaction_id"`
	TeamCode      string          `json:"team_code"`
	SeasonYear    int             `json:"season_year"`
	Request       ActionRequest   `json:"request"`
	Impact        Impact          `json:"impact_report"`
	Snapshot      *LedgerSnapshot `json:"new_ledger_snapshot"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}

// Proposal is an action that has been previewed and is waiting on the user,
// either to be confirmed or to be retried after a transport failure.
type Proposal struct {
	TeamCode  string        `json:"team_code"`
	Request   ActionRequest `json:"request"`
	Impact    Impact        `json:"impact_report"`
	CreatedBy string        `json:"created_by,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
