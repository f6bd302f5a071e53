package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a contract on a team's books.
type Status string

const (
	StatusActive          Status = "Active"
	StatusCut             Status = "Cut"
	StatusFranchiseTagged Status = "Tagged(Franchise)"
	StatusTransitionTag   Status = "Tagged(Transition)"
	StatusExpired         Status = "Expired"
)

// ParseStatus accepts the canonical names plus a few backend spellings.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return StatusActive, true
	case "cut", "released":
		return StatusCut, true
	case "tagged(franchise)", "franchise", "franchise_tag":
		return StatusFranchiseTagged, true
	case "tagged(transition)", "transition", "transition_tag":
		return StatusTransitionTag, true
	case "expired":
		return StatusExpired, true
	}
	return "", false
}

func (s Status) IsTagged() bool {
	return s == StatusFranchiseTagged || s == StatusTransitionTag
}

// OnRoster reports whether the contract counts toward committed cap.
func (s Status) OnRoster() bool {
	return s == StatusActive || s.IsTagged()
}

// Contract holds one player's financial terms. Cap hit and dead cap are
// derived from the components and are never stored.
type Contract struct {
	PlayerID     string
	PlayerName   string
	Position     string
	Age          int
	OverallScore int

	BaseSalary       decimal.Decimal // current-season base
	GuaranteedSalary decimal.Decimal // guaranteed part of BaseSalary
	UnamortizedBonus decimal.Decimal // bonus pool still to be prorated, current season included
	Incentives       decimal.Decimal // game bonus counted this season

	YearsRemaining int // current season included; 0 means expiring
	Status         Status
}

// Terms are the financial components of a new or extended deal.
type Terms struct {
	BaseSalary       decimal.Decimal `json:"base_salary"`
	SigningBonus     decimal.Decimal `json:"signing_bonus"`
	GuaranteedSalary decimal.Decimal `json:"guaranteed_salary"`
	Incentives       decimal.Decimal `json:"incentives"`
	Years            int             `json:"years"`
}

func (t Terms) Validate() error {
	if t.BaseSalary.IsNegative() {
		return Validationf("base salary must not be negative")
	}
	if t.SigningBonus.IsNegative() {
		return Validationf("signing bonus must not be negative")
	}
	if t.GuaranteedSalary.IsNegative() {
		return Validationf("guaranteed salary must not be negative")
	}
	if t.GuaranteedSalary.GreaterThan(t.BaseSalary) {
		return Validationf("guaranteed salary %s exceeds base salary %s", FormatMoney(t.GuaranteedSalary), FormatMoney(t.BaseSalary))
	}
	if t.Incentives.IsNegative() {
		return Validationf("incentives must not be negative")
	}
	if t.Years < 1 {
		return Validationf("contract length must be at least one year")
	}
	return nil
}

// NewContract builds an Active contract from terms and validates it.
func NewContract(playerID, playerName, position string, terms Terms) (Contract, error) {
	if err := terms.Validate(); err != nil {
		return Contract{}, err
	}
	c := Contract{
		PlayerID:         playerID,
		PlayerName:       playerName,
		Position:         position,
		BaseSalary:       terms.BaseSalary,
		GuaranteedSalary: terms.GuaranteedSalary,
		UnamortizedBonus: terms.SigningBonus,
		Incentives:       terms.Incentives,
		YearsRemaining:   terms.Years,
		Status:           StatusActive,
	}
	return c, c.Validate()
}

// Validate rejects negative money, negative length and guarantees larger than
// what they guarantee.
func (c Contract) Validate() error {
	if strings.TrimSpace(c.PlayerID) == "" {
		return Validationf("contract has no player id")
	}
	if c.BaseSalary.IsNegative() {
		return Validationf("%s: base salary must not be negative", c.label())
	}
	if c.GuaranteedSalary.IsNegative() {
		return Validationf("%s: guaranteed salary must not be negative", c.label())
	}
	if c.GuaranteedSalary.GreaterThan(c.BaseSalary) {
		return Validationf("%s: guaranteed salary exceeds base salary", c.label())
	}
	if c.UnamortizedBonus.IsNegative() {
		return Validationf("%s: signing bonus must not be negative", c.label())
	}
	if c.Incentives.IsNegative() {
		return Validationf("%s: incentives must not be negative", c.label())
	}
	if c.YearsRemaining < 0 {
		return Validationf("%s: years remaining must not be negative", c.label())
	}
	if c.YearsRemaining == 0 && c.UnamortizedBonus.IsPositive() {
		return Validationf("%s: bonus proration needs at least one contract year", c.label())
	}
	if _, ok := ParseStatus(string(c.Status)); !ok {
		return Validationf("%s: unknown status %q", c.label(), c.Status)
	}
	return nil
}

// ProratedBonus is this season's share of the bonus pool, rounded to cents.
func (c Contract) ProratedBonus() decimal.Decimal {
	if c.YearsRemaining <= 0 {
		return decimal.Zero
	}
	return c.UnamortizedBonus.Div(decimal.NewFromInt(int64(c.YearsRemaining))).Round(2)
}

func (c Contract) CapHit() decimal.Decimal {
	return c.BaseSalary.Add(c.ProratedBonus()).Add(c.Incentives)
}

// DeadCap is what stays on the books if the contract is terminated now.
func (c Contract) DeadCap() decimal.Decimal {
	return c.UnamortizedBonus.Add(c.GuaranteedSalary)
}

// CapSavingsIfCut may be negative when releasing costs more than keeping.
func (c Contract) CapSavingsIfCut() decimal.Decimal {
	return c.CapHit().Sub(c.DeadCap())
}

func (c Contract) IsExpiring() bool {
	return c.YearsRemaining == 0
}

func (c Contract) Group() PositionGroup {
	return GroupForPosition(c.Position)
}

func (c Contract) label() string {
	if c.PlayerName != "" {
		return c.PlayerName
	}
	return c.PlayerID
}

// DisplayName prefers the player's name over the id.
func (c Contract) DisplayName() string {
	return c.label()
}
