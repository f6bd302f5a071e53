package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Top51Size is the number of cap hits counted in the offseason top-51 rule.
const Top51Size = 51

// DefaultTagLimit is the number of franchise or transition tags per team per season.
const DefaultTagLimit = 1

// Ledger is one team's cap books for one season. Committed, dead money and
// space are always derived from the contracts.
type Ledger struct {
	TeamCode   string
	TeamName   string
	SeasonYear int

	TotalCap         decimal.Decimal
	CarriedDeadMoney decimal.Decimal // dead money from the snapshot that is not itemised

	TagsUsed int
	TagLimit int

	TeamNeeds []string
	Contracts ContractList // includes Cut entries for this season
}

// NewLedger returns an empty ledger with the default tag limit.
func NewLedger(teamCode string, season int, totalCap decimal.Decimal) *Ledger {
	return &Ledger{
		TeamCode:         strings.ToUpper(teamCode),
		SeasonYear:       season,
		TotalCap:         totalCap,
		CarriedDeadMoney: decimal.Zero,
		TagLimit:         DefaultTagLimit,
	}
}

// Validate checks the ledger and every contract on it.
func (l *Ledger) Validate() error {
	if l.TotalCap.IsNegative() {
		return Validationf("total cap must not be negative")
	}
	if l.CarriedDeadMoney.IsNegative() {
		return Validationf("dead money must not be negative")
	}
	if l.TagsUsed < 0 || l.TagLimit < 0 {
		return Validationf("tag counters must not be negative")
	}
	seen := make(map[string]bool)
	for _, c := range l.Contracts {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.Status == StatusCut {
			continue
		}
		if seen[c.PlayerID] {
			return Validationf("player %s appears more than once on the roster", c.PlayerID)
		}
		seen[c.PlayerID] = true
	}
	return nil
}

// Clone returns a deep copy so engine operations never touch their input.
func (l *Ledger) Clone() *Ledger {
	clone := *l
	clone.TeamNeeds = append([]string(nil), l.TeamNeeds...)
	clone.Contracts = append(ContractList(nil), l.Contracts...)
	return &clone
}

// Committed is the sum of cap hits of Active and Tagged contracts.
func (l *Ledger) Committed() decimal.Decimal {
	return l.Contracts.OnRoster().TotalCapHit()
}

// DeadMoney is carried dead money plus the dead cap of every Cut contract.
func (l *Ledger) DeadMoney() decimal.Decimal {
	return l.CarriedDeadMoney.Add(l.Contracts.FilterByStatus(StatusCut).TotalDeadCap())
}

// SpaceAvailable may be negative; being over the cap is a valid state.
func (l *Ledger) SpaceAvailable() decimal.Decimal {
	return l.TotalCap.Sub(l.Committed()).Sub(l.DeadMoney())
}

func (l *Ledger) OverCap() bool {
	return l.SpaceAvailable().IsNegative()
}

// Top51 sums the 51 largest rostered cap hits.
func (l *Ledger) Top51() decimal.Decimal {
	return l.Contracts.OnRoster().TopCapHits(Top51Size).TotalCapHit()
}

func (l *Ledger) Top51Space() decimal.Decimal {
	return l.TotalCap.Sub(l.Top51()).Sub(l.DeadMoney())
}

// UnitCap sums rostered cap hits for one side of the ball.
func (l *Ledger) UnitCap(unit Unit) decimal.Decimal {
	return l.Contracts.OnRoster().FilterByUnit(unit).TotalCapHit()
}

// CapPercent is a contract's cap hit as a percentage of the total cap.
func (l *Ledger) CapPercent(c Contract) decimal.Decimal {
	if l.TotalCap.IsZero() {
		return decimal.Zero
	}
	return c.CapHit().Div(l.TotalCap).Mul(decimal.NewFromInt(100)).Round(2)
}

func (l *Ledger) TagsRemaining() int {
	if l.TagsUsed >= l.TagLimit {
		return 0
	}
	return l.TagLimit - l.TagsUsed
}

// Roster returns the Active and Tagged contracts.
func (l *Ledger) Roster() ContractList {
	return l.Contracts.OnRoster()
}

// Find returns the most recent entry for a player in any status.
func (l *Ledger) Find(playerID string) (int, Contract, bool) {
	for i := len(l.Contracts) - 1; i >= 0; i-- {
		if l.Contracts[i].PlayerID == playerID {
			return i, l.Contracts[i], true
		}
	}
	return -1, Contract{}, false
}

// IsNeed reports whether a position is listed among the team's needs.
func (l *Ledger) IsNeed(position string) bool {
	primary := strings.ToUpper(strings.TrimSpace(strings.Split(position, ",")[0]))
	for _, need := range l.TeamNeeds {
		if strings.ToUpper(strings.TrimSpace(need)) == primary {
			return true
		}
	}
	return false
}
