// Package valuation prices free agents and tag tenders from player ratings.
package valuation

import (
	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

// Model prices players. Implementations must be deterministic.
type Model interface {
	ContractValue(c models.Contract) decimal.Decimal
	TagCost(kind models.ActionKind, c models.Contract) decimal.Decimal
}

// PerPoint values a player linearly on their overall score.
type PerPoint struct {
	ValuePerPoint decimal.Decimal
	TagPerPoint   decimal.Decimal

	// TransitionDiscount scales the franchise cost for transition tags.
	TransitionDiscount decimal.Decimal
}

// NewPerPoint returns a model with the usual 80% transition tender.
func NewPerPoint(valuePerPoint, tagPerPoint decimal.Decimal) *PerPoint {
	return &PerPoint{
		ValuePerPoint:      valuePerPoint,
		TagPerPoint:        tagPerPoint,
		TransitionDiscount: decimal.NewFromFloat(0.8),
	}
}

// ContractValue is the estimated yearly value of a player. Unrated players are worth nothing.
func (p *PerPoint) ContractValue(c models.Contract) decimal.Decimal {
	if c.OverallScore <= 0 {
		return decimal.Zero
	}
	return p.ValuePerPoint.Mul(decimal.NewFromInt(int64(c.OverallScore)))
}

// TagCost never drops below the player's current cap hit.
func (p *PerPoint) TagCost(kind models.ActionKind, c models.Contract) decimal.Decimal {
	cost := p.TagPerPoint.Mul(decimal.NewFromInt(int64(c.OverallScore)))
	if kind == models.ActionTagTransition {
		cost = cost.Mul(p.TransitionDiscount).Round(2)
	}
	return decimal.Max(cost, c.CapHit())
}

// Offer builds default terms for signing a free agent at their estimated value.
func Offer(m Model, fa models.FreeAgentRecord) models.Terms {
	years := fa.YearsRequested
	if years < 1 {
		years = 1
	}
	base := fa.AskingSalary
	if !base.IsPositive() {
		base = m.ContractValue(models.Contract{OverallScore: fa.OverallScore})
	}
	return models.Terms{BaseSalary: base, Years: years}
}
