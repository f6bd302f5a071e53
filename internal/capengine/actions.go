package capengine

import (
	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

func lookup(l *models.Ledger, playerID string) (int, models.Contract, error) {
	if playerID == "" {
		return -1, models.Contract{}, models.Validationf("no player given")
	}
	idx, c, ok := l.Find(playerID)
	if !ok {
		return -1, models.Contract{}, models.Preconditionf("player %s is not on the %s books", playerID, l.TeamCode)
	}
	return idx, c, nil
}

// cut releases an Active player. The full dead cap lands on this season.
func cut(l *models.Ledger, a Action) (outcome, error) {
	idx, c, err := lookup(l, a.PlayerID)
	if err != nil {
		return outcome{}, err
	}
	switch {
	case c.Status == models.StatusCut:
		return outcome{}, models.Preconditionf("%s has already been cut", c.DisplayName())
	case c.Status != models.StatusActive:
		return outcome{}, models.Preconditionf("%s cannot be cut while %s", c.DisplayName(), c.Status)
	}

	after := c
	after.Status = models.StatusCut
	l.Contracts[idx] = after
	return outcome{before: c, after: after}, nil
}

// restructure converts part of this season's base salary into bonus spread
// over the remaining years.
func restructure(l *models.Ledger, a Action) (outcome, error) {
	if !a.ConvertFraction.IsPositive() || a.ConvertFraction.GreaterThan(decimal.NewFromInt(1)) {
		return outcome{}, models.Validationf("restructure fraction must be above 0 and at most 1, got %s", a.ConvertFraction)
	}

	idx, c, err := lookup(l, a.PlayerID)
	if err != nil {
		return outcome{}, err
	}
	switch {
	case c.Status != models.StatusActive:
		return outcome{}, models.Preconditionf("%s cannot be restructured while %s", c.DisplayName(), c.Status)
	case c.YearsRemaining < 1:
		return outcome{}, models.Preconditionf("%s has no contract years left to spread a bonus over", c.DisplayName())
	case !c.BaseSalary.IsPositive():
		return outcome{}, models.Preconditionf("%s has no base salary to convert", c.DisplayName())
	}

	converted := c.BaseSalary.Mul(a.ConvertFraction).Round(2)

	after := c
	after.BaseSalary = c.BaseSalary.Sub(converted)
	after.UnamortizedBonus = c.UnamortizedBonus.Add(converted)
	// Converted guaranteed salary is now bonus, so it is already in the pool.
	after.GuaranteedSalary = decimal.Min(c.GuaranteedSalary, after.BaseSalary)

	l.Contracts[idx] = after
	return outcome{before: c, after: after}, nil
}

// sign adds a free agent to the roster. Going over the cap is allowed and is
// flagged on the impact.
func sign(l *models.Ledger, a Action) (outcome, error) {
	if a.FreeAgent == nil {
		return outcome{}, models.Validationf("no free agent contract given")
	}
	fa := *a.FreeAgent
	if a.PlayerID != "" && fa.PlayerID == "" {
		fa.PlayerID = a.PlayerID
	}
	fa.Status = models.StatusActive

	if err := fa.Validate(); err != nil {
		return outcome{}, err
	}
	if fa.YearsRemaining < 1 {
		return outcome{}, models.Validationf("%s: a signing needs at least one contract year", fa.DisplayName())
	}

	if _, existing, ok := l.Find(fa.PlayerID); ok && existing.Status != models.StatusCut {
		return outcome{}, models.Preconditionf("%s is already under contract with %s (%s)", existing.DisplayName(), l.TeamCode, existing.Status)
	}

	l.Contracts = append(l.Contracts, fa)
	return outcome{before: models.Contract{PlayerID: fa.PlayerID}, after: fa}, nil
}

// resign extends or replaces the deal of a player the team controls. The
// remaining bonus pool is re-spread over the new length.
func resign(l *models.Ledger, a Action) (outcome, error) {
	if err := a.Terms.Validate(); err != nil {
		return outcome{}, err
	}

	idx, c, err := lookup(l, a.PlayerID)
	if err != nil {
		return outcome{}, err
	}
	if c.Status == models.StatusCut {
		return outcome{}, models.Preconditionf("%s was cut; sign them as a free agent instead", c.DisplayName())
	}
	if a.Terms.Years < c.YearsRemaining {
		return outcome{}, models.Preconditionf("%s still has %d years left; a new deal cannot be shorter", c.DisplayName(), c.YearsRemaining)
	}

	after := c
	after.BaseSalary = a.Terms.BaseSalary
	after.GuaranteedSalary = a.Terms.GuaranteedSalary
	after.Incentives = a.Terms.Incentives
	after.UnamortizedBonus = c.UnamortizedBonus.Add(a.Terms.SigningBonus)
	after.YearsRemaining = a.Terms.Years
	after.Status = models.StatusActive

	l.Contracts[idx] = after
	return outcome{before: c, after: after}, nil
}

// tag puts a one-year tender on an expiring player. One tag per team per
// season regardless of kind.
func tag(l *models.Ledger, a Action, status models.Status) (outcome, error) {
	idx, c, err := lookup(l, a.PlayerID)
	if err != nil {
		return outcome{}, err
	}
	if !a.TagCost.IsPositive() {
		return outcome{}, models.Validationf("tag cost must be positive, got %s", a.TagCost)
	}
	switch {
	case c.Status.IsTagged():
		return outcome{}, models.Preconditionf("%s is already tagged this season", c.DisplayName())
	case c.Status == models.StatusCut:
		return outcome{}, models.Preconditionf("%s was cut and cannot be tagged", c.DisplayName())
	case !c.IsExpiring():
		return outcome{}, models.Preconditionf("%s still has %d years left; only expiring players can be tagged", c.DisplayName(), c.YearsRemaining)
	}
	if l.TagsUsed >= l.TagLimit {
		return outcome{}, models.Preconditionf("%s has used %d of %d tags this season", l.TeamCode, l.TagsUsed, l.TagLimit)
	}

	after := c
	after.BaseSalary = a.TagCost
	after.GuaranteedSalary = a.TagCost
	after.UnamortizedBonus = decimal.Zero
	after.Incentives = decimal.Zero
	after.YearsRemaining = 1
	after.Status = status

	l.Contracts[idx] = after
	l.TagsUsed++
	return outcome{before: c, after: after}, nil
}
