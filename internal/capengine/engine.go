// Package capengine applies roster transactions to cap ledgers.
//
// Every operation works on a copy of the ledger. Apply returns the new copy,
// Preview throws it away; both go through plan so the numbers they report
// cannot disagree.
package capengine

import (
	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

// Action is a fully resolved transaction ready to be planned.
type Action struct {
	Kind     models.ActionKind
	PlayerID string

	ConvertFraction decimal.Decimal  // Restructure
	TagCost         decimal.Decimal  // TagFranchise, TagTransition
	Terms           models.Terms     // Resign
	FreeAgent       *models.Contract // Sign
}

// Apply commits an action against a copy of l. On error l is returned
// untouched alongside a zero impact.
func Apply(l *models.Ledger, a Action) (*models.Ledger, models.Impact, error) {
	next, impact, err := plan(l, a)
	if err != nil {
		return l, models.Impact{}, err
	}
	return next, impact, nil
}

type outcome struct {
	before models.Contract
	after  models.Contract
}

func plan(l *models.Ledger, a Action) (*models.Ledger, models.Impact, error) {
	if l == nil {
		return nil, models.Impact{}, models.Validationf("no ledger loaded")
	}

	next := l.Clone()

	var (
		out outcome
		err error
	)
	switch a.Kind {
	case models.ActionCut:
		out, err = cut(next, a)
	case models.ActionRestructure:
		out, err = restructure(next, a)
	case models.ActionSign:
		out, err = sign(next, a)
	case models.ActionResign:
		out, err = resign(next, a)
	case models.ActionTagFranchise:
		out, err = tag(next, a, models.StatusFranchiseTagged)
	case models.ActionTagTransition:
		out, err = tag(next, a, models.StatusTransitionTag)
	default:
		err = models.Validationf("unknown action %q", a.Kind)
	}
	if err != nil {
		return nil, models.Impact{}, err
	}

	if err := next.Validate(); err != nil {
		return nil, models.Impact{}, err
	}

	return next, measure(l, next, a.Kind, out), nil
}

func measure(before, after *models.Ledger, kind models.ActionKind, out outcome) models.Impact {
	spaceBefore := before.SpaceAvailable()
	spaceAfter := after.SpaceAvailable()

	var deadCapDelta decimal.Decimal
	if kind == models.ActionCut {
		deadCapDelta = out.before.DeadCap()
	} else {
		deadCapDelta = out.after.DeadCap().Sub(out.before.DeadCap())
	}

	return models.Impact{
		Action:         kind,
		PlayerID:       out.after.PlayerID,
		PlayerName:     out.after.PlayerName,
		Position:       out.after.Position,
		CapSavings:     spaceAfter.Sub(spaceBefore),
		CommittedDelta: after.Committed().Sub(before.Committed()),
		DeadMoneyDelta: after.DeadMoney().Sub(before.DeadMoney()),
		DeadCapDelta:   deadCapDelta,
		SpaceBefore:    spaceBefore,
		SpaceAfter:     spaceAfter,
		CapViolation:   spaceAfter.IsNegative(),
		Note:           positionNote(kind, out.after, after),
	}
}
