package frontoffice

import (
	"strings"

	"github.com/pmurley/capbot/internal/capengine"
	"github.com/pmurley/capbot/internal/models"
	"github.com/pmurley/capbot/internal/valuation"
)

// ResolveAction turns a request into an engine action. Tag costs that are not
// given are priced by the valuation model; signings without an offer use the
// cached free-agent pool.
func (d *Desk) ResolveAction(l *models.Ledger, req models.ActionRequest) (capengine.Action, error) {
	params := req.Params
	if params == nil {
		params = &models.ActionParams{}
	}
	a := capengine.Action{Kind: req.Action, PlayerID: strings.TrimSpace(req.PlayerID)}

	switch req.Action {
	case models.ActionCut:

	case models.ActionRestructure:
		if params.ConvertFraction == nil {
			return a, models.Validationf("restructure needs a fraction of base salary to convert")
		}
		a.ConvertFraction = *params.ConvertFraction

	case models.ActionResign:
		if params.Terms == nil {
			return a, models.Validationf("re-signing needs contract terms")
		}
		a.Terms = *params.Terms

	case models.ActionTagFranchise, models.ActionTagTransition:
		switch {
		case params.TagCost != nil:
			a.TagCost = *params.TagCost
		case a.PlayerID == "":
			return a, models.Validationf("no player given")
		case d.valuer != nil:
			_, c, ok := l.Find(a.PlayerID)
			if !ok {
				return a, models.Preconditionf("player %s is not on the %s books", a.PlayerID, l.TeamCode)
			}
			a.TagCost = d.valuer.TagCost(req.Action, c)
		}

	case models.ActionSign:
		fa, err := d.freeAgentContract(a.PlayerID, params.Offer)
		if err != nil {
			return a, err
		}
		a.PlayerID = fa.PlayerID
		a.FreeAgent = &fa

	default:
		return a, models.Validationf("unknown action %q", req.Action)
	}
	return a, nil
}

func (d *Desk) freeAgentContract(playerID string, offer *models.FreeAgentOffer) (models.Contract, error) {
	if offer != nil {
		if playerID == "" {
			playerID = models.PlayerSlug(offer.PlayerName)
		}
		c, err := models.NewContract(playerID, offer.PlayerName, offer.Position, offer.Terms)
		if err != nil {
			return models.Contract{}, err
		}
		c.Age = offer.Age
		c.OverallScore = offer.OverallScore
		return c, nil
	}

	if playerID == "" {
		return models.Contract{}, models.Validationf("no free agent given")
	}
	agents, ok := d.cache.GetFreeAgents()
	if !ok {
		return models.Contract{}, models.Preconditionf("the free-agent pool is not loaded")
	}
	for _, fa := range agents {
		if fa.ID() != playerID {
			continue
		}
		c, err := models.NewContract(fa.ID(), fa.PlayerName, fa.Position, valuation.Offer(d.valuer, fa))
		if err != nil {
			return models.Contract{}, err
		}
		c.Age = fa.Age
		c.OverallScore = fa.OverallScore
		return c, nil
	}
	return models.Contract{}, models.Preconditionf("%s is not in the free-agent pool", playerID)
}
