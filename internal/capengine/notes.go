package capengine

import (
	"fmt"

	"github.com/pmurley/capbot/internal/models"
)

var noteTemplates = map[models.ActionKind]string{
	models.ActionCut:           "Releasing %s thins the %s room on the %s.",
	models.ActionRestructure:   "Restructuring %s pushes %s room money into future years on the %s.",
	models.ActionSign:          "Signing %s adds depth to the %s room on the %s.",
	models.ActionResign:        "Re-signing %s keeps the %s room intact on the %s.",
	models.ActionTagFranchise:  "The franchise tag holds %s in the %s room on the %s for one season at a premium.",
	models.ActionTagTransition: "The transition tag keeps matching rights on %s in the %s room on the %s.",
}

var needTemplates = map[models.ActionKind]string{
	models.ActionCut:  " %s is already a listed team need.",
	models.ActionSign: " Addresses a listed team need at %s.",
}

func positionNote(kind models.ActionKind, c models.Contract, l *models.Ledger) string {
	tmpl, ok := noteTemplates[kind]
	if !ok {
		return ""
	}
	group := c.Group()
	note := fmt.Sprintf(tmpl, c.DisplayName(), group, sideOfBall(group.Unit()))

	if needTmpl, ok := needTemplates[kind]; ok && l.IsNeed(c.Position) {
		note += fmt.Sprintf(needTmpl, c.Position)
	}
	return note
}

func sideOfBall(u models.Unit) string {
	switch u {
	case models.UnitOffense:
		return "offense"
	case models.UnitDefense:
		return "defense"
	case models.UnitSpecialTeams:
		return "special teams"
	default:
		return "roster"
	}
}
