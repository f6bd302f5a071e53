package capengine

import "github.com/pmurley/capbot/internal/models"

// Preview reports what Apply would do without keeping the result.
func Preview(l *models.Ledger, a Action) (models.Impact, error) {
	_, impact, err := plan(l, a)
	return impact, err
}

// PreviewCuts previews releasing every Active player, ordered as the roster
// is. Players that cannot be cut are skipped.
func PreviewCuts(l *models.Ledger) []models.Impact {
	var impacts []models.Impact
	for _, c := range l.Roster() {
		if c.Status != models.StatusActive {
			continue
		}
		impact, err := Preview(l, Action{Kind: models.ActionCut, PlayerID: c.PlayerID})
		if err != nil {
			continue
		}
		impacts = append(impacts, impact)
	}
	return impacts
}
