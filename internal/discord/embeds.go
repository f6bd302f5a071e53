package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/models"
)

const (
	colorGreen  = 0x00ff00
	colorRed    = 0xff0000
	colorOrange = 0xffa500
	colorBlue   = 0x0099ff
	colorPurple = 0x9932cc
)

var unitOrder = []models.Unit{models.UnitOffense, models.UnitDefense, models.UnitSpecialTeams, models.UnitUnknown}

func buildErrorEmbed(kind models.ErrorKind, reason string) *discordgo.MessageEmbed {
	title := "Error"
	color := colorRed
	switch kind {
	case models.KindValidation:
		title = "Invalid Request"
		color = colorOrange
	case models.KindPrecondition:
		title = "Not Allowed"
		color = colorOrange
	case models.KindConflict:
		title = "Books Changed"
	case models.KindUnavailable:
		title = "League Unavailable"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: reason,
		Color:       color,
	}
}

func withSign(s string, positive bool) string {
	if positive {
		return "+" + s
	}
	return s
}

func impactFields(impact models.Impact) []*discordgo.MessageEmbedField {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Cap Space", Value: fmt.Sprintf("%s → %s", models.FormatMoney(impact.SpaceBefore), models.FormatMoney(impact.SpaceAfter)), Inline: false},
		{Name: "Cap Savings", Value: withSign(models.FormatMoney(impact.CapSavings), impact.CapSavings.IsPositive()), Inline: true},
		{Name: "Committed", Value: withSign(models.FormatMoney(impact.CommittedDelta), impact.CommittedDelta.IsPositive()), Inline: true},
		{Name: "Dead Money", Value: withSign(models.FormatMoney(impact.DeadMoneyDelta), impact.DeadMoneyDelta.IsPositive()), Inline: true},
		{Name: "Dead Cap Exposure", Value: withSign(models.FormatMoney(impact.DeadCapDelta), impact.DeadCapDelta.IsPositive()), Inline: true},
	}
	if impact.CapViolation {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "⚠️ Over the Cap",
			Value: "This leaves the team over the salary cap. It is allowed, but space must be cleared before the season.",
		})
	}
	if impact.Note != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Roster", Value: impact.Note})
	}
	return fields
}

func impactTitle(impact models.Impact) string {
	name := impact.PlayerName
	if name == "" {
		name = impact.PlayerID
	}
	if impact.Position != "" {
		name += " (" + impact.Position + ")"
	}
	return fmt.Sprintf("%s: %s", strings.Title(actionLabel(impact.Action)), name)
}

func buildProposalEmbed(p models.Proposal, prefix string, ttl time.Duration) *discordgo.MessageEmbed {
	description := fmt.Sprintf("Preview for **%s**", p.TeamCode)
	if params := p.Request.Params; params != nil && params.ConvertFraction != nil {
		description += fmt.Sprintf(", converting %s of base salary", percentLabel(*params.ConvertFraction))
	}

	color := colorBlue
	if p.Impact.CapViolation {
		color = colorOrange
	}

	return &discordgo.MessageEmbed{
		Title:       impactTitle(p.Impact),
		Description: description,
		Color:       color,
		Fields:      impactFields(p.Impact),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Type %sconfirm within %d minutes to commit, or %scancel", prefix, int(ttl.Minutes()), prefix),
		},
	}
}

func buildResponseEmbed(resp *models.ActionResponse) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{}

	switch resp.Status {
	case models.StatusCommitted:
		embed.Title = "✅ Transaction Committed"
		embed.Color = colorGreen
	case models.StatusConflict:
		embed.Title = "🔄 Books Changed on the Server"
		embed.Color = colorOrange
		embed.Description = resp.Reason + "\nThe latest books have been loaded. Preview the move again before confirming."
	default:
		embed.Title = "❌ Transaction Rejected"
		embed.Color = colorRed
		embed.Description = resp.Reason
	}

	if resp.Impact != nil && resp.Status == models.StatusCommitted {
		embed.Description = impactTitle(*resp.Impact)
		embed.Fields = impactFields(*resp.Impact)
	}
	if resp.TransactionID != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Transaction " + resp.TransactionID}
	}
	return embed
}

func buildLedgerEmbed(l *models.Ledger) *discordgo.MessageEmbed {
	title := l.TeamCode
	if l.TeamName != "" {
		title = fmt.Sprintf("%s (%s)", l.TeamName, l.TeamCode)
	}

	color := colorGreen
	if l.OverCap() {
		color = colorRed
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Salary Cap", Value: models.FormatMoney(l.TotalCap), Inline: true},
		{Name: "Committed", Value: models.FormatMoney(l.Committed()), Inline: true},
		{Name: "Dead Money", Value: models.FormatMoney(l.DeadMoney()), Inline: true},
		{Name: "Cap Space", Value: models.FormatMoney(l.SpaceAvailable()), Inline: true},
		{Name: "Top 51", Value: fmt.Sprintf("%s (%s space)", models.FormatMoneyShort(l.Top51()), models.FormatMoneyShort(l.Top51Space())), Inline: true},
		{Name: "Tags", Value: fmt.Sprintf("%d used, %d left", l.TagsUsed, l.TagsRemaining()), Inline: true},
	}

	var units []string
	for _, unit := range unitOrder[:3] {
		units = append(units, fmt.Sprintf("%s %s", unit, models.FormatMoneyShort(l.UnitCap(unit))))
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "By Unit", Value: strings.Join(units, " | ")})

	top := l.Roster().TopCapHits(5)
	if len(top) > 0 {
		var lines strings.Builder
		for _, c := range top {
			lines.WriteString(fmt.Sprintf("**%s** (%s) %s, %s%% of cap\n",
				c.PlayerName, c.Position, models.FormatMoneyShort(c.CapHit()), l.CapPercent(c).StringFixed(1)))
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Largest Cap Hits", Value: lines.String()})
	}

	if len(l.TeamNeeds) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Team Needs", Value: strings.Join(l.TeamNeeds, ", ")})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %d Cap", title, l.SeasonYear),
		Color:       color,
		Description: fmt.Sprintf("**%d on roster | %d released**", len(l.Roster()), len(l.Contracts.FilterByStatus(models.StatusCut))),
		Fields:      fields,
	}
}

func buildRosterEmbed(l *models.Ledger, players models.ContractList, filters RosterFilters) *discordgo.MessageEmbed {
	description := fmt.Sprintf("**%d Players | Cap Hits: %s**", len(players), models.FormatMoney(players.TotalCapHit()))
	if filters.active() {
		description += "\n*Filters: " + filters.String() + "*"
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Roster", l.TeamCode),
		Color:       colorBlue,
		Description: description,
	}

	groups := players.GroupByUnit()
	for _, unit := range unitOrder {
		group, ok := groups[unit]
		if !ok || len(group) == 0 {
			continue
		}
		var value strings.Builder
		for _, c := range group {
			line := fmt.Sprintf("**%s** (%s, %d) %s", c.PlayerName, c.Position, c.Age, models.FormatMoneyShort(c.CapHit()))
			if c.Status.IsTagged() {
				line += " 🏷️"
			}
			value.WriteString(line + "\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d)", unit, len(group)),
			Value:  truncateField(value.String()),
			Inline: true,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Cap Space: %s | Dead Money: %s", models.FormatMoney(l.SpaceAvailable()), models.FormatMoney(l.DeadMoney())),
	}
	return embed
}

func buildJournalEmbed(team string, entries []models.JournalEntry) *discordgo.MessageEmbed {
	var lines strings.Builder
	for _, e := range entries {
		lines.WriteString(fmt.Sprintf("`%s` %s **%s** - %s", e.RecordedAt.Format("Jan 02"), actionLabel(e.Action), e.PlayerName, e.Status))
		if e.Status == models.StatusCommitted {
			lines.WriteString(fmt.Sprintf(", space %s", models.FormatMoneyShort(e.SpaceAfter)))
		} else if e.Reason != "" {
			lines.WriteString(": " + e.Reason)
		}
		lines.WriteString("\n")
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Transactions", team),
		Color:       colorBlue,
		Description: lines.String(),
	}
}

// TransactionEmbed announces a committed transaction.
func TransactionEmbed(e models.JournalEntry) *discordgo.MessageEmbed {
	var color int
	var title string

	switch e.Action {
	case models.ActionCut:
		color = colorRed
		title = "❌ Player Released"
	case models.ActionSign:
		color = colorGreen
		title = "✍️ Free Agent Signing"
	case models.ActionResign:
		color = colorGreen
		title = "🖊️ Contract Extension"
	case models.ActionRestructure:
		color = colorBlue
		title = "🔧 Contract Restructure"
	case models.ActionTagFranchise, models.ActionTagTransition:
		color = colorPurple
		title = "🏷️ " + strings.Title(actionLabel(e.Action))
	default:
		color = colorBlue
		title = fmt.Sprintf("📋 %s", e.Action)
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("**%s**: %s", e.TeamCode, e.PlayerName),
		Color:       color,
		Timestamp:   e.RecordedAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Cap Savings", Value: withSign(models.FormatMoney(e.CapSavings), e.CapSavings.IsPositive()), Inline: true},
			{Name: "Cap Space", Value: models.FormatMoney(e.SpaceAfter), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d season", e.SeasonYear),
		},
	}
	if e.RequestedBy != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Executed By",
			Value:  e.RequestedBy,
			Inline: true,
		})
	}
	return embed
}
