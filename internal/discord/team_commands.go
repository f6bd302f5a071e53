package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/models"
)

// RosterFilters represents filtering options for a roster listing
type RosterFilters struct {
	Position string
	Unit     models.Unit
	Top      int
}

func (f RosterFilters) active() bool {
	return f.Position != "" || f.Unit != "" || f.Top > 0
}

func (f RosterFilters) String() string {
	var parts []string
	if f.Position != "" {
		parts = append(parts, "Position: "+f.Position)
	}
	if f.Unit != "" {
		parts = append(parts, "Unit: "+string(f.Unit))
	}
	if f.Top > 0 {
		parts = append(parts, fmt.Sprintf("Top %d", f.Top))
	}
	return strings.Join(parts, ", ")
}

// parseRosterFilters splits --flags from the remaining arguments.
func parseRosterFilters(args []string) (RosterFilters, []string, error) {
	var filters RosterFilters
	var rest []string

	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			rest = append(rest, arg)
			continue
		}
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return filters, nil, models.Validationf("filter %s needs a value, like --pos=QB", arg)
		}
		switch parts[0] {
		case "--pos", "--position":
			filters.Position = strings.ToUpper(parts[1])
		case "--unit":
			unit, ok := models.ParseUnit(parts[1])
			if !ok {
				return filters, nil, models.Validationf("unknown unit %q; use offense, defense or st", parts[1])
			}
			filters.Unit = unit
		case "--top":
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 {
				return filters, nil, models.Validationf("--top needs a positive number")
			}
			filters.Top = n
		default:
			return filters, nil, models.Validationf("unknown filter %s", parts[0])
		}
	}
	return filters, rest, nil
}

func applyRosterFilters(roster models.ContractList, filters RosterFilters) models.ContractList {
	filtered := roster
	if filters.Position != "" {
		filtered = filtered.FilterByPosition(filters.Position)
	}
	if filters.Unit != "" {
		filtered = filtered.FilterByUnit(filters.Unit)
	}
	if filters.Top > 0 {
		return filtered.TopCapHits(filters.Top)
	}
	sorted := make(models.ContractList, len(filtered))
	copy(sorted, filtered)
	sorted.SortByCapHit()
	return sorted
}

// handleCap shows a team's cap summary
func (hm *HandlerManager) handleCap(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	team, _, err := hm.teamFromArgs(ctx, m, args)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	l, err := hm.desk.Ledger(ctx, team)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	s.ChannelMessageSendEmbed(m.ChannelID, buildLedgerEmbed(l))
}

// handleRoster lists a team's rostered contracts with optional filters
func (hm *HandlerManager) handleRoster(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	filters, rest, err := parseRosterFilters(args)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	ctx, cancel := commandContext()
	defer cancel()

	team, _, err := hm.teamFromArgs(ctx, m, rest)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	l, err := hm.desk.Ledger(ctx, team)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	players := applyRosterFilters(l.Roster(), filters)
	if len(players) == 0 {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No players found for %s with the specified filters", l.TeamCode))
		return
	}

	s.ChannelMessageSendEmbed(m.ChannelID, buildRosterEmbed(l, players, filters))
}

// handleJournal shows a team's most recent transactions
func (hm *HandlerManager) handleJournal(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	team, _, err := hm.teamFromArgs(ctx, m, args)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	entries, err := hm.desk.Journal(team, 15)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	if len(entries) == 0 {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No transactions recorded for %s yet", team))
		return
	}

	s.ChannelMessageSendEmbed(m.ChannelID, buildJournalEmbed(team, entries))
}
