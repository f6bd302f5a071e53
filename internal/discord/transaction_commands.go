package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

// propose previews a request against the caller's team and holds it for !confirm.
func (hm *HandlerManager) propose(s *discordgo.Session, m *discordgo.MessageCreate, team string, req models.ActionRequest) {
	p, err := hm.desk.Propose(team, m.Author.Username, req)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	s.ChannelMessageSendEmbed(m.ChannelID, buildProposalEmbed(p, hm.config.CommandPrefix, hm.config.ProposalTTL))
}

// callerLedger loads the caller's team books so previews have a snapshot.
func (hm *HandlerManager) callerLedger(ctx context.Context, m *discordgo.MessageCreate) (*models.Ledger, error) {
	team, err := hm.callerTeam(ctx, m)
	if err != nil {
		return nil, err
	}
	return hm.desk.Ledger(ctx, team)
}

func (hm *HandlerManager) handleCut(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!cut <player>`")
		return
	}

	ctx, cancel := commandContext()
	defer cancel()

	l, err := hm.callerLedger(ctx, m)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	c, err := matchPlayer(l.Contracts, strings.Join(args, " "))
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	hm.propose(s, m, l.TeamCode, models.ActionRequest{Action: models.ActionCut, PlayerID: c.PlayerID})
}

func (hm *HandlerManager) handleRestructure(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!restructure <player> <pct>` (e.g. `!restructure Chris Jones 50%`)")
		return
	}

	fraction, err := parsePercent(args[len(args)-1])
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	ctx, cancel := commandContext()
	defer cancel()

	l, err := hm.callerLedger(ctx, m)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	c, err := matchPlayer(l.Contracts, strings.Join(args[:len(args)-1], " "))
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	hm.propose(s, m, l.TeamCode, models.ActionRequest{
		Action:   models.ActionRestructure,
		PlayerID: c.PlayerID,
		Params:   &models.ActionParams{ConvertFraction: &fraction},
	})
}

func (hm *HandlerManager) handleSign(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!sign <free agent>`")
		return
	}

	ctx, cancel := commandContext()
	defer cancel()

	l, err := hm.callerLedger(ctx, m)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	agents, err := hm.desk.FreeAgents(ctx)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	fa, err := matchFreeAgent(agents, strings.Join(args, " "))
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	hm.propose(s, m, l.TeamCode, models.ActionRequest{Action: models.ActionSign, PlayerID: fa.ID()})
}

func (hm *HandlerManager) handleResign(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	name, nums := splitNameAndNumbers(args)
	if name == "" {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!resign <player> <years> <base> [bonus] [guaranteed]` (e.g. `!resign Nick Bolton 4 8M 12M 5M`)")
		return
	}
	terms, err := parseResignTerms(nums)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	ctx, cancel := commandContext()
	defer cancel()

	l, err := hm.callerLedger(ctx, m)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	c, err := matchPlayer(l.Contracts, name)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	hm.propose(s, m, l.TeamCode, models.ActionRequest{
		Action:   models.ActionResign,
		PlayerID: c.PlayerID,
		Params:   &models.ActionParams{Terms: &terms},
	})
}

func (hm *HandlerManager) handleTag(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!tag <franchise|transition> <player> [cost]`")
		return
	}
	kind, ok := models.ParseActionKind(args[0])
	if !ok || !kind.IsTag() {
		s.ChannelMessageSend(m.ChannelID, "Tag type must be `franchise` or `transition`")
		return
	}

	nameArgs := args[1:]
	params := &models.ActionParams{}
	if last := nameArgs[len(nameArgs)-1]; len(nameArgs) > 1 && hasDigit(last) {
		cost, err := models.ParseMoney(last)
		if err != nil {
			hm.sendError(s, m, err)
			return
		}
		params.TagCost = &cost
		nameArgs = nameArgs[:len(nameArgs)-1]
	}

	ctx, cancel := commandContext()
	defer cancel()

	l, err := hm.callerLedger(ctx, m)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	c, err := matchPlayer(l.Contracts, strings.Join(nameArgs, " "))
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	hm.propose(s, m, l.TeamCode, models.ActionRequest{Action: kind, PlayerID: c.PlayerID, Params: params})
}

func (hm *HandlerManager) handleConfirm(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	resp, err := hm.desk.Confirm(ctx, m.Author.Username)
	hm.sendCommitResult(s, m, resp, err)
}

func (hm *HandlerManager) handleCancel(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	p, ok := hm.desk.Cancel(m.Author.Username)
	if !ok {
		s.ChannelMessageSend(m.ChannelID, "You have no pending transaction.")
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Dropped the pending %s of %s.", actionLabel(p.Request.Action), p.Impact.PlayerName))
}

func (hm *HandlerManager) handleRetry(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	team, err := hm.callerTeam(ctx, m)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}
	resp, err := hm.desk.Retry(ctx, team, m.Author.Username)
	hm.sendCommitResult(s, m, resp, err)
}

func (hm *HandlerManager) sendCommitResult(s *discordgo.Session, m *discordgo.MessageCreate, resp *models.ActionResponse, err error) {
	if err != nil {
		if errors.Is(err, models.ErrUnavailable) {
			err = models.Unavailable(models.ReasonOf(err)+". Your transaction is saved; use "+hm.config.CommandPrefix+"retry once the league is back.", nil)
		}
		hm.sendError(s, m, err)
		return
	}
	s.ChannelMessageSendEmbed(m.ChannelID, buildResponseEmbed(resp))
}

func actionLabel(kind models.ActionKind) string {
	switch kind {
	case models.ActionCut:
		return "release"
	case models.ActionRestructure:
		return "restructure"
	case models.ActionSign:
		return "signing"
	case models.ActionResign:
		return "extension"
	case models.ActionTagFranchise:
		return "franchise tag"
	case models.ActionTagTransition:
		return "transition tag"
	}
	return strings.ToLower(string(kind))
}

func percentLabel(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
}
