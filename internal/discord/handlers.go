package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/config"
	"github.com/pmurley/capbot/internal/frontoffice"
	"github.com/pmurley/capbot/internal/models"
	"github.com/pmurley/capbot/internal/spotrac"
	"github.com/pmurley/capbot/pkg/logger"
)

const commandTimeout = 30 * time.Second

type HandlerManager struct {
	session       *discordgo.Session
	config        *config.Config
	logger        *logger.Logger
	desk          *frontoffice.Desk
	spotracClient *spotrac.Client
	commands      map[string]CommandHandler
}

type CommandHandler func(s *discordgo.Session, m *discordgo.MessageCreate, args []string)

func NewHandlerManager(
	session *discordgo.Session,
	config *config.Config,
	logger *logger.Logger,
	desk *frontoffice.Desk,
	spotracClient *spotrac.Client,
) *HandlerManager {
	hm := &HandlerManager{
		session:       session,
		config:        config,
		logger:        logger,
		desk:          desk,
		spotracClient: spotracClient,
		commands:      make(map[string]CommandHandler),
	}

	hm.registerCommands()

	return hm
}

func (hm *HandlerManager) RegisterHandlers() {
	hm.session.AddHandler(hm.messageCreate)
}

func (hm *HandlerManager) registerCommands() {
	hm.commands["help"] = hm.handleHelp
	hm.commands["cap"] = hm.handleCap
	hm.commands["roster"] = hm.handleRoster
	hm.commands["reload"] = hm.handleReload
	hm.commands["journal"] = hm.handleJournal
	hm.commands["cut"] = hm.handleCut
	hm.commands["restructure"] = hm.handleRestructure
	hm.commands["sign"] = hm.handleSign
	hm.commands["resign"] = hm.handleResign
	hm.commands["tag"] = hm.handleTag
	hm.commands["confirm"] = hm.handleConfirm
	hm.commands["cancel"] = hm.handleCancel
	hm.commands["retry"] = hm.handleRetry
	hm.commands["freeagents"] = hm.handleFreeAgents
	hm.commands["contract"] = hm.handleContract
}

func (hm *HandlerManager) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	if !strings.HasPrefix(m.Content, hm.config.CommandPrefix) {
		return
	}

	content := strings.TrimPrefix(m.Content, hm.config.CommandPrefix)
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if handler, exists := hm.commands[command]; exists {
		handler(s, m, args)
	}
}

func (hm *HandlerManager) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	helpMessage := `**Cap Ledger Bot Commands:**
` + "```" + `
!help                    - Show this help message
!cap [TEAM]              - Cap summary (defaults to your team)
!roster [TEAM] [--pos=QB] [--unit=defense] [--top=10]
!reload [TEAM]           - Reload the team's books from the league
!journal [TEAM]          - Recent transactions

!cut <player>                         - Release a player
!restructure <player> <pct>           - Convert pct of base salary to bonus
!sign <free agent>                    - Sign from the free-agent pool
!resign <player> <years> <base> [bonus] [guaranteed]
!tag <franchise|transition> <player> [cost]
  Transactions are previewed first. Then:
!confirm  - Commit your pending transaction
!cancel   - Drop it
!retry    - Resubmit after the league was unreachable

!freeagents [pos]        - Free-agent board
!contract <name>         - Look up a real NFL contract on Spotrac
  Amounts accept 25M, 750K or 1,250,000
` + "```"

	s.ChannelMessageSend(m.ChannelID, helpMessage)
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// callerTeam returns the team the message author manages.
func (hm *HandlerManager) callerTeam(ctx context.Context, m *discordgo.MessageCreate) (string, error) {
	return hm.desk.UserTeam(ctx, m.Author.Username)
}

// teamFromArgs uses the first argument as a team code when it looks like
// one, otherwise the caller's team.
func (hm *HandlerManager) teamFromArgs(ctx context.Context, m *discordgo.MessageCreate, args []string) (string, []string, error) {
	if len(args) > 0 && looksLikeTeamCode(args[0]) {
		return strings.ToUpper(args[0]), args[1:], nil
	}
	team, err := hm.callerTeam(ctx, m)
	return team, args, err
}

func looksLikeTeamCode(s string) bool {
	if len(s) < 2 || len(s) > 4 || strings.HasPrefix(s, "--") {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (hm *HandlerManager) handleReload(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	team, _, err := hm.teamFromArgs(ctx, m, args)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	l, discrepancies, err := hm.desk.Refresh(ctx, team)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	msg := fmt.Sprintf("Reloaded %s: %d contracts, %s in cap space.", l.TeamCode, len(l.Contracts), models.FormatMoney(l.SpaceAvailable()))
	if len(discrepancies) > 0 {
		msg += fmt.Sprintf("\n%d reported cap hits did not match their components and were recomputed.", len(discrepancies))
	}
	s.ChannelMessageSend(m.ChannelID, msg)
}

// sendError shows the reason behind an error, not its internals.
func (hm *HandlerManager) sendError(s *discordgo.Session, m *discordgo.MessageCreate, err error) {
	kind := models.KindOf(err)
	reason := models.ReasonOf(err)
	if kind == "" {
		hm.logger.Error("command failed: ", err)
		reason = "Something went wrong: " + err.Error()
	}
	if kind == models.KindUnavailable {
		hm.logger.Warn("backend unavailable: ", err)
	}
	s.ChannelMessageSendEmbed(m.ChannelID, buildErrorEmbed(kind, reason))
}
