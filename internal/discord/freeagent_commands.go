package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/models"
	"github.com/pmurley/capbot/internal/valuation"
)

const freeAgentBoardSize = 25

// freeAgentBoard filters by position and orders by overall score.
func freeAgentBoard(agents []models.FreeAgentRecord, position string) []models.FreeAgentRecord {
	var board []models.FreeAgentRecord
	for _, fa := range agents {
		if position != "" && len(models.ContractList{{Position: fa.Position}}.FilterByPosition(position)) == 0 {
			continue
		}
		board = append(board, fa)
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].OverallScore > board[j].OverallScore
	})
	return board
}

func (hm *HandlerManager) handleFreeAgents(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	agents, err := hm.desk.FreeAgents(ctx)
	if err != nil {
		hm.sendError(s, m, err)
		return
	}

	position := ""
	if len(args) > 0 {
		position = strings.ToUpper(args[0])
	}
	board := freeAgentBoard(agents, position)
	if len(board) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No free agents found")
		return
	}

	s.ChannelMessageSendEmbed(m.ChannelID, buildFreeAgentEmbed(board, position, hm.desk.Valuer()))
}

func buildFreeAgentEmbed(board []models.FreeAgentRecord, position string, valuer valuation.Model) *discordgo.MessageEmbed {
	title := "Free-Agent Board"
	if position != "" {
		title += " - " + position
	}

	var description strings.Builder
	shown := board
	if len(shown) > freeAgentBoardSize {
		shown = shown[:freeAgentBoardSize]
	}
	for _, fa := range shown {
		terms := valuation.Offer(valuer, fa)
		description.WriteString(fmt.Sprintf("**%s** (%s, %d) OVR %d - %s x %d yr",
			fa.PlayerName, fa.Position, fa.Age, fa.OverallScore, models.FormatMoneyShort(terms.BaseSalary), terms.Years))
		if fa.PreviousTeam != "" {
			description.WriteString(" - prev. " + fa.PreviousTeam)
		}
		description.WriteString("\n")
	}
	if len(board) > freeAgentBoardSize {
		description.WriteString(fmt.Sprintf("\n*...and %d more*", len(board)-freeAgentBoardSize))
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description.String(),
		Color:       0x0099ff, // Blue
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Asking price, or estimated value from overall rating",
		},
	}
}
