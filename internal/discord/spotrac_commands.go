package discord

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/models"
	"github.com/pmurley/capbot/internal/spotrac"
)

// handleContract looks up a real NFL contract on Spotrac and shows it the
// way the ledger would count it this season
func (hm *HandlerManager) handleContract(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!contract <player name>`")
		return
	}

	playerName := strings.Join(args, " ")

	result, err := hm.spotracClient.Search(playerName)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Failed to search Spotrac: "+err.Error())
		return
	}

	switch result.Type {
	case "none":
		message := "No players found on Spotrac"
		if result.ErrorMessage != "" {
			message = result.ErrorMessage
		}
		s.ChannelMessageSend(m.ChannelID, message)

	case "multiple":
		s.ChannelMessageSendEmbed(m.ChannelID, buildSpotracMultipleResultsEmbed(result, playerName))

	case "single":
		player := result.PlayerResults[0]
		contract, err := hm.spotracClient.GetPlayerContract(player.URL)
		if err != nil {
			s.ChannelMessageSend(m.ChannelID, "Failed to get contract information: "+err.Error())
			return
		}
		if contract.Position == "" {
			contract.Position = player.Position
		}

		s.ChannelMessageSendEmbed(m.ChannelID, buildSpotracContractEmbed(contract, hm.config.SeasonYear))
	}
}

// buildSpotracMultipleResultsEmbed creates an embed for multiple search results
func buildSpotracMultipleResultsEmbed(result *spotrac.SearchResult, query string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Multiple players found for '%s'", query),
		Color: 0xFFA500, // Orange
	}

	var description strings.Builder
	description.WriteString("Please be more specific. Found players:\n\n")

	maxResults := len(result.PlayerResults)
	if maxResults > 20 {
		maxResults = 20
	}

	for i := 0; i < maxResults; i++ {
		player := result.PlayerResults[i]
		description.WriteString(fmt.Sprintf("**%s**", player.Name))
		if player.Team != "" {
			description.WriteString(fmt.Sprintf(" (%s)", player.Team))
		}
		if player.Position != "" {
			description.WriteString(fmt.Sprintf(" - %s", player.Position))
		}
		description.WriteString("\n")
	}

	if len(result.PlayerResults) > 20 {
		description.WriteString(fmt.Sprintf("\n*...and %d more results*", len(result.PlayerResults)-20))
	}

	embed.Description = description.String()
	return embed
}

// buildSpotracContractEmbed creates an embed for a player's contract information
func buildSpotracContractEmbed(info *spotrac.ContractInfo, season int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s - Contract Information", info.PlayerName),
		Color: 0x00FF00, // Green
	}

	var fields []*discordgo.MessageEmbedField
	addField := func(name, value string, inline bool) {
		if value != "" && value != "N/A" {
			fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline})
		}
	}

	addField("Team", info.Team, true)
	addField("Contract", info.ContractTerms, true)
	addField("Average Salary", info.AverageSalary, true)
	addField("Signing Bonus", info.SigningBonus, true)
	addField("Guaranteed", info.Guaranteed, true)
	addField("Free Agent", info.FreeAgent, true)

	if c, err := info.ToContract(season); err == nil {
		addField(fmt.Sprintf("%d Ledger View", season), fmt.Sprintf(
			"Cap hit %s | Dead cap %s | Cut savings %s | %d yr left",
			models.FormatMoneyShort(c.CapHit()), models.FormatMoneyShort(c.DeadCap()),
			models.FormatMoneyShort(c.CapSavingsIfCut()), c.YearsRemaining), false)
	}

	if len(info.ContractNotes) > 0 {
		var notesText strings.Builder
		for i, note := range info.ContractNotes {
			if i > 0 {
				notesText.WriteString("\n")
			}
			notesText.WriteString(fmt.Sprintf("• %s", note))
		}
		addField("Contract Notes", truncateField(notesText.String()), false)
	}

	if len(info.ContractYears) > 0 {
		var breakdown strings.Builder
		breakdown.WriteString("```\n")
		breakdown.WriteString("Year  Age  Base     Bonus    Cap Hit  Dead\n")
		breakdown.WriteString("----  ---  -------  -------  -------  -------\n")

		for _, year := range info.ContractYears {
			ageStr := ""
			if year.Age > 0 {
				ageStr = strconv.Itoa(year.Age)
			}
			breakdown.WriteString(fmt.Sprintf("%-4d  %-3s  %-7s  %-7s  %-7s  %s\n",
				year.Year, ageStr,
				models.FormatMoneyShort(year.BaseSalary),
				models.FormatMoneyShort(year.ProratedBonus),
				models.FormatMoneyShort(year.CapHit),
				models.FormatMoneyShort(year.DeadCap)))
		}
		breakdown.WriteString("```")

		addField("Contract Breakdown", truncateField(breakdown.String()), false)
	}

	embed.Fields = fields
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Data from Spotrac.com",
	}

	return embed
}

// Discord field values have a limit of 1024 characters
// truncateField keeps a field under Discord's 1024 byte limit without
// splitting a multi-byte character.
func truncateField(s string) string {
	if len(s) <= 1024 {
		return s
	}
	cut := 1020
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
