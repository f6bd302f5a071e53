package discord

import (
	"strconv"
	"strings"

	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

const maxSuggestions = 5

// matchPlayer finds one contract by id, exact name, or a unique partial name.
// Only the latest entry per player is considered.
func matchPlayer(contracts models.ContractList, query string) (models.Contract, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Contract{}, models.Validationf("no player given")
	}

	latest := make(map[string]int)
	var unique models.ContractList
	for _, c := range contracts {
		if idx, ok := latest[c.PlayerID]; ok {
			unique[idx] = c
			continue
		}
		latest[c.PlayerID] = len(unique)
		unique = append(unique, c)
	}

	for _, c := range unique {
		if strings.EqualFold(c.PlayerID, query) {
			return c, nil
		}
	}

	matches := unique.FindByExactName(query)
	if len(matches) == 0 {
		matches = unique.SearchByName(query)
	}
	switch len(matches) {
	case 0:
		return models.Contract{}, models.Preconditionf("no player matching %q", query)
	case 1:
		return matches[0], nil
	}

	var names []string
	for i, c := range matches {
		if i == maxSuggestions {
			names = append(names, "...")
			break
		}
		names = append(names, c.PlayerName+" ("+c.Position+")")
	}
	return models.Contract{}, models.Validationf("%q matches several players: %s", query, strings.Join(names, ", "))
}

// matchFreeAgent finds one free agent by id, exact name, or a unique partial name.
func matchFreeAgent(agents []models.FreeAgentRecord, query string) (models.FreeAgentRecord, error) {
	list := make(models.ContractList, 0, len(agents))
	for _, fa := range agents {
		list = append(list, models.Contract{PlayerID: fa.ID(), PlayerName: fa.PlayerName, Position: fa.Position})
	}
	c, err := matchPlayer(list, query)
	if err != nil {
		return models.FreeAgentRecord{}, err
	}
	for _, fa := range agents {
		if fa.ID() == c.PlayerID {
			return fa, nil
		}
	}
	return models.FreeAgentRecord{}, models.Preconditionf("no free agent matching %q", query)
}

// parsePercent accepts "50", "50%" or "0.5" and returns a fraction.
func parsePercent(s string) (decimal.Decimal, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(s), "%")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, models.Validationf("invalid percentage %q", s)
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d, nil
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// splitNameAndNumbers splits "Nick Bolton 4 12M 8M" at the first integer.
func splitNameAndNumbers(args []string) (string, []string) {
	for i, arg := range args {
		if _, err := strconv.Atoi(arg); err == nil {
			return strings.Join(args[:i], " "), args[i:]
		}
	}
	return strings.Join(args, " "), nil
}

// parseResignTerms reads <years> <base> [bonus] [guaranteed].
func parseResignTerms(nums []string) (models.Terms, error) {
	if len(nums) < 2 {
		return models.Terms{}, models.Validationf("usage: !resign <player> <years> <base> [bonus] [guaranteed]")
	}
	years, err := strconv.Atoi(nums[0])
	if err != nil {
		return models.Terms{}, models.Validationf("invalid years %q", nums[0])
	}

	amounts := make([]decimal.Decimal, 3)
	for i, s := range nums[1:] {
		if i >= len(amounts) {
			return models.Terms{}, models.Validationf("too many amounts")
		}
		if amounts[i], err = models.ParseMoney(s); err != nil {
			return models.Terms{}, err
		}
	}

	terms := models.Terms{
		BaseSalary:       amounts[0],
		SigningBonus:     amounts[1],
		GuaranteedSalary: amounts[2],
		Years:            years,
	}
	return terms, terms.Validate()
}
