package models

import "github.com/shopspring/decimal"

// ContractSnapshot is a contract with its derived figures filled in.
type ContractSnapshot struct {
	PlayerID         string          `json:"player_id"`
	PlayerName       string          `json:"player_name"`
	Position         string          `json:"position"`
	Age              int             `json:"age"`
	OverallScore     int             `json:"overall_score,omitempty"`
	Status           Status          `json:"status"`
	YearsRemaining   int             `json:"years_remaining"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	GuaranteedSalary decimal.Decimal `json:"guaranteed_salary"`
	SigningBonus     decimal.Decimal `json:"signing_bonus"`
	UnamortizedBonus decimal.Decimal `json:"unamortized_bonus"`
	GameBonus        decimal.Decimal `json:"game_bonus"`
	CapHit           decimal.Decimal `json:"cap_hit"`
	CapHitPercent    decimal.Decimal `json:"cap_hit_percent"`
	DeadCap          decimal.Decimal `json:"dead_cap"`
}

// LedgerSnapshot is the JSON view of a ledger handed back to the UI layer.
type LedgerSnapshot struct {
	TeamCode       string             `json:"team_shortform"`
	TeamName       string             `json:"team_name,omitempty"`
	SeasonYear     int                `json:"season_year"`
	TotalCap       decimal.Decimal    `json:"total_cap"`
	Committed      decimal.Decimal    `json:"committed"`
	DeadMoney      decimal.Decimal    `json:"dead_money"`
	SpaceAvailable decimal.Decimal    `json:"team_cap_space"`
	Top51          decimal.Decimal    `json:"top_51"`
	Top51Space     decimal.Decimal    `json:"top_51_space"`
	OffenseCap     decimal.Decimal    `json:"offense_cap"`
	DefenseCap     decimal.Decimal    `json:"defense_cap"`
	SpecialCap     decimal.Decimal    `json:"special_cap"`
	TagsUsed       int                `json:"tags_used"`
	TagsRemaining  int                `json:"tags_remaining"`
	OverCap        bool               `json:"over_cap"`
	TeamNeeds      []string           `json:"team_need_pos"`
	Players        []ContractSnapshot `json:"players"`
}

// Snapshot computes every derived figure once for display or transport.
func (l *Ledger) Snapshot() *LedgerSnapshot {
	s := &LedgerSnapshot{
		TeamCode:       l.TeamCode,
		TeamName:       l.TeamName,
		SeasonYear:     l.SeasonYear,
		TotalCap:       l.TotalCap,
		Committed:      l.Committed(),
		DeadMoney:      l.DeadMoney(),
		SpaceAvailable: l.SpaceAvailable(),
		Top51:          l.Top51(),
		Top51Space:     l.Top51Space(),
		OffenseCap:     l.UnitCap(UnitOffense),
		DefenseCap:     l.UnitCap(UnitDefense),
		SpecialCap:     l.UnitCap(UnitSpecialTeams),
		TagsUsed:       l.TagsUsed,
		TagsRemaining:  l.TagsRemaining(),
		OverCap:        l.OverCap(),
		TeamNeeds:      append([]string{}, l.TeamNeeds...),
		Players:        make([]ContractSnapshot, 0, len(l.Contracts)),
	}
	for _, c := range l.Contracts {
		s.Players = append(s.Players, ContractSnapshot{
			PlayerID:         c.PlayerID,
			PlayerName:       c.PlayerName,
			Position:         c.Position,
			Age:              c.Age,
			OverallScore:     c.OverallScore,
			Status:           c.Status,
			YearsRemaining:   c.YearsRemaining,
			BaseSalary:       c.BaseSalary,
			GuaranteedSalary: c.GuaranteedSalary,
			SigningBonus:     c.ProratedBonus(),
			UnamortizedBonus: c.UnamortizedBonus,
			GameBonus:        c.Incentives,
			CapHit:           c.CapHit(),
			CapHitPercent:    l.CapPercent(c),
			DeadCap:          c.DeadCap(),
		})
	}
	return s
}
