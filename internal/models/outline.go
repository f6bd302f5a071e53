package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// TeamRecord is the team block of /api/teams/:code/outline.
type TeamRecord struct {
	TeamShortform string          `json:"team_shortform"`
	TeamName      string          `json:"team_name"`
	SeasonYear    int             `json:"season_year,omitempty"`
	TotalCap      decimal.Decimal `json:"total_cap"`
	Top51         decimal.Decimal `json:"top_51"`
	TeamCapSpace  decimal.Decimal `json:"team_cap_space"`
	DeadMoney     decimal.Decimal `json:"dead_money"`
	OffenseCap    decimal.Decimal `json:"offense_cap"`
	DefenseCap    decimal.Decimal `json:"defense_cap"`
	SpecialCap    decimal.Decimal `json:"special_cap"`
	TagsUsed      int             `json:"tags_used,omitempty"`
	TeamNeedPos   []string        `json:"team_need_pos"`
}

// PlayerRecord is one row of the outline roster.
type PlayerRecord struct {
	PlayerID       string          `json:"player_id,omitempty"`
	PlayerName     string          `json:"player_name"`
	Position       string          `json:"position"`
	Age            int             `json:"age"`
	OverallScore   int             `json:"overall_score,omitempty"`
	CapHit         decimal.Decimal `json:"cap_hit"`
	CapHitPercent  decimal.Decimal `json:"cap_hit_percent"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	SigningBonus   decimal.Decimal `json:"signing_bonus"` // this season's proration
	GameBonus      decimal.Decimal `json:"game_bonus"`
	DeadCap        decimal.Decimal `json:"dead_cap"`
	YearsRemaining *int            `json:"years_remaining,omitempty"`
	Status         string          `json:"status,omitempty"`

	// UnamortizedBonus is the exact remaining pool. When absent the pool is
	// rebuilt from this season's proration.
	UnamortizedBonus *decimal.Decimal `json:"unamortized_bonus,omitempty"`
}

// Outline is the full /api/teams/:code/outline payload.
type Outline struct {
	Team    TeamRecord     `json:"team"`
	Players []PlayerRecord `json:"players"`
}

// FreeAgentRecord is one entry of /api/freeagencies.
type FreeAgentRecord struct {
	PlayerID       string          `json:"player_id,omitempty"`
	PlayerName     string          `json:"player_name"`
	Position       string          `json:"position"`
	Age            int             `json:"age"`
	OverallScore   int             `json:"overall_score"`
	AskingSalary   decimal.Decimal `json:"asking_salary,omitempty"`
	PreviousTeam   string          `json:"previous_team,omitempty"`
	YearsRequested int             `json:"years_requested,omitempty"`
}

// ID returns the record's player id, falling back to a slug of the name.
func (r FreeAgentRecord) ID() string {
	if r.PlayerID != "" {
		return r.PlayerID
	}
	return PlayerSlug(r.PlayerName)
}

// Discrepancy notes a backend cap hit that disagrees with its own components.
type Discrepancy struct {
	PlayerID string
	Reported decimal.Decimal
	Derived  decimal.Decimal
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s: reported cap hit %s, components sum to %s", d.PlayerID, FormatMoney(d.Reported), FormatMoney(d.Derived))
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// PlayerSlug turns "Patrick Mahomes II" into "patrick-mahomes-ii".
func PlayerSlug(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}

// ParsePlayerRecord converts an outline row into a Contract. The reported
// cap hit is not trusted; the contract derives its own from the components.
func ParsePlayerRecord(r PlayerRecord) (Contract, error) {
	id := r.PlayerID
	if id == "" {
		id = PlayerSlug(r.PlayerName)
	}

	status, ok := ParseStatus(r.Status)
	if !ok {
		return Contract{}, Validationf("%s: unknown status %q", r.PlayerName, r.Status)
	}

	years := 1
	if r.YearsRemaining != nil {
		years = *r.YearsRemaining
	} else if status == StatusExpired {
		years = 0
	}

	pool := decimal.Zero
	switch {
	case years == 0:
	case r.UnamortizedBonus != nil:
		pool = *r.UnamortizedBonus
	default:
		pool = r.SigningBonus.Mul(decimal.NewFromInt(int64(years)))
	}

	// Whatever dead cap the bonus pool does not explain is guaranteed salary.
	guaranteed := r.DeadCap.Sub(pool)
	if guaranteed.IsNegative() {
		guaranteed = decimal.Zero
	}
	if guaranteed.GreaterThan(r.BaseSalary) {
		guaranteed = r.BaseSalary
	}

	c := Contract{
		PlayerID:         id,
		PlayerName:       strings.TrimSpace(r.PlayerName),
		Position:         strings.TrimSpace(r.Position),
		Age:              r.Age,
		OverallScore:     r.OverallScore,
		BaseSalary:       r.BaseSalary,
		GuaranteedSalary: guaranteed,
		UnamortizedBonus: pool,
		Incentives:       r.GameBonus,
		YearsRemaining:   years,
		Status:           status,
	}
	if err := c.Validate(); err != nil {
		return Contract{}, err
	}
	return c, nil
}

// ParseOutline builds a Ledger from the backend outline. A zero total cap in
// the payload falls back to defaultCap. Rows whose reported cap hit disagrees
// with the derived one are returned as discrepancies; the derived figure wins.
func ParseOutline(o Outline, season int, defaultCap decimal.Decimal, tagLimit int) (*Ledger, []Discrepancy, error) {
	code := o.Team.TeamShortform
	if strings.TrimSpace(code) == "" {
		return nil, nil, Validationf("outline has no team code")
	}
	if o.Team.SeasonYear != 0 {
		season = o.Team.SeasonYear
	}

	totalCap := o.Team.TotalCap
	if totalCap.IsZero() {
		totalCap = defaultCap
	}

	l := NewLedger(code, season, totalCap)
	l.TeamName = o.Team.TeamName
	l.TagsUsed = o.Team.TagsUsed
	l.TagLimit = tagLimit
	l.TeamNeeds = append([]string(nil), o.Team.TeamNeedPos...)

	var discrepancies []Discrepancy
	for _, r := range o.Players {
		if strings.TrimSpace(r.PlayerName) == "" && r.PlayerID == "" {
			continue
		}
		c, err := ParsePlayerRecord(r)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing outline for %s: %w", code, err)
		}
		if !r.CapHit.IsZero() && !r.CapHit.Equal(c.CapHit()) {
			discrepancies = append(discrepancies, Discrepancy{PlayerID: c.PlayerID, Reported: r.CapHit, Derived: c.CapHit()})
		}
		l.Contracts = append(l.Contracts, c)
	}

	// The reported dead money is the team total, Cut rows included.
	l.CarriedDeadMoney = o.Team.DeadMoney.Sub(l.Contracts.FilterByStatus(StatusCut).TotalDeadCap())
	if l.CarriedDeadMoney.IsNegative() {
		l.CarriedDeadMoney = decimal.Zero
	}

	if err := l.Validate(); err != nil {
		return nil, nil, fmt.Errorf("parsing outline for %s: %w", code, err)
	}
	return l, discrepancies, nil
}
