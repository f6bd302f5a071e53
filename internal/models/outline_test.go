package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

const outlineJSON = `{
  "team": {
    "team_shortform": "KC",
    "team_name": "Kansas City Chiefs",
    "total_cap": 224800000,
    "top_51": 200000000,
    "team_cap_space": 24800000,
    "dead_money": 1500000,
    "team_need_pos": ["CB", "WR"]
  },
  "players": [
    {"player_name": "Quinn Arm", "position": "QB", "age": 29, "cap_hit": 35000000,
     "base_salary": 30000000, "signing_bonus": 5000000, "game_bonus": 0, "dead_cap": 20000000,
     "years_remaining": 4},
    {"player_id": "te-87", "player_name": "Tight End", "position": "TE", "age": 34, "cap_hit": 9999999,
     "base_salary": 8000000, "signing_bonus": 1000000, "game_bonus": 500000, "dead_cap": 4000000},
    {"player_name": "Run Back", "position": "RB", "age": 27, "cap_hit": 0,
     "base_salary": 0, "signing_bonus": 0, "game_bonus": 0, "dead_cap": 0, "years_remaining": 0}
  ]
}`

func TestParseOutline(t *testing.T) {
	var o Outline
	if err := json.Unmarshal([]byte(outlineJSON), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	l, discrepancies, err := ParseOutline(o, 2025, decimal.NewFromInt(1), 1)
	if err != nil {
		t.Fatalf("ParseOutline() error = %v", err)
	}

	if l.TeamCode != "KC" || l.SeasonYear != 2025 || len(l.Contracts) != 3 {
		t.Fatalf("unexpected ledger header: %+v", l)
	}
	if !l.TotalCap.Equal(decimal.NewFromInt(224_800_000)) {
		t.Errorf("TotalCap = %s", l.TotalCap)
	}
	if !l.CarriedDeadMoney.Equal(decimal.NewFromInt(1_500_000)) {
		t.Errorf("CarriedDeadMoney = %s", l.CarriedDeadMoney)
	}

	qb := l.Contracts[0]
	if qb.PlayerID != "quinn-arm" {
		t.Errorf("qb id = %q, want slug", qb.PlayerID)
	}
	if !qb.UnamortizedBonus.Equal(decimal.NewFromInt(20_000_000)) || !qb.GuaranteedSalary.IsZero() {
		t.Errorf("qb pool/guarantee = %s/%s", qb.UnamortizedBonus, qb.GuaranteedSalary)
	}
	if !qb.CapHit().Equal(decimal.NewFromInt(35_000_000)) {
		t.Errorf("qb cap hit = %s", qb.CapHit())
	}

	te := l.Contracts[1]
	if te.YearsRemaining != 1 {
		t.Errorf("te years = %d, want default 1", te.YearsRemaining)
	}
	// dead cap 4M = pool 1M + 3M guaranteed
	if !te.GuaranteedSalary.Equal(decimal.NewFromInt(3_000_000)) {
		t.Errorf("te guarantee = %s, want 3M", te.GuaranteedSalary)
	}

	if len(discrepancies) != 1 || discrepancies[0].PlayerID != "te-87" {
		t.Fatalf("discrepancies = %+v, want one for te-87", discrepancies)
	}
	if !discrepancies[0].Derived.Equal(decimal.NewFromInt(9_500_000)) {
		t.Errorf("derived = %s, want 9.5M", discrepancies[0].Derived)
	}

	if l.Contracts[2].YearsRemaining != 0 {
		t.Errorf("rb years = %d, want 0", l.Contracts[2].YearsRemaining)
	}
}

func TestParseOutlineDefaultsCap(t *testing.T) {
	o := Outline{Team: TeamRecord{TeamShortform: "buf"}}

	l, _, err := ParseOutline(o, 2025, decimal.NewFromInt(255_400_000), 1)
	if err != nil {
		t.Fatalf("ParseOutline() error = %v", err)
	}
	if !l.TotalCap.Equal(decimal.NewFromInt(255_400_000)) || l.TeamCode != "BUF" {
		t.Errorf("ledger = %+v", l)
	}
}

func TestParseOutlineRejectsBadRows(t *testing.T) {
	o := Outline{
		Team:    TeamRecord{TeamShortform: "KC"},
		Players: []PlayerRecord{{PlayerName: "Neg", BaseSalary: decimal.NewFromInt(-5)}},
	}
	if _, _, err := ParseOutline(o, 2025, decimal.NewFromInt(1), 1); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseOutline() error = %v, want ValidationError", err)
	}

	if _, _, err := ParseOutline(Outline{}, 2025, decimal.NewFromInt(1), 1); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseOutline() without code error = %v, want ValidationError", err)
	}
}

func TestPlayerSlug(t *testing.T) {
	if got := PlayerSlug("  Patrick Mahomes II "); got != "patrick-mahomes-ii" {
		t.Errorf("PlayerSlug() = %q", got)
	}
	if got := PlayerSlug("Ja'Marr Chase"); got != "ja-marr-chase" {
		t.Errorf("PlayerSlug() = %q", got)
	}
}

func TestParseOutlineDeadMoneyIncludesCutRows(t *testing.T) {
	three := 3
	cutRow := PlayerRecord{
		PlayerID: "lb1", PlayerName: "Nick Bolton", Position: "LB", Status: "Cut",
		BaseSalary: decimal.NewFromInt(8_000_000), SigningBonus: decimal.NewFromInt(2_000_000),
		DeadCap: decimal.NewFromInt(6_000_000), YearsRemaining: &three,
	}

	tests := []struct {
		name        string
		reported    int64
		wantCarried int64
		wantDead    int64
	}{
		{"total equals cut rows", 6_000_000, 0, 6_000_000},
		{"total above cut rows", 7_500_000, 1_500_000, 7_500_000},
		{"total below cut rows", 2_000_000, 0, 6_000_000},
	}
	for _, tt := range tests {
		o := Outline{
			Team:    TeamRecord{TeamShortform: "KC", TotalCap: decimal.NewFromInt(224_800_000), DeadMoney: decimal.NewFromInt(tt.reported)},
			Players: []PlayerRecord{cutRow},
		}
		l, _, err := ParseOutline(o, 2025, decimal.Zero, 1)
		if err != nil {
			t.Fatalf("%s: ParseOutline() error = %v", tt.name, err)
		}
		if !l.CarriedDeadMoney.Equal(decimal.NewFromInt(tt.wantCarried)) {
			t.Errorf("%s: CarriedDeadMoney = %s", tt.name, l.CarriedDeadMoney)
		}
		if !l.DeadMoney().Equal(decimal.NewFromInt(tt.wantDead)) {
			t.Errorf("%s: DeadMoney = %s", tt.name, l.DeadMoney())
		}
		wantSpace := decimal.NewFromInt(224_800_000 - tt.wantDead)
		if !l.SpaceAvailable().Equal(wantSpace) {
			t.Errorf("%s: SpaceAvailable = %s, want %s", tt.name, l.SpaceAvailable(), wantSpace)
		}
	}
}

func TestSnapshotReloadsExactly(t *testing.T) {
	l := NewLedger("KC", 2025, decimal.NewFromInt(224_800_000))
	l.Contracts = ContractList{
		{PlayerID: "qb1", PlayerName: "Patrick Mahomes", Position: "QB", BaseSalary: decimal.NewFromInt(5_000_000),
			UnamortizedBonus: decimal.NewFromInt(10_000_000), YearsRemaining: 3, Status: StatusActive},
		{PlayerID: "lb1", PlayerName: "Nick Bolton", Position: "LB", BaseSalary: decimal.NewFromInt(8_000_000),
			GuaranteedSalary: decimal.NewFromInt(2_000_000), UnamortizedBonus: decimal.NewFromInt(7_000_000), YearsRemaining: 3, Status: StatusCut},
	}
	l.CarriedDeadMoney = decimal.NewFromInt(1_000_000)

	raw, err := json.Marshal(l.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var snap struct {
		TeamRecord
		Players []PlayerRecord `json:"players"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatal(err)
	}

	reloaded, _, err := ParseOutline(Outline{Team: snap.TeamRecord, Players: snap.Players}, 2025, decimal.Zero, 1)
	if err != nil {
		t.Fatalf("ParseOutline() error = %v", err)
	}
	for i, want := range l.Contracts {
		got := reloaded.Contracts[i]
		if !got.UnamortizedBonus.Equal(want.UnamortizedBonus) || !got.GuaranteedSalary.Equal(want.GuaranteedSalary) {
			t.Errorf("%s: pool/guarantee = %s/%s, want %s/%s", want.PlayerID,
				got.UnamortizedBonus, got.GuaranteedSalary, want.UnamortizedBonus, want.GuaranteedSalary)
		}
	}
	if !reloaded.DeadMoney().Equal(l.DeadMoney()) || !reloaded.SpaceAvailable().Equal(l.SpaceAvailable()) {
		t.Errorf("dead/space = %s/%s, want %s/%s", reloaded.DeadMoney(), reloaded.SpaceAvailable(), l.DeadMoney(), l.SpaceAvailable())
	}
}
