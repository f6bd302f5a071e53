package capengine

import (
	"errors"
	"strings"
	"testing"

	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

func m(millions float64) decimal.Decimal {
	return decimal.NewFromFloat(millions).Mul(decimal.NewFromInt(1_000_000))
}

func frac(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTeam returns a 224.8M ledger with a starter whose cap hit is 10M and dead cap 6M,
// an expiring receiver and a veteran corner with guaranteed salary.
func newTeam() *models.Ledger {
	l := models.NewLedger("KC", 2025, m(224.8))
	l.TeamNeeds = []string{"CB"}
	l.Contracts = models.ContractList{
		{PlayerID: "lb1", PlayerName: "Nick Bolton", Position: "LB", BaseSalary: m(8), UnamortizedBonus: m(6), YearsRemaining: 3, Status: models.StatusActive},
		{PlayerID: "wr1", PlayerName: "Rashee Rice", Position: "WR", YearsRemaining: 0, Status: models.StatusExpired},
		{PlayerID: "wr2", PlayerName: "Skyy Moore", Position: "WR", YearsRemaining: 0, Status: models.StatusExpired},
		{PlayerID: "cb1", PlayerName: "Trent McDuffie", Position: "CB", BaseSalary: m(12), GuaranteedSalary: m(9), UnamortizedBonus: m(4), YearsRemaining: 2, Status: models.StatusActive},
	}
	return l
}

func assertLedgerIdentity(t *testing.T, l *models.Ledger) {
	t.Helper()
	want := l.TotalCap.Sub(l.Committed()).Sub(l.DeadMoney())
	if !l.SpaceAvailable().Equal(want) {
		t.Errorf("space %s != total - committed - dead money (%s)", l.SpaceAvailable(), want)
	}
	for _, c := range l.Contracts {
		sum := c.BaseSalary.Add(c.ProratedBonus()).Add(c.Incentives)
		if !c.CapHit().Equal(sum) {
			t.Errorf("%s cap hit %s drifted from components %s", c.PlayerID, c.CapHit(), sum)
		}
		if c.CapHit().IsNegative() || c.DeadCap().IsNegative() {
			t.Errorf("%s has negative cap hit or dead cap", c.PlayerID)
		}
	}
}

func TestCutExample(t *testing.T) {
	l := newTeam()
	committedBefore := l.Committed()
	deadBefore := l.DeadMoney()

	next, impact, err := Apply(l, Action{Kind: models.ActionCut, PlayerID: "lb1"})
	if err != nil {
		t.Fatalf("Apply(Cut) error = %v", err)
	}

	if got := deadBefore.Add(m(6)); !next.DeadMoney().Equal(got) {
		t.Errorf("dead money = %s, want %s", next.DeadMoney(), got)
	}
	if got := committedBefore.Sub(m(10)); !next.Committed().Equal(got) {
		t.Errorf("committed = %s, want %s", next.Committed(), got)
	}
	if !impact.CapSavings.Equal(m(4)) {
		t.Errorf("cap savings = %s, want 4M", impact.CapSavings)
	}
	if !impact.DeadCapDelta.Equal(m(6)) || !impact.DeadMoneyDelta.Equal(m(6)) {
		t.Errorf("dead deltas = %s/%s, want 6M", impact.DeadCapDelta, impact.DeadMoneyDelta)
	}
	if _, c, _ := next.Find("lb1"); c.Status != models.StatusCut {
		t.Errorf("status = %s, want Cut", c.Status)
	}
	assertLedgerIdentity(t, next)

	// input untouched
	if _, c, _ := l.Find("lb1"); c.Status != models.StatusActive {
		t.Error("Apply mutated its input ledger")
	}
}

func TestCutCanCostMoreThanItSaves(t *testing.T) {
	l := newTeam()

	_, impact, err := Apply(l, Action{Kind: models.ActionCut, PlayerID: "cb1"})
	if err != nil {
		t.Fatalf("Apply(Cut) error = %v", err)
	}
	// cap hit 12 + 2 = 14, dead cap 4 + 9 = 13
	if !impact.CapSavings.Equal(m(1)) {
		t.Errorf("cap savings = %s, want 1M", impact.CapSavings)
	}

	l.Contracts[3].GuaranteedSalary = m(12)
	_, impact, err = Apply(l, Action{Kind: models.ActionCut, PlayerID: "cb1"})
	if err != nil {
		t.Fatalf("Apply(Cut) error = %v", err)
	}
	if !impact.CapSavings.Equal(m(-2)) {
		t.Errorf("cap savings = %s, want -2M", impact.CapSavings)
	}
}

func TestCutTwiceIsPreconditionFailure(t *testing.T) {
	l := newTeam()
	once, _, err := Apply(l, Action{Kind: models.ActionCut, PlayerID: "lb1"})
	if err != nil {
		t.Fatalf("first cut: %v", err)
	}

	twice, _, err := Apply(once, Action{Kind: models.ActionCut, PlayerID: "lb1"})
	if !errors.Is(err, models.ErrPrecondition) {
		t.Fatalf("second cut error = %v, want PreconditionFailed", err)
	}
	if twice != once {
		t.Error("failed Apply should hand back the input ledger")
	}
	if !once.DeadMoney().Equal(m(6)) {
		t.Errorf("dead money = %s, want 6M (not double counted)", once.DeadMoney())
	}
}

func TestCutUnknownPlayer(t *testing.T) {
	_, _, err := Apply(newTeam(), Action{Kind: models.ActionCut, PlayerID: "nobody"})
	if !errors.Is(err, models.ErrPrecondition) {
		t.Errorf("error = %v, want PreconditionFailed", err)
	}
	if !strings.Contains(models.ReasonOf(err), "nobody") {
		t.Errorf("reason %q should name the player", models.ReasonOf(err))
	}
}

func TestRestructure(t *testing.T) {
	l := newTeam()

	next, impact, err := Apply(l, Action{Kind: models.ActionRestructure, PlayerID: "lb1", ConvertFraction: frac("0.5")})
	if err != nil {
		t.Fatalf("Apply(Restructure) error = %v", err)
	}
	_, c, _ := next.Find("lb1")

	// 4M converted over 3 years: base 4M, pool 10M, proration 3333333.33
	if !c.BaseSalary.Equal(m(4)) || !c.UnamortizedBonus.Equal(m(10)) {
		t.Errorf("base/pool = %s/%s", c.BaseSalary, c.UnamortizedBonus)
	}
	wantSavings := m(10).Sub(c.CapHit())
	if !impact.CapSavings.Equal(wantSavings) {
		t.Errorf("cap savings = %s, want %s", impact.CapSavings, wantSavings)
	}
	if !impact.DeadCapDelta.Equal(m(4)) {
		t.Errorf("dead cap delta = %s, want full converted 4M", impact.DeadCapDelta)
	}
	if !impact.DeadMoneyDelta.IsZero() {
		t.Errorf("restructure should not realise dead money, got %s", impact.DeadMoneyDelta)
	}
	assertLedgerIdentity(t, next)
}

func TestRestructureNeverLowersDeadCap(t *testing.T) {
	fractions := []string{"0.01", "0.25", "0.5", "0.75", "1"}
	for _, f := range fractions {
		for _, id := range []string{"lb1", "cb1"} {
			l := newTeam()
			_, before, _ := l.Find(id)

			next, impact, err := Apply(l, Action{Kind: models.ActionRestructure, PlayerID: id, ConvertFraction: frac(f)})
			if err != nil {
				t.Fatalf("restructure %s by %s: %v", id, f, err)
			}
			_, after, _ := next.Find(id)

			if after.DeadCap().LessThan(before.DeadCap()) {
				t.Errorf("%s by %s: dead cap fell from %s to %s", id, f, before.DeadCap(), after.DeadCap())
			}
			if impact.DeadCapDelta.IsNegative() {
				t.Errorf("%s by %s: negative dead cap delta %s", id, f, impact.DeadCapDelta)
			}
			if after.CapHit().GreaterThan(before.CapHit()) {
				t.Errorf("%s by %s: cap hit rose from %s to %s", id, f, before.CapHit(), after.CapHit())
			}
			assertLedgerIdentity(t, next)
		}
	}
}

// Converting guaranteed base moves that guarantee into the bonus pool, so the
// contract's dead cap holds steady rather than growing by the converted amount.
func TestRestructureGuaranteedBase(t *testing.T) {
	l := newTeam()
	l.Contracts = append(l.Contracts, models.Contract{
		PlayerID: "dt1", PlayerName: "Chris Jones", Position: "DT",
		BaseSalary: m(5), GuaranteedSalary: m(5), YearsRemaining: 2, Status: models.StatusActive,
	})

	for _, f := range []string{"0.5", "1"} {
		next, impact, err := Apply(l, Action{Kind: models.ActionRestructure, PlayerID: "dt1", ConvertFraction: frac(f)})
		if err != nil {
			t.Fatalf("restructure by %s: %v", f, err)
		}
		_, c, _ := next.Find("dt1")
		if !c.GuaranteedSalary.Equal(c.BaseSalary) {
			t.Errorf("by %s: guarantee %s should be capped at base %s", f, c.GuaranteedSalary, c.BaseSalary)
		}
		if !c.DeadCap().Equal(m(5)) || !impact.DeadCapDelta.IsZero() {
			t.Errorf("by %s: dead cap = %s delta = %s, want 5M and 0", f, c.DeadCap(), impact.DeadCapDelta)
		}
		assertLedgerIdentity(t, next)
	}

	// The same conversion on unguaranteed base adds the full amount.
	_, impact, err := Apply(l, Action{Kind: models.ActionRestructure, PlayerID: "lb1", ConvertFraction: frac("1")})
	if err != nil {
		t.Fatal(err)
	}
	if !impact.DeadCapDelta.Equal(m(8)) {
		t.Errorf("lb1 dead cap delta = %s, want 8M", impact.DeadCapDelta)
	}
}

func TestTagUnknownPlayerIsPrecondition(t *testing.T) {
	l := newTeam()
	_, _, err := Apply(l, Action{Kind: models.ActionTagFranchise, PlayerID: "ghost"})
	if !errors.Is(err, models.ErrPrecondition) {
		t.Errorf("error = %v, want PreconditionFailed", err)
	}
	if _, _, err := Apply(l, Action{Kind: models.ActionTagFranchise, PlayerID: "wr1"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("zero cost error = %v, want ValidationError", err)
	}
}

func TestRestructurePreconditions(t *testing.T) {
	l := newTeam()

	cases := []struct {
		name string
		a    Action
		want error
	}{
		{"zero fraction", Action{Kind: models.ActionRestructure, PlayerID: "lb1", ConvertFraction: decimal.Zero}, models.ErrValidation},
		{"over one", Action{Kind: models.ActionRestructure, PlayerID: "lb1", ConvertFraction: frac("1.5")}, models.ErrValidation},
		{"expired", Action{Kind: models.ActionRestructure, PlayerID: "wr1", ConvertFraction: frac("0.5")}, models.ErrPrecondition},
		{"unknown", Action{Kind: models.ActionRestructure, PlayerID: "zz", ConvertFraction: frac("0.5")}, models.ErrPrecondition},
	}
	for _, tc := range cases {
		if _, _, err := Apply(l, tc.a); !errors.Is(err, tc.want) {
			t.Errorf("%s: error = %v, want %v", tc.name, err, tc.want)
		}
	}

	cut, _, _ := Apply(l, Action{Kind: models.ActionCut, PlayerID: "lb1"})
	if _, _, err := Apply(cut, Action{Kind: models.ActionRestructure, PlayerID: "lb1", ConvertFraction: frac("0.5")}); !errors.Is(err, models.ErrPrecondition) {
		t.Errorf("restructure after cut error = %v, want PreconditionFailed", err)
	}
}

func TestSignOverTheCapIsFlagged(t *testing.T) {
	l := newTeam()
	fa, err := models.NewContract("qb9", "Big Arm", "QB", models.Terms{BaseSalary: m(250), Years: 2})
	if err != nil {
		t.Fatal(err)
	}

	next, impact, err := Apply(l, Action{Kind: models.ActionSign, FreeAgent: &fa})
	if err != nil {
		t.Fatalf("Apply(Sign) error = %v", err)
	}
	if !impact.CapViolation || !next.OverCap() {
		t.Error("signing over the cap should be allowed and flagged")
	}
	if !impact.CommittedDelta.Equal(m(250)) {
		t.Errorf("committed delta = %s, want 250M", impact.CommittedDelta)
	}
	assertLedgerIdentity(t, next)
}

func TestSignRejectsRosteredPlayer(t *testing.T) {
	l := newTeam()
	fa := models.Contract{PlayerID: "lb1", BaseSalary: m(1), YearsRemaining: 1}

	if _, _, err := Apply(l, Action{Kind: models.ActionSign, FreeAgent: &fa}); !errors.Is(err, models.ErrPrecondition) {
		t.Errorf("error = %v, want PreconditionFailed", err)
	}

	// once cut, the same player can come back on a new deal
	cut, _, _ := Apply(l, Action{Kind: models.ActionCut, PlayerID: "lb1"})
	next, _, err := Apply(cut, Action{Kind: models.ActionSign, FreeAgent: &fa})
	if err != nil {
		t.Fatalf("re-signing a cut player: %v", err)
	}
	if !next.DeadMoney().Equal(m(6)) {
		t.Errorf("dead money = %s, the old dead cap must stay", next.DeadMoney())
	}
}

func TestSignValidation(t *testing.T) {
	l := newTeam()
	if _, _, err := Apply(l, Action{Kind: models.ActionSign}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing contract error = %v, want ValidationError", err)
	}
	neg := models.Contract{PlayerID: "x", BaseSalary: m(-1), YearsRemaining: 1}
	if _, _, err := Apply(l, Action{Kind: models.ActionSign, FreeAgent: &neg}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("negative salary error = %v, want ValidationError", err)
	}
	zero := models.Contract{PlayerID: "x", BaseSalary: m(1)}
	if _, _, err := Apply(l, Action{Kind: models.ActionSign, FreeAgent: &zero}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("zero years error = %v, want ValidationError", err)
	}
}

func TestTagExample(t *testing.T) {
	l := newTeam()
	committedBefore := l.Committed()

	next, impact, err := Apply(l, Action{Kind: models.ActionTagFranchise, PlayerID: "wr1", TagCost: m(25)})
	if err != nil {
		t.Fatalf("Apply(Tag) error = %v", err)
	}
	if !next.Committed().Equal(committedBefore.Add(m(25))) {
		t.Errorf("committed = %s, want +25M", next.Committed())
	}
	if !impact.CommittedDelta.Equal(m(25)) {
		t.Errorf("committed delta = %s", impact.CommittedDelta)
	}
	if next.TagsUsed != 1 {
		t.Errorf("tags used = %d, want 1", next.TagsUsed)
	}
	_, c, _ := next.Find("wr1")
	if c.Status != models.StatusFranchiseTagged || c.YearsRemaining != 1 || !c.CapHit().Equal(m(25)) {
		t.Errorf("tagged contract = %+v", c)
	}

	// one tag per season regardless of kind
	_, _, err = Apply(next, Action{Kind: models.ActionTagTransition, PlayerID: "wr2", TagCost: m(20)})
	if !errors.Is(err, models.ErrPrecondition) {
		t.Errorf("second tag error = %v, want PreconditionFailed", err)
	}
	// re-tagging the same player is caught before the counter
	_, _, err = Apply(next, Action{Kind: models.ActionTagFranchise, PlayerID: "wr1", TagCost: m(25)})
	if !errors.Is(err, models.ErrPrecondition) {
		t.Errorf("re-tag error = %v, want PreconditionFailed", err)
	}
	assertLedgerIdentity(t, next)
}

func TestTagRequiresExpiringContract(t *testing.T) {
	l := newTeam()
	if _, _, err := Apply(l, Action{Kind: models.ActionTagFranchise, PlayerID: "lb1", TagCost: m(25)}); !errors.Is(err, models.ErrPrecondition) {
		t.Errorf("error = %v, want PreconditionFailed", err)
	}
	if _, _, err := Apply(l, Action{Kind: models.ActionTagFranchise, PlayerID: "wr1"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing tag cost error = %v, want ValidationError", err)
	}
}

func TestTagLimitIsConfigurable(t *testing.T) {
	l := newTeam()
	l.TagLimit = 2

	once, _, err := Apply(l, Action{Kind: models.ActionTagFranchise, PlayerID: "wr1", TagCost: m(25)})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Apply(once, Action{Kind: models.ActionTagTransition, PlayerID: "wr2", TagCost: m(20)}); err != nil {
		t.Errorf("second tag with limit 2: %v", err)
	}
}

func TestResign(t *testing.T) {
	l := newTeam()

	terms := models.Terms{BaseSalary: m(5), SigningBonus: m(10), GuaranteedSalary: m(2), Years: 4}
	next, impact, err := Apply(l, Action{Kind: models.ActionResign, PlayerID: "lb1", Terms: terms})
	if err != nil {
		t.Fatalf("Apply(Resign) error = %v", err)
	}
	_, c, _ := next.Find("lb1")
	// old pool 6M + new 10M over 4 years = 4M a year
	if !c.UnamortizedBonus.Equal(m(16)) || !c.ProratedBonus().Equal(m(4)) || c.YearsRemaining != 4 {
		t.Errorf("extended contract = %+v", c)
	}
	if !impact.CommittedDelta.Equal(m(-1)) {
		t.Errorf("committed delta = %s, want -1M", impact.CommittedDelta)
	}
	if !impact.DeadCapDelta.Equal(m(12)) {
		t.Errorf("dead cap delta = %s, want 12M", impact.DeadCapDelta)
	}

	// expiring player comes back
	if _, _, err := Apply(l, Action{Kind: models.ActionResign, PlayerID: "wr1", Terms: models.Terms{BaseSalary: m(3), Years: 2}}); err != nil {
		t.Errorf("re-signing expiring player: %v", err)
	}
	// a shorter deal is not an extension
	if _, _, err := Apply(l, Action{Kind: models.ActionResign, PlayerID: "lb1", Terms: models.Terms{BaseSalary: m(3), Years: 2}}); !errors.Is(err, models.ErrPrecondition) {
		t.Errorf("shorter deal error = %v, want PreconditionFailed", err)
	}
	// bad terms
	if _, _, err := Apply(l, Action{Kind: models.ActionResign, PlayerID: "lb1", Terms: models.Terms{BaseSalary: m(-3), Years: 4}}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("negative base error = %v, want ValidationError", err)
	}
}

func TestUnknownAction(t *testing.T) {
	if _, _, err := Apply(newTeam(), Action{Kind: "Trade", PlayerID: "lb1"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("error = %v, want ValidationError", err)
	}
	if _, _, err := Apply(nil, Action{Kind: models.ActionCut, PlayerID: "lb1"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("nil ledger error = %v, want ValidationError", err)
	}
}

func TestSpaceIdentityAcrossASequence(t *testing.T) {
	l := newTeam()
	fa := models.Contract{PlayerID: "s1", PlayerName: "Safety Net", Position: "S", BaseSalary: m(3), UnamortizedBonus: m(2), YearsRemaining: 2}

	steps := []Action{
		{Kind: models.ActionRestructure, PlayerID: "cb1", ConvertFraction: frac("0.4")},
		{Kind: models.ActionTagTransition, PlayerID: "wr1", TagCost: m(18.5)},
		{Kind: models.ActionSign, FreeAgent: &fa},
		{Kind: models.ActionCut, PlayerID: "lb1"},
		{Kind: models.ActionResign, PlayerID: "s1", Terms: models.Terms{BaseSalary: m(4), SigningBonus: m(3), Years: 3}},
	}
	for i, a := range steps {
		prev := l
		next, impact, err := Apply(l, a)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, a.Kind, err)
		}
		assertLedgerIdentity(t, next)
		if !impact.SpaceAfter.Equal(next.SpaceAvailable()) || !impact.SpaceBefore.Equal(prev.SpaceAvailable()) {
			t.Errorf("step %d: impact spaces do not match ledgers", i)
		}
		if !impact.CapSavings.Equal(impact.SpaceAfter.Sub(impact.SpaceBefore)) {
			t.Errorf("step %d: cap savings is not the change in space", i)
		}
		l = next
	}
}
