package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

func entry(id, team string, action models.ActionKind, at time.Time) models.JournalEntry {
	return models.JournalEntry{
		TransactionID:  id,
		TeamCode:       team,
		SeasonYear:     2025,
		Action:         action,
		PlayerID:       "p-" + id,
		PlayerName:     "Player, " + id,
		Status:         models.StatusCommitted,
		CapSavings:     decimal.RequireFromString("4000000"),
		DeadMoneyDelta: decimal.RequireFromString("6000000"),
		SpaceAfter:     decimal.RequireFromString("-1250000.50"),
		CapViolation:   true,
		RequestedBy:    "alice",
		RecordedAt:     at,
	}
}

func TestJournalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	js, err := NewJournalStorage(dir)
	if err != nil {
		t.Fatalf("NewJournalStorage() error = %v", err)
	}

	at := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)
	want := entry("t1", "KC", models.ActionCut, at)
	want.Reason = "over the cap, still allowed"
	if err := js.Record(want); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	all, err := js.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d entries, want 1", len(all))
	}
	got := all[0]
	if got.TransactionID != "t1" || got.PlayerName != want.PlayerName || got.Reason != want.Reason {
		t.Errorf("text fields = %+v", got)
	}
	if !got.SpaceAfter.Equal(want.SpaceAfter) || !got.CapSavings.Equal(want.CapSavings) {
		t.Errorf("money fields = %s / %s", got.SpaceAfter, got.CapSavings)
	}
	if !got.CapViolation || !got.RecordedAt.Equal(at) || got.SeasonYear != 2025 {
		t.Errorf("flags = %+v", got)
	}

	// reopening keeps existing entries
	again, err := NewJournalStorage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if all, _ := again.All(); len(all) != 1 {
		t.Errorf("reopened journal has %d entries", len(all))
	}
	if _, err := os.Stat(filepath.Join(dir, journalFileName)); err != nil {
		t.Errorf("journal file missing: %v", err)
	}
}

func TestForTeam(t *testing.T) {
	js, err := NewJournalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	err = js.Record(
		entry("a", "KC", models.ActionCut, base),
		entry("b", "BUF", models.ActionSign, base.Add(time.Hour)),
		entry("c", "kc", models.ActionTagFranchise, base.Add(2*time.Hour)),
		entry("d", "KC", models.ActionRestructure, base.Add(3*time.Hour)),
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := js.ForTeam("kc", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].TransactionID != "d" || got[1].TransactionID != "c" {
		t.Errorf("ForTeam(kc, 2) = %v", got)
	}

	ids, err := js.IDs()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 4 || !ids["b"] {
		t.Errorf("IDs() = %v", ids)
	}
}

func TestGroupByAction(t *testing.T) {
	now := time.Now()
	groups := GroupByAction([]models.JournalEntry{
		entry("a", "KC", models.ActionCut, now),
		entry("b", "KC", models.ActionCut, now),
		entry("c", "KC", models.ActionSign, now),
	})
	if len(groups[models.ActionCut]) != 2 || len(groups[models.ActionSign]) != 1 {
		t.Errorf("GroupByAction() = %v", groups)
	}
}
