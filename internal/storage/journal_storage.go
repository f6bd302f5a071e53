package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

const journalFileName = "transactions.csv"

var journalHeaders = []string{
	"TransactionID", "TeamCode", "SeasonYear", "Action", "PlayerID", "PlayerName",
	"Status", "Reason", "CapSavings", "DeadMoneyDelta", "SpaceAfter", "CapViolation",
	"RequestedBy", "RecordedAt",
}

// JournalStorage appends commit outcomes to a CSV file
type JournalStorage struct {
	mu       sync.RWMutex
	filePath string
}

// NewJournalStorage opens the journal in dir, creating it if needed
func NewJournalStorage(dir string) (*JournalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	js := &JournalStorage{
		filePath: filepath.Join(dir, journalFileName),
	}

	if _, err := os.Stat(js.filePath); os.IsNotExist(err) {
		if err := js.createFile(); err != nil {
			return nil, err
		}
	}

	return js, nil
}

func (js *JournalStorage) createFile() error {
	file, err := os.Create(js.filePath)
	if err != nil {
		return fmt.Errorf("failed to create journal file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(journalHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	writer.Flush()

	return writer.Error()
}

// Record appends entries to the journal
func (js *JournalStorage) Record(entries ...models.JournalEntry) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	file, err := os.OpenFile(js.filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, e := range entries {
		record := []string{
			e.TransactionID,
			e.TeamCode,
			strconv.Itoa(e.SeasonYear),
			string(e.Action),
			e.PlayerID,
			e.PlayerName,
			string(e.Status),
			e.Reason,
			e.CapSavings.String(),
			e.DeadMoneyDelta.String(),
			e.SpaceAfter.String(),
			strconv.FormatBool(e.CapViolation),
			e.RequestedBy,
			e.RecordedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write journal record: %w", err)
		}
	}
	writer.Flush()

	return writer.Error()
}

// All returns every entry in the order it was recorded
func (js *JournalStorage) All() ([]models.JournalEntry, error) {
	js.mu.RLock()
	defer js.mu.RUnlock()

	file, err := os.Open(js.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	var entries []models.JournalEntry
	// Skip header row
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(journalHeaders) {
			continue
		}

		recordedAt, err := time.Parse(time.RFC3339, record[13])
		if err != nil {
			continue
		}
		season, _ := strconv.Atoi(record[2])
		violation, _ := strconv.ParseBool(record[11])

		entries = append(entries, models.JournalEntry{
			TransactionID:  record[0],
			TeamCode:       record[1],
			SeasonYear:     season,
			Action:         models.ActionKind(record[3]),
			PlayerID:       record[4],
			PlayerName:     record[5],
			Status:         models.ActionStatus(record[6]),
			Reason:         record[7],
			CapSavings:     parseDecimal(record[8]),
			DeadMoneyDelta: parseDecimal(record[9]),
			SpaceAfter:     parseDecimal(record[10]),
			CapViolation:   violation,
			RequestedBy:    record[12],
			RecordedAt:     recordedAt,
		})
	}

	return entries, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ForTeam returns a team's entries, newest first, at most limit of them (0 for all)
func (js *JournalStorage) ForTeam(team string, limit int) ([]models.JournalEntry, error) {
	all, err := js.All()
	if err != nil {
		return nil, err
	}

	entries := GroupByTeam(all)[strings.ToUpper(team)]
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// IDs returns a set of all recorded transaction IDs for quick lookup
func (js *JournalStorage) IDs() (map[string]bool, error) {
	all, err := js.All()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(all))
	for _, e := range all {
		ids[e.TransactionID] = true
	}
	return ids, nil
}

// GroupByAction groups entries by action kind
func GroupByAction(entries []models.JournalEntry) map[models.ActionKind][]models.JournalEntry {
	groups := make(map[models.ActionKind][]models.JournalEntry)
	for _, e := range entries {
		groups[e.Action] = append(groups[e.Action], e)
	}
	return groups
}

// GroupByTeam groups entries by upper-cased team code
func GroupByTeam(entries []models.JournalEntry) map[string][]models.JournalEntry {
	groups := make(map[string][]models.JournalEntry)
	for _, e := range entries {
		team := strings.ToUpper(e.TeamCode)
		groups[team] = append(groups[team], e)
	}
	return groups
}
