package bot

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/models"
	"github.com/pmurley/capbot/pkg/logger"
)

type sentEmbed struct {
	channelID string
	embed     *discordgo.MessageEmbed
}

func testAnnouncer(lookup func(string) string, sendErr error) (*announcer, chan sentEmbed) {
	sent := make(chan sentEmbed, 8)
	a := &announcer{
		channelName: "cap-transactions",
		logger:      logger.NewWithWriter("error", io.Discard),
		lookup:      lookup,
		send: func(channelID string, embed *discordgo.MessageEmbed) error {
			sent <- sentEmbed{channelID, embed}
			return sendErr
		},
		queue:    make(chan models.JournalEntry, 2),
		stopChan: make(chan struct{}),
	}
	return a, sent
}

func TestAnnouncerPostsCommits(t *testing.T) {
	var mu sync.Mutex
	lookups := 0
	a, sent := testAnnouncer(func(name string) string {
		mu.Lock()
		defer mu.Unlock()
		lookups++
		if name != "cap-transactions" {
			return ""
		}
		return "chan-1"
	}, nil)
	a.start()
	defer a.stop()

	a.enqueue(models.JournalEntry{TransactionID: "tx-1", TeamCode: "KC", Action: models.ActionCut, PlayerName: "Nick Bolton"}, nil)
	a.enqueue(models.JournalEntry{TransactionID: "tx-2", TeamCode: "KC", Action: models.ActionSign, PlayerName: "Tee Higgins"}, nil)

	for _, want := range []string{"Nick Bolton", "Tee Higgins"} {
		select {
		case got := <-sent:
			if got.channelID != "chan-1" {
				t.Errorf("channel = %q", got.channelID)
			}
			if got.embed.Description != "**KC**: "+want {
				t.Errorf("description = %q, want %s", got.embed.Description, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no announcement for %s", want)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if lookups != 1 {
		t.Errorf("channel looked up %d times, want 1", lookups)
	}
}

func TestAnnouncerSkipsMissingChannel(t *testing.T) {
	a, sent := testAnnouncer(func(string) string { return "" }, nil)
	var buf bytes.Buffer
	a.logger = logger.NewWithWriter("error", &buf)
	a.post(models.JournalEntry{TransactionID: "tx-1"})

	select {
	case <-sent:
		t.Error("posted without a channel")
	default:
	}
	if !strings.Contains(buf.String(), "Could not find channel: cap-transactions") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestAnnouncerDropsWhenFull(t *testing.T) {
	a, _ := testAnnouncer(func(string) string { return "chan-1" }, errors.New("rate limited"))

	for i := 0; i < 5; i++ {
		a.enqueue(models.JournalEntry{TransactionID: "tx"}, nil)
	}
	if len(a.queue) != cap(a.queue) {
		t.Errorf("queue holds %d, want %d", len(a.queue), cap(a.queue))
	}
}
