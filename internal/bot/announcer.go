package bot

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/discord"
	"github.com/pmurley/capbot/internal/models"
	"github.com/pmurley/capbot/pkg/logger"
)

const announceQueueSize = 32

// announcer posts committed transactions to the transactions channel from
// its own goroutine, off the commit path.
type announcer struct {
	channelName string
	logger      *logger.Logger

	lookup func(channelName string) string
	send   func(channelID string, embed *discordgo.MessageEmbed) error

	queue    chan models.JournalEntry
	stopChan chan struct{}
	done     sync.WaitGroup

	mu        sync.Mutex
	channelID string
}

func newAnnouncer(session *discordgo.Session, channelName string, log *logger.Logger) *announcer {
	return &announcer{
		channelName: channelName,
		logger:      log,
		lookup: func(name string) string {
			return findChannelByName(session, name)
		},
		send: func(channelID string, embed *discordgo.MessageEmbed) error {
			_, err := session.ChannelMessageSendEmbed(channelID, embed)
			return err
		},
		queue:    make(chan models.JournalEntry, announceQueueSize),
		stopChan: make(chan struct{}),
	}
}

func (a *announcer) start() {
	a.done.Add(1)
	go a.loop()
}

func (a *announcer) stop() {
	close(a.stopChan)
	a.done.Wait()
}

// enqueue is registered as a commit hook. When the queue is full the
// announcement is dropped.
func (a *announcer) enqueue(entry models.JournalEntry, _ *models.Ledger) {
	select {
	case a.queue <- entry:
	default:
		a.logger.Warn("announcement queue full, dropping ", entry.TransactionID)
	}
}

func (a *announcer) loop() {
	defer a.done.Done()
	a.logger.Info("Starting transaction announcer")

	for {
		select {
		case entry := <-a.queue:
			a.post(entry)
		case <-a.stopChan:
			a.logger.Info("Stopping transaction announcer")
			return
		}
	}
}

func (a *announcer) post(entry models.JournalEntry) {
	channelID := a.channel()
	if channelID == "" {
		a.logger.Error("Could not find channel: ", a.channelName)
		return
	}

	if err := a.send(channelID, discord.TransactionEmbed(entry)); err != nil {
		a.logger.Error("Failed to post transaction to Discord: ", err)
		return
	}
	a.logger.With("team", entry.TeamCode).Info("announced ", entry.Action, " of ", entry.PlayerName)
}

func (a *announcer) channel() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.channelID == "" {
		a.channelID = a.lookup(a.channelName)
	}
	return a.channelID
}

// findChannelByName finds a text channel ID by name across the bot's guilds
func findChannelByName(session *discordgo.Session, channelName string) string {
	for _, guild := range session.State.Guilds {
		channels, err := session.GuildChannels(guild.ID)
		if err != nil {
			continue
		}

		for _, channel := range channels {
			if channel.Name == channelName && channel.Type == discordgo.ChannelTypeGuildText {
				return channel.ID
			}
		}
	}
	return ""
}
