package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/capbot/internal/api"
	"github.com/pmurley/capbot/internal/backend"
	"github.com/pmurley/capbot/internal/cache"
	"github.com/pmurley/capbot/internal/config"
	"github.com/pmurley/capbot/internal/discord"
	"github.com/pmurley/capbot/internal/frontoffice"
	"github.com/pmurley/capbot/internal/spotrac"
	"github.com/pmurley/capbot/internal/storage"
	"github.com/pmurley/capbot/internal/valuation"
	"github.com/pmurley/capbot/pkg/logger"
)

type Bot struct {
	session   *discordgo.Session
	config    *config.Config
	logger    *logger.Logger
	dataCache *cache.Cache
	desk      *frontoffice.Desk
	handlers  *discord.HandlerManager
	announcer *announcer
	api       *api.Server
}

func New(cfg *config.Config, log *logger.Logger) (*Bot, error) {
	journal, err := storage.NewJournalStorage(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction journal: %w", err)
	}

	b := &Bot{
		config:    cfg,
		logger:    log,
		dataCache: cache.New(cfg.CacheDuration, cfg.ProposalTTL),
	}

	b.desk = frontoffice.NewDesk(
		backend.NewClient(cfg.BackendURL),
		b.dataCache,
		journal,
		valuation.NewPerPoint(cfg.FAValuePerPoint, cfg.TagCostPerPoint),
		log,
		frontoffice.Options{SeasonYear: cfg.SeasonYear, SalaryCap: cfg.SalaryCap, TagLimit: cfg.TagLimit},
	)

	if cfg.DiscordToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}

		// Set intents - we need these for DMs and message content
		session.Identify.Intents = discordgo.IntentsGuildMessages |
			discordgo.IntentsDirectMessages |
			discordgo.IntentsDirectMessageReactions |
			discordgo.IntentsMessageContent

		b.session = session
		b.handlers = discord.NewHandlerManager(session, cfg, log, b.desk, spotrac.NewClient())
		b.announcer = newAnnouncer(session, cfg.TransactionsChannel, log)
		b.desk.OnCommit(b.announcer.enqueue)
	}

	if cfg.APIAddr != "" {
		b.api = api.NewServer(b.desk, log)
	}

	return b, nil
}

func (b *Bot) Start() error {
	if b.session != nil {
		b.handlers.RegisterHandlers()

		if err := b.session.Open(); err != nil {
			return fmt.Errorf("failed to open Discord session: %w", err)
		}
		b.announcer.start()
	}

	if b.api != nil {
		go func() {
			if err := b.api.ListenAndServe(b.config.APIAddr); err != nil {
				b.logger.Error("API server stopped: ", err)
			}
		}()
	}

	return nil
}

func (b *Bot) Stop() error {
	if b.api != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.api.Shutdown(ctx); err != nil {
			b.logger.Error("API shutdown: ", err)
		}
	}
	if b.session == nil {
		return nil
	}
	b.announcer.stop()
	return b.session.Close()
}
