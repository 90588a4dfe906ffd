package bot

import (
	"log"
	"sync/atomic"
	"time"

	"globalchat-bot/globalchat"
	"globalchat-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	Engine             *globalchat.Engine
	Sessions           *globalchat.SessionManager
	DB                 *sqlx.DB

	trackerPruneTicker *time.Ticker
	cooldownTicker     *time.Ticker
	sessionSweepTicker *time.Ticker
	done               chan struct{}
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func New(cfg *model.Config, db *sqlx.DB, store globalchat.Store) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions | discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	registry, err := globalchat.NewRegistry(store)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		Session: dg,
		DB:      db,
		done:    make(chan struct{}),
	}
	b.config.Store(cfg)

	cooldown := time.Duration(cfg.RelayCooldownSeconds) * time.Second
	b.Engine = globalchat.NewEngine(
		registry,
		globalchat.NewTracker(),
		NewWebhookPoster(dg),
		&DMNotifier{Session: dg},
		&GuildResolver{Session: dg},
		cooldown,
	)
	b.Sessions = globalchat.NewSessionManager(b.Engine)
	return b, nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	close(b.done)

	if b.trackerPruneTicker != nil {
		b.trackerPruneTicker.Stop()
	}
	if b.cooldownTicker != nil {
		b.cooldownTicker.Stop()
	}
	if b.sessionSweepTicker != nil {
		b.sessionSweepTicker.Stop()
	}
	b.Session.Close()
}

// GuildResolver resolves community names through the session state.
type GuildResolver struct {
	Session *discordgo.Session
}

func (r *GuildResolver) CommunityName(communityID string) string {
	if g, err := r.Session.State.Guild(communityID); err == nil && g.Name != "" {
		return g.Name
	}
	if g, err := r.Session.Guild(communityID); err == nil {
		return g.Name
	}
	return communityID
}
