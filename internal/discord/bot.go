package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/matiasvelizb/pepe-grillo/internal/bot"
	"github.com/matiasvelizb/pepe-grillo/internal/command"
	"github.com/matiasvelizb/pepe-grillo/internal/command/core"
	"github.com/matiasvelizb/pepe-grillo/internal/command/sound"
	"github.com/matiasvelizb/pepe-grillo/internal/config"
	"github.com/matiasvelizb/pepe-grillo/internal/downloader"
	"github.com/matiasvelizb/pepe-grillo/internal/fetcher"
	"github.com/matiasvelizb/pepe-grillo/internal/playback"
	"github.com/matiasvelizb/pepe-grillo/internal/scraper"
	"github.com/matiasvelizb/pepe-grillo/internal/soundcache"
	"github.com/matiasvelizb/pepe-grillo/internal/storage"
	"github.com/matiasvelizb/pepe-grillo/internal/voice"
)

// Bot is a Discord bot
type Bot struct {
	dg      *discordgo.Session
	storage *storage.Storage
	cache   *soundcache.Cache
	cfg     *config.Config
	voice   *voice.Session
}

// StartBot starts the Discord bot
func StartBot(ctx context.Context, cfg *config.Config, storage *storage.Storage, cache *soundcache.Cache) error {
	b := &Bot{
		cfg:     cfg,
		storage: storage,
		cache:   cache,
	}
	if err := b.run(ctx, cfg.DiscordToken); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

// run starts the Discord bot
func (b *Bot) run(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg

	b.configureIntents()

	b.voice = voice.NewSession(voice.NewDiscordTransport(dg), nil, voice.Options{
		JoinTimeout:     b.cfg.JoinTimeout,
		ReconnectWindow: b.cfg.ReconnectWindow,
		IdleTimeout:     b.cfg.IdleTimeout,
		TempDir:         b.cfg.TempDir,
	})
	b.registerSoundCommands()

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received, cleaning up")
	return nil
}

// configureIntents configures the Discord intents
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
}

// registerSoundCommands builds the playback stack and registers every
// command with the shared registry.
func (b *Bot) registerSoundCommands() {
	deps := sound.Deps{
		Bot:         b,
		Scraper:     scraper.New(),
		Store:       b.storage,
		Cache:       b.cache,
		Coordinator: playback.New(fetcher.New(b.cache, downloader.New()), b.voice),
		Voice:       b.voice,
	}

	for _, cmd := range []command.Command{
		&sound.AddCommand{Deps: deps},
		&sound.PlayCommand{Deps: deps},
		&sound.ListCommand{Deps: deps},
		&sound.RemoveCommand{Deps: deps},
		&sound.StopCommand{Deps: deps},
		&core.PingCommand{},
	} {
		command.RegisterCommand(cmd, command.WithGuildOnly(), command.WithCommandLogger())
	}
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Warn().Err(err).Msg("Error retrieving bot user")
		return
	}

	for _, g := range r.Guilds {
		if b.cfg.InitSlashCommands {
			if err := b.registerCommands(g.ID); err != nil {
				log.Error().Err(err).Str("guild_id", g.ID).Msg("Error registering slash commands")
			}
		} else {
			log.Info().Msg("Registering slash commands skipped")
		}
	}

	log.Info().Str("username", botInfo.Username).Msg("Discord bot is running")
}

// onGuildCreate is called when the bot joins a guild
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Info().Str("guild_id", g.Guild.ID).Str("guild_name", g.Guild.Name).Msg("Bot added to guild")

	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Error().Err(err).Str("guild_id", g.Guild.ID).Msg("Failed to register commands for new guild")
	}
}

// onInteractionCreate is called when an interaction is created
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmdName := i.ApplicationCommandData().Name

	cmd, ok := command.GetCommand(cmdName)
	if !ok {
		log.Warn().Str("command", cmdName).Msg("Unknown command")
		return
	}

	ctx := &command.SlashInteractionContext{
		Session: s,
		Event:   i,
		Storage: b.storage,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Error().Err(err).Str("command", cmdName).Msg("Error running slash command")
		respondError(s, i, err)
	}
}

func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	msg := fmt.Sprintf("Error running command: %v", err)
	resErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if resErr != nil {
		// The command likely deferred already; fall back to a follow-up.
		_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: msg})
	}
}

// FindUserVoiceState finds the voice state of a user
func (b *Bot) FindUserVoiceState(guildID, userID string) (*bot.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return &bot.VoiceState{
				ChannelID: vs.ChannelID,
				UserID:    vs.UserID,
			}, nil
		}
	}
	return nil, fmt.Errorf("user not in any voice channel")
}
