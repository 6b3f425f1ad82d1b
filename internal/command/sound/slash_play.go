package sound

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/matiasvelizb/pepe-grillo/internal/command"
	"github.com/matiasvelizb/pepe-grillo/internal/fetcher"
	"github.com/matiasvelizb/pepe-grillo/internal/playback"
)

type PlayCommand struct {
	Deps Deps
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a stored sound in your voice channel" }
func (c *PlayCommand) Aliases() []string   { return []string{} }
func (c *PlayCommand) Group() string       { return "sound" }
func (c *PlayCommand) Category() string    { return "🔊 Sounds" }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Name (or ID) of the sound to play",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := sctx.Session
	event := sctx.Event
	member := event.Member
	name := stringOption(event, "name")

	if err := deferResponse(session, event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	voiceState, err := c.Deps.Bot.FindUserVoiceState(event.GuildID, member.User.ID)
	if err != nil {
		followUp(session, event, errorMessage(playback.ErrNoVoiceChannel))
		return nil
	}

	record, err := c.Deps.Store.FindSound(event.GuildID, name)
	if err != nil {
		return err
	}
	if record == nil {
		followUp(session, event, fmt.Sprintf("🔍 No sound named **%s** in this server.", name))
		return nil
	}

	outcome, err := c.Deps.Coordinator.Execute(context.Background(), playback.Request{
		GuildID:   event.GuildID,
		ChannelID: voiceState.ChannelID,
		SourceURL: record.SourceURL,
		Title:     record.Title,
	})
	if err != nil {
		followUp(session, event, errorMessage(err))
		return nil
	}

	source := "downloaded"
	if outcome.Provenance == fetcher.ProvenanceCache {
		source = "from cache"
	}
	followUp(session, event, fmt.Sprintf("🔊 Played **%s** (%s).", record.Title, source))
	return nil
}
