package sound

import (
	"github.com/bwmarrin/discordgo"

	"github.com/matiasvelizb/pepe-grillo/internal/command"
)

type StopCommand struct {
	Deps Deps
}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and leave the voice channel" }
func (c *StopCommand) Aliases() []string   { return []string{} }
func (c *StopCommand) Group() string       { return "sound" }
func (c *StopCommand) Category() string    { return "🔊 Sounds" }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *StopCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	if c.Deps.Voice.Disconnect(sctx.Event.GuildID) {
		respond(sctx.Session, sctx.Event, "👋 Left the voice channel.")
	} else {
		respondEphemeral(sctx.Session, sctx.Event, "🔇 I'm not in a voice channel.")
	}
	return nil
}
