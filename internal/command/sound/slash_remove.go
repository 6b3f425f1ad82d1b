package sound

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/matiasvelizb/pepe-grillo/internal/command"
)

type RemoveCommand struct {
	Deps Deps
}

func (c *RemoveCommand) Name() string        { return "remove" }
func (c *RemoveCommand) Description() string { return "Remove a stored sound from this server" }
func (c *RemoveCommand) Aliases() []string   { return []string{} }
func (c *RemoveCommand) Group() string       { return "sound" }
func (c *RemoveCommand) Category() string    { return "🔊 Sounds" }

func (c *RemoveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Name (or ID) of the sound to remove",
				Required:    true,
			},
		},
	}
}

func (c *RemoveCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := sctx.Session
	event := sctx.Event
	name := stringOption(event, "name")

	record, err := c.Deps.Store.FindSound(event.GuildID, name)
	if err != nil {
		return err
	}
	if record == nil {
		respondEphemeral(session, event, fmt.Sprintf("🔍 No sound named **%s** in this server.", name))
		return nil
	}

	removed, err := c.Deps.Store.RemoveSound(event.GuildID, record.ID)
	if err != nil {
		return err
	}
	if !removed {
		respondEphemeral(session, event, fmt.Sprintf("🔍 No sound named **%s** in this server.", name))
		return nil
	}

	// Drop the cached audio too; the next add starts fresh.
	c.Deps.Cache.Invalidate(record.SourceURL)

	respond(session, event, fmt.Sprintf("🗑 Removed **%s**.", record.Title))
	return nil
}
