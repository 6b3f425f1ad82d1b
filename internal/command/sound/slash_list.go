package sound

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/matiasvelizb/pepe-grillo/internal/command"
)

type ListCommand struct {
	Deps Deps
}

func (c *ListCommand) Name() string        { return "sounds" }
func (c *ListCommand) Description() string { return "List this server's stored sounds" }
func (c *ListCommand) Aliases() []string   { return []string{} }
func (c *ListCommand) Group() string       { return "sound" }
func (c *ListCommand) Category() string    { return "🔊 Sounds" }

func (c *ListCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *ListCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := sctx.Session
	event := sctx.Event

	sounds, err := c.Deps.Store.ListSounds(event.GuildID)
	if err != nil {
		return err
	}

	if len(sounds) == 0 {
		respondEphemeral(session, event, "📭 No sounds stored yet. Use `/add` to create one.")
		return nil
	}

	total, _ := c.Deps.Store.CountSounds(event.GuildID)

	var sb strings.Builder
	for i, snd := range sounds {
		fmt.Fprintf(&sb, "`%2d.` **%s** — added <t:%d:R>\n", i+1, snd.Title, snd.AddedAt.Unix())
	}

	_ = session.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       fmt.Sprintf("🔊 Sounds (%d)", total),
					Description: sb.String(),
					Color:       embedColor,
				},
			},
		},
	})
	return nil
}
