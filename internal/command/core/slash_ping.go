package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/matiasvelizb/pepe-grillo/internal/command"
)

type PingCommand struct{}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check if the bot is alive" }
func (c *PingCommand) Aliases() []string   { return []string{} }
func (c *PingCommand) Group() string       { return "core" }
func (c *PingCommand) Category() string    { return "⚙️ Core" }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PingCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	latency := sctx.Session.HeartbeatLatency().Milliseconds()
	return sctx.Session.InteractionRespond(sctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("🏓 Pong! %dms", latency),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
