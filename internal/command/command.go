package command

import (
	"github.com/bwmarrin/discordgo"

	"github.com/matiasvelizb/pepe-grillo/internal/storage"
)

// Command is one bot command, registered once and dispatched by name.
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Group() string
	Category() string
	Run(ctx interface{}) error
}

// SlashProvider - how this command should be registered with Discord.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// SlashInteractionContext - what runtime hands you when executing a slash
// command.
type SlashInteractionContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}
