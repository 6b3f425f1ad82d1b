package discord

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/matiasvelizb/pepe-grillo/internal/command"
)

// registerCommands reconciles a guild's slash commands with the registry:
// obsolete commands are deleted, current ones created.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.dg.State.User.ID
	if appID == "" {
		user, err := b.dg.User("@me")
		if err != nil {
			return err
		}
		appID = user.ID
	}

	var wanted []*discordgo.ApplicationCommand
	wantedNames := make(map[string]bool)
	for _, cmd := range command.AllCommands() {
		if def := normalizeDefinition(cmd); def != nil {
			wanted = append(wanted, def)
			wantedNames[def.Name] = true
		}
	}

	existing, _ := b.dg.ApplicationCommands(appID, guildID)
	for _, old := range existing {
		if !wantedNames[old.Name] {
			log.Info().Str("guild_id", guildID).Str("command", old.Name).Msg("Deleting obsolete command")
			if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
				log.Error().Err(err).Str("guild_id", guildID).Str("command", old.Name).Msg("Failed to delete command")
			}
		}
	}

	registerCommandsWithRateLimit(b, appID, guildID, wanted)
	return nil
}

// normalizeDefinition normalizes a command definition
func normalizeDefinition(cmd command.Command) *discordgo.ApplicationCommand {
	if slash, ok := cmd.(command.SlashProvider); ok {
		if def := slash.SlashDefinition(); def != nil {
			if def.Type == 0 {
				def.Type = discordgo.ChatApplicationCommand
			}
			return def
		}
	}
	return nil
}

// registerCommandsWithRateLimit registers commands with a rate limit
func registerCommandsWithRateLimit(b *Bot, appID, guildID string, cmds []*discordgo.ApplicationCommand) {
	rateLimit := time.Second / 40
	ticker := time.NewTicker(rateLimit)
	defer ticker.Stop()

	var wg sync.WaitGroup

	for _, job := range cmds {
		wg.Add(1)

		go func(cmd *discordgo.ApplicationCommand) {
			defer wg.Done()
			<-ticker.C

			_, err := b.dg.ApplicationCommandCreate(appID, guildID, cmd)
			if err != nil {
				log.Error().Err(err).Str("command", cmd.Name).Msg("Can't create command")
			} else {
				log.Debug().Str("command", cmd.Name).Msg("Command created")
			}
		}(job)
	}

	wg.Wait()
}
