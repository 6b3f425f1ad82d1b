package sound

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/matiasvelizb/pepe-grillo/internal/command"
	"github.com/matiasvelizb/pepe-grillo/internal/scraper"
	"github.com/matiasvelizb/pepe-grillo/internal/storage"
)

type AddCommand struct {
	Deps Deps
}

func (c *AddCommand) Name() string        { return "add" }
func (c *AddCommand) Description() string { return "Add a sound from a page URL to this server" }
func (c *AddCommand) Aliases() []string   { return []string{} }
func (c *AddCommand) Group() string       { return "sound" }
func (c *AddCommand) Category() string    { return "🔊 Sounds" }

func (c *AddCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "url",
				Description: "Link to the page containing the sound",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Custom name for the sound (defaults to the page title)",
				Required:    false,
			},
		},
	}
}

func (c *AddCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := sctx.Session
	event := sctx.Event
	pageURL := stringOption(event, "url")
	customName := stringOption(event, "name")

	if err := deferResponse(session, event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	snd, err := c.Deps.Scraper.Scrape(context.Background(), pageURL)
	if err != nil {
		if errors.Is(err, scraper.ErrNoSound) {
			followUp(session, event, errorMessage(err))
			return nil
		}
		followUp(session, event, fmt.Sprintf("🔍 Could not read that page: %v", err))
		return nil
	}

	title := snd.Title
	if customName != "" {
		title = customName
	}

	record, err := c.Deps.Store.AddSound(event.GuildID, snd.SourceURL, title, pageURL)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateSound) {
			followUp(session, event, "🔁 That sound is already in this server's library.")
			return nil
		}
		return err
	}

	count, _ := c.Deps.Store.CountSounds(event.GuildID)
	followUp(session, event, fmt.Sprintf("✅ Added **%s** (%d sounds stored).", record.Title, count))
	return nil
}
