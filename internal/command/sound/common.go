package sound

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/matiasvelizb/pepe-grillo/internal/bot"
	"github.com/matiasvelizb/pepe-grillo/internal/fetcher"
	"github.com/matiasvelizb/pepe-grillo/internal/playback"
	"github.com/matiasvelizb/pepe-grillo/internal/scraper"
	"github.com/matiasvelizb/pepe-grillo/internal/soundcache"
	"github.com/matiasvelizb/pepe-grillo/internal/storage"
	"github.com/matiasvelizb/pepe-grillo/internal/voice"
)

const embedColor = 0x57b649

// Deps are the collaborators the sound commands operate on.
type Deps struct {
	Bot         bot.BotVoice
	Scraper     *scraper.Scraper
	Store       *storage.Storage
	Cache       *soundcache.Cache
	Coordinator *playback.Coordinator
	Voice       *voice.Session
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func followUp(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
	})
}

func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// errorMessage translates the typed errors of the playback stack into a
// user-facing hint.
func errorMessage(err error) string {
	var fetchErr *fetcher.FetchError
	var playErr *voice.PlaybackError

	switch {
	case errors.Is(err, playback.ErrNoVoiceChannel):
		return "🔊 You need to be in a voice channel first."
	case errors.Is(err, voice.ErrJoinTimeout):
		return "⏱ Could not join the voice channel in time. Check my Connect and Speak permissions and try again."
	case errors.Is(err, scraper.ErrNoSound):
		return "🔍 No audio found on that page."
	case errors.As(err, &fetchErr):
		return "📡 Failed to download the audio. The source may be down, try again later."
	case errors.As(err, &playErr):
		switch playErr.Kind {
		case voice.KindEncryption:
			return "🔐 Playback failed: this host is missing a codec capability."
		case voice.KindFilesystem:
			return "💾 Playback failed: could not write the temporary audio file."
		default:
			return "❌ Playback failed mid-stream. Try again."
		}
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
