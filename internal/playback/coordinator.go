package playback

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/matiasvelizb/pepe-grillo/internal/fetcher"
)

// ErrNoVoiceChannel is returned when a request arrives without a voice
// channel to play into.
var ErrNoVoiceChannel = errors.New("playback request has no voice channel")

// Request describes one user-initiated play action.
type Request struct {
	GuildID   string
	ChannelID string
	SourceURL string
	Title     string
}

// Outcome reports a successful playback, including where the audio bytes
// came from so the caller can tell the user.
type Outcome struct {
	Provenance fetcher.Provenance
}

// Fetcher resolves audio bytes for a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL string) ([]byte, fetcher.Provenance, error)
}

// VoicePlayer plays raw audio bytes into a guild voice channel, returning
// once playback finishes or fails.
type VoicePlayer interface {
	PlayAudio(ctx context.Context, guildID, channelID string, data []byte, title string) error
}

// Coordinator orchestrates a single playback request end-to-end:
// validate, fetch, play. It holds no state of its own.
type Coordinator struct {
	fetcher Fetcher
	voice   VoicePlayer
}

func New(f Fetcher, v VoicePlayer) *Coordinator {
	return &Coordinator{fetcher: f, voice: v}
}

// Execute runs one playback request. Fetch and playback failures surface as
// the typed errors of their packages; this layer adds nothing on top.
func (c *Coordinator) Execute(ctx context.Context, req Request) (Outcome, error) {
	if req.GuildID == "" || req.ChannelID == "" {
		return Outcome{}, ErrNoVoiceChannel
	}

	data, provenance, err := c.fetcher.Fetch(ctx, req.SourceURL)
	if err != nil {
		return Outcome{}, err
	}

	log.Info().
		Str("guild", req.GuildID).
		Str("title", req.Title).
		Str("provenance", string(provenance)).
		Msg("Starting playback")

	if err := c.voice.PlayAudio(ctx, req.GuildID, req.ChannelID, data, req.Title); err != nil {
		return Outcome{Provenance: provenance}, err
	}

	return Outcome{Provenance: provenance}, nil
}
