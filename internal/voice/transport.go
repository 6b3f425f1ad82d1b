package voice

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Conn is a live voice connection for one guild.
type Conn interface {
	// WriteFrame sends a single 20ms opus frame.
	WriteFrame(frame []byte) error
	Speaking(b bool) error
	Ready() bool
	ChannelID() string
	Disconnect() error
}

// Transport joins voice channels and produces connections. Join must honor
// ctx cancellation and return promptly when the deadline passes.
type Transport interface {
	Join(ctx context.Context, guildID, channelID string) (Conn, error)
}

// DiscordTransport adapts a discordgo session to the Transport interface.
type DiscordTransport struct {
	dg *discordgo.Session
}

func NewDiscordTransport(dg *discordgo.Session) *DiscordTransport {
	return &DiscordTransport{dg: dg}
}

func (t *DiscordTransport) Join(ctx context.Context, guildID, channelID string) (Conn, error) {
	type joinResult struct {
		vc  *discordgo.VoiceConnection
		err error
	}

	ch := make(chan joinResult, 1)
	go func() {
		vc, err := t.dg.ChannelVoiceJoin(guildID, channelID, false, true)
		ch <- joinResult{vc: vc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return &discordConn{vc: r.vc}, nil
	}
}

type discordConn struct {
	vc *discordgo.VoiceConnection
}

func (c *discordConn) WriteFrame(frame []byte) error {
	select {
	case c.vc.OpusSend <- frame:
		return nil
	case <-time.After(time.Second):
		return errors.New("opus send timed out")
	}
}

func (c *discordConn) Speaking(b bool) error { return c.vc.Speaking(b) }

func (c *discordConn) Ready() bool { return c.vc.Ready }

func (c *discordConn) ChannelID() string { return c.vc.ChannelID }

func (c *discordConn) Disconnect() error { return c.vc.Disconnect() }
