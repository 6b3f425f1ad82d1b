package voice

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultJoinTimeout     = 30 * time.Second
	defaultReconnectWindow = 5 * time.Second
	defaultIdleTimeout     = 15 * time.Minute
)

// Options configures a Session. Zero values fall back to the defaults
// above; TempDir falls back to the system temp directory.
type Options struct {
	JoinTimeout     time.Duration
	ReconnectWindow time.Duration
	IdleTimeout     time.Duration
	TempDir         string
}

// Session owns every guild's voice connection: join, reuse, playback,
// idle teardown. All guild state lives behind its mutex; callers never
// touch connections directly.
type Session struct {
	transport Transport
	streamer  Streamer
	opts      Options

	mu     sync.Mutex
	guilds map[string]*guildState
}

type guildState struct {
	conn      Conn
	channelID string
	// gen increments per play request. Overlapping requests for the same
	// guild are not serialized: the latest generation wins and earlier
	// streams are stopped.
	gen       uint64
	stop      chan struct{}
	idleTimer *time.Timer
}

// NewSession creates a Session. A nil streamer gets the ffmpeg default.
func NewSession(transport Transport, streamer Streamer, opts Options) *Session {
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = defaultJoinTimeout
	}
	if opts.ReconnectWindow <= 0 {
		opts.ReconnectWindow = defaultReconnectWindow
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if streamer == nil {
		streamer = &FFmpegStreamer{ReconnectWindow: opts.ReconnectWindow}
	}
	return &Session{
		transport: transport,
		streamer:  streamer,
		opts:      opts,
		guilds:    make(map[string]*guildState),
	}
}

// PlayAudio writes data to a temporary resource, joins or reuses the
// guild's voice connection and streams until playback finishes, fails, or
// a newer play request pre-empts it. The temporary resource is deleted on
// every exit path. On return the idle-disconnect timer is re-armed unless
// the connection was torn down.
func (s *Session) PlayAudio(ctx context.Context, guildID, channelID string, data []byte, title string) error {
	res, err := newTempResource(s.opts.TempDir, data)
	if err != nil {
		return &PlaybackError{Kind: KindFilesystem, Err: err}
	}
	defer res.Remove()

	s.mu.Lock()
	st, ok := s.guilds[guildID]
	if !ok {
		st = &guildState{}
		s.guilds[guildID] = st
	}
	if st.idleTimer != nil {
		st.idleTimer.Stop()
		st.idleTimer = nil
	}
	if st.stop != nil {
		// Pre-empt the in-flight stream; the last play request wins.
		close(st.stop)
	}
	stop := make(chan struct{})
	st.stop = stop
	st.gen++
	gen := st.gen
	st.channelID = channelID
	conn := st.conn
	s.mu.Unlock()

	if conn != nil && !conn.Ready() {
		conn.Disconnect()
		s.mu.Lock()
		if st.conn == conn {
			st.conn = nil
		}
		s.mu.Unlock()
		conn = nil
	}

	if conn == nil {
		joinCtx, cancel := context.WithTimeout(ctx, s.opts.JoinTimeout)
		c, err := s.transport.Join(joinCtx, guildID, channelID)
		cancel()
		if err != nil {
			s.mu.Lock()
			if cur, ok := s.guilds[guildID]; ok && cur == st && st.gen == gen {
				st.stop = nil
				delete(s.guilds, guildID)
			}
			s.mu.Unlock()
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrJoinTimeout
			}
			return &PlaybackError{Kind: KindStream, Err: err}
		}
		s.mu.Lock()
		cur, live := s.guilds[guildID]
		stale := !live || cur != st || st.gen != gen
		if !stale {
			if st.conn == nil {
				st.conn = c
			}
			conn = st.conn
		}
		s.mu.Unlock()

		if stale {
			// Disconnect or a newer request removed the guild entry while
			// the join was in flight. Nothing owns this connection, so
			// destroy it or the bot stays in the channel untracked.
			c.Disconnect()
			return nil
		}
		if conn != c {
			// A concurrent join for this guild won; keep theirs.
			c.Disconnect()
		} else {
			log.Info().Str("guild", guildID).Str("channel", channelID).Msg("Joined voice channel")
		}
	}

	log.Debug().Str("guild", guildID).Str("title", title).Msg("Streaming audio")
	err = s.streamer.Stream(ctx, conn, res.Path(), stop)
	res.Remove()

	if err != nil && errors.Is(err, ErrConnectionLost) {
		log.Warn().Str("guild", guildID).Msg("Voice connection lost, tearing down session")
		s.Disconnect(guildID)
		return err
	}

	s.mu.Lock()
	if cur, ok := s.guilds[guildID]; ok && cur == st && st.gen == gen {
		st.stop = nil
		s.scheduleIdleLocked(guildID, st)
	}
	s.mu.Unlock()

	return err
}

// Disconnect cancels any pending idle timer, stops playback, destroys the
// connection and removes the guild entry. Reports whether a session existed.
func (s *Session) Disconnect(guildID string) bool {
	s.mu.Lock()
	st, ok := s.guilds[guildID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	if st.idleTimer != nil {
		st.idleTimer.Stop()
	}
	if st.stop != nil {
		close(st.stop)
		st.stop = nil
	}
	conn := st.conn
	delete(s.guilds, guildID)
	s.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	log.Info().Str("guild", guildID).Msg("Voice session closed")
	return true
}

// IsConnected reports whether the guild has a live voice connection.
func (s *Session) IsConnected(guildID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.guilds[guildID]
	return ok && st.conn != nil && st.conn.Ready()
}

// ScheduleIdleDisconnect re-arms the idle teardown timer for a guild,
// replacing any pending one.
func (s *Session) ScheduleIdleDisconnect(guildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.guilds[guildID]; ok {
		s.scheduleIdleLocked(guildID, st)
	}
}

func (s *Session) scheduleIdleLocked(guildID string, st *guildState) {
	if st.idleTimer != nil {
		st.idleTimer.Stop()
	}
	gen := st.gen
	st.idleTimer = time.AfterFunc(s.opts.IdleTimeout, func() {
		s.idleDisconnect(guildID, gen)
	})
}

// idleDisconnect fires when the idle window elapses. It only tears the
// session down if no play request arrived since the timer was armed.
func (s *Session) idleDisconnect(guildID string, gen uint64) {
	s.mu.Lock()
	st, ok := s.guilds[guildID]
	if !ok || st.gen != gen || st.stop != nil {
		s.mu.Unlock()
		return
	}
	conn := st.conn
	delete(s.guilds, guildID)
	s.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	log.Info().Str("guild", guildID).Msg("Idle voice connection closed")
}
