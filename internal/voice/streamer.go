package voice

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"layeh.com/gopus"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// Streamer plays a file-backed audio resource over a voice connection,
// returning when the resource is exhausted, stop closes, or playback fails.
type Streamer interface {
	Stream(ctx context.Context, conn Conn, path string, stop <-chan struct{}) error
}

// FFmpegStreamer decodes audio with ffmpeg into s16le PCM, encodes opus
// frames and writes them to the connection.
type FFmpegStreamer struct {
	// ReconnectWindow bounds how long a dropped connection may take to
	// come back before the stream is abandoned.
	ReconnectWindow time.Duration
}

func (s *FFmpegStreamer) Stream(ctx context.Context, conn Conn, path string, stop <-chan struct{}) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", path,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &PlaybackError{Kind: KindStream, Err: fmt.Errorf("stdout pipe error: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return &PlaybackError{Kind: KindStream, Err: fmt.Errorf("ffmpeg start error: %w", err)}
	}
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return &PlaybackError{Kind: KindEncryption, Err: fmt.Errorf("encoder error: %w", err)}
	}

	if err := conn.Speaking(true); err != nil {
		return &PlaybackError{Kind: KindStream, Err: err}
	}
	defer conn.Speaking(false)

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-stop:
			return nil
		case <-ctx.Done():
			// Caller cancellation is not a completed playback.
			return ctx.Err()
		default:
		}

		if !conn.Ready() {
			if !waitReady(conn, s.ReconnectWindow, stop) {
				select {
				case <-stop:
					return nil
				default:
				}
				return &PlaybackError{Kind: KindStream, Err: ErrConnectionLost}
			}
		}

		_, err := io.ReadFull(stdout, pcmBuf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return &PlaybackError{Kind: KindStream, Err: fmt.Errorf("read error: %w", err)}
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}

		frame, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return &PlaybackError{Kind: KindStream, Err: fmt.Errorf("encode error: %w", err)}
		}

		if err := conn.WriteFrame(frame); err != nil {
			return &PlaybackError{Kind: KindStream, Err: err}
		}
	}
}

// waitReady polls until conn reports ready again, the window elapses, or
// stop closes. Returns whether the connection recovered.
func waitReady(conn Conn, window time.Duration, stop <-chan struct{}) bool {
	if window <= 0 {
		return conn.Ready()
	}

	deadline := time.Now().Add(window)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if conn.Ready() {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		select {
		case <-stop:
			return false
		case <-ticker.C:
		}
	}
}
