package voice

import (
	"errors"
	"fmt"
)

var (
	// ErrJoinTimeout means the voice transport did not become ready within
	// the join timeout. The connection has already been destroyed.
	ErrJoinTimeout = errors.New("voice join timed out")

	// ErrConnectionLost means the transport dropped mid-stream and did not
	// recover within the reconnect window.
	ErrConnectionLost = errors.New("voice connection lost")
)

// ErrorKind classifies playback failures so callers can pick a user hint
// without inspecting error text.
type ErrorKind int

const (
	// KindStream covers decode, encode and transport write failures.
	KindStream ErrorKind = iota
	// KindEncryption covers codec/encryption capability failures.
	KindEncryption
	// KindFilesystem covers temporary-file failures.
	KindFilesystem
)

func (k ErrorKind) String() string {
	switch k {
	case KindEncryption:
		return "encryption"
	case KindFilesystem:
		return "filesystem"
	default:
		return "stream"
	}
}

// PlaybackError reports a failed or aborted playback attempt.
type PlaybackError struct {
	Kind ErrorKind
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed (%s): %v", e.Kind, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
