// Package player defines the media backend capability contract the board
// consumes, plus the concrete backends (VLC subprocess, mock). The board
// never assumes a specific backend implementation.
package player

import (
	"context"
	"errors"

	"github.com/farleyman/newsboard-go/internal/models"
)

// ErrBackendClosed is returned by backend operations after Close.
var ErrBackendClosed = errors.New("backend closed")

// Backend is one tile's playback engine. Implementations are NOT required
// to be thread-safe for mutating calls; the board serializes them. Phase
// notifications arrive asynchronously on the Phases channel and may be
// delayed, coalesced, or lost — the board's audio convergence retries
// tolerate that.
type Backend interface {
	// Open loads a directly playable media URL and starts playback.
	Open(ctx context.Context, url string) error

	// Play resumes playback after Pause.
	Play(ctx context.Context) error

	// Pause suspends playback without releasing the source.
	Pause(ctx context.Context) error

	// Stop halts playback.
	Stop(ctx context.Context) error

	// SetMuted toggles audio output. Application may be asynchronous.
	SetMuted(ctx context.Context, muted bool) error

	// SetVolume sets output volume in [0.0, 1.0]. Application may be
	// asynchronous.
	SetVolume(ctx context.Context, vol float64) error

	// Phases streams playback phase changes until Close. The channel is
	// closed on Close.
	Phases() <-chan models.PlaybackPhase

	// ClearSource detaches the current media without releasing the backend.
	ClearSource(ctx context.Context) error

	// Close releases every resource owned by the backend. A closed
	// backend is never reused; recovery constructs a fresh one.
	Close() error
}

// Factory constructs one Backend per tile.
type Factory interface {
	// New creates a backend instance. name is a human-readable label used
	// in logs only.
	New(name string) (Backend, error)

	// Name identifies the backend family ("vlc", "mock").
	Name() string
}
