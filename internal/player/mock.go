package player

import (
	"context"
	"sync"

	"github.com/farleyman/newsboard-go/internal/models"
)

// MockBackend is a thread-safe in-memory Backend for testing and for
// running the daemon with --mock (no VLC required). Tests script phase
// transitions with EmitPhase.
type MockBackend struct {
	name string

	mu      sync.Mutex
	openURL string
	muted   bool
	volume  float64
	playing bool
	closed  bool

	failOpen bool
	failStop bool

	phases chan models.PlaybackPhase
	calls  []string
}

// NewMockBackend returns an open mock backend.
func NewMockBackend(name string) *MockBackend {
	return &MockBackend{
		name:   name,
		muted:  true,
		phases: make(chan models.PlaybackPhase, 16),
	}
}

// SetFailOpen configures Open to fail.
func (m *MockBackend) SetFailOpen(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOpen = fail
}

// SetFailStop configures Stop to fail, for teardown-error tests.
func (m *MockBackend) SetFailStop(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStop = fail
}

// EmitPhase pushes a phase notification as the real backend would.
// Dropped if the backend is closed.
func (m *MockBackend) EmitPhase(p models.PlaybackPhase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.phases <- p:
	default:
	}
}

// Muted reports the last applied mute state.
func (m *MockBackend) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Volume reports the last applied volume.
func (m *MockBackend) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// OpenedURL reports the last opened URL.
func (m *MockBackend) OpenedURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openURL
}

// Closed reports whether Close has been called.
func (m *MockBackend) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Calls returns the recorded operation log.
func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockBackend) record(op string) error {
	if m.closed {
		return ErrBackendClosed
	}
	m.calls = append(m.calls, op)
	return nil
}

func (m *MockBackend) Open(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("open " + url); err != nil {
		return err
	}
	if m.failOpen {
		return ErrBackendClosed
	}
	m.openURL = url
	m.playing = true
	return nil
}

func (m *MockBackend) Play(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("play"); err != nil {
		return err
	}
	m.playing = true
	return nil
}

func (m *MockBackend) Pause(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("pause"); err != nil {
		return err
	}
	m.playing = false
	return nil
}

func (m *MockBackend) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("stop"); err != nil {
		return err
	}
	if m.failStop {
		return ErrBackendClosed
	}
	m.playing = false
	return nil
}

func (m *MockBackend) SetMuted(ctx context.Context, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("mute"); err != nil {
		return err
	}
	m.muted = muted
	return nil
}

func (m *MockBackend) SetVolume(ctx context.Context, vol float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("volume"); err != nil {
		return err
	}
	m.volume = vol
	return nil
}

func (m *MockBackend) ClearSource(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("clear"); err != nil {
		return err
	}
	m.openURL = ""
	return nil
}

func (m *MockBackend) Phases() <-chan models.PlaybackPhase {
	return m.phases
}

func (m *MockBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.phases)
	return nil
}

// MockFactory creates MockBackends and retains them for inspection.
type MockFactory struct {
	mu       sync.Mutex
	backends []*MockBackend
}

// NewMockFactory creates a MockFactory.
func NewMockFactory() *MockFactory {
	return &MockFactory{}
}

// Name identifies the backend family.
func (f *MockFactory) Name() string { return "mock" }

// New creates a mock backend and remembers it.
func (f *MockFactory) New(name string) (Backend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := NewMockBackend(name)
	f.backends = append(f.backends, b)
	return b, nil
}

// Backends returns every backend this factory has created, in order.
func (f *MockFactory) Backends() []*MockBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*MockBackend(nil), f.backends...)
}

// Last returns the most recently created backend, or nil.
func (f *MockFactory) Last() *MockBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.backends) == 0 {
		return nil
	}
	return f.backends[len(f.backends)-1]
}

var _ Backend = (*MockBackend)(nil)
var _ Factory = (*MockFactory)(nil)
