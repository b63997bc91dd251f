package player

import (
	"context"
	"testing"

	"github.com/farleyman/newsboard-go/internal/models"
)

func TestPortAllocatorAllocFree(t *testing.T) {
	a := newPortAllocator()

	p1, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p1 != basePort {
		t.Errorf("first port = %d, want %d", p1, basePort)
	}
	p2, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p2 != basePort+1 {
		t.Errorf("second port = %d, want %d", p2, basePort+1)
	}

	a.Free(p1)
	p3, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc after Free: %v", err)
	}
	if p3 != p1 {
		t.Errorf("reallocated port = %d, want freed %d", p3, p1)
	}
}

func TestPortAllocatorExhaustion(t *testing.T) {
	a := newPortAllocator()
	for i := 0; i < maxPlayers; i++ {
		if _, err := a.Alloc(); err != nil {
			t.Fatalf("Alloc %d: %v", i, err)
		}
	}
	if _, err := a.Alloc(); err != ErrNoPort {
		t.Errorf("Alloc when full = %v, want ErrNoPort", err)
	}
}

func TestPortAllocatorFreeOutOfRange(t *testing.T) {
	a := newPortAllocator()
	a.Free(1)                       // below range
	a.Free(basePort + maxPlayers)   // above range
}

func TestMockBackendRecordsCalls(t *testing.T) {
	ctx := context.Background()
	m := NewMockBackend("t1")

	if err := m.Open(ctx, "http://example.com/a.m3u8"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := m.SetMuted(ctx, false); err != nil {
		t.Fatalf("SetMuted: %v", err)
	}
	if err := m.SetVolume(ctx, 0.85); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if err := m.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	if m.OpenedURL() != "http://example.com/a.m3u8" {
		t.Errorf("OpenedURL = %q", m.OpenedURL())
	}
	if m.Muted() {
		t.Error("expected unmuted")
	}
	if m.Volume() != 0.85 {
		t.Errorf("Volume = %v, want 0.85", m.Volume())
	}
	calls := m.Calls()
	want := []string{"open http://example.com/a.m3u8", "mute", "volume", "pause"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestMockBackendClosedRejectsOps(t *testing.T) {
	ctx := context.Background()
	m := NewMockBackend("t1")
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Open(ctx, "x"); err != ErrBackendClosed {
		t.Errorf("Open after Close = %v, want ErrBackendClosed", err)
	}
	if err := m.Stop(ctx); err != ErrBackendClosed {
		t.Errorf("Stop after Close = %v, want ErrBackendClosed", err)
	}
	// Double close is harmless.
	if err := m.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestMockBackendPhases(t *testing.T) {
	m := NewMockBackend("t1")
	m.EmitPhase(models.PhaseLoading)
	m.EmitPhase(models.PhasePlaying)

	if p := <-m.Phases(); p != models.PhaseLoading {
		t.Errorf("phase = %q, want loading", p)
	}
	if p := <-m.Phases(); p != models.PhasePlaying {
		t.Errorf("phase = %q, want playing", p)
	}

	m.Close()
	if _, ok := <-m.Phases(); ok {
		t.Error("phases channel should be closed after Close")
	}
	// Emitting after close must not panic.
	m.EmitPhase(models.PhaseStalled)
}

func TestMockFactoryTracksBackends(t *testing.T) {
	f := NewMockFactory()
	if f.Name() != "mock" {
		t.Errorf("Name = %q", f.Name())
	}
	if f.Last() != nil {
		t.Error("Last on empty factory should be nil")
	}
	b1, err := f.New("a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b2, err := f.New("b")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := f.Backends(); len(got) != 2 {
		t.Fatalf("Backends = %d, want 2", len(got))
	}
	if f.Last() != b2 {
		t.Error("Last should be most recent backend")
	}
	_ = b1
}

func TestProbeForceMock(t *testing.T) {
	f := Probe(true)
	if f.Name() != "mock" {
		t.Errorf("forced probe = %q, want mock", f.Name())
	}
}

func TestParseVLCPhase(t *testing.T) {
	tests := []struct {
		state string
		want  models.PlaybackPhase
	}{
		{"opening", models.PhaseLoading},
		{"buffering", models.PhaseBuffering},
		{"playing", models.PhasePlaying},
		{"paused", models.PhasePlaying},
		{"error", models.PhaseInvalid},
		{"stopped", models.PhaseStalled},
		{"", models.PhaseStalled},
	}
	for _, tt := range tests {
		if got := parseVLCPhase(tt.state); got != tt.want {
			t.Errorf("parseVLCPhase(%q) = %q, want %q", tt.state, got, tt.want)
		}
	}
}
