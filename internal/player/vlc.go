package player

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os/exec"
	"sync"
	"time"

	"github.com/farleyman/newsboard-go/internal/models"
)

const (
	vlcHTTPPassword = "newsboard"
	vlcPollInterval = 500 * time.Millisecond
	vlcHTTPTimeout  = 3 * time.Second
	// vlcFullVolume is VLC's 100% on the HTTP interface volume scale.
	vlcFullVolume = 256
)

// VLCFactory creates VLC subprocess backends, one process per tile, each
// controlled over its own local HTTP interface port.
type VLCFactory struct {
	binary string
	ports  *portAllocator
}

// NewVLCFactory creates a factory driving the given VLC binary.
func NewVLCFactory(binary string) *VLCFactory {
	return &VLCFactory{binary: binary, ports: newPortAllocator()}
}

// Name identifies the backend family.
func (f *VLCFactory) Name() string { return "vlc" }

// New allocates a control port and returns an idle VLC backend. The
// subprocess is not launched until Open.
func (f *VLCFactory) New(name string) (Backend, error) {
	port, err := f.ports.Alloc()
	if err != nil {
		return nil, fmt.Errorf("vlc backend %s: %w", name, err)
	}
	return &vlcBackend{
		name:    name,
		binary:  f.binary,
		port:    port,
		ports:   f.ports,
		client:  &http.Client{Timeout: vlcHTTPTimeout},
		lastVol: 1.0,
		phases:  make(chan models.PlaybackPhase, 16),
	}, nil
}

// vlcBackend drives one VLC process via its HTTP interface. Mute has no
// direct HTTP command, so it is emulated with volume 0 and restore.
type vlcBackend struct {
	name   string
	binary string
	port   int
	ports  *portAllocator
	client *http.Client

	mu        sync.Mutex
	sup       *supervisor
	url       string
	muted     bool
	lastVol   float64
	closed    bool
	pollStop  context.CancelFunc
	pollWg    sync.WaitGroup
	lastPhase models.PlaybackPhase

	phases chan models.PlaybackPhase
}

// Open launches (or relaunches) VLC on the given URL and starts phase
// polling. Changing source restarts the subprocess: VLC applies CLI media
// arguments only at startup.
func (v *vlcBackend) Open(ctx context.Context, mediaURL string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrBackendClosed
	}

	if v.sup != nil {
		if err := v.sup.Stop(); err != nil {
			slog.Warn("vlc: stop before reopen failed", "name", v.name, "err", err)
		}
	}

	v.url = mediaURL
	binary, port := v.binary, v.port
	v.sup = newSupervisor("vlc/"+v.name, func() *exec.Cmd {
		return exec.Command(binary,
			"--intf", "http",
			"--http-host", "127.0.0.1",
			"--http-port", fmt.Sprintf("%d", port),
			"--http-password", vlcHTTPPassword,
			"--no-video-title-show",
			mediaURL,
		)
	})
	if err := v.sup.Start(context.Background()); err != nil {
		return fmt.Errorf("vlc open %s: %w", v.name, err)
	}

	if v.pollStop == nil {
		pollCtx, cancel := context.WithCancel(context.Background())
		v.pollStop = cancel
		v.pollWg.Add(1)
		go v.pollStatus(pollCtx)
	}

	v.emitLocked(models.PhaseLoading)
	return nil
}

func (v *vlcBackend) Play(ctx context.Context) error {
	return v.command(ctx, "pl_play", nil)
}

func (v *vlcBackend) Pause(ctx context.Context) error {
	return v.command(ctx, "pl_forcepause", nil)
}

func (v *vlcBackend) Stop(ctx context.Context) error {
	return v.command(ctx, "pl_stop", nil)
}

// SetMuted emulates mute by forcing volume 0; unmute restores the last
// requested volume.
func (v *vlcBackend) SetMuted(ctx context.Context, muted bool) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrBackendClosed
	}
	v.muted = muted
	vol := 0.0
	if !muted {
		vol = v.lastVol
	}
	v.mu.Unlock()
	return v.applyVolume(ctx, vol)
}

func (v *vlcBackend) SetVolume(ctx context.Context, vol float64) error {
	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrBackendClosed
	}
	v.lastVol = vol
	muted := v.muted
	v.mu.Unlock()
	if muted {
		// Remembered; applied on unmute.
		return nil
	}
	return v.applyVolume(ctx, vol)
}

func (v *vlcBackend) applyVolume(ctx context.Context, vol float64) error {
	val := int(vol * vlcFullVolume)
	return v.command(ctx, "volume", url.Values{"val": {fmt.Sprintf("%d", val)}})
}

func (v *vlcBackend) ClearSource(ctx context.Context) error {
	if err := v.command(ctx, "pl_empty", nil); err != nil {
		return err
	}
	v.mu.Lock()
	v.url = ""
	v.mu.Unlock()
	return nil
}

func (v *vlcBackend) Phases() <-chan models.PlaybackPhase {
	return v.phases
}

// Close tears down the subprocess and releases the control port.
func (v *vlcBackend) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	sup := v.sup
	pollStop := v.pollStop
	v.mu.Unlock()

	if pollStop != nil {
		pollStop()
	}
	v.pollWg.Wait()

	if sup != nil {
		if err := sup.Stop(); err != nil {
			slog.Warn("vlc: supervisor stop failed", "name", v.name, "err", err)
		}
	}
	v.ports.Free(v.port)
	close(v.phases)
	return nil
}

// command issues a VLC HTTP interface command against status.json.
func (v *vlcBackend) command(ctx context.Context, cmd string, extra url.Values) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrBackendClosed
	}
	v.mu.Unlock()

	q := url.Values{"command": {cmd}}
	for k, vals := range extra {
		for _, val := range vals {
			q.Add(k, val)
		}
	}
	reqURL := fmt.Sprintf("http://127.0.0.1:%d/requests/status.json?%s", v.port, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("vlc command %s: %w", cmd, err)
	}
	req.SetBasicAuth("", vlcHTTPPassword)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("vlc command %s: %w", cmd, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vlc command %s: status %d", cmd, resp.StatusCode)
	}
	return nil
}

// vlcStatus is the subset of VLC's status.json we read.
type vlcStatus struct {
	State string `json:"state"` // "opening", "buffering", "playing", "paused", "stopped", "error"
}

// pollStatus maps VLC's reported state to playback phases, emitting only
// on change.
func (v *vlcBackend) pollStatus(ctx context.Context) {
	defer v.pollWg.Done()

	// Give VLC time to bring up the HTTP interface.
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	ticker := time.NewTicker(vlcPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status, err := v.fetchStatus(ctx)
			if err != nil {
				continue
			}
			phase := parseVLCPhase(status.State)
			v.mu.Lock()
			if !v.closed && phase != v.lastPhase {
				v.emitLocked(phase)
			}
			v.mu.Unlock()
		}
	}
}

func (v *vlcBackend) fetchStatus(ctx context.Context) (*vlcStatus, error) {
	reqURL := fmt.Sprintf("http://127.0.0.1:%d/requests/status.json", v.port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth("", vlcHTTPPassword)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var status vlcStatus
	if err := json.Unmarshal(data, &status); err != nil {
		slog.Debug("vlc: failed to parse status", "name", v.name, "err", err)
		return nil, err
	}
	return &status, nil
}

// emitLocked pushes a phase change; caller holds v.mu. Drops when the
// consumer lags rather than blocking the poller.
func (v *vlcBackend) emitLocked(p models.PlaybackPhase) {
	v.lastPhase = p
	select {
	case v.phases <- p:
	default:
	}
}

func parseVLCPhase(state string) models.PlaybackPhase {
	switch state {
	case "opening":
		return models.PhaseLoading
	case "buffering":
		return models.PhaseBuffering
	case "playing", "paused":
		return models.PhasePlaying
	case "error":
		return models.PhaseInvalid
	default:
		// "stopped" mid-stream means the source dried up.
		return models.PhaseStalled
	}
}

var _ Backend = (*vlcBackend)(nil)
var _ Factory = (*VLCFactory)(nil)
