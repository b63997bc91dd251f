package player

import (
	"log/slog"
	"os/exec"
)

// vlcBinaries are probed in order; cvlc is the headless wrapper some
// distros ship instead of the full binary.
var vlcBinaries = []string{"vlc", "cvlc"}

// Probe picks the playback backend for this host. forceMock skips
// detection. When no VLC binary is on PATH the mock factory is used so
// the board still runs, with tiles that play silence.
func Probe(forceMock bool) Factory {
	if forceMock {
		slog.Info("player: mock backend forced")
		return NewMockFactory()
	}
	for _, bin := range vlcBinaries {
		if path, err := exec.LookPath(bin); err == nil {
			slog.Info("player: using VLC backend", "binary", path)
			return NewVLCFactory(path)
		}
	}
	slog.Warn("player: no VLC binary found, falling back to mock backend")
	return NewMockFactory()
}
