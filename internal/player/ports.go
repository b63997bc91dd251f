package player

import (
	"errors"
	"sync"
)

// maxPlayers caps concurrent VLC control ports. A wall bigger than this
// would be unwatchable anyway.
const maxPlayers = 64

// basePort is the first VLC HTTP control port.
const basePort = 9090

// ErrNoPort is returned when every control port slot is taken.
var ErrNoPort = errors.New("no player control ports available")

// portAllocator hands out HTTP control ports for VLC subprocesses.
type portAllocator struct {
	mu   sync.Mutex
	used [maxPlayers]bool
}

func newPortAllocator() *portAllocator {
	return &portAllocator{}
}

// Alloc returns the next free control port.
func (p *portAllocator) Alloc() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < maxPlayers; i++ {
		if !p.used[i] {
			p.used[i] = true
			return basePort + i, nil
		}
	}
	return 0, ErrNoPort
}

// Free releases a control port back to the pool.
func (p *portAllocator) Free(port int) {
	i := port - basePort
	if i < 0 || i >= maxPlayers {
		return
	}
	p.mu.Lock()
	p.used[i] = false
	p.mu.Unlock()
}
