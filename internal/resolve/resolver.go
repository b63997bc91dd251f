package resolve

import (
	"context"
	"log/slog"
	"time"
)

const resolveTimeout = 20 * time.Second

// Result is the outcome of one resolution request. Token echoes the value
// the caller supplied, so stale results (from a tile that has since been
// reloaded or removed) can be discarded.
type Result struct {
	TileID string
	Token  uint64
	URL    string
	Title  string
	Err    error
}

// Resolver runs extractions in the background, one goroutine per request,
// and delivers results on a single channel.
type Resolver struct {
	ex      Extractor
	timeout time.Duration
	results chan Result
}

// NewResolver creates a resolver delivering results with the given
// channel capacity headroom.
func NewResolver(ex Extractor) *Resolver {
	return &Resolver{
		ex:      ex,
		timeout: resolveTimeout,
		results: make(chan Result, 32),
	}
}

// Results is the delivery channel. The consumer owns draining it; results
// for tiles the consumer no longer knows are dropped by token check on
// the consumer side.
func (r *Resolver) Results() <-chan Result {
	return r.results
}

// Resolve schedules an asynchronous extraction for pageURL. The result
// carries tileID and token back unchanged.
func (r *Resolver) Resolve(tileID string, token uint64, pageURL string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		res := Result{TileID: tileID, Token: token}
		ext, err := r.ex.Extract(ctx, pageURL)
		if err != nil {
			slog.Warn("resolve: extraction failed", "tile", tileID, "url", pageURL, "err", err)
			res.Err = err
			r.results <- res
			return
		}

		directURL, err := SelectDirectURL(ext)
		if err != nil {
			slog.Warn("resolve: no usable format", "tile", tileID, "url", pageURL)
			res.Err = err
			r.results <- res
			return
		}

		res.URL = directURL
		res.Title = ext.Title
		slog.Debug("resolve: resolved", "tile", tileID, "title", ext.Title)
		r.results <- res
	}()
}
