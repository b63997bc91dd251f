package resolve

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSelectDirectURL_CombinedWins(t *testing.T) {
	ext := &Extraction{
		DirectURL: "https://cdn.example.com/live.m3u8",
		Formats: []Format{
			{URL: "https://cdn.example.com/other", HasAudio: true},
		},
	}
	got, err := SelectDirectURL(ext)
	if err != nil {
		t.Fatalf("SelectDirectURL: %v", err)
	}
	if got != "https://cdn.example.com/live.m3u8" {
		t.Errorf("got %q, want combined URL", got)
	}
}

func TestSelectDirectURL_LastQualifyingFormat(t *testing.T) {
	ext := &Extraction{
		Formats: []Format{
			{URL: "https://cdn.example.com/low", HasAudio: true},
			{URL: "https://cdn.example.com/video-only", HasAudio: false},
			{URL: "https://cdn.example.com/high", HasAudio: true},
			{URL: "rtmp://cdn.example.com/rt", HasAudio: true},
		},
	}
	got, err := SelectDirectURL(ext)
	if err != nil {
		t.Fatalf("SelectDirectURL: %v", err)
	}
	// Scan runs from the end; rtmp is skipped, video-only is skipped.
	if got != "https://cdn.example.com/high" {
		t.Errorf("got %q, want the last http format with audio", got)
	}
}

func TestSelectDirectURL_NoCandidate(t *testing.T) {
	tests := []struct {
		name string
		ext  Extraction
	}{
		{"empty", Extraction{}},
		{"video only", Extraction{Formats: []Format{{URL: "https://x", HasAudio: false}}}},
		{"audio without URL", Extraction{Formats: []Format{{HasAudio: true}}}},
		{"bad protocol", Extraction{Formats: []Format{{URL: "rtsp://x", HasAudio: true}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SelectDirectURL(&tt.ext); !errors.Is(err, ErrNoPlayableFormat) {
				t.Errorf("err = %v, want ErrNoPlayableFormat", err)
			}
		})
	}
}

// fakeExtractor returns a canned extraction or error, optionally after a
// delay to exercise timeouts.
type fakeExtractor struct {
	ext   *Extraction
	err   error
	delay time.Duration
}

func (f *fakeExtractor) Extract(ctx context.Context, pageURL string) (*Extraction, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.ext, nil
}

func TestResolverDeliversResult(t *testing.T) {
	r := NewResolver(&fakeExtractor{
		ext: &Extraction{
			Title:     "Breaking News",
			DirectURL: "https://cdn.example.com/live.m3u8",
		},
	})

	r.Resolve("tile-1", 7, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	select {
	case res := <-r.Results():
		if res.TileID != "tile-1" || res.Token != 7 {
			t.Errorf("result identity = %q/%d, want tile-1/7", res.TileID, res.Token)
		}
		if res.Err != nil {
			t.Fatalf("result err = %v", res.Err)
		}
		if res.URL != "https://cdn.example.com/live.m3u8" {
			t.Errorf("URL = %q", res.URL)
		}
		if res.Title != "Breaking News" {
			t.Errorf("Title = %q", res.Title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
}

func TestResolverDeliversError(t *testing.T) {
	wantErr := errors.New("player api said no")
	r := NewResolver(&fakeExtractor{err: wantErr})

	r.Resolve("tile-2", 1, "https://www.youtube.com/watch?v=xxxxxxxxxxx")

	select {
	case res := <-r.Results():
		if !errors.Is(res.Err, wantErr) {
			t.Errorf("err = %v, want wrapped %v", res.Err, wantErr)
		}
		if res.URL != "" {
			t.Errorf("URL = %q, want empty on error", res.URL)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
}

func TestResolverTimesOut(t *testing.T) {
	r := NewResolver(&fakeExtractor{
		ext:   &Extraction{DirectURL: "https://x"},
		delay: time.Hour,
	})
	r.timeout = 50 * time.Millisecond

	r.Resolve("tile-3", 2, "https://www.youtube.com/watch?v=yyyyyyyyyyy")

	select {
	case res := <-r.Results():
		if !errors.Is(res.Err, context.DeadlineExceeded) {
			t.Errorf("err = %v, want deadline exceeded", res.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
}
