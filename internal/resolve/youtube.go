package resolve

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
)

// YouTubeExtractor extracts playable streams via the YouTube player API.
type YouTubeExtractor struct {
	client *youtube.Client
}

// NewYouTubeExtractor creates an extractor with a bounded HTTP client.
func NewYouTubeExtractor() *YouTubeExtractor {
	return &YouTubeExtractor{
		client: &youtube.Client{
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
		},
	}
}

// Extract fetches the video's format list. Live broadcasts resolve to the
// HLS manifest, which always carries audio. For on-demand videos each
// audio-bearing format's stream URL is deciphered up front so selection
// can run offline.
func (e *YouTubeExtractor) Extract(ctx context.Context, pageURL string) (*Extraction, error) {
	video, err := e.client.GetVideoContext(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("youtube extract %s: %w", pageURL, err)
	}

	ext := &Extraction{Title: video.Title}

	if video.HLSManifestURL != "" {
		ext.DirectURL = video.HLSManifestURL
		return ext, nil
	}

	for i := range video.Formats {
		f := &video.Formats[i]
		hasAudio := f.AudioChannels > 0 || strings.HasPrefix(f.MimeType, "audio/")
		out := Format{MimeType: f.MimeType, HasAudio: hasAudio}
		if hasAudio {
			streamURL, err := e.client.GetStreamURLContext(ctx, video, f)
			if err != nil {
				// Ciphered format we could not unlock; skip it.
				continue
			}
			out.URL = streamURL
		}
		ext.Formats = append(ext.Formats, out)
	}
	return ext, nil
}

var _ Extractor = (*YouTubeExtractor)(nil)
