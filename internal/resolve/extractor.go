// Package resolve turns YouTube page URLs into directly playable media
// URLs, asynchronously so tile creation never blocks on the network.
package resolve

import (
	"context"
	"errors"
	"strings"
)

// ErrNoPlayableFormat is returned when extraction succeeded but no format
// carries audio over a protocol the player can open.
var ErrNoPlayableFormat = errors.New("no playable format with audio")

// Format is one candidate media rendition, in page order.
type Format struct {
	URL      string
	MimeType string
	HasAudio bool
}

// Extraction is what the extractor learned about a video page.
type Extraction struct {
	Title string
	// DirectURL, when set, is a combined rendition that already carries
	// audio (live HLS manifest or a muxed stream) and wins outright.
	DirectURL string
	Formats   []Format
}

// Extractor fetches playable media information for a video page URL.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*Extraction, error)
}

// SelectDirectURL applies the format policy to an extraction: a combined
// DirectURL wins; otherwise the LAST listed format that has audio and is
// plain http(s) or HLS is used, since extractors list better renditions
// later.
func SelectDirectURL(ext *Extraction) (string, error) {
	if ext.DirectURL != "" {
		return ext.DirectURL, nil
	}
	for i := len(ext.Formats) - 1; i >= 0; i-- {
		f := ext.Formats[i]
		if !f.HasAudio || f.URL == "" {
			continue
		}
		if playableProtocol(f.URL) {
			return f.URL, nil
		}
	}
	return "", ErrNoPlayableFormat
}

func playableProtocol(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}
