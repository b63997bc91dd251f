// Package classify normalizes raw user input (URLs, pasted iframe snippets)
// into canonical playback URLs and routes them by kind. All functions are
// pure and never fail: unrecognized or malformed input passes through
// unchanged as KindOther.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/farleyman/newsboard-go/internal/models"
)

// youtubeHosts is the fixed allow-list of YouTube-family hosts. A host
// matches by equality or by ".<host>" suffix.
var youtubeHosts = []string{
	"youtube.com",
	"youtu.be",
	"youtube-nocookie.com",
	"www.youtube.com",
	"www.youtube-nocookie.com",
}

var (
	iframeSrcRe   = regexp.MustCompile(`(?i)<iframe[^>]+src="([^"]+)"`)
	videoIDRe     = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:watch\?v=|v/|embed/|shorts/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
	channelLiveRe = regexp.MustCompile(`^/channel/([A-Za-z0-9_-]+)/live$`)
)

// CanonicalMode selects which canonical URL shape a matched video id is
// rewritten to. Earlier releases disagreed on this; both forms are kept
// as explicit modes.
type CanonicalMode int

const (
	// ModeWatch canonicalizes to https://www.youtube.com/watch?v=<id>.
	ModeWatch CanonicalMode = iota
	// ModeEmbed canonicalizes to the privacy-enhanced embed form.
	ModeEmbed
)

// Result is the outcome of classifying one input.
type Result struct {
	CanonicalURL string
	Kind         models.SourceKind
}

// IsYouTubeURL reports whether the URL's host is on the YouTube allow-list.
func IsYouTubeURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)
	for _, h := range youtubeHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Classify normalizes input to a canonical URL and assigns a kind.
func Classify(input string, mode CanonicalMode) Result {
	input = strings.TrimSpace(input)

	// Pasted embed markup: pull out the iframe src and classify that.
	if m := iframeSrcRe.FindStringSubmatch(input); m != nil {
		input = m[1]
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return Result{CanonicalURL: input, Kind: models.KindOther}
	}
	host := strings.ToLower(parsed.Host)
	path := strings.TrimRight(parsed.Path, "/")

	// Channel live pages canonicalize by dropping the /live suffix.
	// This is not a video-id rewrite.
	if strings.Contains(host, "youtube.com") {
		if m := channelLiveRe.FindStringSubmatch(path); m != nil {
			return Result{
				CanonicalURL: "https://www.youtube.com/channel/" + m[1],
				Kind:         models.KindYouTubeChannelLive,
			}
		}
	}

	if m := videoIDRe.FindStringSubmatch(input); m != nil {
		return Result{CanonicalURL: canonicalVideoURL(m[1], mode), Kind: models.KindYouTubeWatch}
	}

	// watch?v= with extra query parameters the path regexp missed.
	if strings.Contains(host, "youtube.com") && path == "/watch" {
		if v := parsed.Query().Get("v"); len(v) == 11 {
			return Result{CanonicalURL: canonicalVideoURL(v, mode), Kind: models.KindYouTubeWatch}
		}
	}

	if IsYouTubeURL(input) {
		// YouTube-family URL we could not canonicalize; still needs resolution.
		return Result{CanonicalURL: input, Kind: models.KindYouTubeWatch}
	}

	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		return Result{CanonicalURL: input, Kind: models.KindDirect}
	}
	return Result{CanonicalURL: input, Kind: models.KindOther}
}

func canonicalVideoURL(id string, mode CanonicalMode) string {
	if mode == ModeEmbed {
		return "https://www.youtube-nocookie.com/embed/" + id
	}
	return "https://www.youtube.com/watch?v=" + id
}
