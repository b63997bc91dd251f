// Package playlist parses M3U channel lists and fetches them over HTTP.
package playlist

import (
	"regexp"
	"strings"

	"github.com/farleyman/newsboard-go/internal/models"
)

// Fallback display names, kept from earlier releases.
const (
	pastedLinkName     = "Pasted Link"
	unnamedChannelName = "Unnamed Channel"
)

var tvgNameRe = regexp.MustCompile(`tvg-name="([^"]+)"`)

// Parse extracts (name, url) entries from M3U text. Text without the
// #EXTM3U header is treated as a bare list of URLs, one per line.
// Malformed EXTINF entries with no following URL are dropped silently.
func Parse(content string) []models.Entry {
	rawLines := strings.Split(content, "\n")
	lines := make([]string, len(rawLines))
	for i, l := range rawLines {
		lines[i] = strings.TrimSpace(l)
	}

	if first := firstNonEmpty(lines); !strings.HasPrefix(first, "#EXTM3U") {
		var entries []models.Entry
		for _, l := range lines {
			if l == "" || strings.HasPrefix(l, "#") {
				continue
			}
			entries = append(entries, models.Entry{Name: pastedLinkName, URL: l})
		}
		return entries
	}

	var entries []models.Entry
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], "#EXTINF:") {
			continue
		}
		info := lines[i]

		// The URL is the next non-empty, non-directive line. Skip any
		// comment lines in between.
		var urlLine string
		for j := i + 1; j < len(lines); j++ {
			if strings.HasPrefix(lines[j], "#EXTINF:") {
				break
			}
			if lines[j] != "" && !strings.HasPrefix(lines[j], "#") {
				urlLine = lines[j]
				i = j
				break
			}
		}
		if urlLine == "" {
			continue
		}

		// Display name is the text after the last comma on the EXTINF line.
		name := unnamedChannelName
		if idx := strings.LastIndex(info, ","); idx >= 0 && idx+1 < len(info) {
			name = info[idx+1:]
		}
		// tvg-name wins over the comma-suffix name when present.
		if m := tvgNameRe.FindStringSubmatch(info); m != nil {
			name = m[1]
		}
		entries = append(entries, models.Entry{Name: strings.TrimSpace(name), URL: urlLine})
	}
	return entries
}

func firstNonEmpty(lines []string) string {
	for _, l := range lines {
		if l != "" {
			return l
		}
	}
	return ""
}
