// Package youtube extracts canonical video identifiers from the URL
// forms YouTube serves: short links (youtu.be/<id>) and canonical watch
// links ((www.)youtube.com/watch?v=<id>).
package youtube

import (
	"fmt"
	"net/url"
	"strings"
)

// ExtractVideoID returns the video identifier embedded in rawURL.
// Hostnames are matched exactly; any other host or path shape is
// rejected rather than guessed at.
func ExtractVideoID(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("malformed URL %q: %w", rawURL, err)
	}

	switch parsed.Hostname() {
	case "youtu.be":
		id := strings.TrimPrefix(parsed.Path, "/")
		if id == "" {
			return "", fmt.Errorf("short link %q has no video path", rawURL)
		}
		return id, nil
	case "youtube.com", "www.youtube.com":
		if parsed.Path != "/watch" {
			return "", fmt.Errorf("unsupported YouTube path %q", parsed.Path)
		}
		id := parsed.Query().Get("v")
		if id == "" {
			return "", fmt.Errorf("watch URL %q has no v parameter", rawURL)
		}
		return id, nil
	}

	return "", fmt.Errorf("unrecognized video host %q", parsed.Hostname())
}
