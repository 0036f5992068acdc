// Package transcript fetches YouTube caption transcripts over the
// public watch-page endpoints: the watch page embeds a captionTracks
// listing, and each track's baseUrl serves a timedtext XML document.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"time"

	"ytquiz/internal/config"
	"ytquiz/internal/domain"

	"go.uber.org/zap"
)

const defaultWatchBaseURL = "https://www.youtube.com"

var (
	// ErrNoCaptions means the watch page carries no caption track
	// listing at all (captions disabled or video unavailable).
	ErrNoCaptions = errors.New("transcript: no captions available for video")

	// ErrLanguageNotFound means captions exist, but in none of the
	// requested languages.
	ErrLanguageNotFound = errors.New("transcript: no transcript in requested languages")
)

// Client lists and fetches caption transcripts from YouTube.
type Client struct {
	httpClient *http.Client
	watchBase  string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithWatchBaseURL points the client at an alternate watch-page host.
func WithWatchBaseURL(base string) Option {
	return func(cl *Client) { cl.watchBase = base }
}

// NewClient creates a transcript Client from configuration. An optional
// HTTP proxy (with credentials) is honored for all transcript traffic.
func NewClient(cfg config.TranscriptConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = 20 * time.Second
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid transcript proxy URL: %w", err)
		}
		if cfg.ProxyUsername != "" {
			proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
		}
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	}

	client := &Client{
		httpClient: httpClient,
		watchBase:  defaultWatchBaseURL,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// captionTrack is one entry of the watch page's captionTracks listing.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
}

// timedText is the XML document served by a caption track's baseUrl.
type timedText struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedTextRow `xml:"text"`
}

type timedTextRow struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

// FetchTranscript implements domain.TranscriptProvider. Languages are
// tried in order; within a language a manually created track wins over
// an auto-generated one.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, languages []string) (*domain.Transcript, error) {
	tracks, err := c.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track, lang, err := selectTrack(tracks, languages)
	if err != nil {
		c.logger.Warn("No caption track in requested languages",
			zap.String("video_id", videoID),
			zap.Strings("languages", languages),
			zap.Int("available_tracks", len(tracks)),
		)
		return nil, err
	}

	fragments, err := c.fetchTrack(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched transcript",
		zap.String("video_id", videoID),
		zap.String("language", lang),
		zap.Int("fragments", len(fragments)),
	)

	return &domain.Transcript{
		VideoID:   videoID,
		Language:  lang,
		Fragments: fragments,
	}, nil
}

// listTracks downloads the watch page and extracts its captionTracks
// JSON array.
func (c *Client) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	watchURL := fmt.Sprintf("%s/watch?v=%s", c.watchBase, url.QueryEscape(videoID))
	body, err := c.get(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load watch page for %s: %w", videoID, err)
	}

	raw, ok := extractJSONArray(body, `"captionTracks":`)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCaptions, videoID)
	}

	var tracks []captionTrack
	if err := json.Unmarshal(raw, &tracks); err != nil {
		return nil, fmt.Errorf("failed to parse caption track listing for %s: %w", videoID, err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCaptions, videoID)
	}
	return tracks, nil
}

// selectTrack picks the first track matching the preferred languages.
func selectTrack(tracks []captionTrack, languages []string) (*captionTrack, string, error) {
	for _, lang := range languages {
		var generated *captionTrack
		for i := range tracks {
			if tracks[i].LanguageCode != lang {
				continue
			}
			if tracks[i].Kind != "asr" {
				return &tracks[i], lang, nil
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return generated, lang, nil
		}
	}
	return nil, "", ErrLanguageNotFound
}

// fetchTrack downloads and decodes one timedtext document.
func (c *Client) fetchTrack(ctx context.Context, baseURL string) ([]domain.TranscriptFragment, error) {
	body, err := c.get(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caption track: %w", err)
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse timedtext XML: %w", err)
	}

	fragments := make([]domain.TranscriptFragment, 0, len(doc.Texts))
	for _, row := range doc.Texts {
		fragments = append(fragments, domain.TranscriptFragment{
			// Track text is double-escaped: XML decoding leaves HTML
			// entities behind.
			Text:     html.UnescapeString(row.Body),
			Start:    row.Start,
			Duration: row.Duration,
		})
	}
	return fragments, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(resp.Body)
}

// extractJSONArray finds marker in body and returns the JSON array that
// immediately follows it, using bracket matching that is aware of
// string literals and escapes.
func extractJSONArray(body []byte, marker string) ([]byte, bool) {
	idx := bytes.Index(body, []byte(marker))
	if idx < 0 {
		return nil, false
	}
	rest := body[idx+len(marker):]

	start := -1
	for i, b := range rest {
		if b == '[' {
			start = i
			break
		}
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			return nil, false
		}
	}
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(rest); i++ {
		b := rest[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return rest[start : i+1], true
			}
		}
	}
	return nil, false
}

// Static assertion that Client satisfies the provider port.
var _ domain.TranscriptProvider = (*Client)(nil)
