package domain

import (
	"context"
	"strings"
	"time"
)

// TranscriptFragment is a single timed caption line as served by the
// transcript provider.
type TranscriptFragment struct {
	Text     string
	Start    float64
	Duration float64
}

// Transcript is the full caption track of one video.
type Transcript struct {
	VideoID   string
	Language  string
	Fragments []TranscriptFragment
}

// FullText joins the fragment texts with a single space, preserving
// fragment order. Fragments whose text is empty are skipped.
func (t *Transcript) FullText() string {
	parts := make([]string, 0, len(t.Fragments))
	for _, f := range t.Fragments {
		if f.Text == "" {
			continue
		}
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, " ")
}

// TranscriptProvider lists and fetches caption transcripts for a video.
type TranscriptProvider interface {
	// FetchTranscript returns the transcript for videoID in the first
	// available of the given languages, in order of preference.
	FetchTranscript(ctx context.Context, videoID string, languages []string) (*Transcript, error)
}

// QuizGenerator turns transcript text into formatted MCQ text.
type QuizGenerator interface {
	GenerateMCQs(ctx context.Context, transcriptText string, numQuestions int) (string, error)
}

// Cache defines the caching operations the service layer depends on.
// Implementations return ErrCacheMiss when a key is absent.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
