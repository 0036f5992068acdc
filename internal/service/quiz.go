package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ytquiz/internal/cache"
	"ytquiz/internal/config"
	"ytquiz/internal/domain"
	"ytquiz/internal/dto"
	"ytquiz/internal/logger"
	"ytquiz/internal/youtube"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizService generates a quiz from a video URL.
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
}

type quizService struct {
	transcripts domain.TranscriptProvider
	generator   domain.QuizGenerator
	cache       domain.Cache
	cfg         *config.Config
	sfGroup     singleflight.Group
}

// NewQuizService creates a new QuizService instance. cacheAdapter may be
// nil; the service then generates on every request.
func NewQuizService(transcripts domain.TranscriptProvider, generator domain.QuizGenerator, cacheAdapter domain.Cache, cfg *config.Config) QuizService {
	return &quizService{
		transcripts: transcripts,
		generator:   generator,
		cache:       cacheAdapter,
		cfg:         cfg,
	}
}

// GenerateQuiz runs the pipeline: validate, extract the video ID, fetch
// the transcript, generate MCQs. Results are cached per (video id,
// question count), and concurrent requests for the same pair share a
// single generation.
func (s *quizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	log := logger.Get()

	if req.VideoURL == "" {
		return nil, domain.NewInvalidInputError("video_url is required")
	}

	numQuestions := req.NumQuestions
	if numQuestions == 0 {
		numQuestions = s.cfg.Quiz.DefaultNumQuestions
	}
	if numQuestions < 1 || numQuestions > s.cfg.Quiz.MaxNumQuestions {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("num_questions must be between 1 and %d", s.cfg.Quiz.MaxNumQuestions))
	}

	videoID, err := youtube.ExtractVideoID(req.VideoURL)
	if err != nil {
		log.Warn("Failed to extract video ID", zap.String("video_url", req.VideoURL), zap.Error(err))
		return nil, domain.NewInvalidVideoURLError(req.VideoURL)
	}

	cacheKey := cache.GenerateCacheKey("quiz", "generated", videoID, strconv.Itoa(numQuestions))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			log.Debug("Quiz cache hit", zap.String("video_id", videoID), zap.Int("num_questions", numQuestions))
			return &dto.QuizResponse{Quiz: cached}, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn("Quiz cache read failed", zap.Error(err), zap.String("cache_key", cacheKey))
		}
	}

	result, err, shared := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		return s.generate(ctx, videoID, numQuestions, cacheKey)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug("Quiz generation shared across concurrent requests", zap.String("video_id", videoID))
	}

	return &dto.QuizResponse{Quiz: result.(string)}, nil
}

func (s *quizService) generate(ctx context.Context, videoID string, numQuestions int, cacheKey string) (string, error) {
	log := logger.Get()

	languages := []string{s.cfg.Transcript.PrimaryLanguage, s.cfg.Transcript.FallbackLanguage}
	transcript, err := s.transcripts.FetchTranscript(ctx, videoID, languages)
	if err != nil {
		log.Error("Failed to fetch transcript",
			zap.Error(err),
			zap.String("video_id", videoID),
			zap.Strings("languages", languages),
		)
		return "", domain.NewTranscriptUnavailableError(err)
	}

	text := transcript.FullText()
	if text == "" {
		// A track that exists but decodes to nothing is treated the same
		// as a failed retrieval.
		log.Warn("Transcript is empty", zap.String("video_id", videoID), zap.String("language", transcript.Language))
		return "", domain.NewTranscriptUnavailableError(fmt.Errorf("transcript for %s is empty", videoID))
	}

	quiz, err := s.generator.GenerateMCQs(ctx, text, numQuestions)
	if err != nil {
		log.Error("Failed to generate MCQs",
			zap.Error(err),
			zap.String("video_id", videoID),
			zap.Int("num_questions", numQuestions),
		)
		return "", domain.NewQuizGenerationError(err)
	}
	if quiz == "" {
		log.Error("LLM returned an empty quiz", zap.String("video_id", videoID))
		return "", domain.NewQuizGenerationError(fmt.Errorf("empty generation result for %s", videoID))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, quiz, s.cfg.Quiz.CacheTTL); err != nil {
			log.Warn("Quiz cache write failed", zap.Error(err), zap.String("cache_key", cacheKey))
		}
	}

	log.Info("Generated quiz",
		zap.String("video_id", videoID),
		zap.String("language", transcript.Language),
		zap.Int("num_questions", numQuestions),
		zap.Int("quiz_len", len(quiz)),
	)
	return quiz, nil
}
