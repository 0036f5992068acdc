package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ytquiz/internal/domain"
	"ytquiz/internal/dto"
	"ytquiz/internal/handler"
	"ytquiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	GenerateQuizFunc func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, req)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}

// MockCache
type MockCache struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	return "", domain.ErrCacheMiss
}
func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return nil
}
func (m *MockCache) Delete(ctx context.Context, key string) error { return nil }
func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func newTestApp(svc *MockQuizService, cache domain.Cache) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	quizHandler := handler.NewQuizHandler(svc, cache)
	app.Post("/generate-quiz", quizHandler.GenerateQuiz)
	app.Get("/healthz", quizHandler.Health)
	return app
}

func postGenerateQuiz(t *testing.T, app *fiber.App, body string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate-quiz", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestQuizHandler_GenerateQuiz(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				assert.Equal(t, "https://youtu.be/abc123", req.VideoURL)
				return &dto.QuizResponse{Quiz: "1. Question?\nAnswer: A"}, nil
			},
		}
		app := newTestApp(svc, nil)

		status, body := postGenerateQuiz(t, app, `{"video_url":"https://youtu.be/abc123"}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "1. Question?\nAnswer: A", body["quiz"])
	})

	t.Run("NumQuestionsForwarded", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				assert.Equal(t, 5, req.NumQuestions)
				return &dto.QuizResponse{Quiz: "quiz"}, nil
			},
		}
		app := newTestApp(svc, nil)

		status, _ := postGenerateQuiz(t, app, `{"video_url":"https://youtu.be/abc123","num_questions":5}`)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("MissingVideoURL", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				return nil, domain.NewInvalidInputError("video_url is required")
			},
		}
		app := newTestApp(svc, nil)

		status, body := postGenerateQuiz(t, app, `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "video_url is required", body["error"])
	})

	t.Run("MalformedBody", func(t *testing.T) {
		svc := &MockQuizService{}
		app := newTestApp(svc, nil)

		status, body := postGenerateQuiz(t, app, `{not json`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "video_url is required", body["error"])
	})

	t.Run("TranscriptUnavailable", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				return nil, domain.NewTranscriptUnavailableError(errors.New("captions disabled"))
			},
		}
		app := newTestApp(svc, nil)

		status, body := postGenerateQuiz(t, app, `{"video_url":"https://youtu.be/abc123"}`)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Could not fetch transcript", body["error"])
	})

	t.Run("GenerationFailed", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				return nil, domain.NewQuizGenerationError(errors.New("quota exceeded"))
			},
		}
		app := newTestApp(svc, nil)

		status, body := postGenerateQuiz(t, app, `{"video_url":"https://youtu.be/abc123"}`)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Failed to generate MCQs", body["error"])
	})

	t.Run("UnclassifiedError", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				return nil, errors.New("unexpected")
			},
		}
		app := newTestApp(svc, nil)

		status, body := postGenerateQuiz(t, app, `{"video_url":"https://youtu.be/abc123"}`)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Internal server error", body["error"])
	})
}

func TestQuizHandler_Health(t *testing.T) {
	t.Run("WithoutCache", func(t *testing.T) {
		app := newTestApp(&MockQuizService{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body dto.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body.Status)
		assert.Empty(t, body.Cache)
	})

	t.Run("CacheUnreachable", func(t *testing.T) {
		cache := &MockCache{
			PingFunc: func(ctx context.Context) error { return errors.New("connection refused") },
		}
		app := newTestApp(&MockQuizService{}, cache)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body dto.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "unreachable", body.Cache)
	})
}
