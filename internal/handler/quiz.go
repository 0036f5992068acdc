package handler

import (
	"ytquiz/internal/domain"
	"ytquiz/internal/dto"
	"ytquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
	cache   domain.Cache
}

// NewQuizHandler creates a new QuizHandler instance. cache may be nil
// when the service runs without redis.
func NewQuizHandler(service service.QuizService, cache domain.Cache) *QuizHandler {
	return &QuizHandler{
		service: service,
		cache:   cache,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a YouTube video
// @Description Fetches the video transcript and generates multiple-choice questions from it
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Video URL and optional question count"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate-quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		// An unreadable body and a missing field get the same answer.
		return domain.NewInvalidInputError("video_url is required")
	}

	result, err := h.service.GenerateQuiz(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Health godoc
// @Summary Health check
// @Description Reports service and cache health
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *QuizHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok"}
	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache.Ping(c.UserContext()); err != nil {
			resp.Cache = "unreachable"
		}
	}
	return c.JSON(resp)
}
