package quizgen

import (
	"context"
	"fmt"
	"strings"

	"ytquiz/internal/config"
	"ytquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const promptTemplate = `You are an AI assistant designed to generate high-quality, professional multiple-choice questions (MCQs) from educational video content.

Your task is to:
- Understand the core concepts from the transcript of a YouTube video.
- Generate concept-based MCQs suitable for undergraduate-level Computer Science students.
- Avoid referring to the transcript directly (e.g., do not use "according to the transcript" or "according to the text" or "according to the video" or "as stated above").
- Make questions sound natural and exam-ready.

Each question must:
- Be clear and technically accurate.
- Have exactly one correct answer and three related but wrong distractions.
- Target medium-difficulty level.
- Be based on topics typically found in BTech CSE, such as programming, data structures, algorithms, machine learning, and academic subjects also like engineering physics, engineering mathematics, engineering chemistry, fundamentals of electronics and electrical etc.

---

Here are some example questions for reference:

Example 1:
1. What is the time complexity of inserting an element into a max-heap?
    A. O(log n)
    B. O(1)
    C. O(n log n)
    D. O(n²)
Answer: A

Example 2:
2. Which of the following is NOT a valid use-case for a hash table?
    A. Implementing a dictionary
    B. Storing hierarchical data like XML
    C. Caching data
    D. Checking for duplicates in a list
Answer: B

Example 3:
3. In supervised learning, which of the following best defines the "training dataset"?
    A. A dataset used only to test the model's performance
    B. A dataset containing input-output pairs used to teach the model
    C. A dataset with only input features and no labels
    D. A dataset created from real-time user interactions
Answer: B

---

Now, generate %d MCQs based on the following transcript:

Transcript:
"""
%s
"""

Output format:
1. Question?
    A. Option1
    B. Option2
    C. Option3
    D. Option4
Answer: A`

// BuildPrompt assembles the full MCQ-generation prompt for the given
// transcript and question count.
func BuildPrompt(transcriptText string, numQuestions int) string {
	return fmt.Sprintf(promptTemplate, numQuestions, transcriptText)
}

// GeminiGenerator implements domain.QuizGenerator on top of a
// langchaingo model client (Gemini in production wiring).
type GeminiGenerator struct {
	llm    llms.Model
	cfg    config.GeminiConfig
	logger *zap.Logger
}

// NewGeminiGenerator creates a quiz generator backed by the given model
// client.
func NewGeminiGenerator(llm llms.Model, cfg config.GeminiConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client cannot be nil")
	}
	return &GeminiGenerator{
		llm:    llm,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// GenerateMCQs implements domain.QuizGenerator.
func (g *GeminiGenerator) GenerateMCQs(ctx context.Context, transcriptText string, numQuestions int) (string, error) {
	prompt := BuildPrompt(transcriptText, numQuestions)

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(g.cfg.Temperature),
	)
	if err != nil {
		g.logger.Error("LLM call failed",
			zap.Error(err),
			zap.String("model", g.cfg.Model),
			zap.Int("num_questions", numQuestions),
			zap.Int("transcript_len", len(transcriptText)),
		)
		return "", fmt.Errorf("LLM call failed: %w", err)
	}

	return strings.TrimSpace(response), nil
}

// Static assertion that GeminiGenerator satisfies the generator port.
var _ domain.QuizGenerator = (*GeminiGenerator)(nil)
