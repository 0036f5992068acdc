package dto

// GenerateQuizRequest represents the request body for quiz generation
// @Description Request body for generating a quiz from a video URL
type GenerateQuizRequest struct {
	VideoURL     string `json:"video_url"`
	NumQuestions int    `json:"num_questions,omitempty"`
}

// QuizResponse represents a generated quiz in the API response
// @Description Generated multiple-choice quiz text
type QuizResponse struct {
	Quiz string `json:"quiz"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
