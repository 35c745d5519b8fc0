package chat

import (
	"github.com/fmckeffi/healthdesk/backend/internal/analysis/medical"
	"github.com/fmckeffi/healthdesk/backend/internal/model/professional"
)

// Request is the body accepted by the chat endpoint. IsNewSession is a
// pointer so a missing flag can be told apart from false.
type Request struct {
	Messages     []Message `json:"messages"`
	IsNewSession *bool     `json:"isNewSession"`
	ChatID       string    `json:"chatId,omitempty"`
}

// Usage mirrors the token accounting returned by the completion API.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// MedicalAlert is attached to replies for life-threatening symptoms.
type MedicalAlert struct {
	Severity          string   `json:"severity"`
	Message           string   `json:"message"`
	DetectedSymptoms  []string `json:"detected_symptoms"`
	RecommendedAction string   `json:"recommended_action"`
}

// Response is the success envelope of the chat endpoint. ChatID stays null
// for continuing sessions that did not send one.
type Response struct {
	Success             bool                  `json:"success"`
	Message             string                `json:"message"`
	ChatID              *string               `json:"chatId"`
	MedicalAlert        *MedicalAlert         `json:"medical_alert"`
	ProfessionalContact *professional.Contact `json:"professional_contact"`
	Analysis            medical.Analysis      `json:"nlp_analysis"`
	Usage               *Usage                `json:"usage,omitempty"`
	Title               string                `json:"title,omitempty"`
	EnhancedMessages    []Message             `json:"enhanced_messages"`
}

// Failure is the error envelope of the chat endpoint. ChatID is null when
// the caller did not send one.
type Failure struct {
	Success bool    `json:"success"`
	Error   string  `json:"error"`
	ChatID  *string `json:"chatId"`
}

// NewFailure builds the error envelope carrying message.
func NewFailure(message, chatID string) Failure {
	f := Failure{Error: message}
	if chatID != "" {
		f.ChatID = &chatID
	}
	return f
}
