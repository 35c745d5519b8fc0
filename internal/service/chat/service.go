// Package chat runs one consultation turn: keyword analysis, optional
// referral, prompt enhancement and the completion call.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fmckeffi/healthdesk/backend/internal/analysis/medical"
	"github.com/fmckeffi/healthdesk/backend/internal/model/chat"
	"github.com/fmckeffi/healthdesk/backend/internal/model/professional"
	"github.com/fmckeffi/healthdesk/backend/internal/service/completion"
)

var (
	// ErrInvalidRequest wraps every request validation failure.
	ErrInvalidRequest = errors.New("invalid chat request")
	// ErrCompletion wraps failures of the completion provider.
	ErrCompletion = errors.New("completion API error")
)

const (
	alertMessage       = "URGENT: Your symptoms may be life-threatening. Please seek immediate medical attention or call emergency services."
	alertAction        = "Seek immediate emergency care"
	gatherSymptomsHint = "If you do not have enough symptoms from the previous messages request for more symptoms but if symptoms is enough then diagnose the user"
)

// Referrer finds a professional contact for a specialty.
type Referrer interface {
	Find(ctx context.Context, specialty string) (*professional.Contact, error)
}

// Service is stateless across requests; every dependency is safe for concurrent use.
type Service struct {
	lexicon   *medical.Lexicon
	completer completion.Client
	referrals Referrer
	now       func() time.Time
	newChatID func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock used for default titles.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithChatIDGenerator overrides how chat identifiers are minted.
func WithChatIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newChatID = gen }
}

// NewService wires the orchestrator. referrals may be nil when no directory is configured.
func NewService(lexicon *medical.Lexicon, completer completion.Client, referrals Referrer, opts ...Option) *Service {
	if lexicon == nil {
		lexicon = medical.Default()
	}
	s := &Service{
		lexicon:   lexicon,
		completer: completer,
		referrals: referrals,
		now:       time.Now,
		newChatID: func() string { return "chat_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process answers the newest message of req.
func (s *Service) Process(ctx context.Context, req chat.Request) (*chat.Response, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	latest := req.Messages[len(req.Messages)-1].Content
	analysis := s.lexicon.Analyze(latest)
	symptoms := analysis.Symptoms

	resp := &chat.Response{
		Success:  true,
		Analysis: analysis,
	}
	if req.ChatID != "" {
		chatID := req.ChatID
		resp.ChatID = &chatID
	}

	enhanced := append([]chat.Message(nil), req.Messages...)

	if symptoms.IsLifeThreatening {
		resp.MedicalAlert = &chat.MedicalAlert{
			Severity:          strings.ToUpper(string(medical.Critical)),
			Message:           alertMessage,
			DetectedSymptoms:  symptoms.DetectedSymptoms,
			RecommendedAction: alertAction,
		}

		if contact := s.lookupReferral(ctx, symptoms.RecommendedSpecialty); contact != nil {
			resp.ProfessionalContact = contact
			enhanced = prepend(enhanced, chat.SystemMessage(referralPrompt(contact)))
		}
	}

	if resp.ProfessionalContact == nil {
		enhanced = prepend(enhanced, chat.SystemMessage(gatherSymptomsHint))
		if symptoms.Level != medical.Mild {
			enhanced = prepend(enhanced, chat.SystemMessage(severityPrompt(analysis)))
		}
	}

	result, err := s.completer.Complete(ctx, enhanced)
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Msg("completion failed")
		return nil, fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	resp.Message = result.Content
	resp.Usage = result.Usage

	if *req.IsNewSession {
		resp.Title = s.lexicon.Title(latest, s.now())
		if resp.ChatID == nil {
			chatID := s.newChatID()
			resp.ChatID = &chatID
		}
	}

	resp.EnhancedMessages = enhanced

	log.Debug().
		Str("component", "chat").
		Str("severity", string(symptoms.Level)).
		Str("intent", string(analysis.Intent.PrimaryIntent)).
		Bool("referral", resp.ProfessionalContact != nil).
		Msg("consultation turn processed")

	return resp, nil
}

func (s *Service) lookupReferral(ctx context.Context, specialty string) *professional.Contact {
	if s.referrals == nil {
		return nil
	}
	contact, err := s.referrals.Find(ctx, specialty)
	if err != nil {
		log.Warn().Err(err).Str("component", "chat").Str("specialty", specialty).Msg("referral lookup failed")
		return nil
	}
	return contact
}

func validate(req chat.Request) error {
	if len(req.Messages) == 0 {
		return fmt.Errorf("%w: Messages array is required and cannot be empty", ErrInvalidRequest)
	}
	if req.IsNewSession == nil {
		return fmt.Errorf("%w: isNewSession field is required", ErrInvalidRequest)
	}
	if !req.Messages[len(req.Messages)-1].HasContent() {
		return fmt.Errorf("%w: Latest message content is missing", ErrInvalidRequest)
	}
	return nil
}

// Message returns the caller-facing text of an error produced by Process.
func Message(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return strings.TrimPrefix(err.Error(), ErrInvalidRequest.Error()+": ")
	}
	return err.Error()
}

func prepend(messages []chat.Message, msg chat.Message) []chat.Message {
	return append([]chat.Message{msg}, messages...)
}

func referralPrompt(c *professional.Contact) string {
	return fmt.Sprintf(
		"advice to visit the closest hospital and refer the user to this professional contact 1) Name: %s, 2) Phone: %s, 3) Email: %s, 4) Specialty: %s",
		c.Name, c.Phone, c.Email, c.Specialty,
	)
}

func severityPrompt(a medical.Analysis) string {
	return fmt.Sprintf(
		"Note: The user is experiencing %s severity symptoms. Detected symptoms include: %s. Primary intent appears to be: %s. "+
			"Please provide appropriate medical guidance while emphasizing the need for professional consultation if necessary.",
		a.Symptoms.Level, strings.Join(a.Symptoms.DetectedSymptoms, ", "), a.Intent.PrimaryIntent,
	)
}
