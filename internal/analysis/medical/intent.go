package medical

import "strings"

// Intent names a user-goal category.
type Intent string

const (
	SymptomInquiry     Intent = "symptom_inquiry"
	MedicationQuery    Intent = "medication_query"
	AppointmentRequest Intent = "appointment_request"
	Emergency          Intent = "emergency"
	GeneralHealth      Intent = "general_health"
	Greeting           Intent = "greeting"
	Goodbye            Intent = "goodbye"
	InsuranceInquiry   Intent = "insurance_inquiry"
	LocationQuery      Intent = "location_query"
)

// IntentAnalysis reports the winning category and the hit count of every category.
type IntentAnalysis struct {
	PrimaryIntent Intent         `json:"primary_intent"`
	Confidence    float64        `json:"confidence"`
	AllScores     map[Intent]int `json:"all_scores"`
}

// ClassifyIntent counts keyword hits per category. The highest count wins and
// ties go to the category declared first, including the all-zero case.
func (l *Lexicon) ClassifyIntent(text string) IntentAnalysis {
	scores := make(map[Intent]int, len(l.Intents))

	best := -1
	var primary IntentCategory
	for _, category := range l.Intents {
		hits := 0
		for _, keyword := range category.Keywords {
			if strings.Contains(text, keyword) {
				hits++
			}
		}
		scores[category.Name] = hits
		if hits > best {
			best = hits
			primary = category
		}
	}

	confidence := 0.0
	if best > 0 && len(primary.Keywords) > 0 {
		confidence = float64(best) / float64(len(primary.Keywords))
	}

	return IntentAnalysis{
		PrimaryIntent: primary.Name,
		Confidence:    confidence,
		AllScores:     scores,
	}
}
