package medical

import "strings"

// Level is a severity tier label.
type Level string

const (
	Mild     Level = "mild"
	Moderate Level = "moderate"
	High     Level = "high"
	Critical Level = "critical"
)

// DefaultSpecialty is recommended when no detected symptom maps to a specialty.
const DefaultSpecialty = "Emergency Medicine"

var levelRank = map[Level]int{
	Mild:     0,
	Moderate: 1,
	High:     2,
	Critical: 3,
}

// Rank orders levels from mild (0) to critical (3). Unknown levels rank below mild.
func (l Level) Rank() int {
	if rank, ok := levelRank[l]; ok {
		return rank
	}
	return -1
}

// SeverityAnalysis summarizes the symptoms found in one message.
type SeverityAnalysis struct {
	Level                Level    `json:"severity_level"`
	Score                int      `json:"severity_score"`
	DetectedSymptoms     []string `json:"detected_symptoms"`
	IsLifeThreatening    bool     `json:"is_life_threatening"`
	RecommendedSpecialty string   `json:"recommended_specialty"`
}

// AnalyzeSeverity scans normalized text against every tier in declaration
// order. Each contained keyword adds the tier weight; the level only escalates.
func (l *Lexicon) AnalyzeSeverity(text string) SeverityAnalysis {
	result := SeverityAnalysis{
		Level:            Mild,
		DetectedSymptoms: []string{},
	}

	for _, tier := range l.Tiers {
		for _, keyword := range tier.Keywords {
			if !strings.Contains(text, keyword) {
				continue
			}
			result.Score += tier.Weight
			result.DetectedSymptoms = append(result.DetectedSymptoms, keyword)
			if tier.Level.Rank() > result.Level.Rank() {
				result.Level = tier.Level
			}
		}
	}

	result.IsLifeThreatening = result.Level == Critical
	result.RecommendedSpecialty = l.RouteSpecialty(result.DetectedSymptoms)
	return result
}

// RouteSpecialty returns the specialty of the first term found in the
// specialty dictionary, or the lexicon default.
func (l *Lexicon) RouteSpecialty(terms []string) string {
	for _, term := range terms {
		if specialty, ok := l.Specialties[term]; ok {
			return specialty
		}
	}
	return l.DefaultSpecialty
}
