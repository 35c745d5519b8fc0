package medical

import (
	"strings"
	"time"
)

// Analysis bundles every keyword analysis of a single message.
type Analysis struct {
	Symptoms      SeverityAnalysis `json:"symptom_analysis"`
	Intent        IntentAnalysis   `json:"intent_analysis"`
	ProcessedText string           `json:"processed_text"`
}

// Analyze normalizes message and runs the severity and intent classifiers on it.
func (l *Lexicon) Analyze(message string) Analysis {
	processed := l.Normalize(message)
	return Analysis{
		Symptoms:      l.AnalyzeSeverity(processed),
		Intent:        l.ClassifyIntent(processed),
		ProcessedText: processed,
	}
}

// Title derives a conversation title from the first user message. The first
// matching rule wins; otherwise the default title is suffixed with now's date.
func (l *Lexicon) Title(message string, now time.Time) string {
	text := strings.ToLower(message)
	for _, rule := range l.Titles {
		if rule.Keyword != "" && strings.Contains(text, rule.Keyword) {
			return rule.Title
		}
	}
	return l.DefaultTitle + " - " + now.Format("Jan 2, 2006")
}
