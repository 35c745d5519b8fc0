package medical

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestAnalyzeChestPainIsCritical(t *testing.T) {
	analysis := Default().Analyze("I have chest pain and a headache")

	got := analysis.Symptoms
	if got.Level != Critical || !got.IsLifeThreatening {
		t.Fatalf("expected critical life-threatening analysis, got %+v", got)
	}
	if got.Score != 14 {
		t.Fatalf("expected score 14, got %d", got.Score)
	}
	if want := []string{"chest pain", "headache"}; !reflect.DeepEqual(got.DetectedSymptoms, want) {
		t.Fatalf("detected symptoms = %v, want %v", got.DetectedSymptoms, want)
	}
	if got.RecommendedSpecialty != "Cardiologist" {
		t.Fatalf("expected Cardiologist, got %s", got.RecommendedSpecialty)
	}
}

func TestAnalyzeRunnyNoseIsMild(t *testing.T) {
	got := Default().Analyze("I have a runny nose").Symptoms
	if got.Level != Mild || got.Score != 1 {
		t.Fatalf("expected mild with score 1, got %+v", got)
	}
	if got.IsLifeThreatening {
		t.Fatal("runny nose must not be life-threatening")
	}
}

func TestAnalyzeNoMatches(t *testing.T) {
	for _, text := range []string{"", "xyz abcdef", "qwrtp zzkv"} {
		got := Default().AnalyzeSeverity(Default().Normalize(text))
		if got.Level != Mild || got.Score != 0 || len(got.DetectedSymptoms) != 0 {
			t.Fatalf("%q: expected empty mild analysis, got %+v", text, got)
		}
		if got.DetectedSymptoms == nil {
			t.Fatalf("%q: detected symptoms should be an empty slice", text)
		}
		if got.RecommendedSpecialty != DefaultSpecialty {
			t.Fatalf("%q: expected default specialty, got %s", text, got.RecommendedSpecialty)
		}
	}
}

func TestEveryCriticalKeywordWins(t *testing.T) {
	lex := Default()
	critical := lex.Tiers[0]
	if critical.Level != Critical {
		t.Fatalf("first tier should be critical, got %s", critical.Level)
	}

	for _, keyword := range critical.Keywords {
		got := lex.AnalyzeSeverity("mild headache, runny nose and " + keyword)
		if got.Level != Critical || !got.IsLifeThreatening {
			t.Fatalf("keyword %q: expected critical, got %s", keyword, got.Level)
		}
	}
}

func TestOverlappingTiersAllScore(t *testing.T) {
	got := Default().AnalyzeSeverity("severe abdominal pain since morning")

	if got.Level != Critical {
		t.Fatalf("expected critical, got %s", got.Level)
	}
	if got.Score != 21 {
		t.Fatalf("expected 10+7+4=21, got %d", got.Score)
	}
	want := []string{"severe abdominal pain", "severe abdominal pain", "abdominal pain"}
	if !reflect.DeepEqual(got.DetectedSymptoms, want) {
		t.Fatalf("detected symptoms = %v, want %v", got.DetectedSymptoms, want)
	}
	if got.RecommendedSpecialty != "Gastroenterologist" {
		t.Fatalf("expected Gastroenterologist, got %s", got.RecommendedSpecialty)
	}
}

func TestLevelNeverDowngrades(t *testing.T) {
	lex, err := ParseLexicon([]byte(`
severity_tiers:
  - level: high
    weight: 7
    keywords: [alpha]
  - level: moderate
    weight: 4
    keywords: [beta]
  - level: mild
    weight: 1
    keywords: [gamma]
intents:
  - name: greeting
    keywords: [hello]
`))
	if err != nil {
		t.Fatalf("ParseLexicon err: %v", err)
	}

	got := lex.AnalyzeSeverity("gamma beta alpha")
	if got.Level != High || got.Score != 12 {
		t.Fatalf("expected high/12, got %s/%d", got.Level, got.Score)
	}
}

func TestRouteSpecialtyFollowsTermOrder(t *testing.T) {
	lex := Default()

	cases := []struct {
		terms []string
		want  string
	}{
		{[]string{"stroke", "chest pain"}, "Neurologist"},
		{[]string{"chest pain", "stroke"}, "Cardiologist"},
		{[]string{"not mapped", "fever"}, "General Practitioner"},
		{nil, DefaultSpecialty},
		{[]string{"not mapped"}, DefaultSpecialty},
	}
	for _, tc := range cases {
		if got := lex.RouteSpecialty(tc.terms); got != tc.want {
			t.Fatalf("RouteSpecialty(%v) = %s, want %s", tc.terms, got, tc.want)
		}
	}
}

func TestClassifyIntentAllZeroDefaultsToFirstCategory(t *testing.T) {
	lex := Default()
	got := lex.ClassifyIntent("xyz abcdef")

	if got.PrimaryIntent != lex.Intents[0].Name || got.PrimaryIntent != SymptomInquiry {
		t.Fatalf("expected %s, got %s", SymptomInquiry, got.PrimaryIntent)
	}
	if got.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %f", got.Confidence)
	}
	if len(got.AllScores) != 9 {
		t.Fatalf("expected 9 category scores, got %d", len(got.AllScores))
	}
}

func TestClassifyIntentGreetingAndAppointment(t *testing.T) {
	lex := Default()
	got := lex.ClassifyIntent(lex.Normalize("hello, I'd like to book an appointment"))

	if got.AllScores[Greeting] < 1 || got.AllScores[AppointmentRequest] < 1 {
		t.Fatalf("expected hits for greeting and appointment, got %v", got.AllScores)
	}
	if got.PrimaryIntent != AppointmentRequest {
		t.Fatalf("expected appointment_request, got %s", got.PrimaryIntent)
	}

	var appointmentKeywords int
	for _, c := range lex.Intents {
		if c.Name == AppointmentRequest {
			appointmentKeywords = len(c.Keywords)
		}
	}
	if want := 2 / float64(appointmentKeywords); got.Confidence != want {
		t.Fatalf("confidence = %f, want %f", got.Confidence, want)
	}
}

func TestClassifyIntentTieGoesToFirstDeclared(t *testing.T) {
	lex, err := ParseLexicon([]byte(`
severity_tiers:
  - level: mild
    weight: 1
    keywords: [sniffle]
intents:
  - name: greeting
    keywords: [hello, hey]
  - name: appointment_request
    keywords: [book, appointment, visit]
`))
	if err != nil {
		t.Fatalf("ParseLexicon err: %v", err)
	}

	got := lex.ClassifyIntent("hello, i want to book")
	if got.PrimaryIntent != Greeting {
		t.Fatalf("expected tie to resolve to greeting, got %s", got.PrimaryIntent)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("expected confidence 1/2, got %f", got.Confidence)
	}
}

func TestNormalizeExpandsAbbreviations(t *testing.T) {
	lex := Default()

	cases := map[string]string{
		"My BP is high and I have SOB":    "my blood pressure is high and i have shortness of breath",
		"Pt c/o CP and n/v, hx of HTN":    "pt complains of chest pain and nausea and vomiting, history of htn",
		"  lots   of\tspace \n":           "lots of space",
		"I have a rash":                   "i have a skin rash",
		"bpm is fine, no bp reading":      "beats per minute is fine, no blood pressure reading",
		"temperature and temp":            "temperature and temperature",
		"":                                "",
	}
	for in, want := range cases {
		if got := lex.Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSkipsUpperCaseAbbreviations(t *testing.T) {
	got := Default().Analyze("im fine, John Doe, mi casa")
	if got.ProcessedText != "intramuscular fine, john doe, mi casa" {
		t.Fatalf("unexpected processed text %q", got.ProcessedText)
	}
	if got.Symptoms.Level != Mild || got.Symptoms.IsLifeThreatening {
		t.Fatalf("expected no alert, got %+v", got.Symptoms)
	}

	lex, err := ParseLexicon([]byte(`
severity_tiers:
  - level: mild
    weight: 1
    keywords: [sniffle]
intents:
  - name: greeting
abbreviations:
  - abbr: "MI"
    expansion: "myocardial infarction"
  - abbr: "sob"
    expansion: "Shortness Of Breath"
`))
	if err != nil {
		t.Fatalf("ParseLexicon err: %v", err)
	}
	if len(lex.Abbreviations) != 1 {
		t.Fatalf("expected only the lower-case key to remain, got %+v", lex.Abbreviations)
	}
	if got := lex.Normalize("MI and SOB"); got != "mi and shortness of breath" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	lex := Default()
	inputs := []string{
		"I have a rash on my arm",
		"skin rash and RASH",
		"Pt c/o CP and n/v, hx of HTN, dm, chf",
		"bp/hr recorded; sob-cp",
		"PERRLA, NAD, VS stable",
		"prn po bid tid qid ac pc hs",
	}
	for _, in := range inputs {
		once := lex.Normalize(in)
		if twice := lex.Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestTitle(t *testing.T) {
	lex := Default()
	now := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

	if got := lex.Title("I've had a FEVER since yesterday", now); got != "Fever Evaluation" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := lex.Title("chest pain and headache", now); got != "Chest Pain Consultation" {
		t.Fatalf("first rule should win, got %q", got)
	}
	if got := lex.Title("hello there", now); got != "Medical Consultation - Oct 14, 2026" {
		t.Fatalf("unexpected default title %q", got)
	}
}

func TestParseLexiconRejectsInvalidTables(t *testing.T) {
	cases := map[string]string{
		"unknown level": `
severity_tiers:
  - level: extreme
    weight: 1
intents:
  - name: greeting
`,
		"wrong order": `
severity_tiers:
  - level: mild
    weight: 1
  - level: critical
    weight: 10
intents:
  - name: greeting
`,
		"duplicate intent": `
severity_tiers:
  - level: mild
    weight: 1
intents:
  - name: greeting
  - name: greeting
`,
		"no intents": `
severity_tiers:
  - level: mild
    weight: 1
`,
	}
	for name, doc := range cases {
		if _, err := ParseLexicon([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if !strings.HasPrefix(err.Error(), "lexicon:") {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
	}
}
