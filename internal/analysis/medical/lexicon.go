package medical

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var embeddedLexicon []byte

// Tier is one severity bucket with its keyword list and per-match weight.
type Tier struct {
	Level    Level    `yaml:"level"`
	Weight   int      `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

// IntentCategory is one user-goal class. Declaration order decides ties.
type IntentCategory struct {
	Name     Intent   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Abbreviation maps a shorthand token to the phrase it stands for.
type Abbreviation struct {
	Abbr      string `yaml:"abbr"`
	Expansion string `yaml:"expansion"`
}

// TitleRule maps a keyword of the first message to a conversation title.
type TitleRule struct {
	Keyword string `yaml:"keyword"`
	Title   string `yaml:"title"`
}

// Lexicon holds the immutable keyword tables used by every analyzer in this
// package. A Lexicon is safe for concurrent use once loaded.
type Lexicon struct {
	Tiers            []Tier            `yaml:"severity_tiers"`
	DefaultSpecialty string            `yaml:"default_specialty"`
	Specialties      map[string]string `yaml:"specialties"`
	Intents          []IntentCategory  `yaml:"intents"`
	Abbreviations    []Abbreviation    `yaml:"abbreviations"`
	DefaultTitle     string            `yaml:"default_title"`
	Titles           []TitleRule       `yaml:"titles"`
}

var defaultLexicon = sync.OnceValues(func() (*Lexicon, error) {
	return ParseLexicon(embeddedLexicon)
})

// Default returns the lexicon compiled into the binary.
func Default() *Lexicon {
	lex, err := defaultLexicon()
	if err != nil {
		panic(fmt.Sprintf("medical: embedded lexicon is invalid: %v", err))
	}
	return lex
}

// LoadLexicon reads a YAML lexicon from disk. An empty path yields Default.
func LoadLexicon(path string) (*Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes and validates a YAML lexicon. Keywords, abbreviations
// and title keywords are lower-cased so they compare against normalized text.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	if err := lex.prepare(); err != nil {
		return nil, err
	}
	return &lex, nil
}

func (l *Lexicon) prepare() error {
	if len(l.Tiers) == 0 {
		return errors.New("lexicon: at least one severity tier is required")
	}

	seenLevels := make(map[Level]bool, len(l.Tiers))
	lastRank := len(levelRank) + 1
	for i := range l.Tiers {
		tier := &l.Tiers[i]
		rank, ok := levelRank[tier.Level]
		if !ok {
			return fmt.Errorf("lexicon: unknown severity level %q", tier.Level)
		}
		if seenLevels[tier.Level] {
			return fmt.Errorf("lexicon: severity level %q declared twice", tier.Level)
		}
		if rank >= lastRank {
			return fmt.Errorf("lexicon: severity tier %q must be declared after more severe tiers", tier.Level)
		}
		if tier.Weight < 0 {
			return fmt.Errorf("lexicon: severity tier %q has negative weight", tier.Level)
		}
		seenLevels[tier.Level] = true
		lastRank = rank
		tier.Keywords = lowerAll(tier.Keywords)
	}

	if len(l.Intents) == 0 {
		return errors.New("lexicon: at least one intent category is required")
	}
	seenIntents := make(map[Intent]bool, len(l.Intents))
	for i := range l.Intents {
		category := &l.Intents[i]
		if category.Name == "" {
			return errors.New("lexicon: intent category without a name")
		}
		if seenIntents[category.Name] {
			return fmt.Errorf("lexicon: intent %q declared twice", category.Name)
		}
		seenIntents[category.Name] = true
		category.Keywords = lowerAll(category.Keywords)
	}

	specialties := make(map[string]string, len(l.Specialties))
	for term, specialty := range l.Specialties {
		specialties[strings.ToLower(strings.TrimSpace(term))] = specialty
	}
	l.Specialties = specialties
	if strings.TrimSpace(l.DefaultSpecialty) == "" {
		l.DefaultSpecialty = DefaultSpecialty
	}

	// Abbreviations match the already lower-cased text, so keys carrying
	// upper-case letters can never fire and are dropped.
	abbreviations := make([]Abbreviation, 0, len(l.Abbreviations))
	for _, abbr := range l.Abbreviations {
		abbr.Abbr = strings.TrimSpace(abbr.Abbr)
		abbr.Expansion = strings.ToLower(strings.TrimSpace(abbr.Expansion))
		if abbr.Abbr == "" {
			return errors.New("lexicon: empty abbreviation")
		}
		if abbr.Abbr != strings.ToLower(abbr.Abbr) {
			continue
		}
		abbreviations = append(abbreviations, abbr)
	}
	l.Abbreviations = abbreviations

	for i := range l.Titles {
		l.Titles[i].Keyword = strings.ToLower(strings.TrimSpace(l.Titles[i].Keyword))
	}
	if strings.TrimSpace(l.DefaultTitle) == "" {
		l.DefaultTitle = "Medical Consultation"
	}

	return nil
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}
