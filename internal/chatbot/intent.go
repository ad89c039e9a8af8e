package chatbot

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Intent is the branch a chat message is routed to.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentHelp        Intent = "help"
	IntentUsers       Intent = "users"
	IntentInward      Intent = "inward"
	IntentOutward     Intent = "outward"
	IntentDepartments Intent = "departments"
	IntentStatistics  Intent = "statistics"
	IntentOpen        Intent = "open"
)

var knownIntents = map[Intent]bool{
	IntentGreeting: true, IntentHelp: true, IntentUsers: true, IntentInward: true,
	IntentOutward: true, IntentDepartments: true, IntentStatistics: true,
}

//go:embed intents.yaml
var defaultIntents []byte

type intentFile struct {
	Intents []struct {
		Intent   Intent   `yaml:"intent"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"intents"`
}

type rule struct {
	intent   Intent
	keywords []string
}

// Classifier maps a message to an intent with an ordered keyword table.
type Classifier struct {
	rules []rule
}

// ParseClassifier builds a Classifier from a YAML rule table.
func ParseClassifier(data []byte) (*Classifier, error) {
	var f intentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse intents: %w", err)
	}
	if len(f.Intents) == 0 {
		return nil, errors.New("intents: no rules defined")
	}
	seen := map[Intent]bool{}
	c := &Classifier{}
	for i, entry := range f.Intents {
		if !knownIntents[entry.Intent] {
			return nil, fmt.Errorf("intents[%d]: unknown intent %q", i, entry.Intent)
		}
		if seen[entry.Intent] {
			return nil, fmt.Errorf("intents[%d]: %q listed twice", i, entry.Intent)
		}
		seen[entry.Intent] = true

		r := rule{intent: entry.Intent}
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(kw)
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("intents[%d]: empty keyword", i)
			}
			r.keywords = append(r.keywords, kw)
		}
		if len(r.keywords) == 0 {
			return nil, fmt.Errorf("intents[%d]: %q has no keywords", i, entry.Intent)
		}
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// DefaultClassifier uses the built-in rule table.
func DefaultClassifier() *Classifier {
	c, err := ParseClassifier(defaultIntents)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadClassifier reads the rule table at path, or uses the built-in table when path is empty.
func LoadClassifier(path string) (*Classifier, error) {
	if path == "" {
		return DefaultClassifier(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intents: %w", err)
	}
	return ParseClassifier(data)
}

// Classify returns the intent of the first rule with a keyword contained in the
// normalised message, or IntentOpen.
func (c *Classifier) Classify(message string) Intent {
	text := normalise(message)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.intent
			}
		}
	}
	return IntentOpen
}

// normalise lower-cases message, turns punctuation into spaces and pads both ends
// so whole-word keywords can be written as " word ".
func normalise(message string) string {
	var b strings.Builder
	b.Grow(len(message) + 2)
	b.WriteByte(' ')
	for _, r := range strings.ToLower(message) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte(' ')
	return b.String()
}
