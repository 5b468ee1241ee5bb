// Package star defines the gratitude star record shared by the store, the
// analyzer and the starfield.
package star

import (
	"strings"

	"github.com/google/uuid"
)

// Brightness bounds. Brightness scales both collision radius and drawn size.
const (
	MinBrightness = 0.5
	MaxBrightness = 1.0
)

// Defaults substituted for malformed fields.
const (
	DefaultBrightness = MinBrightness
	DefaultColor      = "#ffffff"
	DefaultCategory   = "Echo"
)

// Record is one gratitude entry. It is immutable once created: the layout
// engine keeps its own simulation state keyed by ID.
type Record struct {
	ID      string  `json:"id" validate:"required"`
	Text    string  `json:"originalText" validate:"required"`
	Reading Reading `json:"aiResponse"`
}

// Reading is the analyzer's interpretation of a gratitude statement.
type Reading struct {
	Category       string  `json:"category" validate:"required"`
	SentimentColor string  `json:"sentimentColor" validate:"required,hexcolor"`
	Blessing       string  `json:"blessing"`
	Brightness     float64 `json:"brightness" validate:"gte=0.5,lte=1"`
	Archetype      string  `json:"archetype"`
	Distance       string  `json:"distance"`
	Frequency      string  `json:"frequency"`
}

// NewID returns a fresh star identifier.
func NewID() string {
	return uuid.NewString()
}

// New creates a record with a fresh ID for the given text and reading.
func New(text string, r Reading) Record {
	return Record{ID: NewID(), Text: strings.TrimSpace(text), Reading: r}
}

// Echo is the star shown when analysis fails.
func Echo(text string) Record {
	return New(text, Reading{
		Category:       DefaultCategory,
		SentimentColor: DefaultColor,
		Blessing:       "Your gratitude echoes in the silence of the cosmos.",
		Brightness:     DefaultBrightness,
		Archetype:      "The Traveler",
		Distance:       "Unknown",
		Frequency:      "Silence",
	})
}

// Category returns the grouping key used for constellation links.
func (r Record) Category() string { return r.Reading.Category }

// Brightness returns a brightness that is always safe for position math.
func (r Record) Brightness() float64 {
	return clampBrightness(r.Reading.Brightness)
}

// Excerpt returns the text cut to n runes with a trailing ellipsis.
func (r Record) Excerpt(n int) string {
	runes := []rune(r.Text)
	if len(runes) <= n {
		return r.Text
	}
	return string(runes[:n]) + "..."
}
