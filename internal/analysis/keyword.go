package analysis

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"github.com/frankfika/thanksgiving/internal/star"
)

type theme struct {
	category  string
	color     string
	archetype string
	keywords  []string
	blessings []string
}

var themes = []theme{
	{
		category: "Family", color: "#FFD700", archetype: "The Guardian",
		keywords: []string{"family", "mom", "mother", "dad", "father", "parent", "sister", "brother", "grandma", "grandpa", "kids", "children", "son", "daughter", "家人", "父母", "妈妈", "爸爸", "孩子"},
		blessings: []string{
			"Family is the root that anchors us in the storm of life; cherish their warmth.",
			"The hands that raised you still hold the sky above you.",
		},
	},
	{
		category: "Friendship", color: "#9b59b6", archetype: "The Companion",
		keywords: []string{"friend", "buddy", "pal", "neighbor", "team", "community", "朋友", "伙伴"},
		blessings: []string{
			"Friends are the constellations we choose; together you draw new shapes in the dark.",
			"Every shared laugh is a small star lit between two hearts.",
		},
	},
	{
		category: "Love", color: "#e84393", archetype: "The Weaver",
		keywords: []string{"love", "partner", "husband", "wife", "boyfriend", "girlfriend", "heart", "爱人", "爱"},
		blessings: []string{
			"Love is the gravity that bends two orbits into one.",
			"Where love rests, the night is never fully dark.",
		},
	},
	{
		category: "Career", color: "#2ecc71", archetype: "The Architect",
		keywords: []string{"job", "work", "career", "code", "project", "colleague", "boss", "promotion", "office", "工作", "事业", "同事"},
		blessings: []string{
			"Order from chaos is a divine act; may your logic always flow clear.",
			"What you build with patience outlasts the hurry of the day.",
		},
	},
	{
		category: "Nature", color: "#1abc9c", archetype: "The Stargazer",
		keywords: []string{"nature", "sun", "sunrise", "sunset", "rain", "tree", "forest", "ocean", "sea", "mountain", "sky", "flower", "autumn", "大自然", "阳光", "大海"},
		blessings: []string{
			"The earth breathes with you; every leaf is a letter from the sun.",
			"Mountains remember the patience you are still learning.",
		},
	},
	{
		category: "Health", color: "#3498db", archetype: "The Healer",
		keywords: []string{"health", "healthy", "recovery", "recovered", "doctor", "nurse", "body", "alive", "breath", "健康", "身体"},
		blessings: []string{
			"Each breath is a quiet miracle the universe repeats for you.",
			"A body that carries you is a vessel worth thanking.",
		},
	},
	{
		category: "Small Joys", color: "#e67e22", archetype: "The Observer",
		keywords: []string{"coffee", "tea", "food", "meal", "dinner", "pie", "music", "book", "cat", "dog", "pet", "morning", "咖啡", "美食", "音乐"},
		blessings: []string{
			"In the smallest sips, we taste the vast comfort of the universe.",
			"Little lights add up to a galaxy.",
		},
	},
	{
		category: "Growth", color: "#00cec9", archetype: "The Navigator",
		keywords: []string{"learn", "learning", "grow", "growth", "school", "teacher", "lesson", "change", "challenge", "成长", "学习", "老师"},
		blessings: []string{
			"Every lesson is a new star charted on the map of who you are becoming.",
			"Growth is slow light: it arrives long after it leaves.",
		},
	},
}

var fallbackTheme = theme{
	category: "Harmony", color: "#a29bfe", archetype: "The Wanderer",
	blessings: []string{
		"Gratitude is the quiet song the cosmos hums back to you.",
		"What you notice, you keep; what you thank, you multiply.",
	},
}

// Categories lists every category the built-in analyzers produce,
// including the echo fallback.
func Categories() []string {
	out := make([]string, 0, len(themes)+2)
	for _, th := range themes {
		out = append(out, th.category)
	}
	return append(out, fallbackTheme.category, star.DefaultCategory)
}

// Emotional markers raise brightness.
var markers = []string{"so ", "very", "deeply", "truly", "really", "forever", "always", "!", "love", "grateful", "thankful", "blessed", "感谢", "感恩", "非常"}

var frequencies = []string{"432 Hz", "528 Hz", "639 Hz", "741 Hz", "Om Resonance", "Solar Hum", "60 Hz", "Heartbeat Rhythm"}

var places = []string{"In the Heart Nebula", "Beyond the Milky Way", "Near Orion's Belt", "At the Edge of Andromeda"}

// Keyword is an offline analyzer driven by keyword tables. The same seed
// and text always give the same reading.
type Keyword struct {
	Seed uint64
}

// NewKeyword returns a keyword analyzer.
func NewKeyword(seed uint64) *Keyword {
	return &Keyword{Seed: seed}
}

// Analyze implements Analyzer.
func (k *Keyword) Analyze(ctx context.Context, text string) (star.Record, error) {
	if err := ctx.Err(); err != nil {
		return star.Record{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return star.Record{}, ErrEmptyText
	}
	lower := strings.ToLower(text)

	h := fnv.New64a()
	h.Write([]byte(lower))
	rng := rand.New(rand.NewPCG(k.Seed, h.Sum64()))

	th := classify(lower)
	reading := star.Reading{
		Category:       th.category,
		SentimentColor: th.color,
		Blessing:       th.blessings[rng.IntN(len(th.blessings))],
		Brightness:     brightness(lower),
		Archetype:      th.archetype,
		Frequency:      frequencies[rng.IntN(len(frequencies))],
	}
	if rng.IntN(4) == 0 {
		reading.Distance = places[rng.IntN(len(places))]
	} else {
		reading.Distance = fmt.Sprintf("%d Light Years", 1+rng.IntN(9999))
	}
	return star.New(text, reading), nil
}

// classify picks the theme with the most keyword hits; ties go to the
// earlier theme.
func classify(lower string) theme {
	best, hits := fallbackTheme, 0
	for _, th := range themes {
		n := 0
		for _, kw := range th.keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		if n > hits {
			best, hits = th, n
		}
	}
	return best
}

func brightness(lower string) float64 {
	b := star.MinBrightness
	for _, m := range markers {
		if strings.Contains(lower, m) {
			b += 0.1
		}
	}
	if len([]rune(lower)) > 80 {
		b += 0.1
	}
	return min(b, star.MaxBrightness)
}
