package host

import "strings"

// Priority controls how a notice is drawn.
type Priority uint8

const (
	Info     Priority = iota // muted
	Warning                  // amber
	Critical                 // red
	Birth                    // the new star's color
)

// Notice is one line in the notice log.
type Notice struct {
	Text     string
	Priority Priority
	Color    string // hex color for Birth notices
}

// NoticeWidth is the wrap width of the notice panel, in characters.
const NoticeWidth = 48

// Notices is a bounded FIFO of notice lines.
type Notices struct {
	lines   []Notice
	maxSize int
}

// NewNotices creates a log that keeps the most recent maxSize lines.
func NewNotices(maxSize int) *Notices {
	return &Notices{
		lines:   make([]Notice, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add appends a notice, wrapped at NoticeWidth, evicting the oldest lines
// if full.
func (l *Notices) Add(text string, p Priority) {
	l.add(text, p, "")
}

// AddBirth appends a notice drawn in the star's color.
func (l *Notices) AddBirth(text, color string) {
	l.add(text, Birth, color)
}

func (l *Notices) add(text string, p Priority, color string) {
	for _, line := range Wrap(text, NoticeWidth) {
		n := Notice{Text: line, Priority: p, Color: color}
		if len(l.lines) >= l.maxSize {
			copy(l.lines, l.lines[1:])
			l.lines[len(l.lines)-1] = n
		} else {
			l.lines = append(l.lines, n)
		}
	}
}

// Recent returns the last n lines (or fewer if the log is shorter).
func (l *Notices) Recent(n int) []Notice {
	n = min(n, len(l.lines))
	return l.lines[len(l.lines)-n:]
}

// Len returns the number of lines held.
func (l *Notices) Len() int { return len(l.lines) }

// Wrap splits s into lines of at most width runes, breaking on spaces.
// A single word longer than width is split.
func Wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var out []string
	line := ""
	for _, w := range words {
		for len([]rune(w)) > width {
			if line != "" {
				out = append(out, line)
				line = ""
			}
			r := []rune(w)
			out = append(out, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case line == "":
			line = w
		case len([]rune(line))+1+len([]rune(w)) > width:
			out = append(out, line)
			line = w
		default:
			line += " " + w
		}
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
