package host

import (
	"strings"
	"unicode"
)

// MaxInputRunes bounds a gratitude statement.
const MaxInputRunes = 200

// Input is the text being typed into the submission box.
type Input struct {
	runes []rune
}

// Insert appends typed characters, dropping control characters and
// anything past MaxInputRunes.
func (in *Input) Insert(rs ...rune) {
	for _, r := range rs {
		if len(in.runes) >= MaxInputRunes {
			return
		}
		if unicode.IsControl(r) {
			continue
		}
		in.runes = append(in.runes, r)
	}
}

// Backspace removes the last character.
func (in *Input) Backspace() {
	if len(in.runes) > 0 {
		in.runes = in.runes[:len(in.runes)-1]
	}
}

// Text returns the current text.
func (in *Input) Text() string { return string(in.runes) }

// Blank reports whether there is nothing but whitespace to submit.
func (in *Input) Blank() bool { return strings.TrimSpace(string(in.runes)) == "" }

// Clear empties the box.
func (in *Input) Clear() { in.runes = in.runes[:0] }

// Len returns the number of characters typed.
func (in *Input) Len() int { return len(in.runes) }
