package host

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticesAreBounded(t *testing.T) {
	l := NewNotices(3)
	for _, s := range []string{"one", "two", "three", "four"} {
		l.Add(s, Info)
	}
	recent := l.Recent(10)
	assert.Len(t, recent, 3)
	assert.Equal(t, "two", recent[0].Text)
	assert.Equal(t, "four", recent[2].Text)
	assert.Equal(t, "four", l.Recent(1)[0].Text)
}

func TestLongNoticesWrap(t *testing.T) {
	l := NewNotices(10)
	l.AddBirth(strings.Repeat("star ", 20), "#FFD700")
	assert.Greater(t, l.Len(), 1)
	for _, n := range l.Recent(10) {
		assert.LessOrEqual(t, len([]rune(n.Text)), NoticeWidth)
		assert.Equal(t, Birth, n.Priority)
		assert.Equal(t, "#FFD700", n.Color)
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"a b c"}, Wrap("a b c", 10))
	assert.Equal(t, []string{"hello", "world"}, Wrap("hello world", 7))
	assert.Equal(t, []string{""}, Wrap("   ", 5))
	assert.Equal(t, []string{"abcd", "efgh", "ij k"}, Wrap("abcdefghij k", 4))
	assert.Equal(t, []string{"感谢我的", "朋友"}, Wrap("感谢我的朋友", 4))
}

func TestInput(t *testing.T) {
	var in Input
	assert.True(t, in.Blank())
	in.Insert('h', 'i', '\n', '\t')
	assert.Equal(t, "hi", in.Text())
	in.Backspace()
	in.Backspace()
	in.Backspace()
	assert.Equal(t, "", in.Text())

	in.Insert([]rune(strings.Repeat("x", MaxInputRunes+10))...)
	assert.Equal(t, MaxInputRunes, in.Len())
	in.Clear()
	assert.Equal(t, 0, in.Len())
}
