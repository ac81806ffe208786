package chart

import (
	"strings"
	"unicode/utf8"
)

const (
	fontCharWidth  = 0.55
	lineHeightRate = 1.35
	minLineChars   = 3
)

// TextWidth estimates the rendered width of s at the given font size.
func TextWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSize * fontCharWidth
}

// Wrap breaks text into lines that fit width at fontSize, greedily by word.
// Words longer than a line are split. When more than maxLines lines are
// needed, the last kept line is truncated with "..".
func Wrap(text string, width, fontSize float64, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || maxLines <= 0 {
		return nil
	}
	limit := max(minLineChars, int(width/(fontSize*fontCharWidth)))

	var lines []string
	var cur []rune
	for _, w := range words {
		word := []rune(w)
		for len(word) > limit {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(word[:limit]))
			word = word[limit:]
		}
		switch {
		case len(cur) == 0:
			cur = word
		case len(cur)+1+len(word) <= limit:
			cur = append(append(cur, ' '), word...)
		default:
			lines = append(lines, string(cur))
			cur = word
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}

	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	if len(last) > limit-2 {
		last = last[:limit-2]
	}
	lines[maxLines-1] = string(last) + ".."
	return lines
}

// LineHeight is the baseline distance for a font size.
func LineHeight(fontSize float64) float64 { return fontSize * lineHeightRate }
