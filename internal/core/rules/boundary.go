package rules

import (
	"unicode/utf8"

	"querycanon/internal/core/normalize"
)

// Boundary decides whether a term occurrence text[start:end] may be replaced.
// One Boundary is chosen per rule class when the matcher is compiled
type Boundary interface {
	Accept(text string, start, end int) bool
}

// rangeWindow is how many runes on each side of a span are checked for a range marker
const rangeWindow = 3

type script uint8

const (
	scriptOther script = iota
	scriptHangul
	scriptLatin
	scriptDigit
)

func scriptOf(r rune) script {
	switch {
	case normalize.IsHangul(r):
		return scriptHangul
	case normalize.IsLatin(r):
		return scriptLatin
	case normalize.IsDigit(r):
		return scriptDigit
	}
	return scriptOther
}

func sameScript(a, b rune) bool {
	sa := scriptOf(a)
	return sa != scriptOther && sa == scriptOf(b)
}

// TypoBoundary checks neighbours by script class and protects ranges
type TypoBoundary struct{}

// Accept implements Boundary
func (TypoBoundary) Accept(text string, start, end int) bool {
	return edgesOK(text, start, end) && !nearRangeMarker(text, start, end)
}

// SynonymBoundary is TypoBoundary plus compound protection: a synonym is not applied
// inside a derived word such as 감성적 or 만족도
type SynonymBoundary struct{}

var compoundSuffixes = map[rune]struct{}{
	'도': {}, '률': {}, '율': {}, '적': {}, '성': {}, '감': {}, '력': {}, '능': {},
}

// Accept implements Boundary
func (SynonymBoundary) Accept(text string, start, end int) bool {
	if !(TypoBoundary{}).Accept(text, start, end) {
		return false
	}
	if end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if _, ok := compoundSuffixes[next]; ok {
			return false
		}
	}
	return true
}

// BoundaryFor returns the boundary used for rules of class c
func BoundaryFor(c Class) Boundary {
	if c == Synonym {
		return SynonymBoundary{}
	}
	return TypoBoundary{}
}

// edgesOK rejects a span glued to a neighbour of the same script. Hangul-final terms
// accept a following syllable since particles attach without a space
func edgesOK(text string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(text[start:end])
	last, _ := utf8.DecodeLastRuneInString(text[start:end])
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if sameScript(prev, first) {
			return false
		}
	}
	if end < len(text) && scriptOf(last) != scriptHangul {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if sameScript(last, next) {
			return false
		}
	}
	return true
}

func nearRangeMarker(text string, start, end int) bool {
	i := start
	for n := 0; n < rangeWindow && i > 0; n++ {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if r == normalize.RangeMarker {
			return true
		}
		i -= size
	}
	j := end
	for n := 0; n < rangeWindow && j < len(text); n++ {
		r, size := utf8.DecodeRuneInString(text[j:])
		if r == normalize.RangeMarker {
			return true
		}
		j += size
	}
	return false
}
