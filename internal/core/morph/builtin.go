package morph

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"querycanon/internal/core/normalize"
)

// suffix lists are ordered longest first
var (
	endings = []string{"습니다", "입니다", "어요", "아요", "해요", "었다", "았다", "했다", "한다", "하다", "다", "요"}

	multiParticles  = []string{"에서", "에게", "한테", "으로", "까지", "부터", "처럼", "보다"}
	singleParticles = []string{"은", "는", "이", "가", "을", "를", "에", "로", "도", "만", "의", "와", "과"}

	// particles that also attach when written as a separate word
	looseParticles = map[string]struct{}{
		"에서": {}, "에게": {}, "한테": {}, "으로": {}, "까지": {}, "부터": {}, "처럼": {},
		"은": {}, "는": {}, "을": {}, "를": {}, "의": {},
	}
)

// Builtin is a lexicon segmenter: script runs become tokens and common particles and
// endings are split off Hangul runs
type Builtin struct {
	maxRunes int
}

// NewBuiltin returns a Builtin accepting at most maxRunes runes (DefaultMaxRunes when <= 0)
func NewBuiltin(maxRunes int) *Builtin {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}
	return &Builtin{maxRunes: maxRunes}
}

// Segment implements Segmenter
func (b *Builtin) Segment(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate(text, b.maxRunes); err != nil {
		return nil, err
	}

	var toks []Token
	for i, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		if _, ok := looseParticles[word]; ok && i > 0 {
			toks = append(toks, Token{Form: word, Tag: TagParticle, Space: true})
			continue
		}
		start := len(toks)
		toks = splitWord(toks, word)
		toks[start].Space = i > 0
	}
	return toks, nil
}

type runClass uint8

const (
	runOther runClass = iota
	runHangul
	runLatin
	runDigit
)

func classOf(r rune) runClass {
	switch {
	case normalize.IsHangul(r):
		return runHangul
	case normalize.IsLatin(r), r >= 'A' && r <= 'Z':
		return runLatin
	case normalize.IsDigit(r):
		return runDigit
	}
	return runOther
}

// splitWord appends the tokens of one whitespace-free word
func splitWord(toks []Token, word string) []Token {
	for len(word) > 0 {
		r, size := utf8.DecodeRuneInString(word)
		cls := classOf(r)
		end := size
		if cls != runOther {
			for end < len(word) {
				nr, ns := utf8.DecodeRuneInString(word[end:])
				if classOf(nr) != cls {
					break
				}
				end += ns
			}
		}
		run := word[:end]
		word = word[end:]

		switch cls {
		case runHangul:
			toks = appendHangul(toks, run)
		case runLatin:
			toks = append(toks, Token{Form: run, Tag: TagForeign})
		case runDigit:
			toks = append(toks, Token{Form: run, Tag: TagNumber})
		default:
			toks = append(toks, Token{Form: run, Tag: TagSymbol})
		}
	}
	return toks
}

func appendHangul(toks []Token, run string) []Token {
	if stem, end, ok := cutSuffix(run, endings, 2); ok {
		return append(toks, Token{Form: stem, Tag: TagNoun}, Token{Form: end, Tag: TagEnding})
	}
	if stem, p, ok := cutSuffix(run, multiParticles, 1); ok {
		return append(toks, Token{Form: stem, Tag: TagNoun}, Token{Form: p, Tag: TagParticle})
	}
	if stem, p, ok := cutSuffix(run, singleParticles, 2); ok {
		return append(toks, Token{Form: stem, Tag: TagNoun}, Token{Form: p, Tag: TagParticle})
	}
	return append(toks, Token{Form: run, Tag: TagNoun})
}

// cutSuffix splits the first matching suffix off run. A one-rune suffix needs a stem of at
// least minStem runes so short nouns like 나이 or 바다 stay whole
func cutSuffix(run string, suffixes []string, minStem int) (stem, suffix string, ok bool) {
	for _, s := range suffixes {
		if !strings.HasSuffix(run, s) {
			continue
		}
		stem = run[:len(run)-len(s)]
		need := 1
		if utf8.RuneCountInString(s) == 1 {
			need = minStem
		}
		if utf8.RuneCountInString(stem) >= need {
			return stem, s, true
		}
	}
	return "", "", false
}
