// Package morph splits canonical text into tagged morphemes and rejoins them with
// Korean spacing rules. Builtin is a small lexicon segmenter; Remote talks to an
// analyzer sidecar over HTTP
package morph

import (
	"context"
	"strings"
	"unicode/utf8"

	perr "querycanon/internal/platform/errors"
)

// Tag is a part-of-speech tag. Builtin emits the coarse tags below; Remote passes
// the analyzer's tags through (JKS, EF, ...)
type Tag string

const (
	TagNoun     Tag = "NNG"
	TagForeign  Tag = "SL"
	TagNumber   Tag = "SN"
	TagSymbol   Tag = "SW"
	TagParticle Tag = "J"
	TagEnding   Tag = "E"
)

// Attaches reports whether the tag glues to the preceding token (particles and endings)
func (t Tag) Attaches() bool {
	return strings.HasPrefix(string(t), "J") || strings.HasPrefix(string(t), "E")
}

// RangeMarker attaches on both sides when joining
const RangeMarker = "~"

// DefaultMaxRunes bounds the text a segmenter accepts
const DefaultMaxRunes = 512

// Token is one morpheme. Space is true when whitespace preceded it in the source
type Token struct {
	Form  string `json:"form"`
	Tag   Tag    `json:"tag"`
	Space bool   `json:"space"`
}

// Segmenter splits text into tokens. Malformed input fails with ErrorCodeInvalidArgument,
// an unreachable analyzer with ErrorCodeUnavailable
type Segmenter interface {
	Segment(ctx context.Context, text string) ([]Token, error)
}

// Join rebuilds text from tokens
func Join(toks []Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && t.Space && !glueLeft(t) && toks[i-1].Form != RangeMarker {
			b.WriteByte(' ')
		}
		b.WriteString(t.Form)
	}
	return b.String()
}

func glueLeft(t Token) bool { return t.Tag.Attaches() || t.Form == RangeMarker }

func validate(text string, maxRunes int) error {
	if !utf8.ValidString(text) {
		return perr.WithField(perr.InvalidArgf("text is not valid utf-8"), "text")
	}
	if maxRunes > 0 {
		if n := utf8.RuneCountInString(text); n > maxRunes {
			return perr.WithField(perr.InvalidArgf("text has %d runes, limit is %d", n, maxRunes), "text")
		}
	}
	return nil
}
