// Package normalize provides the deterministic preprocessing applied to survey queries and to
// rule terms before they are compared.
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 whitespace to ASCII space, drop control and format runes
// 3 NFKD, strip combining marks, NFC
// 4 Case folding
// 5 Width fold fullwidth to ASCII
// 6 Keep Hangul syllables, a-z, 0-9, '~', '/' and space
// 7 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const (
	// RangeMarker joins the two ends of a numeric or textual range ("10~20")
	RangeMarker = '~'
	// Slash separates alternatives ("pc/mobile")
	Slash = '/'

	hangulFirst = '가'
	hangulLast  = '힣'
)

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Map(spaceToASCII),
			runes.Remove(runes.Predicate(isControlOrFormat)),
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			norm.NFC,                           // recompose Hangul syllables
			cases.Fold(),
			width.Fold,
		)
	},
}

// Normalize returns the normalized form of s following the pipeline described above
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain only fails on invalid input, which step 1 removed
		ns = s
	}

	return keepAllowed(ns)
}

// IsHangul reports whether r is a precomposed Hangul syllable
func IsHangul(r rune) bool { return r >= hangulFirst && r <= hangulLast }

// IsLatin reports whether r is a folded Latin letter
func IsLatin(r rune) bool { return r >= 'a' && r <= 'z' }

// IsDigit reports whether r is an ASCII digit
func IsDigit(r rune) bool { return r >= '0' && r <= '9' }

// Allowed reports whether r survives preprocessing
func Allowed(r rune) bool {
	return IsHangul(r) || IsLatin(r) || IsDigit(r) || r == RangeMarker || r == Slash || r == ' '
}

func spaceToASCII(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

func isControlOrFormat(r rune) bool {
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}

// keepAllowed drops runes outside the allowed set, collapses space runs and trims the edges
func keepAllowed(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if !Allowed(r) {
			continue
		}
		if r == ' ' {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
