package rules

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Applied records one substitution made by Matcher.Apply
type Applied struct {
	Rule
	Start int `json:"start"` // byte offset in the input
}

type pattern struct {
	rule  Rule
	bound Boundary
}

// Matcher substitutes every rule of a snapshot in one left-to-right pass.
// At each position the longest acceptable term wins; replacement output is never rescanned.
// Where the text already reads as a candidate's target, that span is copied unchanged
type Matcher struct {
	ac   *automaton
	pats []pattern
}

func newMatcher(rs []Rule) *Matcher {
	m := &Matcher{ac: newAutomaton(), pats: make([]pattern, 0, len(rs))}
	for _, r := range rs {
		m.ac.add(r.From, len(m.pats))
		m.pats = append(m.pats, pattern{rule: r, bound: BoundaryFor(r.Class)})
	}
	m.ac.build()
	return m
}

// Len reports the number of compiled terms
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pats)
}

// Apply returns text with all accepted substitutions made
func (m *Matcher) Apply(text string) (string, []Applied) {
	if m.Len() == 0 || text == "" {
		return text, nil
	}

	// candidate pattern ids keyed by start offset
	var cands map[int][]int
	m.ac.findAll(text, func(end, id int) {
		if cands == nil {
			cands = make(map[int][]int)
		}
		start := end - len(m.pats[id].rule.From)
		cands[start] = append(cands[start], id)
	})
	if len(cands) == 0 {
		return text, nil
	}
	for _, ids := range cands {
		slices.SortFunc(ids, func(a, b int) int {
			return len(m.pats[b].rule.From) - len(m.pats[a].rule.From)
		})
	}

	var (
		b       strings.Builder
		applied []Applied
		copied  int
	)
	b.Grow(len(text))
	for i := 0; i < len(text); {
		p, held, ok := m.pick(text, i, cands[i])
		if ok {
			b.WriteString(text[copied:i])
			b.WriteString(p.rule.To)
			applied = append(applied, Applied{Rule: p.rule, Start: i})
			i += len(p.rule.From)
			copied = i
			continue
		}
		if held > 0 {
			i += held
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	if len(applied) == 0 {
		return text, nil
	}
	b.WriteString(text[copied:])
	return b.String(), applied
}

// pick walks the candidates at offset at longest first. held is the length of a target the
// text already holds there; no shorter candidate is tried once that is seen
func (m *Matcher) pick(text string, at int, ids []int) (p pattern, held int, ok bool) {
	for _, id := range ids {
		p = m.pats[id]
		if strings.HasPrefix(text[at:], p.rule.To) {
			return pattern{}, len(p.rule.To), false
		}
		if p.bound.Accept(text, at, at+len(p.rule.From)) {
			return p, 0, true
		}
	}
	return pattern{}, 0, false
}
