package rules

import (
	"slices"
	"strings"

	"querycanon/internal/core/normalize"
)

// Compiled is the outcome of Compile
type Compiled struct {
	Rules   []Rule
	Matcher *Matcher
	Stats   Stats
	Cyclic  []string // source terms dropped because their chain loops
}

// Compile normalizes terms, resolves conflicts and chains, and builds the matcher.
//   - terms go through normalize.Normalize; empty and identity rules are dropped
//   - the first rule wins among duplicates of one class
//   - when a typo and a synonym rule share a source term, prec wins (Typo when empty)
//   - targets are followed to their end (a->b, b->c gives a->c) and then rewritten by the
//     rules until stable, so a single pass is final
func Compile(in []Rule, prec Class) Compiled {
	if prec == "" {
		prec = Typo
	}
	st := Stats{Fetched: len(in)}

	kept := make([]Rule, 0, len(in))
	byFrom := make(map[string]int, len(in))
	for _, r := range in {
		from, to := normalize.Normalize(r.From), normalize.Normalize(r.To)
		switch {
		case from == "" || to == "":
			st.Empty++
			continue
		case from == to:
			st.Identity++
			continue
		}
		nr := Rule{From: from, To: to, Class: r.Class}
		if i, ok := byFrom[from]; ok {
			if kept[i].Class == nr.Class {
				st.Duplicate++
				continue
			}
			st.Shadowed++
			if nr.Class == prec {
				kept[i] = nr
			}
			continue
		}
		byFrom[from] = len(kept)
		kept = append(kept, nr)
	}

	target := make(map[string]string, len(kept))
	for _, r := range kept {
		target[r.From] = r.To
	}

	out := make([]Rule, 0, len(kept))
	var cyclic []string
	chained := make(map[string]bool, len(kept))
	for _, r := range kept {
		to, hops, ok := resolve(target, r.From)
		if !ok {
			cyclic = append(cyclic, r.From)
			continue
		}
		if hops > 1 {
			chained[r.From] = true
		}
		r.To = to
		out = append(out, r)
	}

	out, moved, grew := settle(out)
	for from := range moved {
		chained[from] = true
	}
	cyclic = append(cyclic, grew...)
	for _, r := range out {
		if chained[r.From] {
			st.Chained++
		}
	}

	slices.SortFunc(out, func(a, b Rule) int { return strings.Compare(a.From, b.From) })
	slices.Sort(cyclic)
	st.Cyclic = len(cyclic)
	st.Kept = len(out)

	return Compiled{Rules: out, Matcher: newMatcher(out), Stats: st, Cyclic: cyclic}
}

// maxSettleRounds bounds how often a target may be rewritten before its rule is dropped
const maxSettleRounds = 8

// settle rewrites every target with the rule set itself until no target changes, so a
// target never holds a term that a later pass would replace ('옷쇼핑' -> '옷 패션 구매'
// with '구매' -> '쇼핑'). Rules whose target is still moving after maxSettleRounds are
// dropped and returned in grew
func settle(rs []Rule) (out []Rule, moved map[string]bool, grew []string) {
	moved = make(map[string]bool)
	for round := 0; ; round++ {
		m := newMatcher(rs)
		next := make([]Rule, 0, len(rs))
		again := false
		for _, r := range rs {
			to, applied := m.Apply(r.To)
			switch {
			case len(applied) == 0:
				next = append(next, r)
			case round >= maxSettleRounds:
				grew = append(grew, r.From)
				delete(moved, r.From)
				again = true
			default:
				r.To = to
				moved[r.From] = true
				again = true
				next = append(next, r)
			}
		}
		rs = next
		if !again {
			return rs, moved, grew
		}
	}
}

// resolve follows target from a source term; ok is false when the chain loops
func resolve(target map[string]string, from string) (to string, hops int, ok bool) {
	seen := map[string]struct{}{from: {}}
	cur := target[from]
	hops = 1
	for {
		next, more := target[cur]
		if !more {
			return cur, hops, true
		}
		if _, loop := seen[cur]; loop {
			return "", hops, false
		}
		seen[cur] = struct{}{}
		cur = next
		hops++
	}
}
