package rules

// Aho-Corasick over UTF-8 bytes. Rule terms are mostly Hangul, so a dense
// 256-way table per node would cost about 1KB per trie node; only the root
// keeps a dense table and inner nodes carry short sorted edge lists

type acEdge struct {
	b  byte
	to int32
}

type acNode struct {
	edges []acEdge // sorted by b
	fail  int32
	out   []int32 // pattern ids ending here, merged along fail links
}

type automaton struct {
	nodes []acNode
	root  [256]int32 // filled by build, 0 means stay at root
}

func newAutomaton() *automaton {
	return &automaton{nodes: make([]acNode, 1)}
}

func (a *automaton) child(s int32, b byte) (int32, bool) {
	for _, e := range a.nodes[s].edges {
		if e.b == b {
			return e.to, true
		}
		if e.b > b {
			break
		}
	}
	return 0, false
}

// add inserts pat and associates it with id
func (a *automaton) add(pat string, id int) {
	if pat == "" {
		return
	}
	s := int32(0)
	for i := 0; i < len(pat); i++ {
		b := pat[i]
		nxt, ok := a.child(s, b)
		if !ok {
			nxt = int32(len(a.nodes))
			a.nodes = append(a.nodes, acNode{})
			a.nodes[s].edges = insertEdge(a.nodes[s].edges, acEdge{b: b, to: nxt})
		}
		s = nxt
	}
	a.nodes[s].out = append(a.nodes[s].out, int32(id))
}

func insertEdge(edges []acEdge, e acEdge) []acEdge {
	i := len(edges)
	for i > 0 && edges[i-1].b > e.b {
		i--
	}
	edges = append(edges, acEdge{})
	copy(edges[i+1:], edges[i:])
	edges[i] = e
	return edges
}

// build computes fail links breadth first and merges outputs
func (a *automaton) build() {
	q := make([]int32, 0, len(a.nodes))
	for _, e := range a.nodes[0].edges {
		a.root[e.b] = e.to
		a.nodes[e.to].fail = 0
		q = append(q, e.to)
	}
	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for _, e := range a.nodes[r].edges {
			q = append(q, e.to)
			f := a.step(a.nodes[r].fail, e.b)
			a.nodes[e.to].fail = f
			if len(a.nodes[f].out) > 0 {
				a.nodes[e.to].out = append(a.nodes[e.to].out, a.nodes[f].out...)
			}
		}
	}
}

func (a *automaton) step(s int32, b byte) int32 {
	for s != 0 {
		if nxt, ok := a.child(s, b); ok {
			return nxt
		}
		s = a.nodes[s].fail
	}
	return a.root[b]
}

// findAll calls cb(end, id) for every pattern occurrence, end is exclusive
func (a *automaton) findAll(text string, cb func(end, id int)) {
	s := int32(0)
	for i := 0; i < len(text); i++ {
		s = a.step(s, text[i])
		for _, id := range a.nodes[s].out {
			cb(i+1, int(id))
		}
	}
}
