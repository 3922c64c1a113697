package canon

import (
	"context"
	"strings"
	"testing"

	"querycanon/internal/core/morph"
	"querycanon/internal/core/rules"
	perr "querycanon/internal/platform/errors"
)

func newCanon(t *testing.T, rs ...rules.Rule) *Canonicalizer {
	t.Helper()
	st := rules.NewStore(rules.Static(rs), rules.WithAllowEmpty(true))
	if _, err := st.Load(context.Background()); err != nil {
		t.Fatalf("load rules: %v", err)
	}
	return New(st, nil)
}

func TestCanonicalize_Table(t *testing.T) {
	c := newCanon(t,
		rules.Rule{From: "맛잇는", To: "맛있는", Class: rules.Typo},
		rules.Rule{From: "가", To: "A", Class: rules.Typo},
		rules.Rule{From: "가나", To: "B", Class: rules.Typo},
		rules.Rule{From: "20", To: "스무", Class: rules.Typo},
		rules.Rule{From: "핸드폰", To: "휴대폰", Class: rules.Synonym},
		rules.Rule{From: "감성", To: "감정", Class: rules.Synonym},
	)

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"typo fix", "맛잇는 음식", "맛있는 음식"},
		{"longest match", "가나다", "b다"},
		{"range protected", "10~20", "10~20"},
		{"range spacing tightened", "10 ~ 20", "10~20"},
		{"case and whitespace", "A ", "a"},
		{"punctuation and width", "핸드폰이，  좋아요！", "휴대폰이 좋아요"},
		{"compound kept", "감성적인 디자인", "감성적인 디자인"},
		{"loose particle attached", "음식 을 추천", "음식을 추천"},
		{"nothing survives", "?!😀", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Canonicalize(context.Background(), tc.in)
			if err != nil {
				t.Fatalf("canonicalize: %v", err)
			}
			if got != tc.out {
				t.Fatalf("Canonicalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestCanonicalize_ScenarioBKeysMatch(t *testing.T) {
	c := newCanon(t)
	a, err := c.Canonicalize(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Canonicalize(context.Background(), "a ")
	if err != nil {
		t.Fatal(err)
	}
	if a != b || a != "a" {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	tests := []struct {
		name   string
		rules  []rules.Rule
		inputs []string
	}{
		{
			name: "typos synonyms and chains",
			rules: []rules.Rule{
				{From: "맛잇는", To: "맛있는", Class: rules.Typo},
				{From: "핸폰", To: "핸드폰", Class: rules.Typo},
				{From: "핸드폰", To: "휴대폰", Class: rules.Synonym},
				{From: "pc", To: "컴퓨터", Class: rules.Typo},
			},
			inputs: []string{
				"맛잇는 음식 을 좋아해요",
				"핸폰 핸드폰 휴대폰",
				"PC방에서 10 ~ 20대",
				"ＰＣ / 모바일",
				"사과가   너무 맛잇는데요!!",
			},
		},
		{
			name: "target holds another source",
			rules: []rules.Rule{
				{From: "옷쇼핑", To: "옷 패션 구매", Class: rules.Synonym},
				{From: "구매", To: "쇼핑", Class: rules.Synonym},
			},
			inputs: []string{"옷쇼핑", "옷쇼핑 추천", "구매 옷쇼핑"},
		},
		{
			name: "target extends its own source",
			rules: []rules.Rule{
				{From: "가나", To: "가나다", Class: rules.Typo},
				{From: "가", To: "라", Class: rules.Typo},
			},
			inputs: []string{"가나", "가나다", "가 가나"},
		},
		{
			name:   "loose particle forms a source",
			rules:  []rules.Rule{{From: "집으로", To: "자택으로", Class: rules.Synonym}},
			inputs: []string{"집 으로 배송", "집으로 배송"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newCanon(t, tc.rules...)
			for _, in := range tc.inputs {
				once, err := c.Canonicalize(context.Background(), in)
				if err != nil {
					t.Fatal(err)
				}
				twice, err := c.Canonicalize(context.Background(), once)
				if err != nil {
					t.Fatal(err)
				}
				if once != twice {
					t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
				}
			}
		})
	}
}

func TestCanonicalize_RulesSeeAttachedParticles(t *testing.T) {
	c := newCanon(t, rules.Rule{From: "집으로", To: "자택으로", Class: rules.Synonym})
	tr, err := c.Trace(context.Background(), "집 으로 배송")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Attached != "집으로 배송" || tr.Output != "자택으로 배송" {
		t.Fatalf("trace %+v", tr)
	}
	if len(tr.Applied) != 1 || tr.Applied[0].From != "집으로" {
		t.Fatalf("applied %+v", tr.Applied)
	}
}

func TestCanonicalize_EmbeddedSourceSettled(t *testing.T) {
	c := newCanon(t,
		rules.Rule{From: "옷쇼핑", To: "옷 패션 구매", Class: rules.Synonym},
		rules.Rule{From: "구매", To: "쇼핑", Class: rules.Synonym},
	)
	got, err := c.Canonicalize(context.Background(), "옷쇼핑 추천")
	if err != nil {
		t.Fatal(err)
	}
	if got != "옷 패션 쇼핑 추천" {
		t.Fatalf("got %q", got)
	}
}

func TestTrace_Stages(t *testing.T) {
	c := newCanon(t, rules.Rule{From: "맛잇는", To: "맛있는", Class: rules.Typo})
	tr, err := c.Trace(context.Background(), "  맛잇는, 음식 ")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Preprocessed != "맛잇는 음식" || tr.Attached != "맛잇는 음식" ||
		tr.Substituted != "맛있는 음식" || tr.Output != "맛있는 음식" {
		t.Fatalf("trace %+v", tr)
	}
	if len(tr.Applied) != 1 || tr.Applied[0].From != "맛잇는" {
		t.Fatalf("applied %+v", tr.Applied)
	}
	if tr.RulesVersion != 1 || len(tr.Tokens) == 0 {
		t.Fatalf("trace %+v", tr)
	}
}

func TestCanonicalize_NotLoaded(t *testing.T) {
	c := New(rules.NewStore(rules.Static(nil)), nil)
	_, err := c.Canonicalize(context.Background(), "x")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
}

func TestCanonicalize_TooLongIsRejected(t *testing.T) {
	st := rules.NewStore(rules.Static(nil), rules.WithAllowEmpty(true))
	if _, err := st.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	c := New(st, morph.NewBuiltin(8))

	tr, err := c.Trace(context.Background(), strings.Repeat("가", 9))
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
	if e, _ := perr.As(err); e.Op() != "canon.segment" {
		t.Fatalf("op %q", e.Op())
	}
	if tr.Preprocessed == "" || tr.Attached != "" || tr.Output != "" {
		t.Fatalf("partial trace %+v", tr)
	}
}

type stubSeg struct{ err error }

func (s stubSeg) Segment(context.Context, string) ([]morph.Token, error) { return nil, s.err }

func TestCanonicalize_SegmenterUnavailable(t *testing.T) {
	st := rules.NewStore(rules.Static(nil), rules.WithAllowEmpty(true))
	if _, err := st.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	c := New(st, stubSeg{err: perr.Unavailablef("analyzer down")})
	if _, err := c.Canonicalize(context.Background(), "가"); !perr.Retryable(err) {
		t.Fatalf("want retryable, got %v", err)
	}
}

func BenchmarkCanonicalize(b *testing.B) {
	st := rules.NewStore(rules.Static{
		{From: "맛잇는", To: "맛있는", Class: rules.Typo},
		{From: "핸드폰", To: "휴대폰", Class: rules.Synonym},
	})
	if _, err := st.Load(context.Background()); err != nil {
		b.Fatal(err)
	}
	c := New(st, nil)
	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		_, _ = c.Canonicalize(ctx, "맛잇는 음식을 핸드폰으로 주문했어요!")
	}
}
