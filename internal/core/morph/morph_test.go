package morph

import (
	"context"
	"reflect"
	"strings"
	"testing"

	perr "querycanon/internal/platform/errors"
)

func TestBuiltin_Segment(t *testing.T) {
	seg := NewBuiltin(0)
	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{
			name: "adnominal suffix glued to stem",
			in:   "맛있는 음식",
			want: []Token{{Form: "맛있", Tag: TagNoun}, {Form: "는", Tag: TagParticle}, {Form: "음식", Tag: TagNoun, Space: true}},
		},
		{
			name: "particle split off",
			in:   "사과가 pc방에서",
			want: []Token{
				{Form: "사과", Tag: TagNoun},
				{Form: "가", Tag: TagParticle},
				{Form: "pc", Tag: TagForeign, Space: true},
				{Form: "방", Tag: TagNoun},
				{Form: "에서", Tag: TagParticle},
			},
		},
		{
			name: "short noun keeps its last syllable",
			in:   "나이",
			want: []Token{{Form: "나이", Tag: TagNoun}},
		},
		{
			name: "ending split off",
			in:   "좋았다",
			want: []Token{{Form: "좋", Tag: TagNoun}, {Form: "았다", Tag: TagEnding}},
		},
		{
			name: "range and numbers",
			in:   "10 ~ 20대",
			want: []Token{
				{Form: "10", Tag: TagNumber},
				{Form: "~", Tag: TagSymbol, Space: true},
				{Form: "20", Tag: TagNumber, Space: true},
				{Form: "대", Tag: TagNoun},
			},
		},
		{
			name: "loose particle",
			in:   "음식 을",
			want: []Token{{Form: "음식", Tag: TagNoun}, {Form: "을", Tag: TagParticle, Space: true}},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := seg.Segment(context.Background(), tc.in)
			if err != nil {
				t.Fatalf("segment: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Segment(%q)\n got %+v\nwant %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"맛있는 음식", "맛있는 음식"},
		{"음식 을 먹다", "음식을 먹다"},
		{"10 ~ 20대", "10~20대"},
		{"10~ 20", "10~20"},
		{"pc/모바일 둘다", "pc/모바일 둘다"},
		{"사과가 좋아요", "사과가 좋아요"},
	}
	seg := NewBuiltin(0)
	for _, tc := range tests {
		toks, err := seg.Segment(context.Background(), tc.in)
		if err != nil {
			t.Fatal(err)
		}
		got := Join(toks)
		if got != tc.want {
			t.Fatalf("Join(Segment(%q)) = %q, want %q", tc.in, got, tc.want)
		}
		// rejoining is stable
		again, _ := seg.Segment(context.Background(), got)
		if Join(again) != got {
			t.Fatalf("join not stable for %q", tc.in)
		}
	}
}

func TestJoin_AnalyzerTags(t *testing.T) {
	toks := []Token{
		{Form: "휴대폰", Tag: "NNG"},
		{Form: "이", Tag: "JKS", Space: true},
		{Form: "좋", Tag: "VA", Space: true},
		{Form: "아요", Tag: "EF", Space: true},
	}
	if got := Join(toks); got != "휴대폰이 좋아요" {
		t.Fatalf("got %q", got)
	}
}

func TestBuiltin_Rejects(t *testing.T) {
	seg := NewBuiltin(4)

	_, err := seg.Segment(context.Background(), string([]byte{0xff, 0xfe}))
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("invalid utf-8: %v", err)
	}

	_, err = seg.Segment(context.Background(), strings.Repeat("가", 5))
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("too long: %v", err)
	}
	if e, _ := perr.As(err); e.Field() != "text" {
		t.Fatalf("field %q", e.Field())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := seg.Segment(ctx, "가"); err != context.Canceled {
		t.Fatalf("canceled: %v", err)
	}
}

func TestTagAttaches(t *testing.T) {
	for _, tg := range []Tag{TagParticle, TagEnding, "JKO", "EC"} {
		if !tg.Attaches() {
			t.Fatalf("%s should attach", tg)
		}
	}
	for _, tg := range []Tag{TagNoun, TagForeign, TagNumber, TagSymbol, "VV"} {
		if tg.Attaches() {
			t.Fatalf("%s should not attach", tg)
		}
	}
}
