package bind

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/testkit"
)

type preview struct {
	Text  string `json:"text" validate:"required,max=16,utf8"`
	Trace bool   `json:"trace"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/v1/canon/preview", strings.NewReader(body))
}

func TestParseJSON_Success(t *testing.T) {
	got, err := ParseJSON[preview](post(`{"text":"아이폰 케이스","trace":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "아이폰 케이스" || !got.Trace {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
		code perr.ErrorCode
	}{
		{"empty", "", perr.ErrorCodeJSON},
		{"broken", `{"text":`, perr.ErrorCodeJSON},
		{"unknown field", `{"text":"a","extra":1}`, perr.ErrorCodeJSON},
		{"trailing", `{"text":"a"} {"text":"b"}`, perr.ErrorCodeJSON},
		{"missing", `{"trace":true}`, perr.ErrorCodeValidation},
		{"too long", `{"text":"aaaaaaaaaaaaaaaaaaaa"}`, perr.ErrorCodeValidation},
	}
	for _, c := range cases {
		_, err := ParseJSON[preview](post(c.body))
		if perr.CodeOf(err) != c.code {
			t.Fatalf("%s: code = %v (%v), want %v", c.name, perr.CodeOf(err), err, c.code)
		}
	}
}

func TestParseJSON_ValidationCarriesFieldAndShortMessage(t *testing.T) {
	_, err := ParseJSON[preview](post(`{"text":"aaaaaaaaaaaaaaaaaaaa"}`))
	e, ok := perr.As(err)
	if !ok || e.Field() != "text" {
		t.Fatalf("expected field text, got %+v", e)
	}
	testkit.MustContain(t, err.Error(), "text must be at most 16")
}

func TestParseJSON_AllowEmptyBody(t *testing.T) {
	type drain struct {
		Limit int `json:"limit" validate:"min=0"`
	}
	got, err := ParseJSON[drain](post(""), JSONOptions{AllowEmptyBody: true})
	if err != nil || got.Limit != 0 {
		t.Fatalf("empty body = %+v, %v", got, err)
	}
}

func TestParseJSON_MaxBytes(t *testing.T) {
	_, err := ParseJSON[preview](post(`{"text":"abcdef"}`), JSONOptions{MaxBytes: 5})
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error, got %v", err)
	}
}

func TestParseJSON_TrailingSeam(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &jsonMore, func(*json.Decoder) bool { return true })
	if _, err := ParseJSON[preview](post(`{"text":"a"}`)); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected trailing data error, got %v", err)
	}
}
