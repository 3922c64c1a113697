package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"querycanon/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

func serve(m http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestMountAPIV1_WithCommonStack(t *testing.T) {
	t.Setenv("CORE_API_CORS_ORIGINS", "http://ops.local")
	m := chi.NewRouter()

	MountAPIV1(Adapt(m), CommonStack(config.New().Prefix("CORE_")), func(api Router) {
		MountUnder(api, "/jobs", nil, func(r Router) {
			Post(r, "/next", func(*http.Request) (any, error) { return Accepted("claimed"), nil })
			Get(r, "/boom", func(*http.Request) (any, error) { return nil, errors.New("boom") })
		})
	})

	rr := serve(m, http.MethodPost, "/v1/jobs/next", "")
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rr.Code)
	}
	var env Envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	if env.Data != "claimed" || env.RequestID == "" {
		t.Fatalf("envelope = %+v", env)
	}

	rr = serve(m, http.MethodGet, "/v1/jobs/boom", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("foreign error status = %d", rr.Code)
	}
	if rr := serve(m, http.MethodGet, "/jobs/boom", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unversioned path should 404, got %d", rr.Code)
	}
}

func TestPostJSON_Validation(t *testing.T) {
	type in struct {
		Text string `json:"text" validate:"required"`
	}
	m := chi.NewRouter()
	PostJSON(Adapt(m), "/preview", func(_ *http.Request, v in) (any, error) { return v.Text, nil })
	PostJSONOptional(Adapt(m), "/drain", func(_ *http.Request, v in) (any, error) { return "ok", nil })

	if rr := serve(m, http.MethodPost, "/preview", `{"text":""}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("validation status = %d", rr.Code)
	}
	if rr := serve(m, http.MethodPost, "/drain", ""); rr.Code != http.StatusOK {
		t.Fatalf("optional body status = %d", rr.Code)
	}
	if rr := serve(m, http.MethodPost, "/preview", `{"text":"x"}`); rr.Code != http.StatusOK {
		t.Fatalf("ok status = %d", rr.Code)
	}
}
