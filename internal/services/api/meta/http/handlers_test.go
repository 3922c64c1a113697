package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"querycanon/internal/core/rules"
	"querycanon/internal/modkit/httpkit"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type snaps struct{ s *rules.Snapshot }

func (s snaps) Current() *rules.Snapshot { return s.s }

func ready(t *testing.T, d Deps) ReadyResponse {
	t.Helper()
	mux := chi.NewRouter()
	Register(httpkit.Adapt(mux), d)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/ready", nil))
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var env struct {
		Data ReadyResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func TestReady(t *testing.T) {
	loaded := snaps{&rules.Snapshot{Version: 1}}

	tests := []struct {
		name string
		deps Deps
		want string
	}{
		{"all ok", Deps{PG: pinger{}, RDS: pinger{}, Rules: loaded}, "ok"},
		{"redis skipped", Deps{PG: pinger{}, Rules: loaded}, "ok"},
		{"pg down", Deps{PG: pinger{errors.New("refused")}, Rules: loaded}, "fail"},
		{"rules not loaded", Deps{PG: pinger{}, Rules: snaps{}}, "fail"},
		{"pg without ping", Deps{PG: struct{}{}, Rules: loaded}, "degraded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ready(t, tc.deps)
			if got.Status != tc.want {
				t.Fatalf("status = %q, want %q (%+v)", got.Status, tc.want, got.Checks)
			}
			if len(got.Checks) != 3 {
				t.Fatalf("checks = %+v", got.Checks)
			}
		})
	}
}

func TestHealthAndService(t *testing.T) {
	mux := chi.NewRouter()
	Register(httpkit.Adapt(mux), Deps{ServiceName: "querycanon-api", StartedAt: time.Now().Add(-time.Minute)})

	for _, path := range []string{"/health", "/service", "/version"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, path, nil))
		if rr.Code != stdhttp.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
	}
}
