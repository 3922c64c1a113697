package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"querycanon/internal/modkit/httpkit"
	"querycanon/internal/platform/config"
	"querycanon/internal/platform/store"

	"github.com/go-chi/chi/v5"
)

type jobPorts struct{ name string }

func TestBuild_DefaultsAndOptions(t *testing.T) {
	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Register == nil {
		t.Fatalf("unexpected defaults %+v", b)
	}

	mw := func(next http.Handler) http.Handler { return next }
	b = Build(
		WithName("jobs"),
		WithPrefix("/jobs"),
		WithMiddlewares(mw, mw),
		WithPorts(jobPorts{name: "drain"}),
	)
	if b.Name != "jobs" || b.Prefix != "/jobs" || len(b.Mw) != 2 {
		t.Fatalf("options not applied %+v", b)
	}
	if p, ok := b.Ports.(jobPorts); !ok || p.name != "drain" {
		t.Fatalf("ports = %#v", b.Ports)
	}
}

func TestBuilt_MountRunsOwnThenExtraRegister(t *testing.T) {
	var order []string
	mwHit := false
	b := Build(
		WithPrefix("/rules"),
		WithMiddlewares(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mwHit = true
				next.ServeHTTP(w, r)
			})
		}),
		WithRegister(func(r httpkit.Router) {
			order = append(order, "extra")
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
		}),
	)

	m := chi.NewRouter()
	b.Mount(httpkit.Adapt(m), func(r httpkit.Router) { order = append(order, "own") })

	if len(order) != 2 || order[0] != "own" || order[1] != "extra" {
		t.Fatalf("register order = %v", order)
	}
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rules/extra", nil))
	if rr.Code != http.StatusTeapot || !mwHit {
		t.Fatalf("status = %d mw = %v", rr.Code, mwHit)
	}
}

func TestFromStore(t *testing.T) {
	cfg := config.New().Prefix("CORE_")
	if d := FromStore(cfg, nil); d.PG != nil || d.Cfg.Key("X") != "CORE_X" {
		t.Fatalf("nil store deps = %+v", d)
	}
	d := FromStore(cfg, &store.Store{})
	if d.PG != nil || d.RDS != nil {
		t.Fatalf("empty store deps = %+v", d)
	}
}
