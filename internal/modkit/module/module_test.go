package module

import (
	"context"
	"testing"

	phttp "querycanon/internal/platform/net/http"
	"querycanon/internal/platform/testkit"
)

type reloader interface{ Reload(context.Context) error }

type fakeReloader struct{}

func (fakeReloader) Reload(context.Context) error { return nil }

type rulePorts struct {
	Store   reloader
	private reloader
}

type fakeModule struct{ ports any }

func (fakeModule) MountRoutes(phttp.Router) {}
func (f fakeModule) Ports() any             { return f.ports }
func (fakeModule) Name() string             { return "rules" }

func TestPortsOf(t *testing.T) {
	if _, ok := PortsOf[reloader](fakeModule{}); ok {
		t.Fatalf("nil ports should not match")
	}
	if _, ok := PortsOf[reloader](fakeModule{ports: fakeReloader{}}); !ok {
		t.Fatalf("direct port should match")
	}
	if _, ok := PortsOf[reloader](fakeModule{ports: rulePorts{Store: fakeReloader{}}}); !ok {
		t.Fatalf("exported field should match")
	}
	if _, ok := PortsOf[reloader](fakeModule{ports: &rulePorts{Store: fakeReloader{}}}); !ok {
		t.Fatalf("pointer port set should match")
	}
	if _, ok := PortsOf[reloader](fakeModule{ports: rulePorts{private: fakeReloader{}}}); ok {
		t.Fatalf("unexported field should be ignored")
	}
	testkit.MustPanic(t, func() { MustPortsOf[reloader](fakeModule{ports: 3}) })
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("rules", rulePorts{Store: fakeReloader{}})
	if p, ok := PortsAs[rulePorts]("rules"); !ok || p.Store == nil {
		t.Fatalf("PortsAs = %+v %v", p, ok)
	}
	if _, ok := PortsAs[int]("rules"); ok {
		t.Fatalf("wrong type should fail")
	}
	if _, ok := PortsAs[rulePorts]("jobs"); ok {
		t.Fatalf("missing name should fail")
	}
}
