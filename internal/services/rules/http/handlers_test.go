package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"querycanon/internal/core/rules"
	"querycanon/internal/modkit/httpkit"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
}

func serve(t *testing.T, st *rules.Store, method, path string) envelope {
	t.Helper()
	mux := chi.NewRouter()
	Register(httpkit.Adapt(mux), st)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, rr.Code, env.StatusCode)
	return env
}

func TestRules_ListAndReload(t *testing.T) {
	var n int
	src := rules.SourceFunc(func(context.Context) ([]rules.Rule, error) {
		n++
		out := []rules.Rule{{From: "맛잇는", To: "맛있는", Class: rules.Typo}}
		if n > 1 {
			out = append(out, rules.Rule{From: "핸드폰", To: "휴대폰", Class: rules.Synonym})
		}
		return out, nil
	})
	st := rules.NewStore(src)
	_, err := st.Load(context.Background())
	require.NoError(t, err)

	env := serve(t, st, stdhttp.MethodGet, "/")
	require.Equal(t, stdhttp.StatusOK, env.StatusCode)
	var listing struct {
		Version uint64       `json:"version"`
		Rules   int          `json:"rules"`
		Items   []rules.Rule `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Equal(t, uint64(1), listing.Version)
	require.Equal(t, 1, listing.Rules)
	require.Equal(t, "맛잇는", listing.Items[0].From)

	env = serve(t, st, stdhttp.MethodPost, "/reload")
	require.Equal(t, stdhttp.StatusOK, env.StatusCode)
	var sum struct {
		Version uint64 `json:"version"`
		Rules   int    `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	require.Equal(t, uint64(2), sum.Version)
	require.Equal(t, 2, sum.Rules)
}

func TestRules_NotLoaded(t *testing.T) {
	env := serve(t, rules.NewStore(rules.Static(nil)), stdhttp.MethodGet, "/")
	require.Equal(t, stdhttp.StatusServiceUnavailable, env.StatusCode)
}

func TestRules_ReloadFailure(t *testing.T) {
	st := rules.NewStore(rules.Static(nil))
	env := serve(t, st, stdhttp.MethodPost, "/reload")
	require.Equal(t, stdhttp.StatusUnprocessableEntity, env.StatusCode)
	require.Nil(t, st.Current())
}
