package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"hugo/internal/lexicon"
	"hugo/internal/metrics"
	"hugo/internal/service"
	"hugo/internal/store/eventlog"
	"hugo/internal/store/gormstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	bank, err := lexicon.Default()
	require.NoError(t, err)
	opts := []service.Option{}
	m := metrics.New()
	opts = append(opts, service.WithMetrics(m))
	if withStore {
		dir := t.TempDir()
		st, err := gormstore.NewGormStore(filepath.Join(dir, "hugo.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		events, err := eventlog.Open(filepath.Join(dir, "events.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = events.Close() })
		opts = append(opts, service.WithStore(st), service.WithEventLog(events))
	}
	svc, err := service.New(lexicon.NewStaticLoader(bank), nil, nil, nil, opts...)
	require.NoError(t, err)
	srv, err := NewServer(ServerConfig{Service: svc, Metrics: m, CORSOrigins: []string{"https://app.example"}})
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, false)
	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gjson.Get(rec.Body.String(), "store").Bool())

	do(t, srv, http.MethodGet, "/api/compatibility?a=C1&b=C2", nil)
	rec = do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/compatibility"`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodOptions, "/api/teams/analyze", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestQuestionsAndCatalog(t *testing.T) {
	srv := newTestServer(t, false)

	rec := do(t, srv, http.MethodGet, "/api/questions?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "en", gjson.Get(body, "language").String())
	assert.Equal(t, int64(12), gjson.Get(body, "dimension_questions.#").Int())
	assert.Equal(t, int64(3), gjson.Get(body, "type_questions.vision.#").Int())

	rec = do(t, srv, http.MethodGet, "/api/likert", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(36), gjson.Get(rec.Body.String(), "statements.#").Int())
	assert.Equal(t, int64(5), gjson.Get(rec.Body.String(), "scale.#").Int())

	rec = do(t, srv, http.MethodGet, "/api/types?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Developer", gjson.Get(rec.Body.String(), `types.#(code=="V2").name`).String())
}

func TestClassifyEndpoint(t *testing.T) {
	srv := newTestServer(t, true)
	rec := do(t, srv, http.MethodPost, "/api/classify", map[string]any{
		"respondent_id":     "r-42",
		"dimension_answers": repeat("Meine Vision ist langfristig.", 12),
		"type_answers":      repeat("Ich plane systematisch, Schritt für Schritt.", 3),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "V2", gjson.Get(rec.Body.String(), "profile.final_type").String())
	id := gjson.Get(rec.Body.String(), "profile.id").String()
	require.NotEmpty(t, id)

	rec = do(t, srv, http.MethodGet, "/api/profiles/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r-42", gjson.Get(rec.Body.String(), "respondent.id").String())

	rec = do(t, srv, http.MethodGet, "/api/respondents/r-42/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, gjson.Get(rec.Body.String(), "profile.id").String())

	rec = do(t, srv, http.MethodGet, "/api/profiles/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/classify", map[string]any{"dimension_answers": []string{"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/events?kind=profile.completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "events.#").Int())
}

func likertObject(override map[string]int) map[string]int {
	out := map[string]int{}
	for i := 1; i <= 36; i++ {
		out[fmt.Sprintf("q%d", i)] = 1
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func TestLikertEndpointAcceptsBothShapes(t *testing.T) {
	srv := newTestServer(t, false)

	rec := do(t, srv, http.MethodPost, "/api/likert", map[string]any{
		"answers": likertObject(map[string]int{"q4": 5, "q5": 5, "q6": 5}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "V2", gjson.Get(rec.Body.String(), "profile.final_type").String())
	assert.Equal(t, int64(100), gjson.Get(rec.Body.String(), "profile.percentages.V2").Int())

	list := make([]map[string]any, 0, 36)
	for i := 1; i <= 36; i++ {
		v := any(1)
		if i >= 28 && i <= 30 {
			v = "5"
		}
		list = append(list, map[string]any{"id": fmt.Sprintf("q%d", i), "value": v})
	}
	rec = do(t, srv, http.MethodPost, "/api/likert", map[string]any{"answers": list})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "C1", gjson.Get(rec.Body.String(), "profile.final_type").String())
}

func TestLikertEndpointRejects(t *testing.T) {
	srv := newTestServer(t, false)
	cases := map[string]string{
		"not json":      `{"answers":`,
		"no answers":    `{"respondent_id":"x"}`,
		"fraction":      `{"answers":{"q1":2.5}}`,
		"bool value":    `{"answers":[{"id":"q1","value":true}]}`,
		"missing id":    `{"answers":[{"value":3}]}`,
		"duplicate":     `{"answers":[{"id":"q1","value":3},{"id":"q1","value":4}]}`,
		"out of range":  `{"answers":{"q1":7},"allow_partial":true}`,
		"partial":       `{"answers":{"q1":3}}`,
		"unknown item":  `{"answers":{"q404":3},"allow_partial":true}`,
		"unknown place": `{"answers":{"q1":3},"allow_partial":true,"country":"Atlantis"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/likert", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, gjson.Get(rec.Body.String(), "error").String())
		})
	}

	rec := do(t, srv, http.MethodPost, "/api/likert", `{"answers":{"q1":3}}`)
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "progress.answered").Int())
}

func TestSessionEndpoints(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(t, srv, http.MethodPost, "/api/sessions", map[string]string{"language": "en"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := gjson.Get(rec.Body.String(), "session.id").String()
	require.NotEmpty(t, id)
	path := "/api/sessions/" + id + "/input"

	for _, text := range []string{"hi", "Ada"} {
		rec = do(t, srv, http.MethodPost, path, map[string]string{"text": text})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec = do(t, srv, http.MethodPost, path, map[string]string{"text": "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", gjson.Get(rec.Body.String(), "reply.state").String())

	for _, text := range []string{"ada@example.org", "DE"} {
		rec = do(t, srv, http.MethodPost, path, map[string]string{"text": text})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	for i := 0; i < 12; i++ {
		rec = do(t, srv, http.MethodPost, path, map[string]string{"text": "Meine Vision ist langfristig."})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	for i := 0; i < 3; i++ {
		rec = do(t, srv, http.MethodPost, path, map[string]string{"text": "Ich plane systematisch, Schritt für Schritt."})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.True(t, gjson.Get(rec.Body.String(), "reply.done").Bool())
	assert.Equal(t, "V2", gjson.Get(rec.Body.String(), "session.profile.final_type").String())

	rec = do(t, srv, http.MethodPost, path, map[string]string{"text": "again"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "complete", gjson.Get(rec.Body.String(), "session.state").String())

	rec = do(t, srv, http.MethodGet, "/api/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionsNeedStore(t *testing.T) {
	srv := newTestServer(t, false)
	rec := do(t, srv, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/teams/abc", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTeamEndpoints(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(t, srv, http.MethodGet, "/api/compatibility?a=v1&b=e2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.70, gjson.Get(rec.Body.String(), "score").Float())
	assert.Equal(t, "moderate", gjson.Get(rec.Body.String(), "level").String())
	rec = do(t, srv, http.MethodGet, "/api/compatibility?a=V1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/teams/analyze", map[string]any{"types": []string{"I1", "E2", "V3"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "report.potential_conflicts.#").Int())
	assert.False(t, gjson.Get(body, "cached").Bool())

	rec = do(t, srv, http.MethodPost, "/api/teams/analyze", map[string]any{"types": []string{"V1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gjson.Get(rec.Body.String(), "report.average_compatibility").Exists())

	rec = do(t, srv, http.MethodPost, "/api/teams/analyze", map[string]any{"types": []string{"Q7"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/teams/preview", map[string]any{"types": []string{"V1", "I1", "E1", "C1", "V2", "I2"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1.0, gjson.Get(rec.Body.String(), "score").Float(), 1e-9)

	rec = do(t, srv, http.MethodPost, "/api/teams", map[string]any{
		"name":         "Core",
		"project_type": "research",
		"members": []map[string]string{
			{"type": "E1", "display_name": "Eve"},
			{"type": "C2", "display_name": "Cal", "country": "se"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	teamID := gjson.Get(rec.Body.String(), "id").String()

	rec = do(t, srv, http.MethodGet, "/api/teams/"+teamID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SE", gjson.Get(rec.Body.String(), "members.1.country").String())

	rec = do(t, srv, http.MethodGet, "/api/teams/"+teamID+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "report.total_members").Int())

	rec = do(t, srv, http.MethodGet, "/api/teams/nope/report", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/teams", map[string]any{"name": "Bad", "members": []map[string]string{{"profile_id": "ghost"}}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendEndpoint(t *testing.T) {
	srv := newTestServer(t, false)
	rec := do(t, srv, http.MethodPost, "/api/recommendations", map[string]any{
		"team":         []map[string]string{{"type": "V1"}, {"type": "V2"}, {"type": "I1"}},
		"candidates":   []map[string]string{{"id": "a", "type": "V3"}, {"id": "b", "type": "E1"}},
		"project_type": "execution",
		"size":         "small",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Equal(t, "b", gjson.Get(body, "ranked.0.candidate.id").String())
	assert.True(t, gjson.Get(body, "ranked.0.fills_gap").Bool())
	assert.Equal(t, "execution", gjson.Get(body, "project_type").String())

	rec = do(t, srv, http.MethodPost, "/api/recommendations", map[string]any{"project_type": "moon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCultureEndpoints(t *testing.T) {
	srv := newTestServer(t, false)
	rec := do(t, srv, http.MethodGet, "/api/cultures?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(14), gjson.Get(rec.Body.String(), "countries.#").Int())

	rec = do(t, srv, http.MethodGet, "/api/cultures/jp?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "JP", gjson.Get(rec.Body.String(), "code").String())
	assert.NotEmpty(t, gjson.Get(rec.Body.String(), "interpretation").Raw)

	rec = do(t, srv, http.MethodGet, "/api/cultures/zz", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartStopsOnCancel(t *testing.T) {
	srv := newTestServer(t, false)
	srv.addr = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	cancel()
	assert.NoError(t, <-done)
	assert.True(t, strings.HasPrefix(srv.Addr(), "127.0.0.1"))
}
