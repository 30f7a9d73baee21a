package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/nova/pkg/adapters/memory"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/observability"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/aretw0/nova/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t       *testing.T
	handler http.Handler
	service *session.Service
}

func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()
	svc := session.NewService(session.NewManager(memory.NewStore()), registry.Default(), session.Config{})
	cfg := Config{Sessions: svc, Steps: registry.Default()}
	for _, m := range mutate {
		m(&cfg)
	}
	return &fixture{t: t, handler: NewHandler(cfg), service: svc}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *fixture) view(w *httptest.ResponseRecorder) session.View {
	f.t.Helper()
	require.Equal(f.t, http.StatusOK, w.Code, w.Body.String())
	var v session.View
	require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func (f *fixture) create() string {
	f.t.Helper()
	w := f.do(http.MethodPost, "/sessions", nil)
	require.Equal(f.t, http.StatusCreated, w.Code)
	var v session.View
	require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(f.t, "/sessions/"+v.SessionID, w.Header().Get("Location"))
	return v.SessionID
}

func labelsOf(v session.View) []string {
	var out []string
	for _, o := range v.Options {
		out = append(out, o.Label)
	}
	return out
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.create()
	base := "/sessions/" + id

	v := f.view(f.do(http.MethodPost, base+"/activate", nil))
	assert.True(t, v.Open)
	assert.Equal(t, domain.StepIntro, v.Step)
	assert.Equal(t, "Hi! I'm Nova, your virtual assistant.", v.Text)
	assert.Equal(t, []string{"Next"}, labelsOf(v))

	v = f.view(f.do(http.MethodPost, base+"/select", map[string]int{"index": 0}))
	assert.Equal(t, domain.StepEngagement, v.Step)
	assert.Equal(t, []domain.StepName{domain.StepIntro}, v.History)
	assert.Equal(t, []string{"Yes, I have!", "Not yet", "Back"}, labelsOf(v))

	v = f.view(f.do(http.MethodGet, base, nil))
	assert.Equal(t, domain.StepEngagement, v.Step)
	assert.Equal(t, []string{"Yes, I have!", "Not yet", "Back"}, labelsOf(v), "GET shows the open step")

	v = f.view(f.do(http.MethodPost, base+"/back", nil))
	assert.Equal(t, domain.StepIntro, v.Step)
	assert.Empty(t, v.History)

	v = f.view(f.do(http.MethodPost, base+"/steps/feedback", nil))
	assert.Equal(t, domain.StepFeedback, v.Step)

	v = f.view(f.do(http.MethodPost, base+"/hide", nil))
	assert.False(t, v.Open)
	assert.Empty(t, v.Options)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, base, nil).Code)
}

func TestErrorStatuses(t *testing.T) {
	f := newFixture(t)
	id := f.create()
	base := "/sessions/" + id

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown session", http.MethodPost, "/sessions/nope/activate", nil, http.StatusNotFound},
		{"select while closed", http.MethodPost, base + "/select", map[string]int{"index": 0}, http.StatusConflict},
		{"malformed body", http.MethodPost, base + "/select", "{", http.StatusBadRequest},
		{"missing index", http.MethodPost, base + "/select", map[string]string{}, http.StatusBadRequest},
		{"oversized body", http.MethodPost, base + "/select", `{"index": 0, "pad": "` + strings.Repeat("x", 2*maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
		{"unknown step", http.MethodPost, base + "/steps/outro", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}

	f.view(f.do(http.MethodPost, base+"/activate", nil))
	w := f.do(http.MethodPost, base+"/select", map[string]int{"index": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	v := f.view(f.do(http.MethodGet, base, nil))
	assert.Equal(t, domain.StepIntro, v.Step, "failed requests do not change the session")
}

func TestStepsAndGraph(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/steps", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var steps []domain.Step
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &steps))
	require.Len(t, steps, 6)
	assert.Equal(t, domain.StepIntro, steps[0].Name)

	w = f.do(http.MethodGet, "/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph TD")
	assert.NotContains(t, w.Body.String(), "class ")

	id := f.create()
	f.view(f.do(http.MethodPost, "/sessions/"+id+"/activate", nil))
	w = f.do(http.MethodGet, "/graph?session_id="+id, nil)
	assert.Contains(t, w.Body.String(), "class intro current;")

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/graph?session_id=missing", nil).Code)
}

type downStore struct {
	*memory.Store
}

func (downStore) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	down := newFixture(t, func(c *Config) {
		c.Sessions = session.NewService(session.NewManager(downStore{memory.NewStore()}), registry.Default(), session.Config{})
	})
	assert.Equal(t, http.StatusServiceUnavailable, down.do(http.MethodGet, "/healthz", nil).Code)

	w = f.do(http.MethodGet, "/info", nil)
	assert.Contains(t, w.Body.String(), `"app":"nova-http"`)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture(t, func(c *Config) {
		c.Metrics = observability.NewMetrics(reg)
		c.Gatherer = reg
	})
	id := f.create()
	f.view(f.do(http.MethodPost, "/sessions/"+id+"/activate", nil))

	w := f.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `nova_http_requests_total{method="POST",route="/sessions/{id}/activate",status="2xx"} 1`)
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodOptions, "/sessions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	restricted := newFixture(t, func(c *Config) { c.AllowedOrigins = []string{"https://nova.example"} })
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://nova.example")
	rec := httptest.NewRecorder()
	restricted.handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://nova.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	restricted.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()
	id := f.create()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	activate, err := http.Post(srv.URL+"/sessions/"+id+"/activate", "application/json", nil)
	require.NoError(t, err)
	activate.Body.Close()

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			data = strings.TrimPrefix(lines.Text(), "data: ")
			break
		}
	}
	var v session.View
	require.NoError(t, json.Unmarshal([]byte(data), &v))
	assert.Equal(t, id, v.SessionID)
	assert.Equal(t, domain.StepIntro, v.Step)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/sessions/missing/events", nil).Code)
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("s")
	for i := 0; i < 20; i++ {
		sm.Broadcast("s", "msg")
	}
	assert.Len(t, ch, 10)
	assert.Equal(t, 1, sm.Subscribers("s"))

	cancel()
	assert.Equal(t, 0, sm.Subscribers("s"))
}

func TestSessionViewWithoutRender(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	svc := session.NewService(session.NewManager(memory.NewStore()), registry.Default(), session.Config{Hooks: metrics.Hooks()})
	f := &fixture{t: t, service: svc, handler: NewHandler(Config{
		Sessions: svc,
		Steps:    registry.Default(),
		Metrics:  metrics,
		Gatherer: reg,
	})}
	id := f.create()
	base := "/sessions/" + id

	f.view(f.do(http.MethodPost, base+"/activate", nil))
	v := f.view(f.do(http.MethodPost, base+"/activate", nil))
	assert.True(t, v.Open)
	assert.Equal(t, "Hi! I'm Nova, your virtual assistant.", v.Text)
	assert.Equal(t, []string{"Next"}, labelsOf(v), "a second click keeps the dialog as it is")

	f.view(f.do(http.MethodPost, base+"/steps/response_yes", nil))
	v = f.view(f.do(http.MethodPost, base+"/select", map[string]int{"index": 0}))
	assert.Equal(t, "Downloading the CV for you now.", v.Spoken)

	for range 2 {
		v = f.view(f.do(http.MethodGet, base, nil))
		assert.Equal(t, domain.StepResponseYes, v.Step)
		assert.Empty(t, v.Spoken)
		assert.Empty(t, v.Events)
	}

	w := f.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `nova_step_renders_total{mode="forward",step="response_yes"} 1`)
	assert.Contains(t, w.Body.String(), `nova_step_renders_total{mode="forward",step="intro"} 1`)
}
