package ostinato_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	Mc "github.com/maroda/ostinato/compose"
	Md "github.com/maroda/ostinato/display"
	Mo "github.com/maroda/ostinato/obvy"
	Mb "github.com/maroda/ostinato/playback"
	Mp "github.com/maroda/ostinato/plugin"
	Ms "github.com/maroda/ostinato/server"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestView_SetupMux(t *testing.T) {
	view := makeTestView(t)
	mux := view.SetupMux()

	t.Run("Websocket Endpoint answers", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		// websocket upgrade will fail in test, but check for the 400
		assertStatus(t, w.Code, http.StatusBadRequest)
	})

	t.Run("Metrics Endpoint answers", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/metrics", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		assertStatus(t, w.Code, http.StatusOK)
		assertStringContains(t, w.Body.String(), "go_goroutines")
	})

	t.Run("Version Endpoint answers with JSON", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/version", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		assertStatus(t, w.Code, http.StatusOK)

		var resp map[string]string
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		assertError(t, err, nil)
		assertStringContains(t, resp["version"], "dev")
	})

	t.Run("API requests are counted", func(t *testing.T) {
		before := testutil.ToFloat64(view.Stats.WWW.WithLabelValues("200", "GET"))
		r := httptest.NewRequest("GET", "/api/version", nil)
		mux.ServeHTTP(httptest.NewRecorder(), r)
		after := testutil.ToFloat64(view.Stats.WWW.WithLabelValues("200", "GET"))
		if after != before+1 {
			t.Errorf("got %v requests, want %v", after, before+1)
		}
	})

	t.Run("Traced handler serves the same routes", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/version", nil)
		w := httptest.NewRecorder()
		view.Handler().ServeHTTP(w, r)
		assertStatus(t, w.Code, http.StatusOK)
	})
}

func TestView_CompositionHandler(t *testing.T) {
	view := makeTestView(t)
	ctx := context.Background()
	view.Store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"})
	view.Store.UpdateTimeline(ctx, []string{"intro"})

	r := httptest.NewRequest("GET", "/api/composition", nil)
	w := httptest.NewRecorder()
	view.SetupMux().ServeHTTP(w, r)
	assertStatus(t, w.Code, http.StatusOK)

	var res Ms.Result
	assertError(t, json.Unmarshal(w.Body.Bytes(), &res), nil)
	assertStringContains(t, res.Summary, "Timeline: intro")
	assertInt(t, res.TotalSections, 1)
}

func TestView_TransportHandler(t *testing.T) {
	view := makeTestView(t)
	mux := view.SetupMux()

	tests := []struct {
		name     string
		method   string
		body     string
		assert   int
		contains string
	}{
		{"Reports the position", "GET", "", http.StatusOK, `"state":"stopped"`},
		{"Rejects a bad body", "POST", "{", http.StatusBadRequest, "invalid request body"},
		{"Rejects an unknown action", "POST", `{"action":"rewind"}`, http.StatusBadRequest, "invalid action"},
		{"Rejects an empty request", "POST", `{}`, http.StatusBadRequest, "required"},
		{"Rejects a bad tempo", "POST", `{"tempo":-1}`, http.StatusBadRequest, "tempo"},
		{"Sets the tempo", "POST", `{"tempo":100}`, http.StatusOK, `"tempo":100`},
		{"Reloads", "POST", `{"action":"reload"}`, http.StatusOK, `"state":"stopped"`},
		{"Plays", "POST", `{"action":"play"}`, http.StatusOK, `"state":"playing"`},
		{"Pauses", "POST", `{"action":"pause"}`, http.StatusOK, `"state":"paused"`},
		{"Stops", "POST", `{"action":"stop"}`, http.StatusOK, `"state":"stopped"`},
		{"Refuses other methods", "DELETE", "", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/api/transport", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)
			assertStatus(t, w.Code, tt.assert)
			assertStringContains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestView_SystemHandler(t *testing.T) {
	view := makeTestView(t)

	r := httptest.NewRequest("GET", "/api/system", nil)
	w := httptest.NewRecorder()
	view.SetupMux().ServeHTTP(w, r)
	assertStatus(t, w.Code, http.StatusOK)

	var info Md.SystemInfo
	assertError(t, json.Unmarshal(w.Body.Bytes(), &info), nil)
	assertString(t, info.Storage, "Memory")
	assertString(t, info.Voice, "Recorder")
}

func TestInitVoice(t *testing.T) {
	t.Run("Falls back to logging for an unknown voice", func(t *testing.T) {
		voice := Md.InitVoice("theremin", 0)
		assertString(t, voice.Type(), "Log")
	})
}

// Helpers //

// View over an in-memory store with a recording voice
func makeTestView(t *testing.T) *Md.View {
	t.Helper()
	stats := Mo.NewStatsInternal()
	store := Ms.NewStore(Mp.NewMemoryStore(),
		Ms.WithEngine(Mc.NewEngine(Mc.NewSource(1))),
		Ms.WithStats(stats))
	sched := Mb.NewScheduler(Mp.NewRecorderVoice(), stats, 0)
	t.Cleanup(func() { sched.Dispose() })
	return Md.NewView(store, sched, stats)
}
