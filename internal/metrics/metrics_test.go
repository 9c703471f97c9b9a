package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

func TestRecorderCountsSessions(t *testing.T) {
	rec := NewRecorder()
	rec.SessionStarted("snake")
	rec.SessionStarted("snake")
	rec.SessionStarted("rhythm")
	rec.SessionCompleted("snake", core.NewResult(true, 95, core.TierPerfect, nil))
	rec.SessionClosed()

	if got := testutil.ToFloat64(rec.started.WithLabelValues("snake")); got != 2 {
		t.Fatalf("expected 2 snake starts, got %v", got)
	}
	if got := testutil.ToFloat64(rec.completed.WithLabelValues("snake", "perfect")); got != 1 {
		t.Fatalf("expected 1 perfect snake completion, got %v", got)
	}
	if got := testutil.ToFloat64(rec.active); got != 2 {
		t.Fatalf("expected 2 active sessions, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.accuracy); n != 1 {
		t.Fatalf("expected one accuracy series, got %d", n)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.SessionStarted("snake")
	rec.SessionCompleted("snake", core.MiniGameResult{})
	rec.SessionClosed()
	if rec.Registry() != nil {
		t.Fatal("nil recorder should have no registry")
	}
	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != 404 {
		t.Fatalf("expected 404 from a nil recorder, got %d", w.Code)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	rec := NewRecorder()
	rec.SessionStarted("tuning")
	rec.SessionCompleted("tuning", core.NewResult(false, 20, core.TierFail, nil))

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`arcade_sessions_started_total{game="tuning"} 1`,
		`arcade_sessions_completed_total{game="tuning",tier="fail"} 1`,
		`arcade_session_accuracy_count{game="tuning"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
