package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/moraneus/PoET/internal/server"
)

const s1Trace = `{
  "processes": 2,
  "events": [
    ["e1", ["P1"], ["a"], [1, 0]],
    ["e2", ["P2"], ["b"], [0, 1]],
    ["e3", ["P1", "P2"], ["c"], [2, 2]]
  ]
}`

func newTestRouter() (*gin.Engine, *server.API) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := server.NewAPI()
	api.SetupRoutes(r)
	return r, api
}

func submit(t *testing.T, r *gin.Engine, property, trace string, reduce bool) server.Run {
	t.Helper()
	body, _ := json.Marshal(server.SubmitRequest{Property: property, Trace: trace, Reduce: reduce})
	req := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /verify: status %d, body %s", w.Code, w.Body.String())
	}
	var run server.Run
	if err := json.Unmarshal(w.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return run
}

func TestSubmitS1VerdictTrue(t *testing.T) {
	r, _ := newTestRouter()
	run := submit(t, r, "EP(a & b)", s1Trace, false)
	if !run.Verdict {
		t.Errorf("expected verdict true for S1 EP(a & b), got false")
	}
	if run.Stats.TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3", run.Stats.TotalEvents)
	}
}

func TestSubmitRejectsBadProperty(t *testing.T) {
	r, _ := newTestRouter()
	body, _ := json.Marshal(server.SubmitRequest{Property: "&&&", Trace: s1Trace})
	req := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed property, got %d", w.Code)
	}
}

func TestStatusRoundTrip(t *testing.T) {
	r, _ := newTestRouter()
	run := submit(t, r, "EP(a & b)", s1Trace, false)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/verify/%d", run.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /verify/%d: status %d", run.ID, w.Code)
	}
	var got server.Run
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Verdict != run.Verdict {
		t.Errorf("status verdict %v, submit verdict %v", got.Verdict, run.Verdict)
	}
}

func TestStatusUnknownRunNotFound(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/verify/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown run id, got %d", w.Code)
	}
}

func TestFrontierByCutFindsMaterializedFrontier(t *testing.T) {
	r, _ := newTestRouter()
	run := submit(t, r, "EP(a & b)", s1Trace, false)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/verify/%d/frontier?cut=1,1", run.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET frontier: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestFrontierByCutMissingQueryParam(t *testing.T) {
	r, _ := newTestRouter()
	run := submit(t, r, "EP(a & b)", s1Trace, false)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/verify/%d/frontier", run.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a cut query parameter, got %d", w.Code)
	}
}
