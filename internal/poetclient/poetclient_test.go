package poetclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moraneus/PoET/internal/poetclient"
)

func TestSubmitDecodesRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["property"] != "EP(a & b)" {
			t.Errorf("property = %v", body["property"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(poetclient.Run{ID: 1, Verdict: true})
	}))
	defer srv.Close()

	c := poetclient.New(srv.URL, 2*time.Second)
	run, err := c.Submit(context.Background(), "EP(a & b)", `{"processes":2,"events":[]}`, false)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !run.Verdict {
		t.Errorf("expected verdict true")
	}
}

func TestStatusNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := poetclient.New(srv.URL, 2*time.Second)
	_, err := c.Status(context.Background(), 42)
	if err != poetclient.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
