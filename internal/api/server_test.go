package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nharring-adjacent/drain-flow/pkg/drain"
)

func newTestServer(t *testing.T) (*Server, *drain.Index) {
	t.Helper()
	idx, err := drain.New(nil)
	if err != nil {
		t.Fatalf("drain.New() error = %v", err)
	}
	return NewServer("127.0.0.1:0", idx), idx
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("Status = %q, want ok", resp.Status)
	}
}

func TestIngestThenGroupsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	body, _ := json.Marshal(ingestRequest{Line: "user alice logged in from 10.0.0.5"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest status = %d, want %d", rec.Code, http.StatusOK)
	}
	var ingestResp ingestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ingestResp); err != nil {
		t.Fatalf("decoding ingest response: %v", err)
	}
	if !ingestResp.Added {
		t.Fatal("ingestResponse.Added = false, want true for the first line")
	}

	req2 := httptest.NewRequest(http.MethodGet, "/groups", nil)
	rec2 := httptest.NewRecorder()
	s.router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("groups status = %d, want %d", rec2.Code, http.StatusOK)
	}
	var views []groupView
	if err := json.Unmarshal(rec2.Body.Bytes(), &views); err != nil {
		t.Fatalf("decoding groups response: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1", len(views))
	}
	if views[0].Examples != 0 {
		t.Fatalf("Examples = %d, want 0 for a group with no absorbed examples yet", views[0].Examples)
	}
}

func TestIngestRejectsMalformedBody(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
