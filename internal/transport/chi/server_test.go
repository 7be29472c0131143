package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscope/internal/artifact"
	"github.com/kailas-cloud/jobscope/internal/domain"
	"github.com/kailas-cloud/jobscope/internal/rank"
	"github.com/kailas-cloud/jobscope/internal/topic"
	healthuc "github.com/kailas-cloud/jobscope/internal/usecase/health"
	matchuc "github.com/kailas-cloud/jobscope/internal/usecase/match"
)

// testSet builds a tiny two-topic artifact set by hand: topic 0 covers
// go/python, topic 1 covers react/tensorflow.
func testSet(t *testing.T) *artifact.Set {
	t.Helper()

	vocab, err := topic.NewVocabulary([]string{"go", "python", "react", "tensorflow"})
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	model, err := topic.NewModel(2, 4, 0, []float64{
		0.45, 0.45, 0.05, 0.05,
		0.05, 0.05, 0.45, 0.45,
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	records := []domain.Record{
		{ID: "job-a", Title: "Backend Engineer", Location: "Remote", Text: "go python go services"},
		{ID: "job-b", Title: "Frontend Engineer", Location: "Lisbon", Text: "react react tensorflow ui"},
	}

	vec := topic.NewVectorizer(vocab, nil)
	dists := make([][]float64, len(records))
	for i, r := range records {
		dist, err := model.Infer(vec.Vectorize(r.Text))
		if err != nil {
			t.Fatalf("Infer: %v", err)
		}
		dists[i] = dist
	}

	return &artifact.Set{
		Vocabulary:    vocab,
		Model:         model,
		Records:       records,
		Distributions: dists,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	set := testSet(t)
	loader := matchuc.LoaderFunc(func() (*artifact.Set, error) { return set, nil })
	matchSvc := matchuc.NewService(loader, rank.NewLinear(), zap.NewNop())
	return NewServer(matchSvc, healthuc.New(matchSvc, nil), zap.NewNop())
}

func newBrokenServer() *Server {
	loader := matchuc.LoaderFunc(func() (*artifact.Set, error) {
		return nil, fmt.Errorf("artifacts missing")
	})
	matchSvc := matchuc.NewService(loader, rank.NewLinear(), zap.NewNop())
	return NewServer(matchSvc, healthuc.New(matchSvc, nil), zap.NewNop())
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestMatch(t *testing.T) {
	srv := newTestServer(t)

	body := `{"text": "python and go developer", "top_n": 2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Match(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp MatchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Matches) != 2 {
		t.Fatalf("count = %d, matches = %d, want 2/2", resp.Count, len(resp.Matches))
	}
	if resp.Matches[0].Job.ID != "job-a" {
		t.Errorf("top match = %q, want job-a", resp.Matches[0].Job.ID)
	}
	if resp.Matches[0].Rank != 1 || resp.Matches[1].Rank != 2 {
		t.Errorf("ranks = %d,%d, want 1,2", resp.Matches[0].Rank, resp.Matches[1].Rank)
	}
}

func TestMatch_EmptyText(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{"text": "   "}`))
	rec := httptest.NewRecorder()
	srv.Match(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "empty_input" {
		t.Errorf("code = %q, want empty_input", e.Code)
	}
}

func TestMatch_NoVocabularyOverlap(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match",
		strings.NewReader(`{"text": "florist with watercolor experience"}`))
	rec := httptest.NewRecorder()
	srv.Match(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "no_vocabulary_overlap" {
		t.Errorf("code = %q, want no_vocabulary_overlap", e.Code)
	}
}

func TestMatch_ModelUnavailable(t *testing.T) {
	srv := newBrokenServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{"text": "python"}`))
	rec := httptest.NewRecorder()
	srv.Match(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "model_unavailable" {
		t.Errorf("code = %q, want model_unavailable", e.Code)
	}
}

func TestMatch_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	srv.Match(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "bad_request" {
		t.Errorf("code = %q, want bad_request", e.Code)
	}
}

func TestMatch_NegativeTopN(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match",
		strings.NewReader(`{"text": "python", "top_n": -1}`))
	rec := httptest.NewRecorder()
	srv.Match(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestJobs(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?page=1&per_page=1", nil)
	rec := httptest.NewRecorder()
	srv.Jobs(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp JobsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Items) != 1 {
		t.Errorf("total = %d, items = %d, want 2/1", resp.Total, len(resp.Items))
	}
	if resp.Items[0].ID != "job-a" {
		t.Errorf("first item = %q, want job-a", resp.Items[0].ID)
	}
	if resp.Page != 1 || resp.PerPage != 1 {
		t.Errorf("page/per_page = %d/%d, want 1/1", resp.Page, resp.PerPage)
	}
}

func TestJobs_InvalidPage(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?page=zero", nil)
	rec := httptest.NewRecorder()
	srv.Jobs(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestJobStats(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/stats", nil)
	rec := httptest.NewRecorder()
	srv.JobStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var stats matchuc.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.TotalJobs != 2 || stats.Topics != 2 || stats.VocabularySize != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.UniqueLocations != 2 {
		t.Errorf("UniqueLocations = %d, want 2", stats.UniqueLocations)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["model"] != "ok" {
		t.Errorf("unexpected health response: %+v", resp)
	}
}

func TestHealthCheck_ModelUnavailable(t *testing.T) {
	srv := newBrokenServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.HealthCheck(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "error" || resp.Checks["model"] != "error" {
		t.Errorf("unexpected health response: %+v", resp)
	}
}
