package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ragserve/ragserve/internal/adapters/llm"
	"github.com/ragserve/ragserve/internal/adapters/vectordb"
	"github.com/ragserve/ragserve/internal/domain/entities"
	"github.com/ragserve/ragserve/internal/domain/ports"
	"github.com/ragserve/ragserve/internal/domain/usecases"
	"github.com/rs/zerolog"
)

// byteFreqEmbedder maps text to a byte-frequency vector. Identical text
// always embeds to the identical vector, which makes cosine ranking in the
// in-memory store deterministic for tests.
type byteFreqEmbedder struct{}

func (byteFreqEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 8)
	for _, b := range []byte(text) {
		vec[int(b)%8]++
	}
	return vec, nil
}

type countingGenerator struct {
	answer string
	calls  int
}

func (g *countingGenerator) Generate(_ context.Context, _ string, _ []string) (string, error) {
	g.calls++
	return g.answer, nil
}

type failingStore struct{}

func (failingStore) Insert(context.Context, entities.Document) error { return errors.New("store down") }
func (failingStore) Search(context.Context, []float32, int) ([]entities.RetrievedSnippet, error) {
	return nil, errors.New("store down")
}
func (failingStore) Close() error { return nil }

// newTestServer wires the server the same way main does: mock mode swaps
// the generator for the passthrough variant at construction time.
func newTestServer(mock bool, gen ports.Generator, store ports.VectorStore) *Server {
	if store == nil {
		store = vectordb.NewInMemoryStore()
	}

	var generator ports.Generator
	if mock {
		generator = llm.NewPassthroughGenerator()
	} else {
		generator = gen
	}

	embedder := byteFreqEmbedder{}
	queryUC := usecases.NewQueryUseCase(embedder, store, generator, 3, time.Second)
	addUC := usecases.NewAddUseCase(embedder, store, time.Second)

	return NewServer(queryUC, addUC, ":0", zerolog.Nop())
}

func doRequest(t *testing.T, s *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(true, nil, nil)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestServer_QueryMissingQuestion(t *testing.T) {
	s := newTestServer(true, nil, nil)

	for _, target := range []string{"/query", "/query?q=", "/query?q=%20%20"} {
		rec := doRequest(t, s, http.MethodPost, target, nil)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "invalid_input" {
			t.Errorf("%s: expected invalid_input, got %v", target, body["error"])
		}
	}
}

func TestServer_AddThenQuery(t *testing.T) {
	s := newTestServer(true, nil, nil)

	rec := doRequest(t, s, http.MethodPost, "/add?text="+url.QueryEscape("the sky is blue"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["id"] == "" || body["id"] == nil {
		t.Fatal("add: expected a document id")
	}

	rec = doRequest(t, s, http.MethodPost, "/query?q="+url.QueryEscape("the sky is blue"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("query: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	sources, ok := body["sources"].([]any)
	if !ok || len(sources) != 1 {
		t.Fatalf("expected one source, got %v", body["sources"])
	}
	source := sources[0].(map[string]any)
	if source["text"] != "the sky is blue" {
		t.Errorf("expected source text to surface, got %v", source["text"])
	}
	if source["document_id"] == "" {
		t.Error("expected source document_id")
	}
}

func TestServer_MockModeEchoesContextInRankOrder(t *testing.T) {
	gen := &countingGenerator{answer: "should never be used"}
	s := newTestServer(true, gen, nil)

	for _, text := range []string{"alpha facts about go", "zzz unrelated notes"} {
		rec := doRequest(t, s, http.MethodPost, "/add?text="+url.QueryEscape(text), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("add %q: got %d", text, rec.Code)
		}
	}

	rec := doRequest(t, s, http.MethodPost, "/query?q="+url.QueryEscape("alpha facts about go"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("query: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	want := "alpha facts about go\n\nzzz unrelated notes"
	if body["answer"] != want {
		t.Errorf("expected answer %q, got %q", want, body["answer"])
	}
	if gen.calls != 0 {
		t.Errorf("real generator must not be called in mock mode, got %d calls", gen.calls)
	}
}

func TestServer_RealGeneratorAnswers(t *testing.T) {
	gen := &countingGenerator{answer: "Paris is the capital of France."}
	s := newTestServer(false, gen, nil)

	rec := doRequest(t, s, http.MethodPost, "/query?q="+url.QueryEscape("capital of France"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["answer"] != gen.answer {
		t.Errorf("expected %q, got %q", gen.answer, body["answer"])
	}
	if gen.calls != 1 {
		t.Errorf("expected one generator call, got %d", gen.calls)
	}
}

func TestServer_AddEmptyText(t *testing.T) {
	s := newTestServer(true, nil, nil)

	rec := doRequest(t, s, http.MethodPost, "/add", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "invalid_input" {
		t.Errorf("expected invalid_input, got %v", body["error"])
	}
}

func TestServer_AddDuplicateTextDistinctIDs(t *testing.T) {
	s := newTestServer(true, nil, nil)

	var ids []string
	for i := 0; i < 2; i++ {
		rec := doRequest(t, s, http.MethodPost, "/add?text=same+text", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("add %d: got %d", i, rec.Code)
		}
		ids = append(ids, decodeBody(t, rec)["id"].(string))
	}

	if ids[0] == ids[1] {
		t.Errorf("duplicate adds must mint distinct ids, both got %s", ids[0])
	}
}

func TestServer_AddFormFallback(t *testing.T) {
	s := newTestServer(true, nil, nil)

	rec := doRequest(t, s, http.MethodPost, "/add", url.Values{"text": {"from a form"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["id"] == nil {
		t.Error("expected a document id")
	}
}

func TestServer_StoreFailureMapsToServiceUnavailable(t *testing.T) {
	s := newTestServer(true, nil, failingStore{})

	rec := doRequest(t, s, http.MethodPost, "/query?q=anything", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("query: expected 503, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "retrieval_unavailable" {
		t.Errorf("query: expected retrieval_unavailable, got %v", body["error"])
	}

	rec = doRequest(t, s, http.MethodPost, "/add?text=anything", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("add: expected 503, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "store_unavailable" {
		t.Errorf("add: expected store_unavailable, got %v", body["error"])
	}
}
