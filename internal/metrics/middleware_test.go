package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func instrumentedRouter(register func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	register(r)
	return r
}

func requests(method, path, status string) float64 {
	return testutil.ToFloat64(httpRequestsTotal.WithLabelValues(method, path, status))
}

func TestMiddleware_CountsAndTimesRequests(t *testing.T) {
	h := instrumentedRouter(func(r chi.Router) {
		r.Post("/v1/search", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})

	before := requests(http.MethodPost, "/v1/search", "201")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/search", http.NoBody))

	if rr.Code != http.StatusCreated {
		t.Fatalf("handler status lost: %d", rr.Code)
	}
	if got := requests(http.MethodPost, "/v1/search", "201") - before; got != 1 {
		t.Errorf("counter increased by %v, want 1", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("no duration series recorded")
	}
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	h := instrumentedRouter(func(r chi.Router) {
		r.Get("/v1/patents/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	})

	before := requests(http.MethodGet, "/v1/patents/{id}", "404")
	for _, id := range []string{"ES1", "ES2", "ES3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/patents/"+id, http.NoBody))
	}
	if got := requests(http.MethodGet, "/v1/patents/{id}", "404") - before; got != 3 {
		t.Errorf("expected 3 requests under one series, got %v", got)
	}
}

func TestMiddleware_StatusDefaultsToOK(t *testing.T) {
	h := instrumentedRouter(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
	})

	before := requests(http.MethodGet, "/health", "200")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if requests(http.MethodGet, "/health", "200")-before != 1 {
		t.Error("implicit 200 not recorded")
	}
}

func TestMiddleware_IgnoresScrapesAndUnmatched(t *testing.T) {
	h := instrumentedRouter(func(r chi.Router) {
		r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		})
	})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if requests(http.MethodGet, "/metrics", "200") != 0 {
		t.Error("scrapes must not be counted")
	}

	before := requests(http.MethodGet, "unmatched", "404")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))
	if requests(http.MethodGet, "unmatched", "404")-before != 1 {
		t.Error("unknown routes must collapse into the unmatched series")
	}
}

func TestRegister_Idempotent(t *testing.T) {
	RegisterHTTPMetrics()
	RegisterHTTPMetrics()
	RegisterEmbeddingMetrics()
	RegisterEmbeddingMetrics()
	RegisterSearchMetrics()
	RegisterSearchMetrics()
}
