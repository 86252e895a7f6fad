package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newRelayRouter(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	proxy := NewProxy(2*time.Second, zap.NewNop())
	proxy.Register(router, Provider{
		Name:      "nansen",
		BaseURL:   upstreamURL,
		APIKey:    "secret-key",
		KeyHeader: "apiKey",
	})
	return router
}

func TestRelay_InjectsKeyAndForwardsBody(t *testing.T) {
	var gotMethod, gotPath, gotKey, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apiKey")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	router := newRelayRouter(t, upstream.URL)

	body := `{"chain":"bnb"}`
	req := httptest.NewRequest(http.MethodPost, "/api/nansen/tgm/pnl-leaderboard", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotMethod != http.MethodPost {
		t.Errorf("expected POST forwarded, got %s", gotMethod)
	}
	if gotPath != "/tgm/pnl-leaderboard" {
		t.Errorf("expected provider prefix stripped, got path %q", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("expected injected API key, got %q", gotKey)
	}
	if gotBody != body {
		t.Errorf("expected body forwarded verbatim, got %q", gotBody)
	}
	if rec.Body.String() != `{"data":[]}` {
		t.Errorf("expected upstream body relayed, got %q", rec.Body.String())
	}
}

func TestRelay_ForwardsQueryString(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	router := newRelayRouter(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/nansen/wallets/0xabc/tokens?chain=bsc&limit=100", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if gotQuery != "chain=bsc&limit=100" {
		t.Errorf("expected query forwarded, got %q", gotQuery)
	}
}

func TestRelay_PassesThroughUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"invalid key"}`))
	}))
	defer upstream.Close()

	router := newRelayRouter(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/nansen/tgm/holders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected upstream 403 relayed, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"invalid key"}` {
		t.Errorf("expected upstream error body relayed, got %q", rec.Body.String())
	}
}

func TestRelay_TransportErrorIs500(t *testing.T) {
	// Point at a closed port.
	router := newRelayRouter(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/api/nansen/anything", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on transport error, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Proxy server error") {
		t.Errorf("expected proxy error payload, got %q", rec.Body.String())
	}
}
