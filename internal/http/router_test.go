package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/search"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

// newTestStack builds a small real index plus a service wired to it; no DB so
// search logging stays out of the way.
func newTestStack(t *testing.T) (*search.Store, *services.RecipeService) {
	t.Helper()
	recipes := []domain.Recipe{
		{ID: "1", Title: "Chicken Fried Rice", Category: "Dinner", Rating: 4.5,
			Ingredients: []string{"2 cups rice", "1 lb chicken", "2 tbsp soy sauce"}},
		{ID: "2", Title: "Plain Rice", Category: "Side", Rating: 4.0,
			Ingredients: []string{"1 cup rice", "1 pinch salt"}},
		{ID: "3", Title: "Fruit Salad", Category: "Dessert", Rating: 4.8,
			Ingredients: []string{"2 apples", "1 cup grapes"}},
	}
	ix, err := search.Build(recipes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	store := search.NewStore(ix)
	svc := &services.RecipeService{
		Store: store,
		Rand:  rand.New(rand.NewSource(1)),
	}
	return store, svc
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api",
		DefaultTopN: 6,
		RateRPS:     100,
		RateBurst:   10,
		CORS:        config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store, svc := newTestStack(t)
	RegisterRoutes(r, store, svc, testConfig())

	// /health works and reports corpus readiness
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	var health map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("health unmarshal: %v", err)
	}
	if health["status"] != "ok" || health["recipes"].(float64) != 3 {
		t.Fatalf("health payload unexpected: %v", health)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /api/health is mounted too
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/health = %d", w.Code)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (DELETE /health)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_SearchEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store, svc := newTestStack(t)
	RegisterRoutes(r, store, svc, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/recipes/search",
		bytes.NewBufferString(`{"ingredients":["chicken","rice"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/recipes/search = %d; body=%s", w.Code, w.Body.String())
	}

	// The success body is a bare ordered array of scored recipes.
	var results []struct {
		ID              string  `json:"id"`
		SimilarityScore float64 `json:"similarityScore"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 2 || results[0].ID != "1" {
		t.Fatalf("unexpected search response: %+v", results)
	}
	if results[0].SimilarityScore <= results[1].SimilarityScore {
		t.Fatalf("results not ordered by score: %+v", results)
	}

	// Invalid top_n travels the whole stack to a 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/recipes/search",
		bytes.NewBufferString(`{"ingredients":["rice"],"top_n":-1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid top_n = %d, want 400", w.Code)
	}
}

func TestRegisterRoutes_ReadEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store, svc := newTestStack(t)
	RegisterRoutes(r, store, svc, testConfig())

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/api/recipes/categories")
	if w.Code != http.StatusOK {
		t.Fatalf("categories = %d", w.Code)
	}
	var categories []string
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("categories not a top-level array: %v; body=%s", err, w.Body.String())
	}
	if w := get("/api/recipes/random?count=2"); w.Code != http.StatusOK {
		t.Fatalf("random = %d", w.Code)
	}
	if w := get("/api/recipes/by-category/Dinner"); w.Code != http.StatusOK {
		t.Fatalf("by-category = %d", w.Code)
	}
	if w := get("/api/recipes/1"); w.Code != http.StatusOK {
		t.Fatalf("get recipe = %d", w.Code)
	}
	if w := get("/api/recipes/999"); w.Code != http.StatusNotFound {
		t.Fatalf("missing recipe = %d, want 404", w.Code)
	}
	if w := get("/api/recipes/stats"); w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := testConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}

	store, svc := newTestStack(t)
	RegisterRoutes(r, store, svc, cfg)

	// Any request runs through CORS middleware; header should reflect origin.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	// Hit all three
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/one", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "one" {
		t.Fatalf("GET /one got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/two", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "two" {
		t.Fatalf("GET /two got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("GET /api/ping got %d %q", rec.Code, rec.Body.String())
	}
}

// Smoke test that a request traverses request-id + ratelimit + otel + security
// headers + gzip pipeline.
func TestPipeline_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := testConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour} // enabled (but only set on https)

	store, svc := newTestStack(t)
	RegisterRoutes(r, store, svc, cfg)

	// Any request goes through the middleware stack
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	// simulate https so HSTS could be eligible if middleware checks scheme
	req.URL.Scheme = "https"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	// RequestID header should be present (from RequestID middleware)
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	// Security baseline header from SecurityHeaders middleware
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
}

func TestHealth_UnavailableBeforePublish(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := search.NewStore(nil)
	svc := &services.RecipeService{Store: store}
	RegisterRoutes(r, store, svc, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /health before publish = %d, want 503", w.Code)
	}
}
