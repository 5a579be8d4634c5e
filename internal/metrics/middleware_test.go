package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Collector) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c := NewCollector(testConfig(), prometheus.NewRegistry())
	router := gin.New()
	router.Use(c.Middleware(), gin.Recovery())
	return router, c
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_RecordsMatchedRoute(t *testing.T) {
	router, c := newTestRouter(t)
	router.GET("/users/:id", func(ctx *gin.Context) {
		// the gauge must be up while the handler runs
		if got := testutil.ToFloat64(c.inFlight); got != 1 {
			t.Errorf("expected in-flight 1 during handler, got %v", got)
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true})
	})

	if w := serve(router, http.MethodGet, "/users/42"); w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	// labeled with the route pattern, not the raw path
	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/users/:id", "200")); got != 1 {
		t.Errorf("expected 1 request on /users/:id, got %v", got)
	}
	if got := testutil.ToFloat64(c.inFlight); got != 0 {
		t.Errorf("expected in-flight back to 0, got %v", got)
	}
}

func TestMiddleware_UnmatchedPathUsesRawPath(t *testing.T) {
	router, c := newTestRouter(t)

	serve(router, http.MethodGet, "/nope")

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/nope", "404")); got != 1 {
		t.Errorf("expected 1 request labeled with raw path, got %v", got)
	}
}

func TestMiddleware_ErrorStillObservedOnce(t *testing.T) {
	router, c := newTestRouter(t)
	router.GET("/boom", func(ctx *gin.Context) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})

	serve(router, http.MethodGet, "/boom")

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Errorf("expected exactly 1 observation, got %v", got)
	}
	if got := testutil.ToFloat64(c.inFlight); got != 0 {
		t.Errorf("expected in-flight back to 0 after error, got %v", got)
	}
}

func TestMiddleware_PanicRecoveredDownstream(t *testing.T) {
	router, c := newTestRouter(t)
	router.GET("/panic", func(ctx *gin.Context) {
		panic(errors.New("handler exploded"))
	})

	if w := serve(router, http.MethodGet, "/panic"); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected recovery to answer 500, got %d", w.Code)
	}

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/panic", "500")); got != 1 {
		t.Errorf("expected 1 observation for panicking handler, got %v", got)
	}
	if got := testutil.ToFloat64(c.inFlight); got != 0 {
		t.Errorf("expected in-flight back to 0 after panic, got %v", got)
	}
}

func TestMiddleware_PanicWithoutRecoveryStillRecords(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector(testConfig(), prometheus.NewRegistry())
	router := gin.New()
	router.Use(c.Middleware())
	router.GET("/panic", func(ctx *gin.Context) {
		panic("no recovery installed")
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate past the middleware")
			}
		}()
		serve(router, http.MethodGet, "/panic")
	}()

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/panic", "500")); got != 1 {
		t.Errorf("expected the sample recorded before re-panic, got %v", got)
	}
	if got := testutil.ToFloat64(c.inFlight); got != 0 {
		t.Errorf("expected in-flight back to 0, got %v", got)
	}
}
