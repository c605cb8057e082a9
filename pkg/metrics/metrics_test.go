package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware_CountsByRoute(t *testing.T) {
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/listings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/listings/:id", "200"))
	for _, path := range []string{"/listings/1", "/listings/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/listings/:id", "200"))
	assert.Equal(t, 2.0, after-before)
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}

func TestRecordReview(t *testing.T) {
	ok := testutil.ToFloat64(reviewRuns.WithLabelValues("true"))
	failed := testutil.ToFloat64(reviewRuns.WithLabelValues("false"))
	reviewed := testutil.ToFloat64(reviewedListings)

	RecordReview(3, nil)
	RecordReview(0, errors.New("db down"))

	assert.Equal(t, ok+1, testutil.ToFloat64(reviewRuns.WithLabelValues("true")))
	assert.Equal(t, failed+1, testutil.ToFloat64(reviewRuns.WithLabelValues("false")))
	assert.Equal(t, reviewed+3, testutil.ToFloat64(reviewedListings))
}

func TestHandler_Exposes(t *testing.T) {
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "classifieds_sandbox_review_listings_reviewed_total")
}
