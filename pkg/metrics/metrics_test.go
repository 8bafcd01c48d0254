package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/proposals/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proposals/7", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	count := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/proposals/:id", "200"))
	assert.Equal(t, 2.0, count)
}

func TestMiddleware_RecordsErrorStatus(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/boom", "418")))
}

func TestSignatureCounters(t *testing.T) {
	m := New()
	m.SignatureRecorded("licensee")
	m.SignatureRecorded("licensee")
	m.ProposalFullySigned()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.signaturesTotal.WithLabelValues("licensee")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fullySignedTotal))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ArchiveFailed()
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/metrics", nil), rec)
	require.NoError(t, m.Handler()(c))

	assert.True(t, strings.Contains(rec.Body.String(), "proposal_service_archive_failures_total 1"))
}
