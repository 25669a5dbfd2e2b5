package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "errors_total"}, []string{"type"})
}

func serve(t *testing.T, counter *prometheus.CounterVec, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/polls/teacher", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, Middleware(counter)(handler)(c)
}

func TestMiddleware_StructuredError(t *testing.T) {
	counter := newCounter()

	rec, err := serve(t, counter, func(c echo.Context) error {
		return NotFoundError("poll not found").WithField("poll_id", "p1")
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "poll not found", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "p1", resp.Context["poll_id"])
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("not_found")))
}

func TestMiddleware_PlainErrorBecomesInternal(t *testing.T) {
	counter := newCounter()

	rec, err := serve(t, counter, func(c echo.Context) error {
		return errors.New("secret detail")
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("internal")))
}

func TestMiddleware_NoError(t *testing.T) {
	counter := newCounter()

	rec, err := serve(t, counter, func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, testutil.CollectAndCount(counter))
}

func TestMiddleware_EchoHTTPErrorPassesThrough(t *testing.T) {
	counter := newCounter()

	_, err := serve(t, counter, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many connections")
	})

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("rate_limited")))
}

func TestMiddleware_NilCounter(t *testing.T) {
	rec, err := serve(t, nil, func(c echo.Context) error {
		return ValidationError("bad")
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrapHTTPError(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{http.StatusBadRequest, TypeValidation},
		{http.StatusNotFound, TypeNotFound},
		{http.StatusMethodNotAllowed, TypeNotFound},
		{http.StatusTooManyRequests, TypeRateLimited},
		{http.StatusServiceUnavailable, TypeUnavailable},
		{http.StatusForbidden, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, WrapHTTPError(echo.NewHTTPError(tt.code)).Type)
		})
	}

	wrapped := WrapHTTPError(&echo.HTTPError{Code: http.StatusBadRequest, Message: "bad json", Internal: errors.New("eof")})
	assert.Equal(t, "bad json", wrapped.Message)
	assert.EqualError(t, wrapped.Cause, "eof")
}
