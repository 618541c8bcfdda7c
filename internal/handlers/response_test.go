package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(err, c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", services.NotFound("post not found"), http.StatusNotFound, "post not found"},
		{"forbidden", services.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"conflict", services.Conflict("already"), http.StatusConflict, "already"},
		{"bad input", services.BadInput("bad"), http.StatusBadRequest, "bad"},
		{"unauthenticated", services.Unauthenticated("login"), http.StatusUnauthorized, "login"},
		{"echo error", echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot, "short and stout"},
		{"route miss", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := renderError(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.msg, body["message"])
		})
	}
}

func TestErrorHandlerHidesInternalDetail(t *testing.T) {
	status, body := renderError(t, services.Internal(errors.New("pq: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["message"])

	status, body = renderError(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["message"])
}

func TestPaginationClamps(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, defaultPageSize},
		{"?page=3&limit=20", 3, 20},
		{"?page=-2&limit=0", 1, defaultPageSize},
		{"?limit=500", 1, maxPageSize},
		{"?page=abc", 1, defaultPageSize},
	}
	e := echo.New()
	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), httptest.NewRecorder())
		page, limit := pagination(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.limit, limit, tt.query)
	}
}

func TestNewMeta(t *testing.T) {
	meta := newMeta(2, 10, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNextPage)
	assert.True(t, meta.HasPreviousPage)

	meta = newMeta(1, 10, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPreviousPage)
}

func TestParamID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")

	c.SetParamValues("12")
	id, err := paramID(c, "id")
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)

	for _, v := range []string{"0", "-1", "abc"} {
		c.SetParamValues(v)
		_, err := paramID(c, "id")
		assert.Error(t, err, v)
	}
}
