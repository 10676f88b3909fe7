package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campusnotes/core/internal/pkg/apperr"
)

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w
}

func TestOKWrapsSlices(t *testing.T) {
	w := record(func(c *gin.Context) { OK(c, []string{"a", "b"}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":["a","b"]}`, w.Body.String())

	w = record(func(c *gin.Context) { OK(c, gin.H{"x": 1}) })
	assert.JSONEq(t, `{"x":1}`, w.Body.String())
}

func TestErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperr.Validation("bad input"), http.StatusBadRequest},
		{apperr.NotFound("note"), http.StatusNotFound},
		{apperr.Forbidden("not yours"), http.StatusForbidden},
		{apperr.New(apperr.KindConflict, "already there"), http.StatusConflict},
		{apperr.Store("upstream failed", errors.New("rst")), http.StatusBadGateway},
		{errors.New("who knows"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := record(func(c *gin.Context) { Error(c, tc.err) })
		assert.Equal(t, tc.code, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":0`)
	}
}

func TestErrorIncludesValidationFields(t *testing.T) {
	w := record(func(c *gin.Context) {
		Error(c, apperr.MissingFields([]string{"title", "batch"}))
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"fields":["title","batch"]`)
	assert.Contains(t, w.Body.String(), "missing required fields")
}

func TestErrorHidesInternalCause(t *testing.T) {
	w := record(func(c *gin.Context) {
		Error(c, errors.New("dial tcp 10.0.0.5: connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}
