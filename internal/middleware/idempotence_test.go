package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newIdempotenceRouter mirrors the production wiring: the duplicate guard
// sits on the creation route only, never on the toggle route.
func newIdempotenceRouter(t *testing.T) (*gin.Engine, *int32, *int32) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()

	var created, toggled int32
	r.POST("/notes", Idempotence(rdb), func(c *gin.Context) {
		atomic.AddInt32(&created, 1)
		c.JSON(http.StatusCreated, gin.H{"ok": 1})
	})
	r.PUT("/notes/:id/like", func(c *gin.Context) {
		atomic.AddInt32(&toggled, 1)
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	return r, &created, &toggled
}

func TestIdempotenceRejectsDuplicateCreate(t *testing.T) {
	r, created, _ := newIdempotenceRouter(t)

	send := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send())
	assert.Equal(t, http.StatusConflict, send())
	assert.Equal(t, int32(1), atomic.LoadInt32(created))
}

func TestIdempotenceAllowsDistinctBodies(t *testing.T) {
	r, created, _ := newIdempotenceRouter(t)

	for _, body := range []string{`{"title":"a"}`, `{"title":"b"}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(created))
}

// Identical like toggles must both execute: the second call reverses the
// first, and a 409 here would make a like impossible to undo for a minute.
func TestLikeToggleRepeatsAreNotDeduplicated(t *testing.T) {
	r, _, toggled := newIdempotenceRouter(t)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/notes/n-1/like", nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(toggled))
}

func TestIdempotenceReleasesKeyAfterFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()

	var calls int32
	r.POST("/notes", Idempotence(rdb), func(c *gin.Context) {
		if atomic.AddInt32(&calls, 1) == 1 {
			c.JSON(http.StatusBadGateway, gin.H{"ok": 0})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": 1})
	})

	send := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadGateway, send())
	assert.Equal(t, http.StatusCreated, send())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
