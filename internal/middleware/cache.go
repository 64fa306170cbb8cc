package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/satyahealth/hospital-booking/internal/config"
)

// bodyCapture tees the response body into a buffer, bounded by limit,
// while still streaming it to the client.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (bc *bodyCapture) WriteHeader(code int) {
	bc.status = code
	bc.ResponseWriter.WriteHeader(code)
}

func (bc *bodyCapture) Write(b []byte) (int, error) {
	if bc.limit <= 0 || bc.buf.Len()+len(b) <= bc.limit {
		bc.buf.Write(b)
	} else {
		bc.buf.Reset() // over limit, give up on caching this response
		bc.limit = -1
	}
	return bc.ResponseWriter.Write(b)
}

func (bc *bodyCapture) cacheable() bool { return bc.status == http.StatusOK && bc.limit >= 0 }

// cacheKey hashes route+query under the configured prefix so the public
// doctor directory and message listings get distinct entries per query.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// NewResponseCache caches successful JSON responses of the configured
// methods in Redis.  Intended for the public doctor directory, which is
// read far more often than it changes.  A nil Redis client disables the
// middleware entirely.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			key := cacheKey(cfg.Prefix, c)
			if body, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil && len(body) > 0 {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			bc := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = bc
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if bc.cacheable() {
				// Detached context: the store must not be cancelled by
				// the client hanging up after the response is written.
				_ = rdb.SetEx(context.Background(), key, bc.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}
