package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/blogsphere/pkg/response"
)

const rateKeyPrefix = "blogsphere:rl:"

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(ctxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// KeyFunc names the bucket a request is counted in.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that skip the limiter.
type AllowFunc func(c *gin.Context) bool

// KeyByIP shares one bucket per client address across all routes using it.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return rateKeyPrefix + "ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath gives every route template its own bucket per address.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		return rateKeyPrefix + "route:" + route + ":" + ipFromCtx(c)
	}
}

// KeyByUserID counts signed-in callers per account and anonymous ones per
// address. It must run after Strict or Optional.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if id := IdentityFrom(c); id.Authenticated() {
			return rateKeyPrefix + "user:" + id.UserID
		}
		return rateKeyPrefix + "anon:" + ipFromCtx(c)
	}
}

// hitScript bumps the window counter, arms its expiry on the first hit and
// returns {count, remaining ms}.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type windowState struct {
	count int64
	reset time.Duration
}

func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (windowState, error) {
	res, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return windowState{}, err
	}
	if len(res) != 2 {
		return windowState{}, fmt.Errorf("rate limit script returned %d values", len(res))
	}
	return windowState{count: res[0], reset: time.Duration(res[1]) * time.Millisecond}, nil
}

// RateLimit is a fixed-window limiter on Redis. OPTIONS requests and
// anything allow accepts pass straight through. A nil client or a Redis
// failure lets the request in.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limitHeader := strconv.Itoa(limit)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		st, err := hit(c, rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}

		resetSec := int((st.reset + time.Second - 1) / time.Second)
		if resetSec < 0 {
			resetSec = 0
		}
		remaining := int64(limit) - st.count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limitHeader)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if st.count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(max(resetSec, 1)))
			response.Error[any](c, http.StatusTooManyRequests, "too many requests, slow down", nil)
			return
		}
		c.Next()
	}
}
