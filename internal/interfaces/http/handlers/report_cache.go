// internal/interfaces/http/handlers/report_cache.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/retail-backend/internal/config"
)

const inventoryReportVersionKey = "report:inventory:ver"

// reportCache holds redis-backed report snapshots. Any handler that mutates
// stock bumps the version so cached snapshots stop matching. All operations
// fail open when redis is unavailable.
type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newReportCache(client *redis.Client, cfg *config.Config) *reportCache {
	return &reportCache{
		client: client,
		ttl:    cfg.POS.ReportCacheTTL,
	}
}

// key builds a versioned cache key for the current report query. Returns ""
// when redis is unavailable so reads fall through to the database.
func (rc *reportCache) key(c *gin.Context) string {
	if rc.client == nil {
		return ""
	}
	version, err := rc.client.Get(c.Request.Context(), inventoryReportVersionKey).Result()
	if err != nil {
		if err != redis.Nil {
			return ""
		}
		version = "0"
	}
	return "report:inventory:" + version + ":" + c.Request.URL.RawQuery
}

func (rc *reportCache) get(c *gin.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	cached, err := rc.client.Get(c.Request.Context(), key).Bytes()
	if err != nil {
		return nil, false
	}
	return cached, true
}

func (rc *reportCache) set(c *gin.Context, key string, payload []byte) {
	if key == "" {
		return
	}
	rc.client.Set(c.Request.Context(), key, payload, rc.ttl)
}

// bumpVersion invalidates every cached snapshot after a stock write
func (rc *reportCache) bumpVersion(c *gin.Context) {
	if rc.client == nil {
		return
	}
	_ = rc.client.Incr(c.Request.Context(), inventoryReportVersionKey).Err()
}
