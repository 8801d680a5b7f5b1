package app

import (
	"time"

	"community_exchange/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TouchLastSeen throttles last-seen writes through a short-lived redis key.
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok || p.ID == "" {
			c.Next()
			return
		}

		key := "user:lastseen:" + p.ID
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			_ = repo.TouchUserSeen(c, p.ID) // 忽略错误，不阻塞请求
		}
		c.Next()
	}
}
