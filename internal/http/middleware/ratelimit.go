package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

type clientInfo struct {
	start time.Time
	count int
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// State is kept in process memory.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return simpleRateLimit(maxRequests, window, time.Now)
}

func simpleRateLimit(maxRequests int, window time.Duration, now func() time.Time) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		clients   = make(map[string]*clientInfo)
		lastSweep = now()
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		t := now()

		mu.Lock()
		if t.Sub(lastSweep) > window {
			for k, ci := range clients {
				if t.Sub(ci.start) > window {
					delete(clients, k)
				}
			}
			lastSweep = t
		}

		ci, ok := clients[ip]
		if !ok || t.Sub(ci.start) > window {
			ci = &clientInfo{start: t}
			clients[ip] = ci
		}
		ci.count++
		blocked := ci.count > maxRequests
		mu.Unlock()

		if blocked {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// RateLimit uses Redis when a client is given and process memory otherwise.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return SimpleRateLimit(maxRequests, window)
	}
	return RedisRateLimit(rdb, maxRequests, window)
}
