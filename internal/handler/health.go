package handler

import (
	"context"
	"net/http"
	"time"

	"retailing/internal/infra"
	"retailing/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// The database is required; Redis and SMTP are reported but only degrade the
// service, since orders are recorded without them.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		var deadLetters int64
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else if n, err := worker.DeadLetterCount(ctx, rdb, worker.QueueNotifications); err == nil {
				deadLetters = n
			}
		}

		smtpStatus := "disabled"
		if mailer != nil {
			smtpStatus = mailer.BreakerState().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":           status == http.StatusOK,
			"db":           dbStatus,
			"redis":        redisStatus,
			"smtp":         smtpStatus,
			"dead_letters": deadLetters,
		})
	}
}
