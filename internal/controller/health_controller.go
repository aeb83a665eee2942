package controller

import (
	"context"
	"lms_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const healthProbeTimeout = 2 * time.Second

// HealthController Redis 为 nil 表示未启用缓存
type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// HealthCheck godoc
// @Summary 健康检查
// @Description 数据库不可用返回 503；课程内容缓存(Redis)不可用时仅标记为 degraded
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response "数据库不可用"
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthProbeTimeout)
	defer cancel()

	sqlDB, err := c.DB.DB()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if err := sqlDB.PingContext(probeCtx); err != nil {
		util.ErrorWithData(ctx, http.StatusServiceUnavailable, "Database unavailable", gin.H{
			"status":     "down",
			"components": gin.H{"database": "down", "cache": c.cacheStatus(probeCtx)},
		})
		return
	}

	status, cache := "ok", c.cacheStatus(probeCtx)
	if cache == "down" {
		status = "degraded"
	}
	util.Success(ctx, gin.H{
		"status":     status,
		"components": gin.H{"database": "up", "cache": cache},
	})
}

// cacheStatus 返回 up / down / disabled
func (c *HealthController) cacheStatus(ctx context.Context) string {
	if c.Redis == nil {
		return "disabled"
	}
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		return "down"
	}
	return "up"
}
