package middleware

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserDirectory 校验令牌对应的账号仍然存在
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// AuthMiddleware 校验 Bearer JWT，兼容 ?token= 查询参数；users 非 nil 时拒绝已删除账号的令牌
func AuthMiddleware(secret string, users UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.For("http").Debug("JWT rejected", zap.String("path", c.FullPath()), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if users != nil {
			exists, err := users.Exists(c.Request.Context(), claims.UserID)
			if err != nil {
				util.LogInternalError(c, err)
				c.Abort()
				return
			}
			if !exists {
				logger.For("http").Debug("Token for deleted user", zap.String("user_id", claims.UserID))
				util.Unauthorized(c)
				c.Abort()
				return
			}
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware 管理员通过所有角色校验
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.Role == model.Admin
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.ForbiddenResponse(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(ctx context.Context, userID string, at time.Time) error
}

const activityInterval = time.Minute

// ActivityMiddleware 异步记录用户最近活跃时间，同一用户每分钟最多写一次
func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		lastSeen  = make(map[string]time.Time)
		lastPrune = time.Now()
	)
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			now := time.Now()
			mu.Lock()
			if now.Sub(lastPrune) >= activityInterval {
				pruneActivity(lastSeen, now)
				lastPrune = now
			}
			due := now.Sub(lastSeen[claims.UserID]) >= activityInterval
			if due {
				lastSeen[claims.UserID] = now
			}
			mu.Unlock()

			if due {
				go func(userID string) {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := repo.UpdateLastSeen(ctx, userID, now); err != nil {
						logger.For("http").Warn("Failed to update last seen", zap.String("user_id", userID), zap.Error(err))
					}
				}(claims.UserID)
			}
		}
		c.Next()
	}
}

// pruneActivity 删除已过节流窗口的记录，这些用户下次请求本就会写库
func pruneActivity(lastSeen map[string]time.Time, now time.Time) {
	for id, at := range lastSeen {
		if now.Sub(at) >= activityInterval {
			delete(lastSeen, id)
		}
	}
}
