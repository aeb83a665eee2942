package service

import (
	"context"
	"fmt"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const contentCacheTTL = 10 * time.Minute

// CourseContentCache 缓存课程的视频/笔记 id 集合；Redis 未启用或出错时直接查库
type CourseContentCache struct {
	Redis      *redis.Client
	CourseRepo *repository.CourseRepository
}

func NewCourseContentCache(rdb *redis.Client, courseRepo *repository.CourseRepository) *CourseContentCache {
	return &CourseContentCache{Redis: rdb, CourseRepo: courseRepo}
}

func contentKey(courseID string) string {
	return fmt.Sprintf("lms:course:%s:content", courseID)
}

func (c *CourseContentCache) ContentIDs(ctx context.Context, courseID string) ([]string, error) {
	if c.Redis != nil {
		ids, err := c.Redis.SMembers(ctx, contentKey(courseID)).Result()
		if err == nil && len(ids) > 0 {
			return ids, nil
		}
		if err != nil {
			logger.For("cache").Warn("Content cache read failed", zap.String("course_id", courseID), zap.Error(err))
		}
	}

	ids, err := c.CourseRepo.ContentIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.Redis != nil && len(ids) > 0 {
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe := c.Redis.TxPipeline()
		pipe.SAdd(ctx, contentKey(courseID), members...)
		pipe.Expire(ctx, contentKey(courseID), contentCacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.For("cache").Warn("Content cache write failed", zap.String("course_id", courseID), zap.Error(err))
		}
	}
	return ids, nil
}

// Contains 判断 contentID 是否属于课程当前内容
func (c *CourseContentCache) Contains(ctx context.Context, courseID, contentID string) (bool, error) {
	ids, err := c.ContentIDs(ctx, courseID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == contentID {
			return true, nil
		}
	}
	return false, nil
}

func (c *CourseContentCache) Invalidate(ctx context.Context, courseID string) {
	if c.Redis == nil {
		return
	}
	if err := c.Redis.Del(ctx, contentKey(courseID)).Err(); err != nil {
		logger.For("cache").Warn("Content cache invalidation failed", zap.String("course_id", courseID), zap.Error(err))
	}
}
