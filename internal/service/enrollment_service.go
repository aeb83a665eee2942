package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Content        *CourseContentCache
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository, content *CourseContentCache) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Content:        content,
	}
}

func (s *EnrollmentService) Enroll(ctx context.Context, actor Actor, courseID string) (*model.Enrollment, error) {
	if !model.IsValidID(courseID) {
		return nil, util.ErrCourseNotFound
	}
	exists, err := s.CourseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, util.Persistence(err, "failed to look up course")
	}
	if !exists {
		return nil, util.ErrCourseNotFound
	}

	_, err = s.EnrollmentRepo.FindByUserAndCourse(ctx, actor.UserID, courseID)
	if err == nil {
		return nil, util.ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.Persistence(err, "failed to check enrollment")
	}

	enrollment := &model.Enrollment{UserID: actor.UserID, CourseID: courseID}
	if err := s.EnrollmentRepo.Create(ctx, enrollment); err != nil {
		// 并发报名由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, util.Persistence(err, "failed to enroll")
	}
	enrollment.SyncCompletedContent()

	monitoring.ObserveEnrollment("enroll")
	logger.For("enrollments").Info("User enrolled",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("user_id", actor.UserID),
		zap.String("course_id", courseID),
	)
	return enrollment, nil
}

func (s *EnrollmentService) load(ctx context.Context, id string) (*model.Enrollment, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrEnrollmentNotFound
	}
	e, err := s.EnrollmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, util.ErrEnrollmentNotFound, "load enrollment")
	}
	return e, nil
}

// MarkComplete 内容必须属于课程当前的视频或笔记；重复标记不报错
func (s *EnrollmentService) MarkComplete(ctx context.Context, actor Actor, enrollmentID, contentID string) (*model.Enrollment, error) {
	e, err := s.load(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanTrackProgress(e) {
		return nil, util.ErrPermissionDenied
	}

	ok, err := s.Content.Contains(ctx, e.CourseID, contentID)
	if err != nil {
		return nil, util.Persistence(err, "failed to load course content")
	}
	if !ok {
		return nil, util.ErrContentNotFound
	}

	if err := s.EnrollmentRepo.AddCompletion(ctx, e.ID, contentID); err != nil {
		return nil, util.Persistence(err, "failed to update progress")
	}
	monitoring.ObserveEnrollment("complete")
	logger.For("enrollments").Debug("Content marked complete", zap.String("enrollment_id", e.ID), zap.String("content_id", contentID))
	return s.load(ctx, e.ID)
}

// MarkIncomplete 移除不存在的 id 视为成功
func (s *EnrollmentService) MarkIncomplete(ctx context.Context, actor Actor, enrollmentID, contentID string) (*model.Enrollment, error) {
	e, err := s.load(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanTrackProgress(e) {
		return nil, util.ErrPermissionDenied
	}

	if err := s.EnrollmentRepo.RemoveCompletion(ctx, e.ID, contentID); err != nil {
		return nil, util.Persistence(err, "failed to update progress")
	}
	monitoring.ObserveEnrollment("incomplete")
	logger.For("enrollments").Debug("Content marked incomplete", zap.String("enrollment_id", e.ID), zap.String("content_id", contentID))
	return s.load(ctx, e.ID)
}

// Unenroll 删除报名记录及全部进度
func (s *EnrollmentService) Unenroll(ctx context.Context, actor Actor, enrollmentID string) error {
	e, err := s.load(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if !actor.CanUnenroll(e) {
		return util.ErrPermissionDenied
	}
	if err := s.EnrollmentRepo.Delete(ctx, e.ID); err != nil {
		return util.Persistence(err, "failed to unenroll")
	}

	monitoring.ObserveEnrollment("unenroll")
	logger.For("enrollments").Info("User unenrolled",
		zap.String("enrollment_id", e.ID),
		zap.String("user_id", e.UserID),
		zap.String("course_id", e.CourseID),
		zap.String("actor_id", actor.UserID),
	)
	return nil
}

func (s *EnrollmentService) ListMine(ctx context.Context, actor Actor) ([]model.Enrollment, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, util.Persistence(err, "failed to list enrollments")
	}
	return enrollments, nil
}

func (s *EnrollmentService) ListAll(ctx context.Context, actor Actor) ([]model.Enrollment, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	enrollments, err := s.EnrollmentRepo.ListAll(ctx)
	if err != nil {
		return nil, util.Persistence(err, "failed to list enrollments")
	}
	return enrollments, nil
}

// GetDetails 管理员或报名者本人可查看
func (s *EnrollmentService) GetDetails(ctx context.Context, actor Actor, id string) (*model.Enrollment, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrEnrollmentNotFound
	}
	e, err := s.EnrollmentRepo.FindDetail(ctx, id)
	if err != nil {
		return nil, translate(err, util.ErrEnrollmentNotFound, "load enrollment")
	}
	if !actor.CanUnenroll(e) {
		return nil, util.ErrPermissionDenied
	}
	return e, nil
}
