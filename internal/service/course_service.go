package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseInput 创建课程；更新时 nil 字段保持原值
// swagger:model CourseInput
type CourseInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	BranchID    *string `json:"branch"`
	Instructor  *string `json:"instructor"`
}

// VideoInput swagger:model VideoInput
type VideoInput struct {
	Title       string `json:"title" binding:"required"`
	VideoID     string `json:"videoId" binding:"required"`
	Description string `json:"description"`
}

// NoteInput swagger:model NoteInput
type NoteInput struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

type CourseService struct {
	CourseRepo *repository.CourseRepository
	BranchRepo *repository.BranchRepository
	Content    *CourseContentCache
}

func NewCourseService(courseRepo *repository.CourseRepository, branchRepo *repository.BranchRepository, content *CourseContentCache) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		BranchRepo: branchRepo,
		Content:    content,
	}
}

func (s *CourseService) requireBranch(ctx context.Context, branchID string) error {
	if !model.IsValidID(branchID) {
		return util.ErrBranchNotFound
	}
	_, err := s.BranchRepo.FindByID(ctx, branchID)
	return translate(err, util.ErrBranchNotFound, "look up branch")
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func (s *CourseService) Create(ctx context.Context, actor Actor, in CourseInput) (*model.Course, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if blank(in.Title) || blank(in.Description) || blank(in.BranchID) {
		return nil, util.Validation("title, description and branch are required")
	}
	if err := s.requireBranch(ctx, *in.BranchID); err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:       strings.TrimSpace(*in.Title),
		Description: *in.Description,
		BranchID:    *in.BranchID,
		Instructor:  "Platform Admin",
	}
	if !blank(in.Instructor) {
		course.Instructor = strings.TrimSpace(*in.Instructor)
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, util.Persistence(err, "failed to create course")
	}
	logger.For("courses").Info("Course created", zap.String("course_id", course.ID), zap.String("branch_id", course.BranchID))
	return s.Get(ctx, course.ID)
}

// List branchID 非空时按分部过滤，分部不存在返回 NotFound
func (s *CourseService) List(ctx context.Context, branchID string) ([]model.Course, error) {
	if branchID != "" {
		if err := s.requireBranch(ctx, branchID); err != nil {
			return nil, err
		}
	}
	courses, err := s.CourseRepo.List(ctx, branchID)
	if err != nil {
		return nil, util.Persistence(err, "failed to list courses")
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrCourseNotFound
	}
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, util.ErrCourseNotFound, "load course")
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, actor Actor, id string, in CourseInput) (*model.Course, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if blank(in.Title) {
			return nil, util.Validation("title must not be empty")
		}
		course.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Instructor != nil {
		course.Instructor = *in.Instructor
	}
	if in.BranchID != nil && *in.BranchID != course.BranchID {
		if err := s.requireBranch(ctx, *in.BranchID); err != nil {
			return nil, err
		}
		course.BranchID = *in.BranchID
		course.Branch = nil
	}
	if err := s.CourseRepo.Update(ctx, course); err != nil {
		return nil, util.Persistence(err, "failed to update course")
	}
	return s.Get(ctx, id)
}

// Delete 级联删除报名记录
func (s *CourseService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if !model.IsValidID(id) {
		return util.ErrCourseNotFound
	}
	deleted, err := s.CourseRepo.Delete(ctx, id)
	if err != nil {
		return util.Persistence(err, "failed to delete course")
	}
	if !deleted {
		return util.ErrCourseNotFound
	}
	s.Content.Invalidate(ctx, id)
	logger.For("courses").Info("Course deleted", zap.String("course_id", id))
	return nil
}

func (s *CourseService) AddVideo(ctx context.Context, actor Actor, courseID string, in VideoInput) (*model.Course, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	video := &model.CourseVideo{CourseID: courseID, Title: in.Title, VideoID: in.VideoID, Description: in.Description}
	if err := s.CourseRepo.AddVideo(ctx, video); err != nil {
		return nil, util.Persistence(err, "failed to add video")
	}
	s.Content.Invalidate(ctx, courseID)
	return s.Get(ctx, courseID)
}

func (s *CourseService) AddNote(ctx context.Context, actor Actor, courseID string, in NoteInput) (*model.Course, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	note := &model.CourseNote{CourseID: courseID, Title: in.Title, Content: in.Content, URL: in.URL}
	if err := s.CourseRepo.AddNote(ctx, note); err != nil {
		return nil, util.Persistence(err, "failed to add note")
	}
	s.Content.Invalidate(ctx, courseID)
	return s.Get(ctx, courseID)
}

// RemoveContent 删除视频或笔记；已有的完成记录由定时任务清理
func (s *CourseService) RemoveContent(ctx context.Context, actor Actor, courseID, kind, contentID string) (*model.Course, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}

	var (
		removed bool
		err     error
	)
	switch kind {
	case "videos":
		removed, err = s.CourseRepo.RemoveVideo(ctx, courseID, contentID)
	case "notes":
		removed, err = s.CourseRepo.RemoveNote(ctx, courseID, contentID)
	default:
		return nil, util.Validation("unknown content type %q", kind)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.Persistence(err, "failed to remove content")
	}
	if !removed {
		return nil, util.ErrContentNotFound
	}
	s.Content.Invalidate(ctx, courseID)
	return s.Get(ctx, courseID)
}
