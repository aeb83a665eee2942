package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

func withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Branch").
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") })
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := withContent(r.DB.WithContext(ctx)).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// Exists 只检查课程是否存在（未软删除）
func (r *CourseRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List branchID 为空时返回全部课程
func (r *CourseRepository) List(ctx context.Context, branchID string) ([]model.Course, error) {
	var courses []model.Course
	q := withContent(r.DB.WithContext(ctx))
	if branchID != "" {
		q = q.Where("branch_id = ?", branchID)
	}
	err := q.Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Omit("Branch", "Videos", "Notes").Save(course).Error
}

// ContentIDs 课程下所有视频与笔记的 id
func (r *CourseRepository) ContentIDs(ctx context.Context, courseID string) ([]string, error) {
	var videoIDs, noteIDs []string
	db := r.DB.WithContext(ctx)
	if err := db.Model(&model.CourseVideo{}).Where("course_id = ?", courseID).Pluck("id", &videoIDs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.CourseNote{}).Where("course_id = ?", courseID).Pluck("id", &noteIDs).Error; err != nil {
		return nil, err
	}
	return append(videoIDs, noteIDs...), nil
}

func (r *CourseRepository) AddVideo(ctx context.Context, video *model.CourseVideo) error {
	return r.DB.WithContext(ctx).Create(video).Error
}

func (r *CourseRepository) AddNote(ctx context.Context, note *model.CourseNote) error {
	return r.DB.WithContext(ctx).Create(note).Error
}

func (r *CourseRepository) RemoveVideo(ctx context.Context, courseID, videoID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND course_id = ?", videoID, courseID).
		Delete(&model.CourseVideo{})
	return res.RowsAffected > 0, res.Error
}

func (r *CourseRepository) RemoveNote(ctx context.Context, courseID, noteID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND course_id = ?", noteID, courseID).
		Delete(&model.CourseNote{})
	return res.RowsAffected > 0, res.Error
}

// Delete 软删除课程，同时清理报名、视频与笔记
func (r *CourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Course{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := DeleteEnrollmentsWhere(tx, "course_id", id); err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.CourseVideo{}).Error; err != nil {
			return err
		}
		return tx.Where("course_id = ?", id).Delete(&model.CourseNote{}).Error
	})
	return deleted, err
}
