package repository

import (
	"context"
	"lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func syncAll(enrollments []model.Enrollment) {
	for i := range enrollments {
		enrollments[i].SyncCompletedContent()
	}
}

// Create 依赖唯一索引 idx_enrollment_user_course，重复时返回 gorm.ErrDuplicatedKey
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now()
	}
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var e model.Enrollment
	if err := r.DB.WithContext(ctx).Preload("Completions").First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	e.SyncCompletedContent()
	return &e, nil
}

// FindDetail 管理员查看用，附带用户与课程信息
func (r *EnrollmentRepository) FindDetail(ctx context.Context, id string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).
		Preload("Completions").
		Preload("User").
		Preload("User.Branch").
		Preload("Course.Branch").
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	e.SyncCompletedContent()
	return &e, nil
}

func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Preload("Completions").
		Preload("Course.Branch").
		Preload("Course.Videos").
		Preload("Course.Notes").
		Where("user_id = ?", userID).
		Order("enrolled_at desc").
		Find(&enrollments).Error
	syncAll(enrollments)
	return enrollments, err
}

func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Preload("Completions").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "first_name", "last_name", "email")
		}).
		Preload("Course", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Order("enrolled_at desc").
		Find(&enrollments).Error
	syncAll(enrollments)
	return enrollments, err
}

// AddCompletion 已存在时不做任何修改
func (r *EnrollmentRepository) AddCompletion(ctx context.Context, enrollmentID, contentID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.EnrollmentCompletion{
			EnrollmentID: enrollmentID,
			ContentID:    contentID,
			CompletedAt:  time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return touch(tx, enrollmentID)
	})
}

func (r *EnrollmentRepository) RemoveCompletion(ctx context.Context, enrollmentID, contentID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("enrollment_id = ? AND content_id = ?", enrollmentID, contentID).
			Delete(&model.EnrollmentCompletion{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return touch(tx, enrollmentID)
	})
}

func touch(tx *gorm.DB, enrollmentID string) error {
	return tx.Model(&model.Enrollment{}).
		Where("id = ?", enrollmentID).
		Update("updated_at", time.Now()).Error
}

// Delete 连同完成记录一起物理删除
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("enrollment_id = ?", id).Delete(&model.EnrollmentCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Enrollment{}, "id = ?", id).Error
	})
}

// DeleteEnrollmentsWhere 课程或用户删除时级联清理报名及完成记录
func DeleteEnrollmentsWhere(tx *gorm.DB, column, value string) error {
	sub := tx.Model(&model.Enrollment{}).Select("id").Where(column+" = ?", value)
	if err := tx.Where("enrollment_id IN (?)", sub).Delete(&model.EnrollmentCompletion{}).Error; err != nil {
		return err
	}
	return tx.Where(column+" = ?", value).Delete(&model.Enrollment{}).Error
}

// StaleCompletion 指向课程中已不存在内容的完成记录
type StaleCompletion struct {
	EnrollmentID string
	ContentID    string
}

// FindStaleCompletions 找出内容已被删除的完成记录
func (r *EnrollmentRepository) FindStaleCompletions(ctx context.Context) ([]StaleCompletion, error) {
	var rows []StaleCompletion
	err := r.DB.WithContext(ctx).
		Table("enrollment_completions ec").
		Select("ec.enrollment_id, ec.content_id").
		Joins("JOIN enrollments e ON e.id = ec.enrollment_id").
		Where("NOT EXISTS (SELECT 1 FROM course_videos v WHERE v.id = ec.content_id AND v.course_id = e.course_id)").
		Where("NOT EXISTS (SELECT 1 FROM course_notes n WHERE n.id = ec.content_id AND n.course_id = e.course_id)").
		Scan(&rows).Error
	return rows, err
}

func (r *EnrollmentRepository) DeleteCompletions(ctx context.Context, stale []StaleCompletion) (int64, error) {
	var removed int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range stale {
			res := tx.Where("enrollment_id = ? AND content_id = ?", s.EnrollmentID, s.ContentID).
				Delete(&model.EnrollmentCompletion{})
			if res.Error != nil {
				return res.Error
			}
			removed += res.RowsAffected
		}
		return nil
	})
	return removed, err
}
