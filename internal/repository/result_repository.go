package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func orderedAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func testTitleOnly(db *gorm.DB) *gorm.DB {
	return db.Select("id", "title", "course_id", "branch_id", "duration")
}

// Create 成绩与答题记录一并写入
func (r *ResultRepository) Create(ctx context.Context, result *model.Result) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

// FindByID 预加载关联试卷；试卷已删除时 Test 为 nil
func (r *ResultRepository) FindByID(ctx context.Context, id string) (*model.Result, error) {
	var result model.Result
	err := r.DB.WithContext(ctx).
		Preload("Answers", orderedAnswers).
		Preload("Test.Questions", orderedQuestions).
		First(&result, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.WithContext(ctx).
		Preload("Test", testTitleOnly).
		Where("student_id = ?", studentID).
		Order("submitted_at desc").
		Find(&results).Error
	return results, err
}

func (r *ResultRepository) ListAll(ctx context.Context) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.WithContext(ctx).
		Preload("Test", testTitleOnly).
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "first_name", "last_name", "email")
		}).
		Order("submitted_at desc").
		Find(&results).Error
	return results, err
}
