package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// Create 在同一事务内写入试卷及题目
func (r *TestRepository) Create(ctx context.Context, test *model.Test) error {
	return r.DB.WithContext(ctx).Create(test).Error
}

func (r *TestRepository) FindByID(ctx context.Context, id string) (*model.Test, error) {
	var test model.Test
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		First(&test, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) List(ctx context.Context) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.WithContext(ctx).
		Preload("Course", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Preload("Branch", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Preload("Questions", orderedQuestions).
		Order("created_at desc").
		Find(&tests).Error
	return tests, err
}

func (r *TestRepository) ListByCourse(ctx context.Context, courseID string) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("course_id = ?", courseID).
		Order("created_at desc").
		Find(&tests).Error
	return tests, err
}

// Update 保存试卷字段；replaceQuestions 为 true 时整体替换题目
func (r *TestRepository) Update(ctx context.Context, test *model.Test, replaceQuestions bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Course", "Branch").Save(test).Error; err != nil {
			return err
		}
		if !replaceQuestions {
			return nil
		}
		if err := tx.Where("test_id = ?", test.ID).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		for i := range test.Questions {
			test.Questions[i].TestID = test.ID
			test.Questions[i].ID = ""
		}
		if len(test.Questions) == 0 {
			return nil
		}
		return tx.Create(&test.Questions).Error
	})
}

// Delete 仅删除试卷本身，历史成绩保留
func (r *TestRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&model.Test{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
