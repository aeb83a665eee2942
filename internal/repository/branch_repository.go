package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type BranchRepository struct {
	DB *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{DB: db}
}

func (r *BranchRepository) Create(ctx context.Context, branch *model.Branch) error {
	return r.DB.WithContext(ctx).Create(branch).Error
}

func (r *BranchRepository) FindByID(ctx context.Context, id string) (*model.Branch, error) {
	var branch model.Branch
	if err := r.DB.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *BranchRepository) List(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.DB.WithContext(ctx).Order("name asc").Find(&branches).Error
	return branches, err
}

func (r *BranchRepository) Update(ctx context.Context, branch *model.Branch) error {
	return r.DB.WithContext(ctx).Save(branch).Error
}

// CountCourses 统计分部下未删除的课程数
func (r *BranchRepository) CountCourses(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Course{}).Where("branch_id = ?", id).Count(&n).Error
	return n, err
}

// Delete 物理删除以释放分部名称，所属用户的 branch_id 置空
func (r *BranchRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("branch_id = ?", id).Update("branch_id", nil).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&model.Branch{}, "id = ?", id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
