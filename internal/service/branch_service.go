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

// BranchInput 创建/更新分部，更新时 nil 字段保持原值
// swagger:model BranchInput
type BranchInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type BranchService struct {
	BranchRepo *repository.BranchRepository
}

func NewBranchService(branchRepo *repository.BranchRepository) *BranchService {
	return &BranchService{BranchRepo: branchRepo}
}

func (s *BranchService) Create(ctx context.Context, actor Actor, in BranchInput) (*model.Branch, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, util.Validation("branch name is required")
	}
	branch := &model.Branch{Name: strings.TrimSpace(*in.Name)}
	if in.Description != nil {
		branch.Description = *in.Description
	}
	if err := s.BranchRepo.Create(ctx, branch); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrBranchNameTaken
		}
		return nil, util.Persistence(err, "failed to create branch")
	}
	logger.For("branches").Info("Branch created", zap.String("branch_id", branch.ID), zap.String("name", branch.Name))
	return branch, nil
}

func (s *BranchService) List(ctx context.Context) ([]model.Branch, error) {
	branches, err := s.BranchRepo.List(ctx)
	if err != nil {
		return nil, util.Persistence(err, "failed to list branches")
	}
	return branches, nil
}

func (s *BranchService) Get(ctx context.Context, id string) (*model.Branch, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrBranchNotFound
	}
	branch, err := s.BranchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, util.ErrBranchNotFound, "load branch")
	}
	return branch, nil
}

func (s *BranchService) Update(ctx context.Context, actor Actor, id string, in BranchInput) (*model.Branch, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	branch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, util.Validation("branch name must not be empty")
		}
		branch.Name = name
	}
	if in.Description != nil {
		branch.Description = *in.Description
	}
	if err := s.BranchRepo.Update(ctx, branch); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrBranchNameTaken
		}
		return nil, util.Persistence(err, "failed to update branch")
	}
	return branch, nil
}

func (s *BranchService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	courses, err := s.BranchRepo.CountCourses(ctx, id)
	if err != nil {
		return util.Persistence(err, "failed to count branch courses")
	}
	if courses > 0 {
		return util.Conflict("cannot delete branch: %d courses are associated with it, reassign or delete them first", courses)
	}
	deleted, err := s.BranchRepo.Delete(ctx, id)
	if err != nil {
		return util.Persistence(err, "failed to delete branch")
	}
	if !deleted {
		return util.ErrBranchNotFound
	}
	logger.For("branches").Info("Branch deleted", zap.String("branch_id", id))
	return nil
}
