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

// UserDetail 管理员查看的用户信息及其报名记录
// swagger:model UserDetail
type UserDetail struct {
	User        *model.User        `json:"user"`
	Enrollments []model.Enrollment `json:"enrollments"`
}

// UserPatch 管理员更新用户；nil 字段保持原值，branchId 为空串时清除分部
// swagger:model UserPatch
type UserPatch struct {
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Email     *string         `json:"email"`
	Role      *model.UserRole `json:"role"`
	BranchID  *string         `json:"branchId"`
}

type UserService struct {
	UserRepo       *repository.UserRepository
	BranchRepo     *repository.BranchRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewUserService(userRepo *repository.UserRepository, branchRepo *repository.BranchRepository, enrollmentRepo *repository.EnrollmentRepository) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		BranchRepo:     branchRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

func (s *UserService) List(ctx context.Context, actor Actor) ([]model.User, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return nil, util.Persistence(err, "failed to list users")
	}
	return users, nil
}

func (s *UserService) load(ctx context.Context, id string) (*model.User, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrUserNotFound
	}
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, util.ErrUserNotFound, "load user")
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, actor Actor, id string) (*UserDetail, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.EnrollmentRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, util.Persistence(err, "failed to list enrollments")
	}
	return &UserDetail{User: user, Enrollments: enrollments}, nil
}

// Update 管理员不能修改自己的角色；邮箱不能与其他账号重复
func (s *UserService) Update(ctx context.Context, actor Actor, id string, in UserPatch) (*model.User, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyNames(user, in.FirstName, in.LastName); err != nil {
		return nil, err
	}

	if in.Role != nil && *in.Role != user.Role {
		if *in.Role != model.Student && *in.Role != model.Admin {
			return nil, util.Validation("invalid role %q", *in.Role)
		}
		if user.ID == actor.UserID {
			return nil, util.Validation("admins cannot change their own role")
		}
		user.Role = *in.Role
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, util.Validation("email must not be empty")
		}
		if email != user.Email {
			existing, err := s.UserRepo.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, util.ErrEmailInUse
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, util.Persistence(err, "failed to check email")
			}
			user.Email = email
		}
	}

	if err := assignBranch(ctx, s.BranchRepo, user, in.BranchID); err != nil {
		return nil, err
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailInUse
		}
		return nil, util.Persistence(err, "failed to update user")
	}
	logger.For("users").Info("User updated", zap.String("user_id", user.ID), zap.String("updated_by", actor.UserID))
	return s.load(ctx, user.ID)
}

// Delete 管理员不能删除自己；用户的报名记录随之删除
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if id == actor.UserID {
		return util.Validation("you cannot delete your own account")
	}
	if !model.IsValidID(id) {
		return util.ErrUserNotFound
	}
	deleted, err := s.UserRepo.Delete(ctx, id)
	if err != nil {
		return util.Persistence(err, "failed to delete user")
	}
	if !deleted {
		return util.ErrUserNotFound
	}
	logger.For("users").Info("User deleted", zap.String("user_id", id), zap.String("deleted_by", actor.UserID))
	return nil
}

// applyNames 提供的姓名不能为空白
func applyNames(user *model.User, first, last *string) error {
	if first != nil {
		if blank(first) {
			return util.Validation("first name must not be empty")
		}
		user.FirstName = strings.TrimSpace(*first)
	}
	if last != nil {
		if blank(last) {
			return util.Validation("last name must not be empty")
		}
		user.LastName = strings.TrimSpace(*last)
	}
	return nil
}

// assignBranch nil 保持原值，空串清除分部，否则分部必须存在
func assignBranch(ctx context.Context, branches *repository.BranchRepository, user *model.User, branchID *string) error {
	if branchID == nil {
		return nil
	}
	user.Branch = nil
	if *branchID == "" {
		user.BranchID = nil
		return nil
	}
	if !model.IsValidID(*branchID) {
		return util.ErrBranchNotFound
	}
	if _, err := branches.FindByID(ctx, *branchID); err != nil {
		return translate(err, util.ErrBranchNotFound, "look up branch")
	}
	id := *branchID
	user.BranchID = &id
	return nil
}
