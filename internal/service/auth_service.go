package service

import (
	"context"
	"errors"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput 注册表单，IDCard 为上传的证件文件，FaceImage 为 base64 图片
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	BranchID  string
	IDCard    *multipart.FileHeader
	FaceImage string
}

// LoginResult swagger:model LoginResult
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ProfilePatch 用户修改自己的资料；nil 字段保持原值，branchId 为空串时清除分部
// swagger:model ProfilePatch
type ProfilePatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	BranchID  *string `json:"branchId"`
	Password  *string `json:"password"`
}

type AuthService struct {
	UserRepo   *repository.UserRepository
	BranchRepo *repository.BranchRepository
	Storage    *StorageService
	Faces      *FaceVerifier
	JWT        config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, branchRepo *repository.BranchRepository, storage *StorageService, faces *FaceVerifier, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		BranchRepo: branchRepo,
		Storage:    storage,
		Faces:      faces,
		JWT:        jwtCfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 新用户角色固定为 student
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)
	if in.FirstName == "" || in.LastName == "" || email == "" || in.Password == "" || in.BranchID == "" {
		return nil, util.Validation("please provide all required fields")
	}
	if len(in.Password) < 6 {
		return nil, util.Validation("password must be at least 6 characters")
	}
	if in.FaceImage == "" {
		return nil, util.Validation("face image is required for registration")
	}

	if _, err := s.UserRepo.FindByEmail(ctx, email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.Persistence(err, "failed to check email")
	}

	if !model.IsValidID(in.BranchID) {
		return nil, util.ErrBranchNotFound
	}
	if _, err := s.BranchRepo.FindByID(ctx, in.BranchID); err != nil {
		return nil, translate(err, util.ErrBranchNotFound, "look up branch")
	}

	descriptor, err := s.Faces.Detector.Describe(ctx, in.FaceImage)
	if err != nil {
		if util.KindOf(err) == util.KindPersistence {
			return nil, util.Persistence(err, "face recognition service unavailable")
		}
		return nil, err
	}

	idCardURL, err := s.Storage.UploadIDCard(ctx, in.IDCard)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, util.Persistence(err, "failed to hash password")
	}

	branchID := in.BranchID
	user := &model.User{
		FirstName:                strings.TrimSpace(in.FirstName),
		LastName:                 strings.TrimSpace(in.LastName),
		Email:                    email,
		Password:                 string(hashed),
		Role:                     model.Student,
		BranchID:                 &branchID,
		IDCardImageURL:           idCardURL,
		IDCardVerificationStatus: "pending",
		FaceDescriptor:           descriptor,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, util.Persistence(err, "failed to create user")
	}

	logger.For("auth").Info("User registered", zap.String("user_id", user.ID), zap.String("branch_id", branchID))
	return s.issue(user)
}

// Login 先校验密码，再做人脸比对；管理员账号未登记人脸时跳过比对
func (s *AuthService) Login(ctx context.Context, email, password, faceImage string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, util.Persistence(err, "failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if len(user.FaceDescriptor) > 0 || user.Role != model.Admin {
		if faceImage == "" {
			return nil, util.Validation("face image is required for login")
		}
		match, err := s.Faces.Verify(ctx, user.FaceDescriptor, faceImage)
		if err != nil {
			if util.KindOf(err) == util.KindPersistence {
				return nil, util.Persistence(err, "face recognition service unavailable")
			}
			return nil, err
		}
		if !match.IsMatch {
			logger.For("auth").Warn("Face verification failed",
				zap.String("user_id", user.ID),
				zap.Float64("distance", match.Distance),
				zap.Float64("threshold", s.Faces.Threshold()),
			)
			return nil, util.ErrFaceMismatch
		}
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.For("auth").Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*LoginResult, error) {
	token, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.ExpireTime)
	if err != nil {
		return nil, util.Persistence(err, "failed to issue token")
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, actor Actor) (*model.User, error) {
	if !model.IsValidID(actor.UserID) {
		return nil, util.ErrUserNotFound
	}
	user, err := s.UserRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, translate(err, util.ErrUserNotFound, "load user")
	}
	return user, nil
}

// UpdateProfile 邮箱与角色不能在此修改
func (s *AuthService) UpdateProfile(ctx context.Context, actor Actor, in ProfilePatch) (*model.User, error) {
	user, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := applyNames(user, in.FirstName, in.LastName); err != nil {
		return nil, err
	}
	if err := assignBranch(ctx, s.BranchRepo, user, in.BranchID); err != nil {
		return nil, err
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, util.Validation("password must be at least 6 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, util.Persistence(err, "failed to hash password")
		}
		user.Password = string(hashed)
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, util.Persistence(err, "failed to update profile")
	}
	logger.For("auth").Info("Profile updated", zap.String("user_id", user.ID), zap.Bool("password_changed", in.Password != nil))
	return s.Profile(ctx, actor)
}
