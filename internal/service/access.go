package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// Actor 当前请求的调用者身份，由控制器从 JWT 中解析后显式传入
type Actor struct {
	UserID string
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.Admin
}

// CanViewResult 成绩仅本人或管理员可见
func (a Actor) CanViewResult(r *model.Result) bool {
	return a.IsAdmin() || r.StudentID == a.UserID
}

// CanUnenroll 报名记录的拥有者或管理员可退课
func (a Actor) CanUnenroll(e *model.Enrollment) bool {
	return a.IsAdmin() || e.UserID == a.UserID
}

// CanTrackProgress 只有报名者本人可以修改学习进度
func (a Actor) CanTrackProgress(e *model.Enrollment) bool {
	return e.UserID == a.UserID
}

func (a Actor) RequireAdmin() error {
	if !a.IsAdmin() {
		return util.ErrPermissionDenied
	}
	return nil
}

// translate 将存储层错误转换为业务错误
func translate(err error, notFound error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	default:
		return util.Persistence(err, "failed to %s", action)
	}
}
