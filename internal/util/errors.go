package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 业务错误分类，决定 HTTP 状态码
type ErrorKind int

const (
	KindPersistence ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "persistence"
	}
}

// HTTPStatus 返回该错误类别对应的状态码
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AppError carries a kind, a user-facing message and the optional underlying cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches sentinel AppErrors by kind and message so wrapped copies still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Persistence(err error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindPersistence, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf 非 AppError 一律视为存储层错误
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

var (
	ErrTestNotFound       = NotFound("test not found")
	ErrResultNotFound     = NotFound("test result not found")
	ErrLinkedTestMissing  = NotFound("the linked test may have been deleted")
	ErrCourseNotFound     = NotFound("course not found")
	ErrBranchNotFound     = NotFound("branch not found")
	ErrEnrollmentNotFound = NotFound("enrollment not found")
	ErrContentNotFound    = NotFound("this content does not exist in this course")
	ErrUserNotFound       = NotFound("user not found")
	ErrAlreadyEnrolled    = Conflict("you are already enrolled in this course")
	ErrEmailRegistered    = Conflict("user already exists")
	ErrBranchNameTaken    = Conflict("branch name already exists")
	ErrEmailInUse         = Conflict("email already in use by another account")
	ErrPermissionDenied   = Forbidden("you are not authorized to perform this action")
	ErrInvalidCredentials = Unauthenticated("invalid email or password")
	ErrFaceMismatch       = Unauthenticated("face verification failed, please ensure you are in a well-lit area and try again")
	ErrFaceNotDetected    = Validation("face not detected in the image")
)
