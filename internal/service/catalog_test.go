package service

import (
	"context"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestBranchNamesAreUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branches := NewBranchService(repository.NewBranchRepository(env.db))

	b, err := branches.Create(ctx, env.admin, BranchInput{Name: strp(" North ")})
	require.NoError(t, err)
	assert.Equal(t, "North", b.Name)

	_, err = branches.Create(ctx, env.admin, BranchInput{Name: strp("North")})
	assert.ErrorIs(t, err, util.ErrBranchNameTaken)

	_, err = branches.Create(ctx, env.student, BranchInput{Name: strp("South")})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = branches.Update(ctx, env.admin, b.ID, BranchInput{Name: strp("Main")})
	assert.ErrorIs(t, err, util.ErrBranchNameTaken)

	b, err = branches.Update(ctx, env.admin, b.ID, BranchInput{Description: strp("northern campus")})
	require.NoError(t, err)
	assert.Equal(t, "North", b.Name)
	assert.Equal(t, "northern campus", b.Description)

	require.NoError(t, branches.Delete(ctx, env.admin, b.ID))
	assert.ErrorIs(t, branches.Delete(ctx, env.admin, b.ID), util.ErrBranchNotFound)
}

func TestCourseLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.courses.Create(ctx, env.admin, CourseInput{Title: strp("Rust")})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = env.courses.Create(ctx, env.admin, CourseInput{
		Title: strp("Rust"), Description: strp("ownership"), BranchID: strp(model.GenerateUUID()),
	})
	assert.ErrorIs(t, err, util.ErrBranchNotFound)

	c, err := env.courses.Create(ctx, env.admin, CourseInput{
		Title: strp("Rust"), Description: strp("ownership"), BranchID: strp(env.branch.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Platform Admin", c.Instructor)
	require.NotNil(t, c.Branch)

	c, err = env.courses.AddVideo(ctx, env.admin, c.ID, VideoInput{Title: "Borrowing", VideoID: "abc123"})
	require.NoError(t, err)
	require.Len(t, c.Videos, 1)

	c, err = env.courses.AddNote(ctx, env.admin, c.ID, NoteInput{Title: "Lifetimes"})
	require.NoError(t, err)
	require.Len(t, c.Notes, 1)

	_, err = env.courses.RemoveContent(ctx, env.admin, c.ID, "slides", c.Notes[0].ID)
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	// 视频 id 不能当作笔记删除
	_, err = env.courses.RemoveContent(ctx, env.admin, c.ID, "notes", c.Videos[0].ID)
	assert.ErrorIs(t, err, util.ErrContentNotFound)

	c, err = env.courses.RemoveContent(ctx, env.admin, c.ID, "notes", c.Notes[0].ID)
	require.NoError(t, err)
	assert.Empty(t, c.Notes)

	c, err = env.courses.Update(ctx, env.admin, c.ID, CourseInput{Instructor: strp("Ferris")})
	require.NoError(t, err)
	assert.Equal(t, "Ferris", c.Instructor)
	assert.Equal(t, "Rust", c.Title)

	list, err := env.courses.List(ctx, env.branch.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.courses.List(ctx, model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrBranchNotFound)
}

func TestDeleteUserCascadesEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := NewUserService(repository.NewUserRepository(env.db), repository.NewBranchRepository(env.db), repository.NewEnrollmentRepository(env.db))

	_, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, users.Delete(ctx, env.student, env.other.UserID), util.ErrPermissionDenied)
	assert.Equal(t, util.KindValidation, util.KindOf(users.Delete(ctx, env.admin, env.admin.UserID)))

	require.NoError(t, users.Delete(ctx, env.admin, env.student.UserID))
	assert.ErrorIs(t, users.Delete(ctx, env.admin, env.student.UserID), util.ErrUserNotFound)

	var count int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.Zero(t, count)

	list, err := users.List(ctx, env.admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBranchWithCoursesCannotBeDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branches := NewBranchService(repository.NewBranchRepository(env.db))

	err := branches.Delete(ctx, env.admin, env.branch.ID)
	assert.Equal(t, util.KindConflict, util.KindOf(err))
	assert.Contains(t, err.Error(), "1 courses are associated")

	_, err = env.courses.Get(ctx, env.course.ID)
	require.NoError(t, err, "the course survives the refused delete")

	require.NoError(t, env.courses.Delete(ctx, env.admin, env.course.ID))
	require.NoError(t, branches.Delete(ctx, env.admin, env.branch.ID))
}

func TestDeletedBranchReleasesNameAndMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branches := NewBranchService(repository.NewBranchRepository(env.db))

	b, err := branches.Create(ctx, env.admin, BranchInput{Name: strp("Annex")})
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", env.student.UserID).Update("branch_id", b.ID).Error)

	require.NoError(t, branches.Delete(ctx, env.admin, b.ID))

	_, err = branches.Create(ctx, env.admin, BranchInput{Name: strp("Annex")})
	require.NoError(t, err)

	var student model.User
	require.NoError(t, env.db.First(&student, "id = ?", env.student.UserID).Error)
	assert.Nil(t, student.BranchID)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := NewUserService(repository.NewUserRepository(env.db), repository.NewBranchRepository(env.db), repository.NewEnrollmentRepository(env.db))

	_, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)

	_, err = users.Get(ctx, env.student, env.other.UserID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	_, err = users.Get(ctx, env.admin, model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	detail, err := users.Get(ctx, env.admin, env.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", detail.User.Email)
	require.Len(t, detail.Enrollments, 1)
	assert.Equal(t, env.course.ID, detail.Enrollments[0].CourseID)

	_, err = users.Update(ctx, env.admin, env.student.UserID, UserPatch{Email: strp("OTHER@example.com")})
	assert.ErrorIs(t, err, util.ErrEmailInUse)

	bogus := model.UserRole("teacher")
	_, err = users.Update(ctx, env.admin, env.student.UserID, UserPatch{Role: &bogus})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	student := model.Student
	_, err = users.Update(ctx, env.admin, env.admin.UserID, UserPatch{Role: &student})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	admin := model.Admin
	u, err := users.Update(ctx, env.admin, env.student.UserID, UserPatch{
		LastName: strp("Promoted"),
		Email:    strp("lead@example.com"),
		Role:     &admin,
		BranchID: strp(env.branch.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Promoted", u.LastName)
	assert.Equal(t, "lead@example.com", u.Email)
	assert.Equal(t, model.Admin, u.Role)
	require.NotNil(t, u.Branch)
	assert.Equal(t, env.branch.ID, u.Branch.ID)
}
