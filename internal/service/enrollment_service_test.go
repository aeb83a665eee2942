package service

import (
	"context"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollIsUniquePerCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)
	assert.NotNil(t, e.CompletedContent)
	assert.Empty(t, e.CompletedContent)

	_, err = env.enrollments.Enroll(ctx, env.student, env.course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
	assert.Equal(t, util.KindConflict, util.KindOf(err))

	var count int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnrollUniqueIndexBackstop(t *testing.T) {
	env := newTestEnv(t)

	dup := &model.Enrollment{UserID: env.student.UserID, CourseID: env.course.ID}
	require.NoError(t, env.enrollments.EnrollmentRepo.Create(context.Background(), dup))

	again := &model.Enrollment{UserID: env.student.UserID, CourseID: env.course.ID}
	err := env.enrollments.EnrollmentRepo.Create(context.Background(), again)
	assert.Error(t, err)
}

func TestEnrollUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.enrollments.Enroll(ctx, env.student, model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	_, err = env.enrollments.Enroll(ctx, env.student, "nope")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)
	videoID := env.course.Videos[0].ID

	e, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, videoID)
	require.NoError(t, err)
	assert.Equal(t, []string{videoID}, e.CompletedContent)

	e, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, videoID)
	require.NoError(t, err)
	assert.Equal(t, []string{videoID}, e.CompletedContent)

	noteID := env.course.Notes[0].ID
	e, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, noteID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{videoID, noteID}, e.CompletedContent)
}

func TestMarkCompleteRejectsForeignContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)

	_, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrContentNotFound)

	otherCourse := &model.Course{Title: "Other", Description: "x", BranchID: env.branch.ID,
		Videos: []model.CourseVideo{{Title: "v", VideoID: "abc"}}}
	require.NoError(t, env.db.Create(otherCourse).Error)
	_, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, otherCourse.Videos[0].ID)
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}

func TestMarkCompleteRejectsRemovedContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)

	videoID := env.course.Videos[1].ID
	_, err = env.courses.RemoveContent(ctx, env.admin, env.course.ID, "videos", videoID)
	require.NoError(t, err)

	_, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, videoID)
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}

func TestProgressOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)
	videoID := env.course.Videos[0].ID

	_, err = env.enrollments.MarkComplete(ctx, env.other, e.ID, videoID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.enrollments.MarkIncomplete(ctx, env.other, e.ID, videoID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.enrollments.MarkComplete(ctx, env.student, model.GenerateUUID(), videoID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestMarkIncomplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)
	videoID := env.course.Videos[0].ID

	_, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, videoID)
	require.NoError(t, err)

	e, err = env.enrollments.MarkIncomplete(ctx, env.student, e.ID, videoID)
	require.NoError(t, err)
	assert.Empty(t, e.CompletedContent)

	// 移除不存在的 id 不报错
	e, err = env.enrollments.MarkIncomplete(ctx, env.student, e.ID, "whatever")
	require.NoError(t, err)
	assert.Empty(t, e.CompletedContent)
}

func TestUnenroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)
	_, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, env.course.Videos[0].ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.enrollments.Unenroll(ctx, env.other, e.ID), util.ErrPermissionDenied)
	require.NoError(t, env.enrollments.Unenroll(ctx, env.student, e.ID))
	assert.ErrorIs(t, env.enrollments.Unenroll(ctx, env.student, e.ID), util.ErrEnrollmentNotFound)

	var completions int64
	require.NoError(t, env.db.Model(&model.EnrollmentCompletion{}).Count(&completions).Error)
	assert.Zero(t, completions)

	// 退课后可以重新报名，进度从零开始
	again, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)
	assert.Empty(t, again.CompletedContent)

	require.NoError(t, env.enrollments.Unenroll(ctx, env.admin, again.ID))
}

func TestCourseDeleteCascadesEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)
	_, err = env.enrollments.MarkComplete(ctx, env.student, e.ID, env.course.Notes[0].ID)
	require.NoError(t, err)

	require.NoError(t, env.courses.Delete(ctx, env.admin, env.course.ID))

	var enrollments, completions int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&enrollments).Error)
	require.NoError(t, env.db.Model(&model.EnrollmentCompletion{}).Count(&completions).Error)
	assert.Zero(t, enrollments)
	assert.Zero(t, completions)

	_, err = env.enrollments.Enroll(ctx, env.student, env.course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestListEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine, err := env.enrollments.Enroll(ctx, env.student, env.course.ID)
	require.NoError(t, err)
	_, err = env.enrollments.Enroll(ctx, env.other, env.course.ID)
	require.NoError(t, err)

	list, err := env.enrollments.ListMine(ctx, env.student)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Course)
	assert.Len(t, list[0].Course.Videos, 2)

	_, err = env.enrollments.ListAll(ctx, env.student)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	all, err := env.enrollments.ListAll(ctx, env.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	detail, err := env.enrollments.GetDetails(ctx, env.admin, mine.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.User)
	assert.Equal(t, "student@example.com", detail.User.Email)
}
