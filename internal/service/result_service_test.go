package service

import (
	"context"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitGradesAndRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	test, err := env.tests.CreateTest(ctx, env.admin, env.sampleInput())
	require.NoError(t, err)

	out, err := env.results.Submit(ctx, env.student, test.ID, []OptionChoice{Choice(0), {}, Choice(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Score)
	assert.Equal(t, 3, out.TotalMarks)

	result, err := env.results.GetResult(ctx, env.student, out.ResultID)
	require.NoError(t, err)
	assert.Equal(t, env.student.UserID, result.StudentID)
	require.Len(t, result.Answers, 3)
	assert.Nil(t, result.Answers[1].SelectedOption)
	assert.Equal(t, test.Questions[2].ID, result.Answers[2].QuestionID)
	require.NotNil(t, result.Test)
	assert.Equal(t, test.Title, result.Test.Title)
}

func TestSubmitAllowsRetakes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	test, err := env.tests.CreateTest(ctx, env.admin, env.sampleInput())
	require.NoError(t, err)

	_, err = env.results.Submit(ctx, env.student, test.ID, nil)
	require.NoError(t, err)
	_, err = env.results.Submit(ctx, env.student, test.ID, []OptionChoice{Choice(0), Choice(1), Choice(2)})
	require.NoError(t, err)

	results, err := env.results.ListOwn(ctx, env.student)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSubmitUnknownTest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.results.Submit(ctx, env.student, model.GenerateUUID(), nil)
	assert.ErrorIs(t, err, util.ErrTestNotFound)

	_, err = env.results.Submit(ctx, env.student, "bogus", nil)
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestGetResultAccessControl(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	test, err := env.tests.CreateTest(ctx, env.admin, env.sampleInput())
	require.NoError(t, err)
	out, err := env.results.Submit(ctx, env.student, test.ID, nil)
	require.NoError(t, err)

	_, err = env.results.GetResult(ctx, env.other, out.ResultID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.results.GetResult(ctx, env.admin, out.ResultID)
	assert.NoError(t, err)

	_, err = env.results.GetResult(ctx, env.student, model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrResultNotFound)
}

func TestGetResultAfterTestDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	test, err := env.tests.CreateTest(ctx, env.admin, env.sampleInput())
	require.NoError(t, err)
	out, err := env.results.Submit(ctx, env.student, test.ID, []OptionChoice{Choice(0)})
	require.NoError(t, err)

	require.NoError(t, env.tests.DeleteTest(ctx, env.admin, test.ID))

	result, err := env.results.GetResult(ctx, env.student, out.ResultID)
	assert.ErrorIs(t, err, util.ErrLinkedTestMissing)
	assert.NotErrorIs(t, err, util.ErrResultNotFound)
	require.NotNil(t, result, "the result itself is still returned")
	assert.Nil(t, result.Test)
	assert.Equal(t, 1, result.Score)

	// 非本人仍然先得到 403
	_, err = env.results.GetResult(ctx, env.other, out.ResultID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestListResultsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	test, err := env.tests.CreateTest(ctx, env.admin, env.sampleInput())
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i, student := range []Actor{env.student, env.other, env.student} {
		r := &model.Result{
			StudentID:   student.UserID,
			TestID:      test.ID,
			Score:       i,
			TotalMarks:  3,
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.db.Create(r).Error)
	}

	own, err := env.results.ListOwn(ctx, env.student)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, 2, own[0].Score)
	assert.Equal(t, 0, own[1].Score)

	_, err = env.results.ListAll(ctx, env.student)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	all, err := env.results.ListAll(ctx, env.admin)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[0].Score)
	require.NotNil(t, all[0].Student)
	assert.Equal(t, "student@example.com", all[0].Student.Email)
	require.NotNil(t, all[0].Test)
	assert.Equal(t, test.Title, all[0].Test.Title)
}
