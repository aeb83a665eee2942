package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SubmitOutcome 提交后返回给学生的分数
// swagger:model SubmitOutcome
type SubmitOutcome struct {
	ResultID   string `json:"resultId"`
	Score      int    `json:"score"`
	TotalMarks int    `json:"totalMarks"`
}

type ResultService struct {
	ResultRepo *repository.ResultRepository
	TestRepo   *repository.TestRepository
}

func NewResultService(resultRepo *repository.ResultRepository, testRepo *repository.TestRepository) *ResultService {
	return &ResultService{
		ResultRepo: resultRepo,
		TestRepo:   testRepo,
	}
}

// Submit 评分并记录成绩，同一测验允许多次提交
func (s *ResultService) Submit(ctx context.Context, actor Actor, testID string, answers []OptionChoice) (_ *SubmitOutcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "ResultService.Submit",
		attribute.String("test.id", testID),
		attribute.String("student.id", actor.UserID),
	)
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	if !model.IsValidID(testID) {
		return nil, util.ErrTestNotFound
	}
	test, err := s.TestRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, translate(err, util.ErrTestNotFound, "load test")
	}

	g := Grade(test.Questions, answers)
	result := &model.Result{
		StudentID:   actor.UserID,
		TestID:      test.ID,
		Score:       g.Score,
		TotalMarks:  g.TotalMarks,
		Answers:     g.Answers,
		SubmittedAt: time.Now(),
	}
	if err := s.ResultRepo.Create(ctx, result); err != nil {
		return nil, util.Persistence(err, "failed to record test result")
	}

	span.SetAttributes(attribute.Int("result.score", g.Score), attribute.Int("result.total", g.TotalMarks))
	monitoring.ObserveSubmission(g.Score, g.TotalMarks)
	logger.For("results").Info("Test submitted",
		zap.String("result_id", result.ID),
		zap.String("test_id", test.ID),
		zap.String("student_id", actor.UserID),
		zap.Int("score", g.Score),
		zap.Int("total_marks", g.TotalMarks),
	)

	return &SubmitOutcome{ResultID: result.ID, Score: g.Score, TotalMarks: g.TotalMarks}, nil
}

// ListOwn 当前用户的成绩，最新在前
func (s *ResultService) ListOwn(ctx context.Context, actor Actor) ([]model.Result, error) {
	results, err := s.ResultRepo.ListByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, util.Persistence(err, "failed to list results")
	}
	return results, nil
}

// GetResult 关联测验已删除时同时返回成绩和 ErrLinkedTestMissing
func (s *ResultService) GetResult(ctx context.Context, actor Actor, id string) (*model.Result, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrResultNotFound
	}
	result, err := s.ResultRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, util.ErrResultNotFound, "load result")
	}
	if !actor.CanViewResult(result) {
		return nil, util.ErrPermissionDenied
	}
	if result.Test == nil {
		return result, util.ErrLinkedTestMissing
	}
	return result, nil
}

func (s *ResultService) ListAll(ctx context.Context, actor Actor) ([]model.Result, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	results, err := s.ResultRepo.ListAll(ctx)
	if err != nil {
		return nil, util.Persistence(err, "failed to list results")
	}
	return results, nil
}
