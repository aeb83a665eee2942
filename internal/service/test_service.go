package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// QuestionSpec 出题时的单道题目，CorrectAnswer 为正确选项的原文
// swagger:model QuestionSpec
type QuestionSpec struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// TestInput 创建测验请求
// swagger:model TestInput
type TestInput struct {
	Title     string         `json:"title"`
	CourseID  string         `json:"course"`
	BranchID  string         `json:"branch"`
	Duration  int            `json:"duration"`
	Questions []QuestionSpec `json:"questions"`
}

// TestPatch 部分更新，nil 字段保持原值
// swagger:model TestPatch
type TestPatch struct {
	Title     *string         `json:"title"`
	CourseID  *string         `json:"course"`
	BranchID  *string         `json:"branch"`
	Duration  *int            `json:"duration"`
	Questions *[]QuestionSpec `json:"questions"`
}

type TestService struct {
	TestRepo   *repository.TestRepository
	CourseRepo *repository.CourseRepository
	BranchRepo *repository.BranchRepository
}

func NewTestService(testRepo *repository.TestRepository, courseRepo *repository.CourseRepository, branchRepo *repository.BranchRepository) *TestService {
	return &TestService{
		TestRepo:   testRepo,
		CourseRepo: courseRepo,
		BranchRepo: branchRepo,
	}
}

// ResolveQuestions 把题目规格转换为带正确选项下标的题目
func ResolveQuestions(specs []QuestionSpec) ([]model.TestQuestion, error) {
	if len(specs) == 0 {
		return nil, util.Validation("a test must contain at least one question")
	}
	questions := make([]model.TestQuestion, 0, len(specs))
	for i, spec := range specs {
		if strings.TrimSpace(spec.QuestionText) == "" {
			return nil, util.Validation("question %d has no text", i+1)
		}
		if len(spec.Options) < 2 {
			return nil, util.Validation("question %q must have at least 2 options", spec.QuestionText)
		}
		correct := -1
		for j, opt := range spec.Options {
			if opt == spec.CorrectAnswer {
				correct = j
				break
			}
		}
		if correct < 0 {
			return nil, util.Validation("the correct answer %q for question %q is not one of its options", spec.CorrectAnswer, spec.QuestionText)
		}
		questions = append(questions, model.TestQuestion{
			Position:           i,
			QuestionText:       spec.QuestionText,
			Options:            append([]string(nil), spec.Options...),
			CorrectOptionIndex: correct,
		})
	}
	return questions, nil
}

func (s *TestService) checkRefs(ctx context.Context, courseID, branchID string) error {
	if !model.IsValidID(courseID) {
		return util.ErrCourseNotFound
	}
	exists, err := s.CourseRepo.Exists(ctx, courseID)
	if err != nil {
		return util.Persistence(err, "failed to look up course")
	}
	if !exists {
		return util.ErrCourseNotFound
	}
	if !model.IsValidID(branchID) {
		return util.ErrBranchNotFound
	}
	_, err = s.BranchRepo.FindByID(ctx, branchID)
	return translate(err, util.ErrBranchNotFound, "look up branch")
}

func (s *TestService) CreateTest(ctx context.Context, actor Actor, in TestInput) (*model.Test, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if in.CourseID == "" {
		missing = append(missing, "course")
	}
	if in.BranchID == "" {
		missing = append(missing, "branch")
	}
	if len(in.Questions) == 0 {
		missing = append(missing, "questions")
	}
	if len(missing) > 0 {
		return nil, util.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if in.Duration < 0 {
		return nil, util.Validation("duration must not be negative")
	}

	questions, err := ResolveQuestions(in.Questions)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in.CourseID, in.BranchID); err != nil {
		return nil, err
	}

	test := &model.Test{
		Title:     strings.TrimSpace(in.Title),
		CourseID:  in.CourseID,
		BranchID:  in.BranchID,
		Duration:  in.Duration,
		Questions: questions,
		CreatedBy: actor.UserID,
	}
	if err := s.TestRepo.Create(ctx, test); err != nil {
		return nil, util.Persistence(err, "failed to create test")
	}

	logger.For("tests").Info("Test created",
		zap.String("test_id", test.ID),
		zap.String("course_id", test.CourseID),
		zap.Int("questions", len(test.Questions)),
		zap.String("created_by", actor.UserID),
	)
	return test, nil
}

func (s *TestService) ListTests(ctx context.Context) ([]model.Test, error) {
	tests, err := s.TestRepo.List(ctx)
	if err != nil {
		return nil, util.Persistence(err, "failed to list tests")
	}
	return tests, nil
}

func (s *TestService) GetTest(ctx context.Context, id string) (*model.Test, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrTestNotFound
	}
	test, err := s.TestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, util.ErrTestNotFound, "load test")
	}
	return test, nil
}

// ListByCourse 课程 id 非法时返回空列表
func (s *TestService) ListByCourse(ctx context.Context, courseID string) ([]model.Test, error) {
	if !model.IsValidID(courseID) {
		return []model.Test{}, nil
	}
	tests, err := s.TestRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, util.Persistence(err, "failed to list tests for course")
	}
	return tests, nil
}

// UpdateTest 逐字段合并；提供题目时按创建时的规则重新校验
func (s *TestService) UpdateTest(ctx context.Context, actor Actor, id string, patch TestPatch) (*model.Test, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	test, err := s.GetTest(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, util.Validation("title must not be empty")
		}
		test.Title = title
	}
	if patch.Duration != nil {
		if *patch.Duration < 0 {
			return nil, util.Validation("duration must not be negative")
		}
		test.Duration = *patch.Duration
	}

	refsChanged := false
	if patch.CourseID != nil && *patch.CourseID != test.CourseID {
		test.CourseID = *patch.CourseID
		refsChanged = true
	}
	if patch.BranchID != nil && *patch.BranchID != test.BranchID {
		test.BranchID = *patch.BranchID
		refsChanged = true
	}
	if refsChanged {
		if err := s.checkRefs(ctx, test.CourseID, test.BranchID); err != nil {
			return nil, err
		}
	}

	replace := patch.Questions != nil
	if replace {
		questions, err := ResolveQuestions(*patch.Questions)
		if err != nil {
			return nil, err
		}
		test.Questions = questions
	}

	if err := s.TestRepo.Update(ctx, test, replace); err != nil {
		return nil, util.Persistence(err, "failed to update test")
	}
	logger.For("tests").Info("Test updated",
		zap.String("test_id", test.ID),
		zap.Bool("questions_replaced", replace),
		zap.String("updated_by", actor.UserID),
	)
	return s.GetTest(ctx, id)
}

// DeleteTest 只删除测验本身，已有成绩保留
func (s *TestService) DeleteTest(ctx context.Context, actor Actor, id string) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if !model.IsValidID(id) {
		return util.ErrTestNotFound
	}
	deleted, err := s.TestRepo.Delete(ctx, id)
	if err != nil {
		return util.Persistence(err, "failed to delete test")
	}
	if !deleted {
		return util.ErrTestNotFound
	}
	logger.For("tests").Info("Test deleted", zap.String("test_id", id), zap.String("deleted_by", actor.UserID))
	return nil
}
