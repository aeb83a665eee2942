package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"

	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	branch      *model.Branch
	course      *model.Course
	admin       Actor
	student     Actor
	other       Actor
	tests       *TestService
	results     *ResultService
	enrollments *EnrollmentService
	courses     *CourseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	branch := testutil.SeedBranch(t, db, "Main")
	course := testutil.SeedCourse(t, db, branch, "Go basics")
	admin := testutil.SeedUser(t, db, "admin@example.com", model.Admin)
	student := testutil.SeedUser(t, db, "student@example.com", model.Student)
	other := testutil.SeedUser(t, db, "other@example.com", model.Student)

	testRepo := repository.NewTestRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	content := NewCourseContentCache(nil, courseRepo)

	return &testEnv{
		db:          db,
		branch:      branch,
		course:      course,
		admin:       Actor{UserID: admin.ID, Role: model.Admin},
		student:     Actor{UserID: student.ID, Role: model.Student},
		other:       Actor{UserID: other.ID, Role: model.Student},
		tests:       NewTestService(testRepo, courseRepo, branchRepo),
		results:     NewResultService(repository.NewResultRepository(db), testRepo),
		enrollments: NewEnrollmentService(repository.NewEnrollmentRepository(db), courseRepo, content),
		courses:     NewCourseService(courseRepo, branchRepo, content),
	}
}

// sampleInput 三道题，正确答案依次为第 0、1、2 个选项
func (e *testEnv) sampleInput() TestInput {
	return TestInput{
		Title:    "Week 1 quiz",
		CourseID: e.course.ID,
		BranchID: e.branch.ID,
		Duration: 30,
		Questions: []QuestionSpec{
			{QuestionText: "First letter?", Options: []string{"a", "b", "c"}, CorrectAnswer: "a"},
			{QuestionText: "Second letter?", Options: []string{"a", "b", "c"}, CorrectAnswer: "b"},
			{QuestionText: "Third letter?", Options: []string{"a", "b", "c"}, CorrectAnswer: "c"},
		},
	}
}
