package model

import "gorm.io/datatypes"

// Test 课程测验，题目按 Position 排序
// swagger:model Test
type Test struct {
	UUIDBase
	Title     string         `gorm:"size:255;not null" json:"title"`
	CourseID  string         `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Course    *Course        `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	BranchID  string         `gorm:"type:varchar(36);index;not null" json:"branchId"`
	Branch    *Branch        `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Duration  int            `gorm:"default:0" json:"duration"` // Minutes
	Questions []TestQuestion `gorm:"foreignKey:TestID" json:"questions"`
	CreatedBy string         `gorm:"type:varchar(36);index" json:"createdBy"`
}

func (Test) TableName() string {
	return "tests"
}

// TestQuestion 单选题，CorrectOptionIndex 指向 Options 中的正确选项
// swagger:model TestQuestion
type TestQuestion struct {
	UUIDRecord
	TestID             string                      `gorm:"type:varchar(36);index;not null" json:"testId"`
	Position           int                         `gorm:"not null" json:"position"`
	QuestionText       string                      `gorm:"type:text" json:"questionText"`
	Options            datatypes.JSONSlice[string] `json:"options"`
	CorrectOptionIndex int                         `json:"correctOptionIndex"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}
