package model

import (
	"time"

	"gorm.io/gorm"
)

// Result 一次提交的评分结果，创建后不可修改
// swagger:model Result
type Result struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StudentID   string         `gorm:"type:varchar(36);index;not null" json:"studentId"`
	Student     *User          `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	TestID      string         `gorm:"type:varchar(36);index;not null" json:"testId"`
	Test        *Test          `gorm:"foreignKey:TestID" json:"test,omitempty"`
	Score       int            `gorm:"not null" json:"score"`
	TotalMarks  int            `gorm:"not null" json:"totalMarks"`
	Answers     []ResultAnswer `gorm:"foreignKey:ResultID" json:"answers,omitempty"`
	SubmittedAt time.Time      `gorm:"index" json:"submittedAt"`
}

func (Result) TableName() string {
	return "results"
}

// ResultAnswer SelectedOption 为 nil 表示未作答
// swagger:model ResultAnswer
type ResultAnswer struct {
	ID             string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ResultID       string `gorm:"type:varchar(36);index;not null" json:"resultId"`
	Position       int    `gorm:"not null" json:"position"`
	QuestionID     string `gorm:"type:varchar(36)" json:"questionId"`
	SelectedOption *int   `json:"selectedOption"`
}

func (ResultAnswer) TableName() string {
	return "result_answers"
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = GenerateUUID()
	}
	return nil
}

func (r *ResultAnswer) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = GenerateUUID()
	}
	return nil
}
