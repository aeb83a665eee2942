package model

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment 每个 (user, course) 仅允许一条，退课时物理删除
// swagger:model Enrollment
type Enrollment struct {
	ID               string                 `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           string                 `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	User             *User                  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CourseID         string                 `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course" json:"courseId"`
	Course           *Course                `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	EnrolledAt       time.Time              `json:"enrolledAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
	Completions      []EnrollmentCompletion `gorm:"foreignKey:EnrollmentID" json:"-"`
	CompletedContent []string               `gorm:"-" json:"completedContent"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// SyncCompletedContent 由已加载的 Completions 填充 CompletedContent
func (e *Enrollment) SyncCompletedContent() {
	ids := make([]string, 0, len(e.Completions))
	for _, c := range e.Completions {
		ids = append(ids, c.ContentID)
	}
	e.CompletedContent = ids
}

// EnrollmentCompletion 复合主键保证同一内容只记录一次
type EnrollmentCompletion struct {
	EnrollmentID string    `gorm:"primaryKey;type:varchar(36)" json:"enrollmentId"`
	ContentID    string    `gorm:"primaryKey;type:varchar(36)" json:"contentId"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (EnrollmentCompletion) TableName() string {
	return "enrollment_completions"
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = GenerateUUID()
	}
	return nil
}
