package model

// swagger:model Course
type Course struct {
	UUIDBase
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	BranchID    string        `gorm:"type:varchar(36);index;not null" json:"branchId"`
	Branch      *Branch       `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Instructor  string        `gorm:"size:100;default:'Platform Admin'" json:"instructor"`
	Videos      []CourseVideo `gorm:"foreignKey:CourseID" json:"youtubeVideos"`
	Notes       []CourseNote  `gorm:"foreignKey:CourseID" json:"notes"`
}

func (Course) TableName() string {
	return "courses"
}

// ContentIDs 返回课程当前所有视频与笔记的 ID
func (c *Course) ContentIDs() []string {
	ids := make([]string, 0, len(c.Videos)+len(c.Notes))
	for _, v := range c.Videos {
		ids = append(ids, v.ID)
	}
	for _, n := range c.Notes {
		ids = append(ids, n.ID)
	}
	return ids
}

// CourseVideo VideoID 为 YouTube 视频 ID
type CourseVideo struct {
	UUIDRecord
	CourseID    string `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	VideoID     string `gorm:"size:64;not null" json:"videoId"`
	Description string `gorm:"type:text" json:"description"`
}

func (CourseVideo) TableName() string {
	return "course_videos"
}

type CourseNote struct {
	UUIDRecord
	CourseID string `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	URL      string `gorm:"size:500" json:"url"`
}

func (CourseNote) TableName() string {
	return "course_notes"
}
