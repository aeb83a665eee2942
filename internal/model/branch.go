package model

// swagger:model Branch
type Branch struct {
	UUIDBase
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (Branch) TableName() string {
	return "branches"
}
