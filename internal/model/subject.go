package model

// Subject 学科，拥有若干课程
type Subject struct {
	UUIDBase
	Name        string   `gorm:"size:100;index;not null" json:"name"`
	Color       string   `gorm:"size:20;default:'#007AFF'" json:"color"`
	Description string   `gorm:"type:text" json:"description"`
	Lessons     []Lesson `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

// Lesson 课程，归属唯一学科，拥有若干章节
type Lesson struct {
	UUIDBase
	SubjectID   string    `gorm:"index;type:varchar(36);not null" json:"subjectId"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Chapters    []Chapter `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
