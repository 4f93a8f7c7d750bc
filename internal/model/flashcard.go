package model

import "gorm.io/datatypes"

// Flashcard 记忆卡：章节处理完成时整批生成，重新处理时整批替换
type Flashcard struct {
	UUIDBase
	ChapterID string `gorm:"index;type:varchar(36);not null" json:"chapterId"`
	Question  string `gorm:"type:text;not null" json:"question"`
	Answer    string `gorm:"type:text;not null" json:"answer"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// QuizQuestion 测验题：固定三个选项，correct_answer 为正确选项下标（0-2）
type QuizQuestion struct {
	UUIDBase
	ChapterID     string                      `gorm:"index;type:varchar(36);not null" json:"chapterId"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer int                         `gorm:"not null" json:"correctAnswerIndex"`
	Explanation   string                      `gorm:"type:text" json:"explanation"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
