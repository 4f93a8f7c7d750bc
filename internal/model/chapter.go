package model

import (
	"time"

	"gorm.io/datatypes"
)

// ChapterStatus 章节生命周期状态机：
// pending --(入队)--> processing --(成功)--> completed
// processing --(任意失败)--> failed
// completed / failed 均为终态，只有重新触发处理才会离开终态。
type ChapterStatus string

const (
	ChapterPending    ChapterStatus = "pending"
	ChapterProcessing ChapterStatus = "processing"
	ChapterCompleted  ChapterStatus = "completed"
	ChapterFailed     ChapterStatus = "failed"
)

// ChapterSource 章节原始素材类型
type ChapterSource string

const (
	SourceText  ChapterSource = "text"
	SourceAudio ChapterSource = "audio"
)

// CourseSection 生成课程的一个小节
type CourseSection struct {
	Heading         string   `json:"heading"`
	Overview        string   `json:"overview"`
	KeyPoints       []string `json:"key_points"`
	DetailedContent string   `json:"detailed_content"`
}

// Chapter 章节：流水线的处理单元，独占其生成内容与聊天记录
type Chapter struct {
	UUIDBase
	LessonID    string        `gorm:"index;type:varchar(36);not null" json:"lessonId"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ChapterStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	SourceType  ChapterSource `gorm:"size:10;default:'text'" json:"sourceType"`

	// 原始素材
	InputText      string `gorm:"type:longtext" json:"inputText"`
	TranscriptPath string `gorm:"size:255" json:"transcriptPath"`
	AudioPath      string `gorm:"size:255" json:"audioPath"`
	AudioRemoteURL string `gorm:"size:512" json:"audioRemoteUrl"`
	// 音频时长（秒），由 ffprobe 探测，仅作展示元数据
	AudioDurationSeconds float64 `gorm:"default:0" json:"audioDurationSeconds"`

	// 生成结果
	Summary         string                             `gorm:"type:longtext" json:"summary"`
	BulletPoints    datatypes.JSONSlice[string]        `json:"bulletPoints"`
	CourseSections  datatypes.JSONSlice[CourseSection] `json:"courseSections"`
	DurationMinutes int                                `gorm:"default:0" json:"durationMinutes"`

	FlashcardsGenerated bool `gorm:"default:false" json:"flashcardsGenerated"`
	QuizGenerated       bool `gorm:"default:false" json:"quizGenerated"`
	FlashcardCount      int  `gorm:"default:0" json:"flashcardCount"`
	QuizQuestionCount   int  `gorm:"default:0" json:"quizQuestionCount"`

	IsCompleted   bool   `gorm:"default:false" json:"isCompleted"`
	IsProcessing  bool   `gorm:"default:false" json:"isProcessing"`
	FailureReason string `gorm:"type:text" json:"failureReason"`

	ProcessingStartedAt *time.Time `json:"processingStartedAt"`
	CompletedAt         *time.Time `json:"completedAt"`

	Flashcards    []Flashcard    `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"flashcards,omitempty"`
	QuizQuestions []QuizQuestion `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"quizQuestions,omitempty"`
	ChatHistory   []ChatMessage  `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"chatHistory,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}
