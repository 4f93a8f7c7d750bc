package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"study_easy_backend/internal/model"
	"study_easy_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const statusCacheTTL = 15 * time.Second

// ChapterRepository 章节持久化网关。
// 状态流转各自提交独立事务，生成内容的替换在单个事务内完成，
// 外部读取方可以观察到 processing，但绝不会观察到只有部分生成内容的 completed。
type ChapterRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewChapterRepository(db *gorm.DB, rdb *redis.Client) *ChapterRepository {
	return &ChapterRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *ChapterRepository) Create(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *ChapterRepository) FindByID(id string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.First(&chapter, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrChapterNotFound
	}
	return &chapter, err
}

func (r *ChapterRepository) FindByLesson(lessonID string) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.Where("lesson_id = ?", lessonID).Order("created_at DESC").Find(&chapters).Error
	return chapters, err
}

func (r *ChapterRepository) Save(chapter *model.Chapter) error {
	err := r.DB.Save(chapter).Error
	r.invalidateStatus(chapter.ID)
	return err
}

func (r *ChapterRepository) Delete(id string) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", id).Delete(&model.Flashcard{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chapter_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chapter_id = ?", id).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Chapter{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return util.ErrChapterNotFound
		}
		return nil
	})
	r.invalidateStatus(id)
	return err
}

// MarkProcessing 独立事务提交 processing 状态，保证外部观察者在后续步骤
// 失败前就能看到处理已开始
func (r *ChapterRepository) MarkProcessing(id string) (*model.Chapter, error) {
	chapter, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chapter.Status = model.ChapterProcessing
	chapter.IsProcessing = true
	chapter.ProcessingStartedAt = &now

	if err := r.DB.Save(chapter).Error; err != nil {
		return nil, err
	}
	r.invalidateStatus(id)
	return chapter, nil
}

// MarkFailed 尽力而为地落盘失败状态，同样独立提交
func (r *ChapterRepository) MarkFailed(id string, reason string) error {
	chapter, err := r.FindByID(id)
	if err != nil {
		return err
	}

	chapter.Status = model.ChapterFailed
	chapter.IsProcessing = false
	chapter.FailureReason = reason

	err = r.DB.Save(chapter).Error
	r.invalidateStatus(id)
	return err
}

// ReplaceGeneratedContent 单事务内完成：章节生成字段更新、旧记忆卡/测验题
// 全量删除、新批次插入、completed 状态落盘。全量替换，绝不增量合并。
func (r *ChapterRepository) ReplaceGeneratedContent(chapter *model.Chapter, flashcards []model.Flashcard, questions []model.QuizQuestion) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		chapter.Status = model.ChapterCompleted
		chapter.IsCompleted = true
		chapter.IsProcessing = false
		chapter.CompletedAt = &now
		chapter.FailureReason = ""
		chapter.FlashcardCount = len(flashcards)
		chapter.FlashcardsGenerated = len(flashcards) > 0
		chapter.QuizQuestionCount = len(questions)
		chapter.QuizGenerated = len(questions) > 0

		if err := tx.Save(chapter).Error; err != nil {
			return err
		}

		if err := tx.Where("chapter_id = ?", chapter.ID).Delete(&model.Flashcard{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chapter_id = ?", chapter.ID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}

		if len(flashcards) > 0 {
			if err := tx.Create(&flashcards).Error; err != nil {
				return err
			}
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
	r.invalidateStatus(chapter.ID)
	return err
}

// ContextNames 返回章节所属的课程与科目名称，用于生成提示词上下文
func (r *ChapterRepository) ContextNames(lessonID string) (subjectName, lessonName string, err error) {
	var lesson model.Lesson
	if err = r.DB.First(&lesson, "id = ?", lessonID).Error; err != nil {
		return "", "", err
	}
	var subject model.Subject
	if err = r.DB.First(&subject, "id = ?", lesson.SubjectID).Error; err != nil {
		return "", lesson.Name, err
	}
	return subject.Name, lesson.Name, nil
}

func (r *ChapterRepository) Flashcards(chapterID string) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := r.DB.Where("chapter_id = ?", chapterID).Order("created_at ASC").Find(&cards).Error
	return cards, err
}

func (r *ChapterRepository) QuizQuestions(chapterID string) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("chapter_id = ?", chapterID).Order("created_at ASC").Find(&questions).Error
	return questions, err
}

// StatusSnapshot 给客户端轮询用的轻量状态视图
type StatusSnapshot struct {
	ID            string              `json:"id"`
	Status        model.ChapterStatus `json:"status"`
	IsProcessing  bool                `json:"isProcessing"`
	IsCompleted   bool                `json:"isCompleted"`
	FailureReason string              `json:"failureReason,omitempty"`
}

// GetStatus 带 Redis 缓存的状态查询，客户端处理期间会高频轮询这个接口
func (r *ChapterRepository) GetStatus(id string) (*StatusSnapshot, error) {
	cacheKey := "chapter:status:" + id

	if r.Redis != nil {
		if cached, err := r.Redis.Get(r.ctx, cacheKey).Result(); err == nil {
			var snapshot StatusSnapshot
			if json.Unmarshal([]byte(cached), &snapshot) == nil {
				return &snapshot, nil
			}
		}
	}

	chapter, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	snapshot := &StatusSnapshot{
		ID:            chapter.ID,
		Status:        chapter.Status,
		IsProcessing:  chapter.IsProcessing,
		IsCompleted:   chapter.IsCompleted,
		FailureReason: chapter.FailureReason,
	}

	if r.Redis != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			r.Redis.Set(r.ctx, cacheKey, data, statusCacheTTL)
		}
	}

	return snapshot, nil
}

func (r *ChapterRepository) invalidateStatus(id string) {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, "chapter:status:"+id)
	}
}
