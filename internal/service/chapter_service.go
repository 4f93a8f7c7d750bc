package service

import (
	"io"

	"study_easy_backend/internal/model"
	"study_easy_backend/internal/repository"
	"study_easy_backend/pkg/logger"

	"go.uber.org/zap"
)

// ChapterService 章节生命周期：创建即入队，随后由处理队列异步驱动流水线
type ChapterService struct {
	chapterRepo *repository.ChapterRepository
	lessonRepo  *repository.LessonRepository
	audio       *AudioService
	queue       *ProcessingQueue
}

func NewChapterService(
	chapterRepo *repository.ChapterRepository,
	lessonRepo *repository.LessonRepository,
	audio *AudioService,
	queue *ProcessingQueue,
) *ChapterService {
	return &ChapterService{
		chapterRepo: chapterRepo,
		lessonRepo:  lessonRepo,
		audio:       audio,
		queue:       queue,
	}
}

// CreateFromText 从文本创建章节并入队处理
func (s *ChapterService) CreateFromText(lessonID, name, text string) (*model.Chapter, error) {
	if _, err := s.lessonRepo.FindByID(lessonID); err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		LessonID:   lessonID,
		Name:       name,
		SourceType: model.SourceText,
		Status:     model.ChapterPending,
		InputText:  text,
	}
	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, err
	}

	s.enqueue(chapter.ID)
	return chapter, nil
}

// CreateFromAudioUpload 保存上传音频后创建章节并入队处理
func (s *ChapterService) CreateFromAudioUpload(lessonID, name, filename string, reader io.Reader) (*model.Chapter, error) {
	if _, err := s.lessonRepo.FindByID(lessonID); err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		LessonID:   lessonID,
		Name:       name,
		SourceType: model.SourceAudio,
		Status:     model.ChapterPending,
	}
	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, err
	}

	audioPath, err := s.audio.SaveUpload(chapter.ID, filename, reader)
	if err != nil {
		return nil, err
	}
	chapter.AudioPath = audioPath
	if err := s.chapterRepo.Save(chapter); err != nil {
		return nil, err
	}

	s.enqueue(chapter.ID)
	return chapter, nil
}

// CreateFromAudioURL 以远端音频地址创建章节，下载发生在处理阶段
func (s *ChapterService) CreateFromAudioURL(lessonID, name, remoteURL string) (*model.Chapter, error) {
	if _, err := s.lessonRepo.FindByID(lessonID); err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		LessonID:       lessonID,
		Name:           name,
		SourceType:     model.SourceAudio,
		Status:         model.ChapterPending,
		AudioRemoteURL: remoteURL,
	}
	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, err
	}

	s.enqueue(chapter.ID)
	return chapter, nil
}

func (s *ChapterService) Get(id string) (*model.Chapter, error) {
	return s.chapterRepo.FindByID(id)
}

func (s *ChapterService) ListByLesson(lessonID string) ([]model.Chapter, error) {
	if _, err := s.lessonRepo.FindByID(lessonID); err != nil {
		return nil, err
	}
	return s.chapterRepo.FindByLesson(lessonID)
}

func (s *ChapterService) Delete(id string) error {
	return s.chapterRepo.Delete(id)
}

func (s *ChapterService) Flashcards(chapterID string) ([]model.Flashcard, error) {
	if _, err := s.chapterRepo.FindByID(chapterID); err != nil {
		return nil, err
	}
	return s.chapterRepo.Flashcards(chapterID)
}

func (s *ChapterService) Quiz(chapterID string) ([]model.QuizQuestion, error) {
	if _, err := s.chapterRepo.FindByID(chapterID); err != nil {
		return nil, err
	}
	return s.chapterRepo.QuizQuestions(chapterID)
}

// Reprocess 重新入队处理。已完成的章节会以当前输入重新生成全部内容，
// 落盘时全量替换旧内容
func (s *ChapterService) Reprocess(id string) (*model.Chapter, error) {
	chapter, err := s.chapterRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.enqueue(chapter.ID)
	return chapter, nil
}

func (s *ChapterService) Status(id string) (*repository.StatusSnapshot, error) {
	return s.chapterRepo.GetStatus(id)
}

func (s *ChapterService) enqueue(chapterID string) {
	if err := s.queue.Enqueue(chapterID); err != nil {
		logger.Log.Error("章节任务入队失败", zap.String("chapter_id", chapterID), zap.Error(err))
	}
}
