package service

import (
	"study_easy_backend/internal/model"
	"study_easy_backend/internal/repository"
)

type LessonService struct {
	lessonRepo  *repository.LessonRepository
	subjectRepo *repository.SubjectRepository
}

func NewLessonService(lessonRepo *repository.LessonRepository, subjectRepo *repository.SubjectRepository) *LessonService {
	return &LessonService{lessonRepo: lessonRepo, subjectRepo: subjectRepo}
}

// Create 创建课程，学科不存在时返回 ErrSubjectNotFound
func (s *LessonService) Create(subjectID, name, description string) (*model.Lesson, error) {
	if _, err := s.subjectRepo.FindByID(subjectID); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		SubjectID:   subjectID,
		Name:        name,
		Description: description,
	}
	if err := s.lessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Get(id string) (*model.Lesson, error) {
	return s.lessonRepo.FindByID(id)
}

func (s *LessonService) ListBySubject(subjectID string) ([]model.Lesson, error) {
	if _, err := s.subjectRepo.FindByID(subjectID); err != nil {
		return nil, err
	}
	return s.lessonRepo.FindBySubject(subjectID)
}

func (s *LessonService) Delete(id string) error {
	return s.lessonRepo.Delete(id)
}
