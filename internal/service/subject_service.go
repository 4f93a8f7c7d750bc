package service

import (
	"study_easy_backend/internal/model"
	"study_easy_backend/internal/repository"
)

type SubjectService struct {
	subjectRepo *repository.SubjectRepository
}

func NewSubjectService(subjectRepo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo}
}

func (s *SubjectService) Create(name, color, description string) (*model.Subject, error) {
	subject := &model.Subject{
		Name:        name,
		Description: description,
	}
	if color != "" {
		subject.Color = color
	}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Get(id string) (*model.Subject, error) {
	return s.subjectRepo.FindByID(id)
}

func (s *SubjectService) List() ([]model.Subject, error) {
	return s.subjectRepo.FindAll()
}

func (s *SubjectService) Delete(id string) error {
	return s.subjectRepo.Delete(id)
}
