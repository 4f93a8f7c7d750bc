package repository

import (
	"errors"
	"study_easy_backend/internal/model"
	"study_easy_backend/internal/util"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	return &lesson, err
}

func (r *LessonRepository) FindBySubject(subjectID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("subject_id = ?", subjectID).Order("created_at DESC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteChaptersByLessons(tx, []string{id}); err != nil {
			return err
		}
		result := tx.Delete(&model.Lesson{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return util.ErrLessonNotFound
		}
		return nil
	})
}
