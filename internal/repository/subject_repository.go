package repository

import (
	"errors"
	"study_easy_backend/internal/model"
	"study_easy_backend/internal/util"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) FindByID(id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.First(&subject, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubjectNotFound
	}
	return &subject, err
}

func (r *SubjectRepository) FindAll() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Order("created_at DESC").Find(&subjects).Error
	return subjects, err
}

// Delete 级联删除学科及其课程、章节与生成内容
func (r *SubjectRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []string
		if err := tx.Model(&model.Lesson{}).Where("subject_id = ?", id).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := deleteChaptersByLessons(tx, lessonIDs); err != nil {
				return err
			}
			if err := tx.Where("subject_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&model.Subject{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return util.ErrSubjectNotFound
		}
		return nil
	})
}

func deleteChaptersByLessons(tx *gorm.DB, lessonIDs []string) error {
	var chapterIDs []string
	if err := tx.Model(&model.Chapter{}).Where("lesson_id IN ?", lessonIDs).Pluck("id", &chapterIDs).Error; err != nil {
		return err
	}
	if len(chapterIDs) == 0 {
		return nil
	}
	if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.Flashcard{}).Error; err != nil {
		return err
	}
	if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.QuizQuestion{}).Error; err != nil {
		return err
	}
	if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.ChatMessage{}).Error; err != nil {
		return err
	}
	return tx.Where("lesson_id IN ?", lessonIDs).Delete(&model.Chapter{}).Error
}
