package repository

import (
	"study_easy_backend/internal/model"

	"gorm.io/gorm"
)

// ChatRepository 章节对话历史，只追加不修改
type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Append(message *model.ChatMessage) error {
	return r.DB.Create(message).Error
}

// History 返回章节全部对话，按写入时间升序
func (r *ChatRepository) History(chapterID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.Where("chapter_id = ?", chapterID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}
