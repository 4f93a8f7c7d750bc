package model

// ChatRole 聊天消息角色
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage 章节问答消息，只追加，流水线不会修改或删除
type ChatMessage struct {
	UUIDBase
	ChapterID string   `gorm:"index;type:varchar(36);not null" json:"chapterId"`
	Role      ChatRole `gorm:"size:10;not null" json:"role"`
	Content   string   `gorm:"type:longtext;not null" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
