package service

import (
	"context"
	"strings"

	"study_easy_backend/internal/model"
	"study_easy_backend/internal/repository"
)

// 带入模型上下文的历史消息条数上限
const maxChatHistoryMessages = 12

// ChatService 基于章节内容的答疑对话。历史只追加不修改，
// 发给模型的上下文只保留最近若干条
type ChatService struct {
	chatRepo    *repository.ChatRepository
	chapterRepo *repository.ChapterRepository
	generator   TextGenerator
}

func NewChatService(chatRepo *repository.ChatRepository, chapterRepo *repository.ChapterRepository, generator TextGenerator) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		chapterRepo: chapterRepo,
		generator:   generator,
	}
}

func (s *ChatService) History(chapterID string) ([]model.ChatMessage, error) {
	if _, err := s.chapterRepo.FindByID(chapterID); err != nil {
		return nil, err
	}
	return s.chatRepo.History(chapterID)
}

// SendMessage 追加用户消息、生成并追加助手回复
func (s *ChatService) SendMessage(ctx context.Context, chapterID, userMessage string) (*model.ChatMessage, error) {
	chapter, err := s.chapterRepo.FindByID(chapterID)
	if err != nil {
		return nil, err
	}

	history, err := s.chatRepo.History(chapterID)
	if err != nil {
		return nil, err
	}

	userEntry := &model.ChatMessage{
		ChapterID: chapterID,
		Role:      model.RoleUser,
		Content:   userMessage,
	}
	if err := s.chatRepo.Append(userEntry); err != nil {
		return nil, err
	}

	conversation := []ChatTurn{
		{
			Role: "system",
			Content: "Tu es un assistant pédagogique spécialisé dans l'aide personnalisée." +
				" Tu réponds en français et tu utilises exclusivement les informations du cours." +
				" Si une question sort du périmètre, indique poliment que tu ne peux pas y répondre." +
				" Structure tes réponses pour favoriser la compréhension de l'étudiant.",
		},
		{
			Role:    "system",
			Content: "Contexte du cours :\n" + formatCourseContext(chapter),
		},
	}

	trimmed := history
	if len(trimmed) > maxChatHistoryMessages {
		trimmed = trimmed[len(trimmed)-maxChatHistoryMessages:]
	}
	for _, msg := range trimmed {
		conversation = append(conversation, ChatTurn{Role: string(msg.Role), Content: msg.Content})
	}
	conversation = append(conversation, ChatTurn{Role: "user", Content: userMessage})

	reply, err := s.generator.Chat(ctx, conversation)
	if err != nil {
		return nil, err
	}

	assistantEntry := &model.ChatMessage{
		ChapterID: chapterID,
		Role:      model.RoleAssistant,
		Content:   strings.TrimSpace(reply),
	}
	if err := s.chatRepo.Append(assistantEntry); err != nil {
		return nil, err
	}
	return assistantEntry, nil
}

// formatCourseContext 把章节的生成内容拼成模型可读的课程上下文
func formatCourseContext(chapter *model.Chapter) string {
	var parts []string

	if chapter.Summary != "" {
		parts = append(parts, "Résumé détaillé :\n"+chapter.Summary)
	}
	if len(chapter.BulletPoints) > 0 {
		parts = append(parts, "Points clés :\n- "+strings.Join(chapter.BulletPoints, "\n- "))
	}
	if len(chapter.CourseSections) > 0 {
		var sectionLines []string
		for _, section := range chapter.CourseSections {
			lines := []string{
				"Section : " + section.Heading,
				"Présentation : " + section.Overview,
			}
			if len(section.KeyPoints) > 0 {
				lines = append(lines, "Points essentiels :\n- "+strings.Join(section.KeyPoints, "\n- "))
			}
			if section.DetailedContent != "" {
				lines = append(lines, "Développement complet :\n"+section.DetailedContent)
			}
			sectionLines = append(sectionLines, strings.Join(lines, "\n"))
		}
		parts = append(parts, "Sections :\n"+strings.Join(sectionLines, "\n\n"))
	}
	if chapter.InputText != "" {
		parts = append(parts, "Transcription intégrale :\n"+chapter.InputText)
	}

	return strings.Join(parts, "\n\n")
}
