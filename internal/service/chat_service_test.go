package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"study_easy_backend/internal/config"
	"study_easy_backend/internal/model"
	"study_easy_backend/internal/repository"
	"study_easy_backend/internal/util"
	"study_easy_backend/pkg/database"

	"gorm.io/gorm"
)

func newChatTestEnv(t *testing.T, gen *fakeGenerator) (*ChatService, *repository.ChapterRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:chat_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: dsn})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	chapterRepo := repository.NewChapterRepository(db, nil)
	chatRepo := repository.NewChatRepository(db)
	return NewChatService(chatRepo, chapterRepo, gen), chapterRepo, db
}

func TestSendMessageAppendsBothSides(t *testing.T) {
	gen := &fakeGenerator{chatReply: "  Voici la réponse.  "}
	svc, chapterRepo, _ := newChatTestEnv(t, gen)

	chapter := createChapter(t, chapterRepo, &model.Chapter{
		SourceType: model.SourceText,
		Summary:    "Résumé du chapitre",
	})

	reply, err := svc.SendMessage(context.Background(), chapter.ID, "Qu'est-ce que c'est ?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply.Role != model.RoleAssistant {
		t.Errorf("role = %q", reply.Role)
	}
	if reply.Content != "Voici la réponse." {
		t.Errorf("content = %q, want trimmed reply", reply.Content)
	}

	history, err := svc.History(chapter.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d messages, want 2", len(history))
	}
	if history[0].Role != model.RoleUser || history[1].Role != model.RoleAssistant {
		t.Errorf("history roles = %q, %q", history[0].Role, history[1].Role)
	}
}

func TestSendMessageIncludesCourseContext(t *testing.T) {
	gen := &fakeGenerator{chatReply: "ok"}
	svc, chapterRepo, _ := newChatTestEnv(t, gen)

	chapter := createChapter(t, chapterRepo, &model.Chapter{
		SourceType:   model.SourceText,
		Summary:      "Résumé important",
		BulletPoints: []string{"premier point", "second point"},
		CourseSections: []model.CourseSection{
			{Heading: "Section A", Overview: "Vue", KeyPoints: []string{"kp"}, DetailedContent: "Détail"},
		},
		InputText: "texte brut",
	})

	if _, err := svc.SendMessage(context.Background(), chapter.ID, "question"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if len(gen.chatCalls) != 1 {
		t.Fatalf("chat calls = %d, want 1", len(gen.chatCalls))
	}
	conversation := gen.chatCalls[0]

	if conversation[0].Role != "system" || conversation[1].Role != "system" {
		t.Fatalf("first two turns should be system, got %q/%q", conversation[0].Role, conversation[1].Role)
	}
	courseContext := conversation[1].Content
	for _, fragment := range []string{"Résumé important", "premier point", "Section A", "texte brut"} {
		if !strings.Contains(courseContext, fragment) {
			t.Errorf("context missing %q", fragment)
		}
	}
	last := conversation[len(conversation)-1]
	if last.Role != "user" || last.Content != "question" {
		t.Errorf("last turn = %+v", last)
	}
}

func TestSendMessageTrimsHistory(t *testing.T) {
	gen := &fakeGenerator{chatReply: "ok"}
	svc, chapterRepo, db := newChatTestEnv(t, gen)

	chapter := createChapter(t, chapterRepo, &model.Chapter{
		SourceType: model.SourceText,
	})

	// 预置 20 条历史消息，上下文只应携带最近 12 条
	for i := 0; i < 20; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msg := &model.ChatMessage{
			ChapterID: chapter.ID,
			Role:      role,
			Content:   fmt.Sprintf("message-%02d", i),
		}
		if err := db.Create(msg).Error; err != nil {
			t.Fatal(err)
		}
	}

	if _, err := svc.SendMessage(context.Background(), chapter.ID, "nouvelle question"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	conversation := gen.chatCalls[0]
	// 2 条 system + 12 条历史 + 1 条当前消息
	if len(conversation) != 15 {
		t.Fatalf("conversation length = %d, want 15", len(conversation))
	}
	if conversation[2].Content != "message-08" {
		t.Errorf("oldest retained = %q, want message-08", conversation[2].Content)
	}
	if conversation[13].Content != "message-19" {
		t.Errorf("newest history = %q, want message-19", conversation[13].Content)
	}
}

func TestSendMessageChapterNotFound(t *testing.T) {
	svc, _, _ := newChatTestEnv(t, &fakeGenerator{})

	_, err := svc.SendMessage(context.Background(), "missing", "question")
	if !errors.Is(err, util.ErrChapterNotFound) {
		t.Fatalf("err = %v, want ErrChapterNotFound", err)
	}
}

func TestSendMessageGeneratorFailureKeepsUserMessage(t *testing.T) {
	gen := &fakeGenerator{err: util.ErrCapabilityFailure}
	svc, chapterRepo, _ := newChatTestEnv(t, gen)

	chapter := createChapter(t, chapterRepo, &model.Chapter{
		SourceType: model.SourceText,
	})

	_, err := svc.SendMessage(context.Background(), chapter.ID, "question")
	if !errors.Is(err, util.ErrCapabilityFailure) {
		t.Fatalf("err = %v, want ErrCapabilityFailure", err)
	}

	// 用户消息先落盘，模型失败不回滚
	history, _ := svc.History(chapter.ID)
	if len(history) != 1 || history[0].Role != model.RoleUser {
		t.Errorf("history = %+v, want single user message", history)
	}
}
