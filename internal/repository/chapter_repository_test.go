package repository

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"study_easy_backend/internal/config"
	"study_easy_backend/internal/model"
	"study_easy_backend/internal/util"
	"study_easy_backend/pkg/database"

	"gorm.io/gorm"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: dsn})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	return db
}

func seedChapter(t *testing.T, repo *ChapterRepository) *model.Chapter {
	t.Helper()
	chapter := &model.Chapter{
		LessonID:   "lesson-1",
		Name:       "Chapitre",
		SourceType: model.SourceText,
		Status:     model.ChapterPending,
		InputText:  "texte",
	}
	if err := repo.Create(chapter); err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	return chapter
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewChapterRepository(newTestDB(t), nil)

	_, err := repo.FindByID("missing")
	if !errors.Is(err, util.ErrChapterNotFound) {
		t.Fatalf("err = %v, want ErrChapterNotFound", err)
	}
}

func TestMarkProcessing(t *testing.T) {
	repo := NewChapterRepository(newTestDB(t), nil)
	chapter := seedChapter(t, repo)

	got, err := repo.MarkProcessing(chapter.ID)
	if err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if got.Status != model.ChapterProcessing || !got.IsProcessing {
		t.Errorf("chapter = status %q, isProcessing %v", got.Status, got.IsProcessing)
	}
	if got.ProcessingStartedAt == nil {
		t.Error("processingStartedAt not set")
	}

	// 状态独立提交，另一个读取方立即可见
	reloaded, _ := repo.FindByID(chapter.ID)
	if reloaded.Status != model.ChapterProcessing {
		t.Errorf("reloaded status = %q", reloaded.Status)
	}
}

func TestMarkFailed(t *testing.T) {
	repo := NewChapterRepository(newTestDB(t), nil)
	chapter := seedChapter(t, repo)

	if _, err := repo.MarkProcessing(chapter.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkFailed(chapter.ID, "quelque chose a mal tourné"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	got, _ := repo.FindByID(chapter.ID)
	if got.Status != model.ChapterFailed || got.IsProcessing {
		t.Errorf("chapter = status %q, isProcessing %v", got.Status, got.IsProcessing)
	}
	if got.FailureReason != "quelque chose a mal tourné" {
		t.Errorf("failureReason = %q", got.FailureReason)
	}
}

func TestReplaceGeneratedContent(t *testing.T) {
	repo := NewChapterRepository(newTestDB(t), nil)
	chapter := seedChapter(t, repo)

	first := []model.Flashcard{
		{ChapterID: chapter.ID, Question: "Q1", Answer: "A1"},
		{ChapterID: chapter.ID, Question: "Q2", Answer: "A2"},
	}
	firstQuiz := []model.QuizQuestion{
		{ChapterID: chapter.ID, Question: "QQ1", Options: []string{"a", "b", "c"}, CorrectAnswer: 0, Explanation: "e"},
	}
	if err := repo.ReplaceGeneratedContent(chapter, first, firstQuiz); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	got, _ := repo.FindByID(chapter.ID)
	if got.Status != model.ChapterCompleted || !got.IsCompleted {
		t.Errorf("status = %q, isCompleted %v", got.Status, got.IsCompleted)
	}
	if got.FlashcardCount != 2 || got.QuizQuestionCount != 1 {
		t.Errorf("counts = %d/%d", got.FlashcardCount, got.QuizQuestionCount)
	}

	// 再次替换：旧内容整体消失
	second := []model.Flashcard{
		{ChapterID: chapter.ID, Question: "Q-nouveau", Answer: "A-nouveau"},
	}
	if err := repo.ReplaceGeneratedContent(got, second, nil); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	cards, _ := repo.Flashcards(chapter.ID)
	if len(cards) != 1 || cards[0].Question != "Q-nouveau" {
		t.Errorf("cards = %+v", cards)
	}
	questions, _ := repo.QuizQuestions(chapter.ID)
	if len(questions) != 0 {
		t.Errorf("questions = %d, want 0", len(questions))
	}

	reloaded, _ := repo.FindByID(chapter.ID)
	if reloaded.FlashcardCount != 1 || reloaded.QuizQuestionCount != 0 {
		t.Errorf("counts after replace = %d/%d", reloaded.FlashcardCount, reloaded.QuizQuestionCount)
	}
	if reloaded.QuizGenerated {
		t.Error("quizGenerated should be false when no questions persisted")
	}
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewChapterRepository(db, nil)
	chapter := seedChapter(t, repo)

	if err := repo.ReplaceGeneratedContent(chapter,
		[]model.Flashcard{{ChapterID: chapter.ID, Question: "Q", Answer: "A"}},
		[]model.QuizQuestion{{ChapterID: chapter.ID, Question: "QQ", Options: []string{"a", "b", "c"}, CorrectAnswer: 1, Explanation: "e"}},
	); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&model.ChatMessage{ChapterID: chapter.ID, Role: model.RoleUser, Content: "salut"}).Error; err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(chapter.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.FindByID(chapter.ID); !errors.Is(err, util.ErrChapterNotFound) {
		t.Errorf("chapter should be gone, err = %v", err)
	}

	var count int64
	db.Model(&model.Flashcard{}).Where("chapter_id = ?", chapter.ID).Count(&count)
	if count != 0 {
		t.Errorf("flashcards left = %d", count)
	}
	db.Model(&model.QuizQuestion{}).Where("chapter_id = ?", chapter.ID).Count(&count)
	if count != 0 {
		t.Errorf("quiz questions left = %d", count)
	}
	db.Model(&model.ChatMessage{}).Where("chapter_id = ?", chapter.ID).Count(&count)
	if count != 0 {
		t.Errorf("chat messages left = %d", count)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := NewChapterRepository(newTestDB(t), nil)

	if err := repo.Delete("missing"); !errors.Is(err, util.ErrChapterNotFound) {
		t.Fatalf("err = %v, want ErrChapterNotFound", err)
	}
}

func TestGetStatusWithoutRedis(t *testing.T) {
	repo := NewChapterRepository(newTestDB(t), nil)
	chapter := seedChapter(t, repo)

	snapshot, err := repo.GetStatus(chapter.ID)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if snapshot.ID != chapter.ID || snapshot.Status != model.ChapterPending {
		t.Errorf("snapshot = %+v", snapshot)
	}

	if _, err := repo.MarkProcessing(chapter.ID); err != nil {
		t.Fatal(err)
	}
	snapshot, _ = repo.GetStatus(chapter.ID)
	if snapshot.Status != model.ChapterProcessing || !snapshot.IsProcessing {
		t.Errorf("snapshot after mark = %+v", snapshot)
	}
}
