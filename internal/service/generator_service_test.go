package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"study_easy_backend/internal/util"
	"study_easy_backend/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakeGenerator 按调用的 system prompt 返回预置的 JSON
type fakeGenerator struct {
	courseJSON    string
	flashcardJSON string
	quizJSON      string
	chatReply     string
	err           error

	chatCalls      [][]ChatTurn
	lastUserPrompt string
}

func (f *fakeGenerator) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.chatReply, f.err
}

func (f *fakeGenerator) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastUserPrompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	switch {
	case strings.Contains(systemPrompt, "expert pédagogique"):
		return f.courseJSON, nil
	case strings.Contains(systemPrompt, "flashcards"):
		return f.flashcardJSON, nil
	default:
		return f.quizJSON, nil
	}
}

func (f *fakeGenerator) Chat(ctx context.Context, messages []ChatTurn) (string, error) {
	f.chatCalls = append(f.chatCalls, messages)
	return f.chatReply, f.err
}

const validCourseJSON = `{
	"summary": "Résumé du cours",
	"bullet_points": ["point un", "point deux"],
	"sections": [
		{"heading": "Introduction", "overview": "Vue d'ensemble", "key_points": ["a", "b"], "detailed_content": "Contenu détaillé"}
	],
	"estimatedDurationMinutes": 15
}`

const validFlashcardJSON = `{
	"flashcards": [
		{"question": "Q1", "answer": "A1"},
		{"question": "Q2", "answer": "A2"},
		{"question": "Q3", "answer": "A3"}
	]
}`

const validQuizJSON = `{
	"questions": [
		{"question": "Q1", "options": ["a", "b", "c"], "correctAnswerIndex": 1, "explanation": "parce que"}
	]
}`

func TestGenerateCourse(t *testing.T) {
	gen := NewGeneratorService(&fakeGenerator{courseJSON: validCourseJSON}, 0, 10)

	course, err := gen.GenerateCourse(context.Background(), CoursePromptContext{}, "du texte")
	if err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}
	if course.Summary != "Résumé du cours" {
		t.Errorf("summary = %q", course.Summary)
	}
	if len(course.Sections) != 1 || course.Sections[0].Heading != "Introduction" {
		t.Errorf("sections = %+v", course.Sections)
	}
	if course.EstimatedDurationMinutes != 15 {
		t.Errorf("duration = %d, want 15", course.EstimatedDurationMinutes)
	}
}

func TestGenerateCourseIncludesContextNames(t *testing.T) {
	fake := &fakeGenerator{courseJSON: validCourseJSON}
	gen := NewGeneratorService(fake, 0, 10)

	pctx := CoursePromptContext{
		SubjectName: "Biologie",
		LessonName:  "La cellule",
		ChapterName: "La mitose",
	}
	if _, err := gen.GenerateCourse(context.Background(), pctx, "du texte"); err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}

	for _, fragment := range []string{"Matière : Biologie", "Cours : La cellule", "Chapitre : La mitose", "du texte"} {
		if !strings.Contains(fake.lastUserPrompt, fragment) {
			t.Errorf("user prompt missing %q:\n%s", fragment, fake.lastUserPrompt)
		}
	}
}

func TestGenerateCourseDurationFallback(t *testing.T) {
	courseJSON := `{
		"summary": "s", "bullet_points": [], "sections": [],
		"estimatedDurationMinutes": 0
	}`
	gen := NewGeneratorService(&fakeGenerator{courseJSON: courseJSON}, 0, 10)

	// 320 个词，按每分钟 160 词应估算为 2 分钟
	text := strings.Repeat("mot ", 320)
	course, err := gen.GenerateCourse(context.Background(), CoursePromptContext{}, text)
	if err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}
	if course.EstimatedDurationMinutes != 2 {
		t.Errorf("duration = %d, want 2", course.EstimatedDurationMinutes)
	}
}

func TestGenerateCourseRejectsMissingFields(t *testing.T) {
	gen := NewGeneratorService(&fakeGenerator{courseJSON: `{"summary": "seul"}`}, 0, 10)

	_, err := gen.GenerateCourse(context.Background(), CoursePromptContext{}, "texte")
	if !errors.Is(err, util.ErrGenerationContract) {
		t.Fatalf("err = %v, want ErrGenerationContract", err)
	}
}

func TestGenerateFlashcards(t *testing.T) {
	gen := NewGeneratorService(&fakeGenerator{flashcardJSON: validFlashcardJSON}, 0, 10)

	cards, err := gen.GenerateFlashcards(context.Background(), "texte")
	if err != nil {
		t.Fatalf("GenerateFlashcards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("len(cards) = %d, want 3", len(cards))
	}
	if cards[0].Question != "Q1" || cards[0].Answer != "A1" {
		t.Errorf("cards[0] = %+v", cards[0])
	}
}

func TestGenerateFlashcardsTruncatesToMax(t *testing.T) {
	gen := NewGeneratorService(&fakeGenerator{flashcardJSON: validFlashcardJSON}, 2, 10)

	cards, err := gen.GenerateFlashcards(context.Background(), "texte")
	if err != nil {
		t.Fatalf("GenerateFlashcards: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("len(cards) = %d, want 2", len(cards))
	}
}

func TestGenerateQuiz(t *testing.T) {
	gen := NewGeneratorService(&fakeGenerator{quizJSON: validQuizJSON}, 0, 10)

	questions, err := gen.GenerateQuiz(context.Background(), "texte")
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("len(questions) = %d, want 1", len(questions))
	}
	q := questions[0]
	if len(q.Options) != 3 || q.CorrectAnswer != 1 {
		t.Errorf("question = %+v", q)
	}
}

func TestGenerateQuizRejectsWrongOptionCount(t *testing.T) {
	quizJSON := `{
		"questions": [
			{"question": "Q", "options": ["a", "b"], "correctAnswerIndex": 0, "explanation": "e"}
		]
	}`
	gen := NewGeneratorService(&fakeGenerator{quizJSON: quizJSON}, 0, 10)

	_, err := gen.GenerateQuiz(context.Background(), "texte")
	if !errors.Is(err, util.ErrGenerationContract) {
		t.Fatalf("err = %v, want ErrGenerationContract", err)
	}
}

func TestGenerateQuizRejectsOutOfRangeIndex(t *testing.T) {
	quizJSON := `{
		"questions": [
			{"question": "Q", "options": ["a", "b", "c"], "correctAnswerIndex": 3, "explanation": "e"}
		]
	}`
	gen := NewGeneratorService(&fakeGenerator{quizJSON: quizJSON}, 0, 10)

	_, err := gen.GenerateQuiz(context.Background(), "texte")
	if !errors.Is(err, util.ErrGenerationContract) {
		t.Fatalf("err = %v, want ErrGenerationContract", err)
	}
}

func TestGenerateQuizRejectsNonJSON(t *testing.T) {
	gen := NewGeneratorService(&fakeGenerator{quizJSON: "pas du json"}, 0, 10)

	_, err := gen.GenerateQuiz(context.Background(), "texte")
	if !errors.Is(err, util.ErrGenerationContract) {
		t.Fatalf("err = %v, want ErrGenerationContract", err)
	}
}

func TestEstimateDurationMinutes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 1},
		{"one word", "mot", 1},
		{"exactly 160", strings.Repeat("mot ", 160), 1},
		{"320 words", strings.Repeat("mot ", 320), 2},
		{"161 words rounds up", strings.Repeat("mot ", 161), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateDurationMinutes(tt.text); got != tt.want {
				t.Errorf("EstimateDurationMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}
