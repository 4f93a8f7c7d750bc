package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"study_easy_backend/internal/model"
	"study_easy_backend/internal/util"
	"study_easy_backend/pkg/logger"
	"study_easy_backend/pkg/monitoring"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const wordsPerMinute = 160

const courseSystemPrompt = "Tu es un expert pédagogique francophone. Tu analyses un support de cours ou" +
	" une retranscription et tu produis un contenu didactique complet sans omettre" +
	" la moindre information pertinente. L'organisation doit être claire, hiérarchisée" +
	" et exploitable telle quelle pour réviser. Réponds uniquement avec un JSON" +
	" conforme au schéma {'summary': str, 'bullet_points': [str], 'sections':" +
	" [{'heading': str, 'overview': str, 'key_points': [str], 'detailed_content': str}]," +
	" 'estimatedDurationMinutes': int}."

const flashcardSystemPrompt = "Tu es un générateur de flashcards pour des révisions intensives." +
	" Crée autant de cartes que nécessaire pour couvrir toutes les notions" +
	" importantes sans omission. Les cartes doivent être en français," +
	" précises et non redondantes. Réponds exclusivement avec un JSON" +
	" respectant le schéma {'flashcards': [{'question': str, 'answer': str}, ...]}."

const quizSystemPrompt = "Tu conçois des quiz d'entraînement de haute qualité. Pour chaque question," +
	" propose exactement trois options distinctes, indique l'indice (0-2) de la" +
	" bonne réponse, et ajoute une explication claire rappelant le concept." +
	" Réponds strictement dans un JSON {'questions': [{'question': str," +
	" 'options': [str, str, str], 'correctAnswerIndex': int, 'explanation': str}, ...]}."

const courseSchemaJSON = `{
	"type": "object",
	"required": ["summary", "bullet_points", "sections", "estimatedDurationMinutes"],
	"properties": {
		"summary": {"type": "string"},
		"bullet_points": {"type": "array", "items": {"type": "string"}},
		"sections": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["heading", "overview", "key_points", "detailed_content"],
				"properties": {
					"heading": {"type": "string"},
					"overview": {"type": "string"},
					"key_points": {"type": "array", "items": {"type": "string"}},
					"detailed_content": {"type": "string"}
				}
			}
		},
		"estimatedDurationMinutes": {"type": "integer"}
	}
}`

const flashcardSchemaJSON = `{
	"type": "object",
	"required": ["flashcards"],
	"properties": {
		"flashcards": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["question", "answer"],
				"properties": {
					"question": {"type": "string", "minLength": 1},
					"answer": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`

const quizSchemaJSON = `{
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["question", "options", "correctAnswerIndex", "explanation"],
				"properties": {
					"question": {"type": "string", "minLength": 1},
					"options": {"type": "array", "items": {"type": "string"}, "minItems": 3, "maxItems": 3},
					"correctAnswerIndex": {"type": "integer", "minimum": 0, "maximum": 2},
					"explanation": {"type": "string"}
				}
			}
		}
	}
}`

// CoursePromptContext 课程生成的层级上下文，帮助模型贴合科目与课程主题
type CoursePromptContext struct {
	SubjectName string
	LessonName  string
	ChapterName string
}

// CourseContent 结构化课程内容，模型输出经校验后的规范形态
type CourseContent struct {
	Summary                  string                `json:"summary"`
	BulletPoints             []string              `json:"bullet_points"`
	Sections                 []model.CourseSection `json:"sections"`
	EstimatedDurationMinutes int                   `json:"estimatedDurationMinutes"`
}

type flashcardPayload struct {
	Flashcards []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"flashcards"`
}

type quizPayload struct {
	Questions []struct {
		Question           string   `json:"question"`
		Options            []string `json:"options"`
		CorrectAnswerIndex int      `json:"correctAnswerIndex"`
		Explanation        string   `json:"explanation"`
	} `json:"questions"`
}

// GeneratorService 调用模型生成课程、记忆卡与测验题，并对输出结构做契约校验
type GeneratorService struct {
	generator       TextGenerator
	courseSchema    *gojsonschema.Schema
	flashcardSchema *gojsonschema.Schema
	quizSchema      *gojsonschema.Schema
	flashcardMax    int
	quizTarget      int
}

func NewGeneratorService(generator TextGenerator, flashcardMax, quizTarget int) *GeneratorService {
	mustSchema := func(raw string) *gojsonschema.Schema {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("生成内容校验 schema 非法: %v", err))
		}
		return schema
	}

	return &GeneratorService{
		generator:       generator,
		courseSchema:    mustSchema(courseSchemaJSON),
		flashcardSchema: mustSchema(flashcardSchemaJSON),
		quizSchema:      mustSchema(quizSchemaJSON),
		flashcardMax:    flashcardMax,
		quizTarget:      quizTarget,
	}
}

// EstimateDurationMinutes 按每分钟 160 词估算学习时长，至少 1 分钟
func EstimateDurationMinutes(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 1
	}
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// GenerateCourse 生成结构化课程内容，时长非正时回落到按词数估算
func (s *GeneratorService) GenerateCourse(ctx context.Context, pctx CoursePromptContext, rawText string) (*CourseContent, error) {
	start := time.Now()
	var sb strings.Builder
	if pctx.SubjectName != "" {
		sb.WriteString("Matière : " + pctx.SubjectName + "\n")
	}
	if pctx.LessonName != "" {
		sb.WriteString("Cours : " + pctx.LessonName + "\n")
	}
	if pctx.ChapterName != "" {
		sb.WriteString("Chapitre : " + pctx.ChapterName + "\n")
	}
	sb.WriteString("\nVoici le contenu d'origine. Génére un cours exhaustif et structuré," +
		" en restituant toutes les informations essentielles :\n\n" + rawText)
	userPrompt := sb.String()

	raw, err := s.generator.CompleteJSON(ctx, courseSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	if err := s.validate(s.courseSchema, raw, "course"); err != nil {
		return nil, err
	}

	var course CourseContent
	if err := json.Unmarshal([]byte(raw), &course); err != nil {
		return nil, fmt.Errorf("%w: 课程内容解析失败: %v", util.ErrGenerationContract, err)
	}

	if course.EstimatedDurationMinutes <= 0 {
		course.EstimatedDurationMinutes = EstimateDurationMinutes(rawText)
	}

	monitoring.GenerationDuration.WithLabelValues("course").Observe(time.Since(start).Seconds())
	logger.Log.Info("课程内容生成完成",
		zap.Int("sections", len(course.Sections)),
		zap.Int("duration_minutes", course.EstimatedDurationMinutes))
	return &course, nil
}

// GenerateFlashcards 生成记忆卡，超出上限时截断
func (s *GeneratorService) GenerateFlashcards(ctx context.Context, rawText string) ([]model.Flashcard, error) {
	start := time.Now()
	userPrompt := "À partir du contenu suivant, liste des flashcards question/réponse" +
		" maximales couvrant 100% des connaissances utiles :\n\n" + rawText

	raw, err := s.generator.CompleteJSON(ctx, flashcardSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	if err := s.validate(s.flashcardSchema, raw, "flashcards"); err != nil {
		return nil, err
	}

	var payload flashcardPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: 记忆卡解析失败: %v", util.ErrGenerationContract, err)
	}

	items := payload.Flashcards
	if s.flashcardMax > 0 && len(items) > s.flashcardMax {
		items = items[:s.flashcardMax]
	}

	cards := make([]model.Flashcard, 0, len(items))
	for _, item := range items {
		cards = append(cards, model.Flashcard{
			Question: item.Question,
			Answer:   item.Answer,
		})
	}

	monitoring.GenerationDuration.WithLabelValues("flashcards").Observe(time.Since(start).Seconds())
	logger.Log.Info("记忆卡生成完成", zap.Int("count", len(cards)))
	return cards, nil
}

// GenerateQuiz 生成三选一测验题，选项数量或答案下标不合法视为契约违规
func (s *GeneratorService) GenerateQuiz(ctx context.Context, rawText string) ([]model.QuizQuestion, error) {
	start := time.Now()
	userPrompt := "À partir du cours suivant, génère le maximum de questions de quiz" +
		" (QCM) à trois choix couvrant toutes les parties du contenu." +
		" Chaque question doit être précise et non ambiguë :\n\n" + rawText

	raw, err := s.generator.CompleteJSON(ctx, quizSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	if err := s.validate(s.quizSchema, raw, "quiz"); err != nil {
		return nil, err
	}

	var payload quizPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: 测验题解析失败: %v", util.ErrGenerationContract, err)
	}

	items := payload.Questions
	if s.quizTarget > 0 && len(items) > s.quizTarget {
		items = items[:s.quizTarget]
	}

	questions := make([]model.QuizQuestion, 0, len(items))
	for _, item := range items {
		if len(item.Options) != 3 {
			return nil, fmt.Errorf("%w: 测验题需要恰好 3 个选项，实际 %d", util.ErrGenerationContract, len(item.Options))
		}
		if item.CorrectAnswerIndex < 0 || item.CorrectAnswerIndex > 2 {
			return nil, fmt.Errorf("%w: 正确答案下标越界: %d", util.ErrGenerationContract, item.CorrectAnswerIndex)
		}
		questions = append(questions, model.QuizQuestion{
			Question:      item.Question,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswerIndex,
			Explanation:   item.Explanation,
		})
	}

	monitoring.GenerationDuration.WithLabelValues("quiz").Observe(time.Since(start).Seconds())
	logger.Log.Info("测验题生成完成", zap.Int("count", len(questions)))
	return questions, nil
}

func (s *GeneratorService) validate(schema *gojsonschema.Schema, raw string, kind string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %s 输出不是合法 JSON: %v", util.ErrGenerationContract, kind, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return fmt.Errorf("%w: %s 输出不符合约定结构: %s", util.ErrGenerationContract, kind, strings.Join(details, "; "))
	}
	return nil
}
