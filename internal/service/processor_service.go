package service

import (
	"context"
	"strings"
	"time"

	"study_easy_backend/internal/model"
	"study_easy_backend/internal/repository"
	"study_easy_backend/internal/util"
	"study_easy_backend/pkg/logger"
	"study_easy_backend/pkg/monitoring"
	"study_easy_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProcessorService 章节处理流水线：
// 音频解析与转写、三路内容生成、单事务全量替换落盘。
// 任何一步失败都会把章节标记为 failed 并记录原因后再向上返回。
type ProcessorService struct {
	chapterRepo *repository.ChapterRepository
	audio       *AudioService
	storage     *StorageService
	generator   *GeneratorService
	transcriber Transcriber
}

func NewProcessorService(
	chapterRepo *repository.ChapterRepository,
	audio *AudioService,
	storage *StorageService,
	generator *GeneratorService,
	transcriber Transcriber,
) *ProcessorService {
	return &ProcessorService{
		chapterRepo: chapterRepo,
		audio:       audio,
		storage:     storage,
		generator:   generator,
		transcriber: transcriber,
	}
}

// ProcessChapter 执行完整的章节处理。processing 状态独立提交，
// 生成内容与 completed 状态在同一个事务内落盘
func (s *ProcessorService) ProcessChapter(ctx context.Context, chapterID string) error {
	ctx, span := tracing.Tracer.Start(ctx, "ProcessChapter")
	span.SetAttributes(attribute.String("chapter.id", chapterID))
	defer span.End()

	chapter, err := s.chapterRepo.MarkProcessing(chapterID)
	if err != nil {
		return err
	}

	start := time.Now()
	source := string(chapter.SourceType)

	var resolved *ResolvedAudio
	defer func() {
		s.audio.Cleanup(resolved)
	}()

	err = s.run(ctx, chapter, &resolved)
	if err != nil {
		span.RecordError(err)
		monitoring.ChapterProcessedCounter.WithLabelValues("failed").Inc()
		monitoring.ChapterProcessingDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

		if markErr := s.chapterRepo.MarkFailed(chapterID, err.Error()); markErr != nil {
			logger.Log.Error("记录章节失败状态时出错",
				zap.String("chapter_id", chapterID),
				zap.Error(markErr))
		}
		logger.Log.Error("章节处理失败",
			zap.String("chapter_id", chapterID),
			zap.String("source", source),
			zap.Error(err))
		return err
	}

	monitoring.ChapterProcessedCounter.WithLabelValues("completed").Inc()
	monitoring.ChapterProcessingDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	logger.Log.Info("章节处理完成",
		zap.String("chapter_id", chapterID),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *ProcessorService) run(ctx context.Context, chapter *model.Chapter, resolvedOut **ResolvedAudio) error {
	textSource := chapter.InputText

	if chapter.SourceType == model.SourceAudio {
		resolved, err := s.audio.Resolve(ctx, chapter)
		if err != nil {
			return err
		}
		*resolvedOut = resolved

		if resolved.Downloaded {
			chapter.AudioPath = resolved.Path
			if err := s.chapterRepo.Save(chapter); err != nil {
				return err
			}
		}

		if duration := s.audio.ProbeDuration(resolved.Path); duration > 0 {
			chapter.AudioDurationSeconds = duration
		}

		transcript, err := s.transcriber.Transcribe(ctx, resolved.Path)
		if err != nil {
			return err
		}

		transcriptPath, err := s.storage.SaveTranscript(ctx, chapter.ID, transcript)
		if err != nil {
			return err
		}

		textSource = transcript
		chapter.InputText = transcript
		chapter.TranscriptPath = transcriptPath

		// 下载的音频处理后会被清理，先归档一份到存储后端
		if resolved.Downloaded {
			s.storage.ArchiveAudio(ctx, chapter.ID, resolved.Path)
		}
	}

	if strings.TrimSpace(textSource) == "" {
		return util.ErrEmptyContent
	}

	pctx := CoursePromptContext{ChapterName: chapter.Name}
	if subjectName, lessonName, err := s.chapterRepo.ContextNames(chapter.LessonID); err == nil {
		pctx.SubjectName = subjectName
		pctx.LessonName = lessonName
	} else {
		logger.Log.Warn("读取章节上下文名称失败",
			zap.String("chapter_id", chapter.ID),
			zap.Error(err))
	}

	course, flashcards, questions, err := s.generateAll(ctx, pctx, textSource)
	if err != nil {
		return err
	}

	chapter.Summary = course.Summary
	chapter.BulletPoints = course.BulletPoints
	chapter.CourseSections = course.Sections
	chapter.DurationMinutes = course.EstimatedDurationMinutes

	for i := range flashcards {
		flashcards[i].ChapterID = chapter.ID
	}
	for i := range questions {
		questions[i].ChapterID = chapter.ID
	}

	return s.chapterRepo.ReplaceGeneratedContent(chapter, flashcards, questions)
}

// generateAll 三路内容生成并发执行，任一失败即整体失败
func (s *ProcessorService) generateAll(ctx context.Context, pctx CoursePromptContext, text string) (*CourseContent, []model.Flashcard, []model.QuizQuestion, error) {
	var (
		course     *CourseContent
		flashcards []model.Flashcard
		questions  []model.QuizQuestion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		course, err = s.generator.GenerateCourse(gctx, pctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		flashcards, err = s.generator.GenerateFlashcards(gctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.generator.GenerateQuiz(gctx, text)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return course, flashcards, questions, nil
}
