package util

import "errors"

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrChapterNotFound = errors.New("chapter not found")

	// 流水线错误分类：任一错误都终止本次处理尝试
	ErrAudioUnavailable   = errors.New("audio unavailable: no local file and no remote url")
	ErrDownloadFailed     = errors.New("audio download failed")
	ErrEmptyContent       = errors.New("no text content available for processing")
	ErrGenerationContract = errors.New("generation output violates contract")
	ErrCapabilityFailure  = errors.New("ai capability call failed")
	ErrUnsupportedAudio   = errors.New("unsupported audio format")
	ErrUploadTooLarge     = errors.New("uploaded file exceeds size limit")
)
