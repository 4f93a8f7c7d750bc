package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"study_easy_backend/internal/config"
	"study_easy_backend/internal/model"
	"study_easy_backend/internal/util"
	"study_easy_backend/pkg/logger"

	"go.uber.org/zap"
)

// AudioService 负责音频落盘：上传保存、远端下载与元数据探测
type AudioService struct {
	audioDir   string
	httpClient *http.Client
}

func NewAudioService(cfg *config.Config) *AudioService {
	return &AudioService{
		audioDir: cfg.Processing.AudioDir,
		httpClient: &http.Client{
			Timeout: cfg.AI.Timeout(),
		},
	}
}

// ResolvedAudio 音频解析结果
type ResolvedAudio struct {
	Path       string
	Downloaded bool // 本次处理中下载的临时文件，处理结束后清理
}

// Resolve 确定可用的本地音频文件。本地路径存在时优先使用，
// 否则按远端地址下载，两者都不可用时返回 ErrAudioUnavailable
func (s *AudioService) Resolve(ctx context.Context, chapter *model.Chapter) (*ResolvedAudio, error) {
	if chapter.AudioPath != "" {
		if _, err := os.Stat(chapter.AudioPath); err == nil {
			return &ResolvedAudio{Path: chapter.AudioPath}, nil
		}
	}

	if chapter.AudioRemoteURL != "" {
		path, err := s.Download(ctx, chapter.ID, chapter.AudioRemoteURL)
		if err != nil {
			return nil, err
		}
		return &ResolvedAudio{Path: path, Downloaded: true}, nil
	}

	return nil, util.ErrAudioUnavailable
}

// Download 流式下载远端音频到 audioDir/{chapterID}{ext}
func (s *AudioService) Download(ctx context.Context, chapterID, remoteURL string) (string, error) {
	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return "", fmt.Errorf("%w: 音频地址非法: %v", util.ErrDownloadFailed, err)
	}

	ext := util.AudioExtensionFromURL(parsed.Path)
	destination := filepath.Join(s.audioDir, chapterID+ext)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrDownloadFailed, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: 远端返回状态 %d", util.ErrDownloadFailed, resp.StatusCode)
	}

	out, err := os.Create(destination)
	if err != nil {
		return "", fmt.Errorf("%w: 创建本地文件失败: %v", util.ErrDownloadFailed, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		os.Remove(destination)
		return "", fmt.Errorf("%w: 写入音频数据失败: %v", util.ErrDownloadFailed, err)
	}

	logger.Log.Info("远端音频下载完成",
		zap.String("chapter_id", chapterID),
		zap.String("path", destination),
		zap.Int64("bytes", written))
	return destination, nil
}

// SaveUpload 保存上传的音频到 audioDir/{chapterID}{ext}
func (s *AudioService) SaveUpload(chapterID, filename string, reader io.Reader) (string, error) {
	ext := util.AudioExtensionFromURL(filename)
	destination := filepath.Join(s.audioDir, chapterID+ext)

	out, err := os.Create(destination)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		os.Remove(destination)
		return "", err
	}
	return destination, nil
}

// ProbeDuration 尽力而为地探测音频时长，失败只记日志不阻断流程
func (s *AudioService) ProbeDuration(audioPath string) float64 {
	info, err := util.GetAudioInfo(audioPath)
	if err != nil {
		logger.Log.Warn("音频元数据探测失败", zap.String("path", audioPath), zap.Error(err))
		return 0
	}
	return info.Duration
}

// Cleanup 删除本次处理中下载的临时音频，失败不影响处理结果
func (s *AudioService) Cleanup(resolved *ResolvedAudio) {
	if resolved == nil || !resolved.Downloaded {
		return
	}
	if err := os.Remove(resolved.Path); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn("临时音频清理失败", zap.String("path", resolved.Path), zap.Error(err))
	}
}
