package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"study_easy_backend/internal/config"
	"study_easy_backend/internal/util"
	"study_easy_backend/pkg/logger"

	"go.uber.org/zap"
)

// TextGenerator 文本生成能力抽象，便于测试时替换真实模型
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Chat(ctx context.Context, messages []ChatTurn) (string, error)
}

// Transcriber 语音转写能力抽象
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// ChatTurn 一轮对话消息
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIService 对接 OpenAI 兼容接口的模型客户端
type AIService struct {
	baseURL         string
	apiKey          string
	model           string
	transcribeModel string
	httpClient      *http.Client
}

func NewAIService(cfg *config.Config) *AIService {
	return &AIService{
		baseURL:         strings.TrimRight(cfg.AI.BaseURL, "/"),
		apiKey:          cfg.AI.APIKey,
		model:           cfg.AI.Model,
		transcribeModel: cfg.AI.TranscribeModel,
		httpClient: &http.Client{
			Timeout: cfg.AI.Timeout(),
		},
	}
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatTurn      `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete 普通文本补全
func (s *AIService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []ChatTurn{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	return s.chatCompletion(ctx, messages, nil)
}

// CompleteJSON 以 JSON 模式请求补全，要求模型只输出 JSON 对象
func (s *AIService) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []ChatTurn{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	return s.chatCompletion(ctx, messages, &responseFormat{Type: "json_object"})
}

// Chat 多轮对话补全
func (s *AIService) Chat(ctx context.Context, messages []ChatTurn) (string, error) {
	return s.chatCompletion(ctx, messages, nil)
}

func (s *AIService) chatCompletion(ctx context.Context, messages []ChatTurn, format *responseFormat) (string, error) {
	payload := chatCompletionRequest{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: format,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: 序列化请求失败: %v", util.ErrCapabilityFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCapabilityFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: 模型请求失败: %v", util.ErrCapabilityFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: 读取模型响应失败: %v", util.ErrCapabilityFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Log.Warn("模型接口返回非 2xx 状态",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncateForLog(string(respBody), 512)))
		return "", fmt.Errorf("%w: 模型接口状态 %d", util.ErrCapabilityFailure, resp.StatusCode)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: 解析模型响应失败: %v", util.ErrCapabilityFailure, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrCapabilityFailure, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: 模型未返回任何候选", util.ErrCapabilityFailure)
	}

	logger.Log.Debug("模型补全完成",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("messages", len(messages)))

	return parsed.Choices[0].Message.Content, nil
}

// Transcribe 通过 /audio/transcriptions 接口转写音频文件
func (s *AIService) Transcribe(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: 打开音频文件失败: %v", util.ErrCapabilityFailure, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCapabilityFailure, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCapabilityFailure, err)
	}
	if err := writer.WriteField("model", s.transcribeModel); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCapabilityFailure, err)
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCapabilityFailure, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCapabilityFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCapabilityFailure, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: 转写请求失败: %v", util.ErrCapabilityFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCapabilityFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Log.Warn("转写接口返回非 2xx 状态",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncateForLog(string(respBody), 512)))
		return "", fmt.Errorf("%w: 转写接口状态 %d", util.ErrCapabilityFailure, resp.StatusCode)
	}

	// response_format=text 时返回纯文本，部分实现仍会返回 {"text": "..."}
	text := strings.TrimSpace(string(respBody))
	if strings.HasPrefix(text, "{") {
		var parsed struct {
			Text string `json:"text"`
		}
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Text != "" {
			text = strings.TrimSpace(parsed.Text)
		}
	}
	return text, nil
}

func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
