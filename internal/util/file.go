package util

import (
	"io"
	"net/http"
	"path"
	"strings"
)

// AllowedAudioExtensions 转写服务支持的音频格式
var AllowedAudioExtensions = []string{".mp3", ".m4a", ".wav", ".flac", ".ogg", ".webm"}

// IsAllowedAudioExtension 校验文件扩展名是否在支持列表内
func IsAllowedAudioExtension(filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	for _, allowed := range AllowedAudioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// AudioExtensionFromURL 从 URL 路径推断音频扩展名，推断不出时回落到 .mp3
func AudioExtensionFromURL(urlPath string) string {
	ext := strings.ToLower(path.Ext(urlPath))
	for _, allowed := range AllowedAudioExtensions {
		if ext == allowed {
			return ext
		}
	}
	if ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".mp3"
}

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "audio/", "video/webm"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, ErrUnsupportedAudio
}
