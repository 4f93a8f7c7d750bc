package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"study_easy_backend/internal/model"
	"study_easy_backend/internal/util"
)

func TestDownloadUsesChapterIDAndExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	cfg := newTestConfig(t)
	svc := NewAudioService(cfg)

	path, err := svc.Download(context.Background(), "chap-1", server.URL+"/files/lecture.wav")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if path != filepath.Join(cfg.Processing.AudioDir, "chap-1.wav") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("content = %q", string(data))
	}
}

func TestDownloadDefaultsToMP3(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	cfg := newTestConfig(t)
	svc := NewAudioService(cfg)

	path, err := svc.Download(context.Background(), "chap-2", server.URL+"/stream")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !strings.HasSuffix(path, "chap-2.mp3") {
		t.Errorf("path = %q, want .mp3 fallback", path)
	}
}

func TestDownloadNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	svc := NewAudioService(newTestConfig(t))

	_, err := svc.Download(context.Background(), "chap-3", server.URL+"/x.mp3")
	if !errors.Is(err, util.ErrDownloadFailed) {
		t.Fatalf("err = %v, want ErrDownloadFailed", err)
	}
}

func TestResolvePrefersLocalFile(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewAudioService(cfg)

	local := filepath.Join(cfg.Processing.AudioDir, "present.mp3")
	if err := os.WriteFile(local, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	resolved, err := svc.Resolve(context.Background(), &model.Chapter{
		AudioPath:      local,
		AudioRemoteURL: "http://127.0.0.1:1/never.mp3",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Path != local || resolved.Downloaded {
		t.Errorf("resolved = %+v", resolved)
	}
}

func TestResolveFallsBackToRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	cfg := newTestConfig(t)
	svc := NewAudioService(cfg)

	chapter := &model.Chapter{
		AudioPath:      filepath.Join(cfg.Processing.AudioDir, "gone.mp3"),
		AudioRemoteURL: server.URL + "/remote.mp3",
	}
	chapter.ID = "chap-4"

	resolved, err := svc.Resolve(context.Background(), chapter)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.Downloaded {
		t.Error("resolved should be marked as downloaded")
	}
}

func TestResolveUnavailable(t *testing.T) {
	svc := NewAudioService(newTestConfig(t))

	_, err := svc.Resolve(context.Background(), &model.Chapter{})
	if !errors.Is(err, util.ErrAudioUnavailable) {
		t.Fatalf("err = %v, want ErrAudioUnavailable", err)
	}
}

func TestCleanupRemovesOnlyDownloaded(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewAudioService(cfg)

	path := filepath.Join(cfg.Processing.AudioDir, "tmp.mp3")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	svc.Cleanup(&ResolvedAudio{Path: path, Downloaded: false})
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("non-downloaded file should remain: %v", err)
	}

	svc.Cleanup(&ResolvedAudio{Path: path, Downloaded: true})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("downloaded file should be removed")
	}
}
