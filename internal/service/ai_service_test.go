package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"study_easy_backend/internal/config"
	"study_easy_backend/internal/util"
)

func newAIServiceForTest(baseURL string) *AIService {
	cfg := &config.Config{}
	cfg.AI.BaseURL = baseURL
	cfg.AI.APIKey = "test-key"
	cfg.AI.Model = "test-model"
	cfg.AI.TranscribeModel = "test-transcribe"
	return NewAIService(cfg)
}

func completionResponse(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func TestCompleteSendsAuthAndModel(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(completionResponse("réponse")))
	}))
	defer server.Close()

	svc := newAIServiceForTest(server.URL)
	out, err := svc.Complete(context.Background(), "système", "utilisateur")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "réponse" {
		t.Errorf("out = %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotReq.ResponseFormat != nil {
		t.Errorf("response_format should be omitted for plain completion")
	}
}

func TestCompleteJSONRequestsJSONMode(t *testing.T) {
	var gotReq chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(completionResponse(`{"ok": true}`)))
	}))
	defer server.Close()

	svc := newAIServiceForTest(server.URL)
	if _, err := svc.CompleteJSON(context.Background(), "s", "u"); err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", gotReq.ResponseFormat)
	}
}

func TestCompleteNon2xxIsCapabilityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	svc := newAIServiceForTest(server.URL)
	_, err := svc.Complete(context.Background(), "s", "u")
	if !errors.Is(err, util.ErrCapabilityFailure) {
		t.Fatalf("err = %v, want ErrCapabilityFailure", err)
	}
}

func TestCompleteEmptyChoicesIsCapabilityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	svc := newAIServiceForTest(server.URL)
	_, err := svc.Complete(context.Background(), "s", "u")
	if !errors.Is(err, util.ErrCapabilityFailure) {
		t.Fatalf("err = %v, want ErrCapabilityFailure", err)
	}
}

func TestTranscribeMultipart(t *testing.T) {
	var gotModel, gotFilename, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		w.Write([]byte("le texte transcrit\n"))
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "cours.mp3")
	if err := os.WriteFile(audioPath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := newAIServiceForTest(server.URL)
	text, err := svc.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "le texte transcrit" {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/audio/transcriptions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotModel != "test-transcribe" {
		t.Errorf("model = %q", gotModel)
	}
	if gotFilename != "cours.mp3" {
		t.Errorf("filename = %q", gotFilename)
	}
}

func TestTranscribeJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "transcription json"}`))
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "cours.wav")
	if err := os.WriteFile(audioPath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := newAIServiceForTest(server.URL)
	text, err := svc.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "transcription json" {
		t.Errorf("text = %q", text)
	}
}

func TestTranscribeNon2xxIsCapabilityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "cours.mp3")
	if err := os.WriteFile(audioPath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := newAIServiceForTest(server.URL)
	_, err := svc.Transcribe(context.Background(), audioPath)
	if !errors.Is(err, util.ErrCapabilityFailure) {
		t.Fatalf("err = %v, want ErrCapabilityFailure", err)
	}
}
