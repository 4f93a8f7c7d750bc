package util

import (
	"bytes"
	"errors"
	"testing"
)

func TestIsAllowedAudioExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"cours.mp3", true},
		{"cours.M4A", true},
		{"cours.wav", true},
		{"cours.flac", true},
		{"cours.ogg", true},
		{"cours.webm", true},
		{"cours.txt", false},
		{"cours.exe", false},
		{"cours", false},
	}
	for _, tt := range tests {
		if got := IsAllowedAudioExtension(tt.filename); got != tt.want {
			t.Errorf("IsAllowedAudioExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestAudioExtensionFromURL(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/files/lecture.mp3", ".mp3"},
		{"/files/lecture.WAV", ".wav"},
		{"/files/lecture.ogg", ".ogg"},
		{"/stream", ".mp3"},
		{"/files/archive.thisisnotanext", ".mp3"},
	}
	for _, tt := range tests {
		if got := AudioExtensionFromURL(tt.path); got != tt.want {
			t.Errorf("AudioExtensionFromURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidateMimeType(t *testing.T) {
	// ID3 头会被识别为 audio/mpeg
	mp3Header := append([]byte("ID3\x03\x00\x00\x00"), make([]byte, 64)...)
	mime, err := ValidateMimeType(bytes.NewReader(mp3Header), []string{"audio/"})
	if err != nil {
		t.Fatalf("ValidateMimeType: %v", err)
	}
	if mime != "audio/mpeg" {
		t.Errorf("mime = %q", mime)
	}

	_, err = ValidateMimeType(bytes.NewReader([]byte("just some plain text")), []string{"audio/"})
	if !errors.Is(err, ErrUnsupportedAudio) {
		t.Fatalf("err = %v, want ErrUnsupportedAudio", err)
	}
}
