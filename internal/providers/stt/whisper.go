package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Whisper transcribes audio through an Azure OpenAI Whisper deployment.
// The transcription endpoint has no client in the langchaingo surface, so the
// call is a plain multipart POST.
type Whisper struct {
	httpClient *http.Client

	endpoint   string
	apiKey     string
	apiVersion string
	deployment string

	formats  map[string]bool
	maxBytes int64
}

type WhisperConfig struct {
	Endpoint         string
	APIKey           string
	APIVersion       string
	Deployment       string
	SupportedFormats []string
	MaxFileSizeMB    int
}

func NewWhisper(cfg WhisperConfig) (*Whisper, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("stt: whisper endpoint and api key are required")
	}
	if cfg.Deployment == "" {
		cfg.Deployment = "whisper-1"
	}
	if len(cfg.SupportedFormats) == 0 {
		cfg.SupportedFormats = []string{"mp3", "wav", "m4a", "ogg"}
	}
	if cfg.MaxFileSizeMB <= 0 {
		cfg.MaxFileSizeMB = 25
	}

	formats := make(map[string]bool, len(cfg.SupportedFormats))
	for _, f := range cfg.SupportedFormats {
		formats[strings.ToLower(f)] = true
	}

	return &Whisper{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		deployment: cfg.Deployment,
		formats:    formats,
		maxBytes:   int64(cfg.MaxFileSizeMB) << 20,
	}, nil
}

func (w *Whisper) Close() error { return nil }

func (w *Whisper) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !w.formats[ext] {
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
	if int64(len(audio)) > w.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(audio), w.maxBytes)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/audio/transcriptions?api-version=%s",
		w.endpoint, w.deployment, w.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("api-key", w.apiKey)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stt: transcription request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("stt: decode transcription response: %w", err)
	}
	return out.Text, nil
}
