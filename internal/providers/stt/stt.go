package stt

import (
	"context"
	"errors"
)

// Validation errors surfaced to callers before any network call is made.
var (
	ErrUnsupportedFormat = errors.New("stt: unsupported audio format")
	ErrFileTooLarge      = errors.New("stt: audio file exceeds size limit")
)

// Provider transcribes an uploaded audio file to plain text.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	Close() error
}
