package utils

import (
	"crypto/rand"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNoFile        = errors.New("no file uploaded")
	ErrFileTooLarge  = errors.New("file size exceeds limit")
	ErrNotAudioFile  = errors.New("uploaded file is not audio")
	audioExtensions  = map[string]bool{".wav": true, ".webm": true, ".mp3": true, ".m4a": true, ".ogg": true, ".mp4": true, ".mpeg": true, ".mpga": true}
	defaultMaxUpload = int64(10 * 1024 * 1024)
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateAudioFile(file *multipart.FileHeader) error
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return &utils{
		maxFileSize: defaultMaxUpload,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// ValidateAudioFile accepts recordings the browser or a handheld sends:
// an audio/* (or video/webm) content type, or a known audio extension.
func (u *utils) ValidateAudioFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "audio/") || contentType == "video/webm" {
		return nil
	}
	if audioExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		return nil
	}

	return ErrNotAudioFile
}
