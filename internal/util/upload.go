package util

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var resumeMimeTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

// ValidateResumeFile checks extension, declared MIME type and size of an
// uploaded resume. An empty or generic octet-stream MIME type is accepted
// because browsers often send one for .doc files.
func ValidateResumeFile(filename, mimeType string, size, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	allowed, ok := resumeMimeTypes[ext]
	if !ok {
		return fmt.Errorf("unsupported file type %q, upload a PDF, DOC or DOCX", ext)
	}
	if size <= 0 {
		return fmt.Errorf("file is empty")
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("file is %d bytes, the limit is %d", size, maxBytes)
	}

	mediaType := ""
	if mimeType != "" {
		parsed, _, err := mime.ParseMediaType(mimeType)
		if err != nil {
			return fmt.Errorf("invalid content type %q", mimeType)
		}
		mediaType = parsed
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		return nil
	}
	for _, m := range allowed {
		if mediaType == m {
			return nil
		}
	}
	return fmt.Errorf("content type %q does not match %s", mediaType, ext)
}

// StoreUpload copies r into dir under a random name that keeps the original
// extension, and returns the stored path.
func StoreUpload(r io.Reader, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}
