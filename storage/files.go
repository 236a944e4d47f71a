package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local upload storage. UPLOAD_DIR defaults to ./uploads; files are stored
// flat with a uuid suffix so user-supplied names can never collide or
// escape the directory.

const MaxUploadBytes = 5 * 1024 * 1024 // 5MB

var ErrFileTooLarge = errors.New("file exceeds maximum size")

func UploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

func InitializeUploadDir() error {
	return os.MkdirAll(UploadDir(), 0o755)
}

// SanitizeFilename strips path separators and anything else that could
// break out of the upload dir, keeping the extension intact.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// SaveUpload writes r into the upload dir under a prefixed, uuid-tagged
// name derived from original and returns the stored filename.
func SaveUpload(r io.Reader, prefix, original string) (string, error) {
	if err := InitializeUploadDir(); err != nil {
		return "", err
	}
	name := prefix + "_" + uuid.NewString() + "_" + SanitizeFilename(original)
	path := filepath.Join(UploadDir(), name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	n, err := io.Copy(dst, io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if n > MaxUploadBytes {
		os.Remove(path)
		return "", ErrFileTooLarge
	}
	return name, nil
}

// UploadPath resolves a stored filename back to a path inside the upload
// dir. Returns an error if the name tries to point elsewhere.
func UploadPath(name string) (string, error) {
	clean := SanitizeFilename(name)
	if clean == "" || clean != filepath.Base(name) {
		return "", errors.New("invalid filename")
	}
	return filepath.Join(UploadDir(), clean), nil
}
